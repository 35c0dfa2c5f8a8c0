package doctext

import "log/slog"

// Config configures the extraction pipeline.
type Config struct {
	// MaxFileSize is the maximum buffer size to process (default: 100 MB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// Converter handles legacy .doc buffers. Defaults to an ExecConverter
	// probing antiword then catdoc on PATH.
	Converter Converter `json:"-" yaml:"-"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 100 * 1024 * 1024
	}
	if c.Converter == nil {
		c.Converter = &ExecConverter{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
