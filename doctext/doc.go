package doctext

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Converter turns a legacy .doc file on disk into raw text. Converters
// operate on file paths because the underlying tools cannot read from
// in-memory buffers.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// ExecConverter shells out to the first available command in Commands,
// passing the file path as the sole argument and reading text from stdout.
type ExecConverter struct {
	// Commands to probe on PATH, in order. Defaults to antiword, catdoc.
	Commands []string
}

func (c *ExecConverter) Convert(ctx context.Context, path string) (string, error) {
	commands := c.Commands
	if len(commands) == 0 {
		commands = []string{"antiword", "catdoc"}
	}

	var lastErr error
	for _, name := range commands {
		bin, err := exec.LookPath(name)
		if err != nil {
			lastErr = err
			continue
		}
		out, err := exec.CommandContext(ctx, bin, path).Output()
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", name, err)
			continue
		}
		if text := string(out); strings.TrimSpace(text) != "" {
			return text, nil
		}
		lastErr = fmt.Errorf("%s: empty output", name)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no converter configured")
	}
	return "", fmt.Errorf("doc convert: %w", lastErr)
}

// extractDoc writes the buffer to a scoped temporary file and hands it to
// the configured converter. The file is removed on every exit path before
// control returns to the caller.
func (p *Pipeline) extractDoc(ctx context.Context, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "doctext-*.doc")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return p.cfg.Converter.Convert(ctx, tmp.Name())
}
