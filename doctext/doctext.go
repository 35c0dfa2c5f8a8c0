// Package doctext extracts normalized plain text from office document buffers.
//
// Supported formats:
//   - .docx — Microsoft Word (archive/zip → word/document.xml)
//   - .doc  — legacy Word binary, via an external raw-text converter
//   - .pdf  — PDF content stream extraction (pdfcpu)
//   - .html — HTML converted to markdown-ish text
//   - .txt  — best-effort plain decode
//
// Extraction never receives a file path: callers hand over the raw byte
// buffer plus a filename hint, and the pipeline works entirely in memory
// (the legacy .doc converter is the one exception and uses a scoped
// temporary file).
//
// Every format resolves to an ordered chain of strategies. A strategy that
// fails hands over to the next one; only when the whole chain produces no
// usable text does Extract return ErrNoText.
//
// Usage:
//
//	pipe := doctext.New(doctext.Config{})
//	text, err := pipe.Extract(ctx, data, "dogovor.docx")
package doctext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// ErrNoText is returned when every extraction strategy has been exhausted
// without producing usable text.
var ErrNoText = errors.New("no extractable text")

// Pipeline is the document text extraction engine. It holds no per-call
// state; a single Pipeline is safe for concurrent use.
type Pipeline struct {
	cfg         Config
	logger      *slog.Logger
	mdConverter *converter.Converter
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
		mdConverter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Detect returns the document format based on the filename suffix.
// An unrecognized suffix maps to FormatUnknown, never an error.
func (p *Pipeline) Detect(filename string) Format {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".docx"):
		return FormatDocx
	case strings.HasSuffix(lower, ".doc"):
		return FormatDoc
	case strings.HasSuffix(lower, ".pdf"):
		return FormatPDF
	case strings.HasSuffix(lower, ".html"), strings.HasSuffix(lower, ".htm"):
		return FormatHTML
	case strings.HasSuffix(lower, ".txt"), strings.HasSuffix(lower, ".text"):
		return FormatTXT
	default:
		return FormatUnknown
	}
}

// strategy is one extraction attempt in an ordered fallback chain.
type strategy struct {
	name string
	run  func(ctx context.Context, data []byte) (string, error)
}

// chain returns the ordered extraction strategies for a format.
// The first strategy to yield non-blank text wins.
func (p *Pipeline) chain(format Format) []strategy {
	docx := strategy{"docx", func(_ context.Context, data []byte) (string, error) {
		return extractDocx(data)
	}}
	doc := strategy{"doc", p.extractDoc}
	pdf := strategy{"pdf", func(_ context.Context, data []byte) (string, error) {
		return extractPDF(data)
	}}
	html := strategy{"html", func(_ context.Context, data []byte) (string, error) {
		return p.extractHTML(data)
	}}
	plain := strategy{"plain", func(_ context.Context, data []byte) (string, error) {
		return decodePlain(data), nil
	}}

	switch format {
	case FormatDocx:
		return []strategy{docx}
	case FormatDoc:
		return []strategy{doc, plain}
	case FormatPDF:
		return []strategy{pdf, plain}
	case FormatHTML:
		return []strategy{html, plain}
	case FormatTXT:
		return []strategy{plain}
	default:
		// Wrong extensions and mislabeled files are common in the wild:
		// try the structured reader, then the legacy converter, then the
		// best-effort decoder.
		return []strategy{docx, doc, plain}
	}
}

// Extract converts a document byte buffer into a single normalized text
// string. Paragraphs are separated by blank lines and table content is
// wrapped between [ТАБЛИЦА] and [/ТАБЛИЦА] marker lines.
func (p *Pipeline) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	if int64(len(data)) > p.cfg.MaxFileSize {
		return "", fmt.Errorf("document too large: %d bytes (max %d)", len(data), p.cfg.MaxFileSize)
	}

	format := p.Detect(filename)
	p.logger.Debug("extracting document", "filename", filename, "format", format, "bytes", len(data))

	var lastErr error
	for _, s := range p.chain(format) {
		text, err := s.run(ctx, data)
		if err != nil {
			p.logger.Debug("extraction strategy failed", "strategy", s.name, "error", err)
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) == "" {
			p.logger.Debug("extraction strategy yielded no text", "strategy", s.name)
			continue
		}
		return text, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("extract %s: %w: %v", filename, ErrNoText, lastErr)
	}
	return "", fmt.Errorf("extract %s: %w", filename, ErrNoText)
}

// SupportedFormats returns all recognized filename suffixes.
func SupportedFormats() []string {
	return []string{"docx", "doc", "pdf", "html", "txt"}
}
