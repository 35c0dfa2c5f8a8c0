package doctext

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

// buildDocx assembles a minimal .docx buffer around the given document.xml body.
func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>` + body + `</w:body>
</w:document>`
	if _, err := f.Write([]byte(docXML)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func cellOf(text string) string {
	return `<w:tc>` + para(text) + `</w:tc>`
}

func TestExtractDocxParagraphOrder(t *testing.T) {
	data := buildDocx(t, para("Первый абзац")+para("   ")+para("Второй абзац"))

	text, err := extractDocx(data)
	if err != nil {
		t.Fatal(err)
	}
	want := "Первый абзац\n\nВторой абзац"
	if text != want {
		t.Fatalf("got %q, want %q", text, want)
	}
}

func TestExtractDocxTable(t *testing.T) {
	body := para("Шапка") +
		`<w:tbl>` +
		`<w:tr>` + cellOf("Ячейка 1") + cellOf("  Ячейка 2  ") + cellOf("   ") + `</w:tr>` +
		`<w:tr>` + cellOf("  ") + cellOf("") + `</w:tr>` +
		`<w:tr>` + cellOf("Итого") + `</w:tr>` +
		`</w:tbl>` +
		para("Подвал")
	data := buildDocx(t, body)

	text, err := extractDocx(data)
	if err != nil {
		t.Fatal(err)
	}

	want := "Шапка\n\n" +
		TableStart + "\nЯчейка 1 | Ячейка 2\nИтого\n" + TableEnd +
		"\n\nПодвал"
	if text != want {
		t.Fatalf("got %q, want %q", text, want)
	}
}

func TestExtractDocxAllEmptyTable(t *testing.T) {
	// A table whose every cell is whitespace contributes nothing, not
	// even the markers.
	body := para("Текст") +
		`<w:tbl>` +
		`<w:tr>` + cellOf("  ") + cellOf("   ") + `</w:tr>` +
		`<w:tr>` + cellOf("") + `</w:tr>` +
		`<w:tr>` + cellOf("	") + `</w:tr>` +
		`</w:tbl>`
	data := buildDocx(t, body)

	text, err := extractDocx(data)
	if err != nil {
		t.Fatal(err)
	}
	if text != "Текст" {
		t.Fatalf("got %q, want %q", text, "Текст")
	}
	if strings.Contains(text, TableStart) || strings.Contains(text, TableEnd) {
		t.Fatalf("empty table must not emit markers, got %q", text)
	}
}

func TestExtractDocxCellWithMultipleParagraphs(t *testing.T) {
	body := `<w:tbl><w:tr><w:tc>` + para("Строка 1") + para("Строка 2") + `</w:tc></w:tr></w:tbl>`
	data := buildDocx(t, body)

	text, err := extractDocx(data)
	if err != nil {
		t.Fatal(err)
	}
	want := TableStart + "\nСтрока 1\nСтрока 2\n" + TableEnd
	if text != want {
		t.Fatalf("got %q, want %q", text, want)
	}
}

func TestExtractDocxNotAZip(t *testing.T) {
	if _, err := extractDocx([]byte("definitely not a zip archive")); err == nil {
		t.Fatal("expected error for non-zip input")
	}
}

func TestExtractDocxMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, _ := w.Create("other.txt")
	f.Write([]byte("nope"))
	w.Close()

	if _, err := extractDocx(buf.Bytes()); err == nil {
		t.Fatal("expected error when word/document.xml is absent")
	}
}

func TestExtractDocxHintHasNoFallback(t *testing.T) {
	// With an explicit .docx hint a broken archive is an extraction
	// failure, not a silent downgrade to the plain decoder.
	pipe := New(Config{})
	if _, err := pipe.Extract(context.Background(), []byte("garbage bytes"), "contract.docx"); err == nil {
		t.Fatal("expected error for unparseable .docx buffer")
	}
}
