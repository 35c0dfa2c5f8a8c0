package service

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/yurkit/docproc/doctext"
	"github.com/yurkit/docproc/journal"
)

func newTestServer(t *testing.T) (*Service, *httptest.Server) {
	t.Helper()
	db := journal.OpenMemory(t)
	store := journal.NewStore(db)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	svc := New(doctext.New(doctext.Config{}), store, slog.Default())
	r := chi.NewRouter()
	svc.RegisterHTTP(r)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return svc, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatal(err)
	}
	return m
}

// minimalDocx builds a one-paragraph .docx buffer.
func minimalDocx(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	f.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body>
</w:document>`))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	m := decodeBody(t, resp)
	if m["status"] != "healthy" {
		t.Fatalf("got %v", m)
	}
}

func TestProcessTextContent(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/process", map[string]string{
		"filename":     "dogovor.txt",
		"file_content": "Стороны договора: Заказчик и Исполнитель.\n\nПРЕДМЕТ ДОГОВОРА\nОплата в течение месяца.",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	m := decodeBody(t, resp)
	if m["success"] != true {
		t.Fatalf("got %v", m)
	}
	if m["word_count"].(float64) != 11 {
		t.Fatalf("word_count = %v", m["word_count"])
	}

	analysis := m["contract_analysis"].(map[string]any)
	if analysis["has_parties"] != true {
		t.Fatalf("has_parties missing: %v", analysis)
	}
	if analysis["has_subject"] != true {
		t.Fatalf("has_subject should match upper-case line: %v", analysis)
	}
	sections := analysis["sections"].([]any)
	if len(sections) == 0 || sections[0] != "ПРЕДМЕТ ДОГОВОРА" {
		t.Fatalf("sections = %v", sections)
	}

	ai := m["ai_instructions"].(map[string]any)
	if ai["has_content"] != true {
		t.Fatalf("ai_instructions = %v", ai)
	}
	prompt := ai["prompt_suggestion"].(string)
	if !strings.Contains(prompt, "Стороны договора") || !strings.HasSuffix(prompt, "...") {
		t.Fatalf("prompt = %q", prompt)
	}

	meta := m["metadata"].(map[string]any)
	if meta["file_size_bytes"].(float64) == 0 {
		t.Fatalf("metadata = %v", meta)
	}
}

func TestProcessDocxBase64(t *testing.T) {
	_, ts := newTestServer(t)
	docx := minimalDocx(t, "Предмет договора и реквизиты сторон.")

	resp := postJSON(t, ts.URL+"/process", map[string]string{
		"filename":    "contract.docx",
		"file_base64": base64.StdEncoding.EncodeToString(docx),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	m := decodeBody(t, resp)
	if m["text"] != "Предмет договора и реквизиты сторон." {
		t.Fatalf("text = %v", m["text"])
	}
	analysis := m["contract_analysis"].(map[string]any)
	if analysis["has_subject"] != true || analysis["has_signatures"] != true {
		t.Fatalf("analysis = %v", analysis)
	}
}

func TestProcessMissingPayload(t *testing.T) {
	_, ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/process", map[string]string{"filename": "x.docx"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestProcessUnparseableDocx(t *testing.T) {
	_, ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/process", map[string]string{
		"filename":    "broken.docx",
		"file_base64": base64.StdEncoding.EncodeToString([]byte("not a zip at all")),
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", resp.StatusCode)
	}
	m := decodeBody(t, resp)
	if m["success"] != false {
		t.Fatalf("got %v", m)
	}
}

func TestProcessN8N(t *testing.T) {
	_, ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/process-n8n", map[string]string{
		"filename":     "note.txt",
		"file_content": "короткий текст",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	m := decodeBody(t, resp)
	if m["ready_for_ai"] != true || m["word_count"].(float64) != 2 {
		t.Fatalf("got %v", m)
	}
}

func TestJournalRecordsProcessing(t *testing.T) {
	_, ts := newTestServer(t)
	postJSON(t, ts.URL+"/process", map[string]string{
		"filename":     "a.txt",
		"file_content": "Стороны и сроки.",
	})

	resp, err := http.Get(ts.URL + "/journal/recent?limit=5")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	m := decodeBody(t, resp)
	entries := m["entries"].([]any)
	if len(entries) != 1 {
		t.Fatalf("entries = %v", entries)
	}
	e := entries[0].(map[string]any)
	if e["filename"] != "a.txt" || e["has_parties"] != true || e["has_terms"] != true {
		t.Fatalf("entry = %v", e)
	}
}

func TestAuthGate(t *testing.T) {
	svc, ts := newTestServer(t)
	if err := svc.SetPassword("sekret"); err != nil {
		t.Fatal(err)
	}

	// No credentials.
	resp := postJSON(t, ts.URL+"/process", map[string]string{
		"filename": "a.txt", "file_content": "текст",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", resp.StatusCode)
	}

	// Health stays open.
	hr, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	hr.Body.Close()
	if hr.StatusCode != http.StatusOK {
		t.Fatalf("health status %d", hr.StatusCode)
	}

	// Correct password.
	body, _ := json.Marshal(map[string]string{"filename": "a.txt", "file_content": "текст"})
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/process", bytes.NewReader(body))
	req.SetBasicAuth("n8n", "sekret")
	req.Header.Set("Content-Type", "application/json")
	ar, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer ar.Body.Close()
	if ar.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", ar.StatusCode)
	}
}
