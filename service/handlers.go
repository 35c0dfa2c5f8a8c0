package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/yurkit/docproc/contract"
	"github.com/yurkit/docproc/doctext"
	"github.com/yurkit/docproc/journal"
)

// reviewPromptTemplate is the fixed downstream-review prompt. The embedded
// text is capped at promptTextLimit runes.
const reviewPromptTemplate = `Проанализируй следующий договор и предоставь юридическую оценку:

1. Проверь полноту договора (наличие всех обязательных разделов)
2. Выяви потенциальные риски для клиента
3. Укажи на неоднозначные формулировки
4. Предложи улучшения
5. Оцени соответствие законодательству РФ

Текст договора:
%s...`

const promptTextLimit = 2000

const noContentPrompt = "Документ не содержит текста для анализа"

// processRequest accepts the document in any of three fields: base64,
// raw string content, or n8n-style binary (also base64).
type processRequest struct {
	Filename    string `json:"filename"`
	FileBase64  string `json:"file_base64"`
	FileContent string `json:"file_content"`
	Binary      string `json:"binary"`
}

// payload decodes the document bytes and resolves the filename hint.
func (req *processRequest) payload() ([]byte, string, error) {
	filename := req.Filename
	if filename == "" {
		filename = "document.docx"
	}
	switch {
	case req.FileBase64 != "":
		data, err := base64.StdEncoding.DecodeString(req.FileBase64)
		if err != nil {
			return nil, "", fmt.Errorf("decode file_base64: %w", err)
		}
		return data, filename, nil
	case req.FileContent != "":
		return []byte(req.FileContent), filename, nil
	case req.Binary != "":
		data, err := base64.StdEncoding.DecodeString(req.Binary)
		if err != nil {
			return nil, "", fmt.Errorf("decode binary: %w", err)
		}
		return data, filename, nil
	default:
		return nil, "", errors.New("файл не найден в запросе: используйте поля file_base64, file_content или binary")
	}
}

type aiInstructions struct {
	PromptSuggestion string `json:"prompt_suggestion"`
	HasContent       bool   `json:"has_content"`
}

type processResponse struct {
	Success          bool             `json:"success"`
	Filename         string           `json:"filename"`
	Text             string           `json:"text"`
	TextLength       int              `json:"text_length"`
	WordCount        int              `json:"word_count"`
	ContractAnalysis *contract.Report `json:"contract_analysis"`
	Metadata         map[string]any   `json:"metadata"`
	AIInstructions   aiInstructions   `json:"ai_instructions"`
}

func (s *Service) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "нет данных в запросе"})
		return
	}

	data, filename, err := req.payload()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	text, report, entry, err := s.process(r.Context(), data, filename)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, doctext.ErrNoText) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]any{"success": false, "error": err.Error()})
		return
	}

	resp := processResponse{
		Success:          true,
		Filename:         filename,
		Text:             text,
		TextLength:       entry.CharCount,
		WordCount:        entry.WordCount,
		ContractAnalysis: report,
		Metadata: map[string]any{
			"processed_at":    entry.ProcessedAt.Format(time.RFC3339),
			"file_size_bytes": len(data),
		},
		AIInstructions: buildAIInstructions(text),
	}
	s.logger.Info("document processed", "filename", filename, "chars", entry.CharCount, "words", entry.WordCount)
	writeJSON(w, http.StatusOK, resp)
}

// handleProcessN8N is the simplified intake for n8n workflows.
func (s *Service) handleProcessN8N(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"text": "", "success": false, "error": "нет данных в запросе"})
		return
	}
	data, filename, err := req.payload()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"text": "", "success": false, "error": err.Error()})
		return
	}

	text, _, entry, err := s.process(r.Context(), data, filename)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, doctext.ErrNoText) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]any{"text": "", "success": false, "error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"text":         text,
		"success":      true,
		"word_count":   entry.WordCount,
		"ready_for_ai": true,
	})
}

// process runs extraction + analysis and records the outcome in the
// journal. The journal write is best-effort: a failure is logged, never
// surfaced to the caller.
func (s *Service) process(ctx context.Context, data []byte, filename string) (string, *contract.Report, *journal.Entry, error) {
	start := time.Now()
	entry := &journal.Entry{
		Filename:    filename,
		Format:      string(s.pipe.Detect(filename)),
		SizeBytes:   int64(len(data)),
		ProcessedAt: start,
	}

	text, err := s.pipe.Extract(ctx, data, filename)
	if err != nil {
		entry.Error = err.Error()
		entry.Duration = time.Since(start)
		s.record(ctx, entry)
		return "", nil, nil, err
	}

	report := contract.Analyze(text)
	entry.CharCount = contract.CharCount(text)
	entry.WordCount = contract.WordCount(text)
	entry.HasParties = report.HasParties
	entry.HasSubject = report.HasSubject
	entry.HasTerms = report.HasTerms
	entry.HasResponsibilities = report.HasResponsibilities
	entry.HasSignatures = report.HasSignatures
	entry.SectionCount = len(report.Sections)
	entry.Duration = time.Since(start)
	s.record(ctx, entry)

	return text, report, entry, nil
}

func (s *Service) record(ctx context.Context, e *journal.Entry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, e); err != nil {
		s.logger.Error("journal record", "filename", e.Filename, "error", err)
	}
}

func buildAIInstructions(text string) aiInstructions {
	if text == "" {
		return aiInstructions{PromptSuggestion: noContentPrompt, HasContent: false}
	}
	excerpt := text
	if runes := []rune(text); len(runes) > promptTextLimit {
		excerpt = string(runes[:promptTextLimit])
	}
	return aiInstructions{
		PromptSuggestion: fmt.Sprintf(reviewPromptTemplate, excerpt),
		HasContent:       true,
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "docproc",
	})
}

func (s *Service) handleJournalRecent(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "journal disabled"})
		return
	}
	n := queryInt(r, "limit", 50)
	entries, err := s.journal.Recent(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
