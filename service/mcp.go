package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yurkit/docproc/doctext"
	"github.com/yurkit/docproc/kit"
)

// RegisterMCP registers docproc tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerProcessTool(srv)
	s.registerFormatsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// --- process ---

type mcpProcessReq struct {
	Filename   string `json:"filename"`
	FileBase64 string `json:"file_base64"`
}

func (s *Service) registerProcessTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "docproc_process",
		Description: "Extract text from a contract document (docx, doc, pdf, html, txt) and screen its structure.",
		InputSchema: inputSchema(map[string]any{
			"filename":    map[string]any{"type": "string", "description": "Filename with extension, used as format hint"},
			"file_base64": map[string]any{"type": "string", "description": "Base64-encoded document bytes"},
		}, []string{"filename", "file_base64"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*mcpProcessReq)
		data, err := base64.StdEncoding.DecodeString(r.FileBase64)
		if err != nil {
			return nil, fmt.Errorf("decode file_base64: %w", err)
		}
		text, report, entry, err := s.process(ctx, data, r.Filename)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"text":              text,
			"text_length":       entry.CharCount,
			"word_count":        entry.WordCount,
			"contract_analysis": report,
		}, nil
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r mcpProcessReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- formats ---

func (s *Service) registerFormatsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "docproc_formats",
		Description: "List the document formats the extraction pipeline recognizes.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		return map[string]any{"formats": doctext.SupportedFormats()}, nil
	}

	decode := func(_ *mcp.CallToolRequest) (any, error) {
		return struct{}{}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
