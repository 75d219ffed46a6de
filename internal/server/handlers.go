package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chesslens/scoresheet-mcp/internal/imaging"
	"github.com/chesslens/scoresheet-mcp/internal/notation"
	"github.com/chesslens/scoresheet-mcp/internal/ocr"
	"github.com/chesslens/scoresheet-mcp/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "sheet_load", "sheet_transcribe").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "sheet_load":
		return s.handleSheetLoad(args)
	case "sheet_locate_table":
		return s.handleSheetLocateTable(args)
	case "sheet_detect_columns":
		return s.handleSheetDetectColumns(args)
	case "sheet_crop_column":
		return s.handleSheetCropColumn(args)
	case "sheet_normalize_tokens":
		return s.handleSheetNormalizeTokens(args)
	case "sheet_render_pgn":
		return s.handleSheetRenderPGN(args)
	case "sheet_transcribe":
		return s.handleSheetTranscribe(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Sheet Information Handlers ===

type sheetLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleSheetLoad(args json.RawMessage) (interface{}, error) {
	var a sheetLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Segmentation Handlers ===

type sheetSegmentArgs struct {
	Path        string `json:"path"`
	ColumnCount int    `json:"column_count"`
}

func (s *Server) handleSheetLocateTable(args json.RawMessage) (interface{}, error) {
	var a sheetSegmentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	transcript, err := s.transcriber.Segment(img, a.ColumnCount)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"table":    transcript.Table,
		"strategy": transcript.TableStrategy,
	}, nil
}

func (s *Server) handleSheetDetectColumns(args json.RawMessage) (interface{}, error) {
	var a sheetSegmentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.transcriber.Segment(img, a.ColumnCount)
}

type sheetCropColumnArgs struct {
	Path        string  `json:"path"`
	ColumnCount int     `json:"column_count"`
	Index       int     `json:"index"`
	Scale       float64 `json:"scale"`
}

func (s *Server) handleSheetCropColumn(args json.RawMessage) (interface{}, error) {
	var a sheetCropColumnArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	transcript, err := s.transcriber.Segment(img, a.ColumnCount)
	if err != nil {
		return nil, err
	}
	if a.Index < 0 || a.Index >= len(transcript.Columns) {
		return nil, fmt.Errorf("column index %d out of range (sheet has %d columns)", a.Index, len(transcript.Columns))
	}
	return imaging.Crop(img, transcript.Columns[a.Index], a.Scale)
}

// === Notation Handlers ===

type sheetNormalizeTokensArgs struct {
	Tokens []string `json:"tokens"`
}

func (s *Server) handleSheetNormalizeTokens(args json.RawMessage) (interface{}, error) {
	var a sheetNormalizeTokensArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	normalizer := notation.NewNormalizer()
	return map[string]interface{}{
		"tokens": normalizer.NormalizeAll(a.Tokens),
	}, nil
}

type sheetRenderPGNArgs struct {
	// Columns holds per-column move arrays in sheet order. Alternatively
	// Response carries a whole-sheet OCR JSON response.
	Columns  [][]string        `json:"columns,omitempty"`
	Response json.RawMessage   `json:"response,omitempty"`
	Tags     notation.GameTags `json:"tags"`
}

func (s *Server) handleSheetRenderPGN(args json.RawMessage) (interface{}, error) {
	var a sheetRenderPGNArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	normalizer := notation.NewNormalizer()
	var white, black []string
	switch {
	case len(a.Response) > 0:
		resp, err := ocr.ParseSheetResponse(a.Response)
		if err != nil {
			return nil, err
		}
		normalized := make([]notation.ColumnMoves, len(resp.Columns))
		for i, col := range resp.Columns {
			normalized[i] = notation.ColumnMoves{
				ColumnIndex: col.ColumnIndex,
				Moves:       normalizer.NormalizeAll(col.Moves),
			}
		}
		white, black = notation.AssembleIndexed(normalized)
	default:
		normalized := make([][]string, len(a.Columns))
		for i, col := range a.Columns {
			normalized[i] = normalizer.NormalizeAll(col)
		}
		white, black = notation.AssembleColumns(normalized)
	}

	pairs := notation.PairMoves(white, black)
	return map[string]interface{}{
		"pairs": pairs,
		"pgn":   notation.RenderPGN(pairs, a.Tags),
	}, nil
}

// === Transcription Handler ===

type sheetTranscribeArgs struct {
	Path        string            `json:"path"`
	ColumnCount int               `json:"column_count"`
	Language    string            `json:"language"`
	Tags        notation.GameTags `json:"tags"`
}

func (s *Server) handleSheetTranscribe(args json.RawMessage) (interface{}, error) {
	var a sheetTranscribeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.transcriber.Transcribe(context.Background(), img, pipeline.Options{
		ColumnCount: a.ColumnCount,
		Language:    a.Language,
		Tags:        a.Tags,
	})
}
