package server

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chesslens/scoresheet-mcp/internal/detection"
	"github.com/chesslens/scoresheet-mcp/internal/pipeline"
)

// stubReader answers every column with the same tokens.
type stubReader struct {
	tokens []string
}

func (r *stubReader) ReadColumn(_ context.Context, _ image.Image, _ string) ([]string, error) {
	return append([]string(nil), r.tokens...), nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	transcriber := pipeline.New(detection.DefaultParams(), &stubReader{tokens: []string{"ε4"}}, nil)
	transcriber.Workers = 1
	return New(transcriber)
}

// writeSheetPNG writes an all-ink test sheet and returns its path.
func writeSheetPNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			img.Set(x, y, color.Black)
		}
	}
	path := filepath.Join(t.TempDir(), "sheet.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return path
}

func TestHandleInitialize(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})

	if resp.Error != nil {
		t.Fatalf("initialize failed: %+v", resp.Error)
	}
	result := resp.Result.(map[string]interface{})
	info := result["serverInfo"].(map[string]interface{})
	if info["name"] != "scoresheet-mcp" {
		t.Errorf("server name: got %v", info["name"])
	}
}

func TestHandlePing(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 2, Method: "ping"})
	if resp.Error != nil || resp.Result == nil {
		t.Errorf("ping: got %+v", resp)
	}
}

func TestHandleNotificationHasNoResponse(t *testing.T) {
	s := newTestServer(t)
	if resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"}); resp != nil {
		t.Errorf("notification should not be answered, got %+v", resp)
	}
}

func TestHandleUnknownMethod(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 3, Method: "bogus/method"})
	if resp.Error == nil || resp.Error.Code != -32601 {
		t.Errorf("expected method-not-found error, got %+v", resp)
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 4, Method: "tools/list"})
	if resp.Error != nil {
		t.Fatalf("tools/list failed: %+v", resp.Error)
	}

	tools := resp.Result.(map[string]interface{})["tools"].([]Tool)
	want := map[string]bool{
		"sheet_load":             false,
		"sheet_locate_table":     false,
		"sheet_detect_columns":   false,
		"sheet_crop_column":      false,
		"sheet_normalize_tokens": false,
		"sheet_render_pgn":       false,
		"sheet_transcribe":       false,
	}
	for _, tool := range tools {
		if _, ok := want[tool.Name]; !ok {
			t.Errorf("unexpected tool %s", tool.Name)
			continue
		}
		want[tool.Name] = true
		if tool.InputSchema == nil {
			t.Errorf("tool %s has no input schema", tool.Name)
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("tool %s not listed", name)
		}
	}
}

func TestToolsCall_NormalizeTokens(t *testing.T) {
	s := newTestServer(t)
	params, _ := json.Marshal(ToolCallParams{
		Name:      "sheet_normalize_tokens",
		Arguments: json.RawMessage(`{"tokens": ["Ιζ3", "0-0"]}`),
	})

	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 5, Method: "tools/call", Params: params})
	if resp.Error != nil {
		t.Fatalf("tools/call failed: %+v", resp.Error)
	}

	content := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})
	text := content[0]["text"].(string)
	if !strings.Contains(text, "Nf3") || !strings.Contains(text, "O-O") {
		t.Errorf("unexpected tool output: %s", text)
	}
}

func TestToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0", ID: 6, Method: "tools/call",
		Params: json.RawMessage(`{"name": 42}`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected invalid-params error, got %+v", resp)
	}
}

func TestToolsCall_UnknownTool(t *testing.T) {
	s := newTestServer(t)
	params, _ := json.Marshal(ToolCallParams{Name: "sheet_levitate", Arguments: json.RawMessage(`{}`)})
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 7, Method: "tools/call", Params: params})
	if resp.Error == nil || resp.Error.Code != -32000 {
		t.Errorf("expected tool-execution error, got %+v", resp)
	}
}

func TestExecuteTool_SheetLoad(t *testing.T) {
	s := newTestServer(t)
	path := writeSheetPNG(t)

	args, _ := json.Marshal(map[string]string{"path": path})
	result, err := s.executeTool("sheet_load", args)
	if err != nil {
		t.Fatalf("sheet_load failed: %v", err)
	}
	text := mustMarshalJSON(result)
	if !strings.Contains(text, "\"width\": 400") || !strings.Contains(text, "\"format\": \"png\"") {
		t.Errorf("unexpected sheet_load result: %s", text)
	}
}

func TestExecuteTool_SheetLoadMissingFile(t *testing.T) {
	s := newTestServer(t)
	args := json.RawMessage(`{"path": "/nonexistent/sheet.png"}`)
	if _, err := s.executeTool("sheet_load", args); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestExecuteTool_DetectColumns(t *testing.T) {
	s := newTestServer(t)
	path := writeSheetPNG(t)

	args, _ := json.Marshal(map[string]interface{}{"path": path, "column_count": 4})
	result, err := s.executeTool("sheet_detect_columns", args)
	if err != nil {
		t.Fatalf("sheet_detect_columns failed: %v", err)
	}

	transcript := result.(*pipeline.Transcript)
	if len(transcript.Columns) != 4 {
		t.Errorf("got %d columns, want 4", len(transcript.Columns))
	}
}

func TestExecuteTool_CropColumnOutOfRange(t *testing.T) {
	s := newTestServer(t)
	path := writeSheetPNG(t)

	args, _ := json.Marshal(map[string]interface{}{"path": path, "column_count": 4, "index": 9})
	if _, err := s.executeTool("sheet_crop_column", args); err == nil {
		t.Fatal("expected an out-of-range error")
	}
}

func TestExecuteTool_RenderPGNColumns(t *testing.T) {
	s := newTestServer(t)
	args := json.RawMessage(`{
		"columns": [["ε4", "Ιζ3"], ["ε5", "Ιγ6"]],
		"tags": {"date": "2024.01.01", "white": "A", "black": "B"}
	}`)

	result, err := s.executeTool("sheet_render_pgn", args)
	if err != nil {
		t.Fatalf("sheet_render_pgn failed: %v", err)
	}
	pgn := result.(map[string]interface{})["pgn"].(string)
	if !strings.Contains(pgn, "1. e4 e5\n2. Nf3 Nc6 *") {
		t.Errorf("unexpected PGN:\n%s", pgn)
	}
}

func TestExecuteTool_RenderPGNResponse(t *testing.T) {
	s := newTestServer(t)
	args := json.RawMessage(`{
		"response": {"columns": [
			{"columnIndex": 1, "moves": ["ε5"]},
			{"columnIndex": 0, "moves": ["ε4"]}
		]},
		"tags": {"date": "2024.01.01"}
	}`)

	result, err := s.executeTool("sheet_render_pgn", args)
	if err != nil {
		t.Fatalf("sheet_render_pgn failed: %v", err)
	}
	pgn := result.(map[string]interface{})["pgn"].(string)
	if !strings.Contains(pgn, "1. e4 e5 *") {
		t.Errorf("unexpected PGN:\n%s", pgn)
	}
}

func TestExecuteTool_SheetTranscribe(t *testing.T) {
	s := newTestServer(t)
	path := writeSheetPNG(t)

	args, _ := json.Marshal(map[string]interface{}{
		"path":         path,
		"column_count": 2,
		"tags":         map[string]string{"date": "2024.01.01"},
	})
	result, err := s.executeTool("sheet_transcribe", args)
	if err != nil {
		t.Fatalf("sheet_transcribe failed: %v", err)
	}

	transcript := result.(*pipeline.Transcript)
	if transcript.PGN == "" {
		t.Error("transcript has no PGN")
	}
	if !strings.Contains(transcript.PGN, "1. e4 e4 *") {
		t.Errorf("unexpected PGN:\n%s", transcript.PGN)
	}
}
