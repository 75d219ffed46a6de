package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Sheet Information
		{
			Name:        "sheet_load",
			Description: "Load a scoresheet photo and return its dimensions and format. Caches the image for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the scoresheet image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Segmentation
		{
			Name:        "sheet_locate_table",
			Description: "Find the bounding rectangle of the handwritten notation table inside the photo, and report which strategy located it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the scoresheet image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sheet_detect_columns",
			Description: "Segment the notation table into move columns. Returns the column boundaries, per-column regions, the selection score, and whether equal division or extrapolation was used.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the scoresheet image file",
					},
					"column_count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of move columns on the sheet (even: 2, 4, or 6). Default 4",
						"default":     4,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sheet_crop_column",
			Description: "Crop a single detected move column and return it as base64-encoded PNG. Use this to inspect what the OCR engine will see.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the scoresheet image file",
					},
					"column_count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of move columns on the sheet. Default 4",
						"default":     4,
					},
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "Zero-based column index (even columns are white, odd black)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "index"},
			},
		},

		// Notation
		{
			Name:        "sheet_normalize_tokens",
			Description: "Transliterate raw OCR tokens from the source notation script (Greek) into Latin algebraic notation, including castling and promotion fixups.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"tokens": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Raw move tokens as emitted by OCR",
					},
				},
				"required": []string{"tokens"},
			},
		},
		{
			Name:        "sheet_render_pgn",
			Description: "Assemble per-column move arrays (or a whole-sheet OCR JSON response) into numbered move pairs and render PGN. Even columns are white, odd are black.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"columns": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":  "array",
							"items": map[string]interface{}{"type": "string"},
						},
						"description": "Per-column move arrays in left-to-right sheet order",
					},
					"response": map[string]interface{}{
						"type":        "object",
						"description": "Alternative input: whole-sheet OCR response {columns:[{columnIndex, moves:[...]}]}",
					},
					"tags": map[string]interface{}{
						"type":        "object",
						"description": "PGN tag values (date, round, white, black, result); omitted tags use defaults",
					},
				},
			},
		},

		// Transcription
		{
			Name:        "sheet_transcribe",
			Description: "Run the full pipeline: locate the table, segment columns, OCR each column, normalize tokens, assemble move pairs, validate, and render PGN. Returns a best-effort transcript with segmentation metadata.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the scoresheet image file",
					},
					"column_count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of move columns on the sheet. Default 4",
						"default":     4,
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "OCR language code (e.g., \"ell\" for Greek notation). Default \"ell\"",
					},
					"tags": map[string]interface{}{
						"type":        "object",
						"description": "PGN tag values (date, round, white, black, result); omitted tags use defaults",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
