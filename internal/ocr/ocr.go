package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"image"

	"github.com/chesslens/scoresheet-mcp/internal/notation"
)

// ColumnReader recognizes the raw move tokens of one cropped move column.
//
// Implementations must be safe for concurrent use: the pipeline fans
// columns out to a worker pool. A reader error for one column never
// aborts the sheet; the pipeline logs it and leaves that column's moves
// absent.
type ColumnReader interface {
	ReadColumn(ctx context.Context, column image.Image, language string) ([]string, error)
}

// SheetResponse is the structured result of a single whole-image OCR
// call, one entry per physical column. Column indices follow the sheet's
// left-to-right order and the usual even-white/odd-black convention.
type SheetResponse struct {
	Columns []notation.ColumnMoves `json:"columns"`
}

// ParseSheetResponse decodes the JSON a whole-sheet OCR collaborator
// returns. An empty or absent columns array is valid (a blank sheet), but
// malformed JSON is an error.
func ParseSheetResponse(data []byte) (*SheetResponse, error) {
	var resp SheetResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse sheet OCR response: %w", err)
	}
	return &resp, nil
}
