package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/chesslens/scoresheet-mcp/internal/imaging"
)

// TesseractReader is the default ColumnReader, backed by the system
// Tesseract engine via gosseract. Each ReadColumn call uses a fresh
// client, so readers are safe for concurrent use from the worker pool.
type TesseractReader struct {
	// MinColumnWidth upsizes narrower column crops before recognition;
	// handwriting in a 100px-wide crop is too small for Tesseract.
	MinColumnWidth int

	// PSM overrides the page segmentation mode. Zero keeps the default
	// single-column mode (4), which matches a move column's layout.
	PSM gosseract.PageSegMode
}

// NewTesseractReader returns a reader tuned for move columns.
func NewTesseractReader() *TesseractReader {
	return &TesseractReader{
		MinColumnWidth: 200,
		PSM:            gosseract.PSM_SINGLE_COLUMN,
	}
}

// ReadColumn recognizes one cropped move column and returns one raw token
// per scoresheet row. Tokens are whitespace-trimmed and empty rows are
// dropped; transliteration happens later in the notation package.
//
// Tesseract needs a file path, so the crop goes through a temporary PNG
// that is removed before returning.
func (t *TesseractReader) ReadColumn(ctx context.Context, column image.Image, language string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if language == "" {
		language = "ell"
	}

	prepared := imaging.UpscaleForOCR(column, t.MinColumnWidth)

	tmpFile, err := os.CreateTemp("", "scoresheet-column-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, prepared); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to encode temp image: %w", err)
	}
	tmpFile.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	psm := t.PSM
	if psm == 0 {
		psm = gosseract.PSM_SINGLE_COLUMN
	}
	if err := client.SetPageSegMode(psm); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImage(tmpPath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	return SplitTokens(text), nil
}

// SplitTokens breaks raw OCR text into move tokens, one per non-empty
// line. A line holding several whitespace-separated entries (a squeezed
// row) contributes each entry in order.
func SplitTokens(text string) []string {
	var tokens []string
	for _, line := range strings.Split(text, "\n") {
		for _, field := range strings.Fields(line) {
			tokens = append(tokens, field)
		}
	}
	return tokens
}
