// Package pipeline orchestrates the full scoresheet transcription: table
// location, column segmentation, per-column OCR fan-out, token
// normalization, assembly, and validation.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/chesslens/scoresheet-mcp/internal/detection"
	"github.com/chesslens/scoresheet-mcp/internal/imaging"
	"github.com/chesslens/scoresheet-mcp/internal/notation"
	"github.com/chesslens/scoresheet-mcp/internal/ocr"
	"github.com/chesslens/scoresheet-mcp/internal/validate"
)

// Options configures one transcription request.
type Options struct {
	// ColumnCount is the number of move columns on the sheet, always even
	// since columns alternate white and black. Zero defaults to 4 (two
	// white/black column pairs, the common club scoresheet layout).
	ColumnCount int

	// Language is the OCR language code; empty defaults to the reader's
	// own default.
	Language string

	// Tags fills the PGN tag block.
	Tags notation.GameTags
}

// Transcript is the result of one transcription request: a best-effort
// PGN plus everything needed to audit how it was produced.
type Transcript struct {
	// RequestID correlates log lines of one request.
	RequestID string `json:"request_id"`

	// Table is the located notation table and the strategy that found it.
	Table         imaging.Region `json:"table"`
	TableStrategy string         `json:"table_strategy"`

	// Boundaries and Columns describe the selected partition.
	Boundaries []int            `json:"boundaries"`
	Columns    []imaging.Region `json:"columns"`

	// SelectionScore, EqualDivision and Extrapolated quantify how much
	// confidence the segmentation kept.
	SelectionScore float64 `json:"selection_score"`
	EqualDivision  bool    `json:"equal_division"`
	Extrapolated   bool    `json:"extrapolated"`

	// FailedColumns lists column indices whose OCR call failed; their
	// moves are simply absent from the transcript.
	FailedColumns []int `json:"failed_columns,omitempty"`

	// Pairs and PGN are the assembled transcript.
	Pairs []notation.MovePair `json:"pairs"`
	PGN   string              `json:"pgn"`

	// Verdicts holds the external validator's per-move statuses; nil when
	// validation was skipped or failed.
	Verdicts []validate.MoveStatus `json:"verdicts,omitempty"`
}

// Transcriber wires the segmentation stages to the OCR and validation
// collaborators. A Transcriber is safe for concurrent use: every request
// works on its own value objects.
type Transcriber struct {
	locator    *detection.TableLocator
	detector   *detection.ColumnDetector
	selector   *detection.Selector
	normalizer *notation.Normalizer
	reader     ocr.ColumnReader
	validator  validate.MoveValidator

	// Workers bounds the per-column OCR fan-out.
	Workers int
}

// New creates a transcriber with the given tuning and collaborators.
// A nil validator disables validation entirely.
func New(params detection.Params, reader ocr.ColumnReader, validator validate.MoveValidator) *Transcriber {
	return &Transcriber{
		locator:    detection.NewTableLocator(params.Table),
		detector:   detection.NewColumnDetector(params.Columns),
		selector:   detection.NewSelector(params.Selector),
		normalizer: notation.NewNormalizer(),
		reader:     reader,
		validator:  validator,
		Workers:    4,
	}
}

// Segment runs only the geometric stages: table location, boundary
// detection, and column selection. Used by the MCP tools that expose
// intermediate results, and by Transcribe itself.
func (t *Transcriber) Segment(img image.Image, columnCount int) (*Transcript, error) {
	if columnCount <= 0 {
		columnCount = 4
	}

	table, err := t.locator.Locate(img)
	if err != nil {
		return nil, err
	}

	boundaries := t.detector.DetectBoundaries(img, table.Region)
	selection := t.selector.Select(boundaries, table.Region, columnCount)

	return &Transcript{
		RequestID:      uuid.NewString(),
		Table:          table.Region,
		TableStrategy:  table.Strategy,
		Boundaries:     selection.Boundaries,
		Columns:        imaging.ColumnRegions(table.Region, selection.Boundaries),
		SelectionScore: selection.Score,
		EqualDivision:  selection.EqualDivision,
		Extrapolated:   selection.Extrapolated,
	}, nil
}

// Transcribe runs the full pipeline on a decoded scoresheet photo.
//
// Segmentation failures other than a missing table degrade rather than
// fail; a column whose OCR call errors is logged, recorded in
// FailedColumns, and skipped. The returned transcript is best-effort by
// design.
func (t *Transcriber) Transcribe(ctx context.Context, img image.Image, opts Options) (*Transcript, error) {
	transcript, err := t.Segment(img, opts.ColumnCount)
	if err != nil {
		return nil, err
	}
	logPrefix := fmt.Sprintf("[%s]", transcript.RequestID)
	log.Printf("%s table %s via %s, %d columns (score %.2f, equal_division=%v)",
		logPrefix, transcript.Table, transcript.TableStrategy,
		len(transcript.Columns), transcript.SelectionScore, transcript.EqualDivision)

	columnTokens := t.readColumns(ctx, img, transcript, logPrefix, opts.Language)

	normalized := make([][]string, len(columnTokens))
	for i, tokens := range columnTokens {
		normalized[i] = t.normalizer.NormalizeAll(tokens)
	}

	white, black := notation.AssembleColumns(normalized)
	transcript.Pairs = notation.PairMoves(white, black)
	transcript.PGN = notation.RenderPGN(transcript.Pairs, opts.Tags)

	t.validateMoves(ctx, transcript, white, black, logPrefix)
	return transcript, nil
}

// TranscribeSheetResponse builds a transcript from a whole-image OCR
// response instead of per-column reads. Segmentation metadata stays
// empty: the response already carries the column structure.
func (t *Transcriber) TranscribeSheetResponse(ctx context.Context, resp *ocr.SheetResponse, tags notation.GameTags) *Transcript {
	normalized := make([]notation.ColumnMoves, len(resp.Columns))
	for i, col := range resp.Columns {
		normalized[i] = notation.ColumnMoves{
			ColumnIndex: col.ColumnIndex,
			Moves:       t.normalizer.NormalizeAll(col.Moves),
		}
	}

	white, black := notation.AssembleIndexed(normalized)
	transcript := &Transcript{
		RequestID: uuid.NewString(),
		Pairs:     notation.PairMoves(white, black),
	}
	transcript.PGN = notation.RenderPGN(transcript.Pairs, tags)

	t.validateMoves(ctx, transcript, white, black, fmt.Sprintf("[%s]", transcript.RequestID))
	return transcript
}

// columnResult carries one column's OCR outcome back from the pool.
type columnResult struct {
	index  int
	tokens []string
	err    error
}

// readColumns crops every selected column and fans the crops out to a
// bounded worker pool, fanning results back in by column index. Columns
// are read-only with respect to the source image and carry no
// cross-column state, so the fan-out needs no coordination beyond the
// results channel.
func (t *Transcriber) readColumns(ctx context.Context, img image.Image, transcript *Transcript, logPrefix, language string) [][]string {
	columns := transcript.Columns
	tokens := make([][]string, len(columns))

	workers := t.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(columns) {
		workers = len(columns)
	}
	if workers == 0 {
		return tokens
	}

	jobs := make(chan int)
	results := make(chan columnResult)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				crop, err := imaging.CropImage(img, columns[i])
				if err != nil {
					results <- columnResult{index: i, err: err}
					continue
				}
				colTokens, err := t.reader.ReadColumn(ctx, crop, language)
				results <- columnResult{index: i, tokens: colTokens, err: err}
			}
		}()
	}

	go func() {
		for i := range columns {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if res.err != nil {
			log.Printf("%s column %d skipped: %v", logPrefix, res.index, res.err)
			transcript.FailedColumns = append(transcript.FailedColumns, res.index)
			continue
		}
		tokens[res.index] = res.tokens
	}
	sort.Ints(transcript.FailedColumns)
	return tokens
}

// validateMoves forwards the interleaved move list to the validator and
// attaches its verdicts. Validator failure is logged and tolerated; the
// transcript simply carries no verdicts.
func (t *Transcriber) validateMoves(ctx context.Context, transcript *Transcript, white, black []string, logPrefix string) {
	if t.validator == nil {
		return
	}

	var moves []string
	for i := 0; i < len(white) || i < len(black); i++ {
		if i < len(white) {
			moves = append(moves, white[i])
		}
		if i < len(black) {
			moves = append(moves, black[i])
		}
	}
	if len(moves) == 0 {
		return
	}

	verdicts, err := t.validator.ValidateMoves(ctx, moves)
	if err != nil {
		log.Printf("%s validation skipped: %v", logPrefix, err)
		return
	}
	transcript.Verdicts = verdicts
}
