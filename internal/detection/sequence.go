package detection

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/chesslens/scoresheet-mcp/internal/imaging"
)

// ColumnInfo describes one detected column between two boundaries.
type ColumnInfo struct {
	// Index is the column's position in the original left-to-right list,
	// before outlier filtering.
	Index int `json:"index"`

	// StartX and EndX are image-absolute edges; Width = EndX - StartX.
	StartX int `json:"start_x"`
	EndX   int `json:"end_x"`
	Width  int `json:"width"`

	// RelativeWidth is Width as a fraction of the table width.
	RelativeWidth float64 `json:"relative_width"`
}

// SelectionResult is the final, always-valid column partition.
type SelectionResult struct {
	// Boundaries has exactly count+1 strictly non-decreasing image-absolute
	// x positions spanning the table.
	Boundaries []int `json:"boundaries"`

	// Score is the winning candidate's score in [0,1]; zero when equal
	// division was used.
	Score float64 `json:"score"`

	// Uniformity is the winning candidate's width uniformity in [0,1].
	Uniformity float64 `json:"uniformity"`

	// EqualDivision reports that no acceptable candidate was found and the
	// table was split into equal columns.
	EqualDivision bool `json:"equal_division"`

	// Extrapolated reports that missing trailing columns were synthesized
	// from the winning candidate's average width.
	Extrapolated bool `json:"extrapolated"`
}

// sequence is a candidate run of consecutive columns under evaluation.
// Constructed, scored, and discarded within a single Select call.
type sequence struct {
	columns    []ColumnInfo
	meanWidth  float64
	uniformity float64
	coverage   float64
	centered   float64
	score      float64
}

// Selector turns a raw boundary list into the best run of count move
// columns, with statistical outlier rejection and a deterministic equal
// division fallback. Select never fails: it always returns count+1
// boundaries.
type Selector struct {
	params SelectorParams
}

// NewSelector creates a selector with the given tuning.
func NewSelector(params SelectorParams) *Selector {
	return &Selector{params: params}
}

// Select picks the best run of count columns from the boundary list.
//
// Fewer than 4 boundaries carry too little structure to score, and go
// straight to equal division. Otherwise columns are built from boundary
// pairs, width outliers (margin notes, move-number columns) are filtered,
// candidate windows are enumerated and scored, and the winner is returned,
// extrapolated if it is short but convincing. Candidates are compared by
// score, ties by uniformity.
func (s *Selector) Select(boundaries []int, region imaging.Region, count int) *SelectionResult {
	if count < 1 {
		count = 1
	}
	if len(boundaries) < 4 {
		return equalDivision(region, count)
	}

	columns := buildColumns(boundaries, region.Width)
	filtered := s.filterOutliers(columns, region.Width, count)
	if len(filtered) < 3 {
		// Filtering was too aggressive for this sheet; score the raw list.
		filtered = columns
	}

	var best *sequence
	for _, candidate := range s.enumerate(filtered, count) {
		if !s.scoreSequence(candidate, region, count) {
			continue
		}
		if best == nil || candidate.score > best.score ||
			(candidate.score == best.score && candidate.uniformity > best.uniformity) {
			best = candidate
		}
	}
	if best == nil {
		return equalDivision(region, count)
	}

	if len(best.columns) < count {
		if best.score <= s.params.ExtrapolationScore {
			return equalDivision(region, count)
		}
		return extrapolate(best, region, count)
	}
	return &SelectionResult{
		Boundaries: sequenceBoundaries(best),
		Score:      best.score,
		Uniformity: best.uniformity,
	}
}

// buildColumns converts consecutive boundary pairs into ColumnInfo values,
// indexed left to right.
func buildColumns(boundaries []int, regionWidth int) []ColumnInfo {
	columns := make([]ColumnInfo, 0, len(boundaries)-1)
	for i := 0; i < len(boundaries)-1; i++ {
		width := boundaries[i+1] - boundaries[i]
		if width <= 0 {
			continue
		}
		columns = append(columns, ColumnInfo{
			Index:         len(columns),
			StartX:        boundaries[i],
			EndX:          boundaries[i+1],
			Width:         width,
			RelativeWidth: float64(width) / float64(regionWidth),
		})
	}
	return columns
}

// filterOutliers drops columns whose width marks them as something other
// than a move column: margin annotations, move-number gutters, or a wide
// leading comment column.
func (s *Selector) filterOutliers(columns []ColumnInfo, regionWidth, count int) []ColumnInfo {
	if len(columns) == 0 {
		return nil
	}

	widths := make([]float64, len(columns))
	for i, c := range columns {
		widths[i] = float64(c.Width)
	}
	sorted := append([]float64(nil), widths...)
	sort.Float64s(sorted)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	expected := float64(regionWidth) / float64(count)

	kept := make([]ColumnInfo, 0, len(columns))
	for i, c := range columns {
		w := float64(c.Width)
		if median > 0 && math.Abs(w-median)/median > s.params.MedianDeviation {
			continue
		}
		if expected > 0 && math.Abs(w-expected)/expected > s.params.ExpectedDeviation {
			continue
		}
		if i == 0 && w > s.params.FirstColumnFactor*median {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// enumerate slides a window of min(count, len(columns)) over the column
// list. Windows whose consecutive original indices jump by more than
// MaxIndexGap are skipped: a few filtered-out columns inside a run are
// tolerable, a torn run is not.
func (s *Selector) enumerate(columns []ColumnInfo, count int) []*sequence {
	windowSize := count
	if len(columns) < windowSize {
		windowSize = len(columns)
	}
	if windowSize == 0 {
		return nil
	}

	var candidates []*sequence
	for start := 0; start+windowSize <= len(columns); start++ {
		window := columns[start : start+windowSize]
		contiguous := true
		for i := 0; i < len(window)-1; i++ {
			if window[i+1].Index-window[i].Index > s.params.MaxIndexGap {
				contiguous = false
				break
			}
		}
		if contiguous {
			candidates = append(candidates, &sequence{columns: window})
		}
	}
	return candidates
}

// scoreSequence computes a candidate's metrics, returning false when any
// hard rejection applies.
func (s *Selector) scoreSequence(seq *sequence, region imaging.Region, count int) bool {
	widths := make([]float64, len(seq.columns))
	minW, maxW := math.MaxFloat64, 0.0
	for i, c := range seq.columns {
		w := float64(c.Width)
		widths[i] = w
		minW = math.Min(minW, w)
		maxW = math.Max(maxW, w)
	}

	mean := stat.Mean(widths, nil)
	if mean <= 0 {
		return false
	}
	cv := stat.PopStdDev(widths, nil) / mean
	minMaxRatio := minW / maxW
	rangeRatio := (maxW - minW) / mean

	firstStart := float64(seq.columns[0].StartX)
	lastEnd := float64(seq.columns[len(seq.columns)-1].EndX)
	coverage := (lastEnd - firstStart) / float64(region.Width)
	expectedPerWindow := float64(region.Width) / float64(len(seq.columns))
	expectedPerColumn := float64(region.Width) / float64(count)

	p := s.params
	switch {
	case cv > p.MaxCV:
		return false
	case minMaxRatio < p.MinWidthRatio:
		return false
	case rangeRatio > p.MaxRangeRatio:
		return false
	case coverage < p.MinCoverage:
		return false
	case mean < p.AvgWidthMin*expectedPerWindow || mean > p.AvgWidthMax*expectedPerWindow:
		return false
	}
	for _, w := range widths {
		if math.Abs(w-expectedPerColumn)/expectedPerColumn > p.MaxColumnDeviation {
			return false
		}
	}

	seq.meanWidth = mean
	seq.uniformity = 0.4*(1-cv) + 0.4*minMaxRatio + 0.2*(1-rangeRatio/2)
	seq.coverage = coverage

	coverageScore := 1.0
	if coverage < 0.8 {
		coverageScore = (coverage - 0.7) * 10
	}

	regionMid := float64(region.X) + float64(region.Width)/2
	seqMid := (firstStart + lastEnd) / 2
	seq.centered = 1 - math.Abs(seqMid-regionMid)/(float64(region.Width)/2)
	if seq.centered < 0 {
		seq.centered = 0
	}

	seq.score = 0.5*seq.uniformity + 0.4*coverageScore + 0.1*seq.centered
	return true
}

// sequenceBoundaries renders a candidate back into a boundary list: every
// column's left edge plus the final right edge. Gaps left by filtered-out
// columns are absorbed into the preceding column.
func sequenceBoundaries(seq *sequence) []int {
	boundaries := make([]int, 0, len(seq.columns)+1)
	for _, c := range seq.columns {
		boundaries = append(boundaries, c.StartX)
	}
	boundaries = append(boundaries, seq.columns[len(seq.columns)-1].EndX)
	return boundaries
}

// extrapolate appends synthetic trailing columns of the candidate's
// average width, clamped to the table's right edge. If clamping collapses
// a synthetic column to nothing, the sheet is split equally instead.
func extrapolate(seq *sequence, region imaging.Region, count int) *SelectionResult {
	boundaries := sequenceBoundaries(seq)
	avgWidth := int(seq.meanWidth)
	if avgWidth < 1 {
		avgWidth = 1
	}

	for len(boundaries) < count+1 {
		next := boundaries[len(boundaries)-1] + avgWidth
		if next > region.Right() {
			next = region.Right()
		}
		if next <= boundaries[len(boundaries)-1] {
			return equalDivision(region, count)
		}
		boundaries = append(boundaries, next)
	}
	return &SelectionResult{
		Boundaries:   boundaries,
		Score:        seq.score,
		Uniformity:   seq.uniformity,
		Extrapolated: true,
	}
}

// equalDivision splits the table into count equal columns. Deterministic:
// boundary i sits at region.X + i*region.Width/count with integer
// division, so the first boundary is the region's left edge and the last
// its right edge.
func equalDivision(region imaging.Region, count int) *SelectionResult {
	boundaries := make([]int, count+1)
	for i := 0; i <= count; i++ {
		boundaries[i] = region.X + i*region.Width/count
	}
	return &SelectionResult{
		Boundaries:    boundaries,
		EqualDivision: true,
	}
}
