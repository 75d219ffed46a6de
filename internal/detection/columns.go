package detection

import (
	"image"
	"sort"

	"github.com/chesslens/scoresheet-mcp/internal/imaging"
)

// ColumnDetector finds candidate column boundaries inside the located
// notation table.
//
// Three independent heuristics run over one smoothed ink-density profile
// and their outputs are unioned before deduplication:
//
//  1. valleys: samples strictly below both neighbors with enough drop;
//  2. gradient zero-crossings: sign changes of the discrete derivative
//     at profile minima;
//  3. windowed local minima well below the profile mean.
//
// No single heuristic is reliable on handwritten sheets; the union trades
// false positives (cheap, removed later by the sequence selector) against
// missed boundaries (expensive, unrecoverable).
type ColumnDetector struct {
	params ColumnParams
}

// NewColumnDetector creates a detector with the given tuning.
func NewColumnDetector(params ColumnParams) *ColumnDetector {
	return &ColumnDetector{params: params}
}

// DetectBoundaries returns candidate column boundaries for the table
// region, in image-absolute x coordinates. The result is strictly
// increasing, starts at region.X, and ends at region.X+region.Width.
func (d *ColumnDetector) DetectBoundaries(img image.Image, region imaging.Region) []int {
	region = region.Clamp(img)
	if region.Empty() {
		return nil
	}

	rule := imaging.DarkerThan(d.params.InkThreshold)
	window := region.Width / 200
	if window < 2 {
		window = 2
	}
	profile := imaging.ColumnProfile(img, region, rule).Smooth(window)
	avg := profile.Avg()

	set := make(map[int]struct{})
	for _, x := range d.findValleys(profile, avg) {
		set[x] = struct{}{}
	}
	for _, x := range d.findZeroCrossings(profile, avg) {
		set[x] = struct{}{}
	}
	for _, x := range d.findLocalMinima(profile, avg) {
		set[x] = struct{}{}
	}
	set[0] = struct{}{}
	set[region.Width] = struct{}{}

	merged := mergeBoundaries(set, region.Width)

	absolute := make([]int, len(merged))
	for i, x := range merged {
		absolute[i] = region.X + x
	}
	return absolute
}

// findValleys flags samples strictly lower than both neighbors whose
// two-sided first-difference magnitude exceeds max(1, factor*avg).
func (d *ColumnDetector) findValleys(p imaging.Profile, avg float64) []int {
	minDepth := d.params.ValleyDepthFactor * avg
	if minDepth < 1 {
		minDepth = 1
	}

	var valleys []int
	for x := 1; x < len(p)-1; x++ {
		if p[x] >= p[x-1] || p[x] >= p[x+1] {
			continue
		}
		depth := (p[x-1] - p[x]) + (p[x+1] - p[x])
		if depth > minDepth {
			valleys = append(valleys, x)
		}
	}
	return valleys
}

// findZeroCrossings flags positions where the discrete derivative turns
// from negative to positive (a minimum) and the summed magnitude of the
// two adjacent derivative samples exceeds factor*avg.
func (d *ColumnDetector) findZeroCrossings(p imaging.Profile, avg float64) []int {
	if len(p) < 3 {
		return nil
	}
	minMagnitude := d.params.GradientFactor * avg

	deriv := make([]float64, len(p)-1)
	for x := 0; x < len(p)-1; x++ {
		deriv[x] = p[x+1] - p[x]
	}

	var crossings []int
	for x := 1; x < len(deriv); x++ {
		if deriv[x-1] >= 0 || deriv[x] <= 0 {
			continue
		}
		magnitude := -deriv[x-1] + deriv[x]
		if magnitude > minMagnitude {
			crossings = append(crossings, x)
		}
	}
	return crossings
}

// findLocalMinima flags samples strictly smaller than every sample in a
// window of radius width/100 around them, provided the value sits below
// factor*avg.
func (d *ColumnDetector) findLocalMinima(p imaging.Profile, avg float64) []int {
	radius := len(p) / 100
	if radius < 1 {
		radius = 1
	}
	maxValue := d.params.MinimumValueFactor * avg

	var minima []int
	for x := radius; x < len(p)-radius; x++ {
		if p[x] >= maxValue {
			continue
		}
		isMin := true
		for dx := -radius; dx <= radius && isMin; dx++ {
			if dx == 0 {
				continue
			}
			if p[x+dx] <= p[x] {
				isMin = false
			}
		}
		if isMin {
			minima = append(minima, x)
		}
	}
	return minima
}

// mergeBoundaries sorts the unioned boundary set and collapses neighbors
// closer than max(3, width/100), keeping the first of each cluster. The
// final boundary (the region's right edge) is always kept so the list
// spans the full region.
func mergeBoundaries(set map[int]struct{}, width int) []int {
	sorted := make([]int, 0, len(set))
	for x := range set {
		sorted = append(sorted, x)
	}
	sort.Ints(sorted)

	minGap := width / 100
	if minGap < 3 {
		minGap = 3
	}

	merged := make([]int, 0, len(sorted))
	for _, x := range sorted {
		if len(merged) == 0 || x-merged[len(merged)-1] >= minGap {
			merged = append(merged, x)
		}
	}
	// The right edge survives even when it crowds its neighbor, so the
	// boundary list always spans the full region.
	if merged[len(merged)-1] != width {
		merged = append(merged, width)
	}
	return merged
}
