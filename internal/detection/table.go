package detection

import (
	"errors"
	"fmt"
	"image"

	"github.com/chesslens/scoresheet-mcp/internal/imaging"
)

// ErrTableNotFound is returned when every enabled location strategy fails
// to find a non-empty table region. Downstream stages must never be handed
// a zero-size region to crop.
var ErrTableNotFound = errors.New("notation table not found in image")

// TableResult describes the located notation table.
type TableResult struct {
	// Region is the bounding rectangle of the table in image coordinates.
	Region imaging.Region `json:"region"`

	// Strategy names the locator that produced the region: "morphology"
	// or "profile".
	Strategy string `json:"strategy"`
}

// TableLocator finds the bounding rectangle of the handwritten notation
// table inside a full scoresheet photo.
//
// Strategies run as an ordered chain until one returns a non-empty region:
//
//  1. morphology: binarize, dilate, label connected components, take the
//     bounding box of the largest component above the noise floor;
//  2. profile: scan smoothed ink profiles inward from all four sides.
//
// The profile strategy always produces a region on any image with positive
// dimensions, so ErrTableNotFound is only seen when a caller disables it.
type TableLocator struct {
	params TableParams

	// UseMorphology and UseProfile enable the corresponding strategies.
	// Both default to true in NewTableLocator.
	UseMorphology bool
	UseProfile    bool
}

// NewTableLocator creates a locator with both strategies enabled.
func NewTableLocator(params TableParams) *TableLocator {
	return &TableLocator{
		params:        params,
		UseMorphology: true,
		UseProfile:    true,
	}
}

// Locate returns the table region for the image, trying each enabled
// strategy in order.
func (l *TableLocator) Locate(img image.Image) (*TableResult, error) {
	full := imaging.FullRegion(img)
	if full.Empty() {
		return nil, fmt.Errorf("image has no area: %w", ErrTableNotFound)
	}

	if l.UseMorphology {
		if region := l.locateByMorphology(img, full); !region.Empty() {
			return &TableResult{Region: region, Strategy: "morphology"}, nil
		}
	}
	if l.UseProfile {
		if region := l.locateByProfiles(img, full); !region.Empty() {
			return &TableResult{Region: region, Strategy: "profile"}, nil
		}
	}
	return nil, ErrTableNotFound
}

// locateByMorphology finds the table as the largest ink component.
//
// One pass of 3x3 dilation bridges the small gaps between glyphs and
// ruling lines so the whole table merges into one component. Components
// with a bounding box under the noise floor are discarded as specks.
// Returns an empty region when nothing survives.
func (l *TableLocator) locateByMorphology(img image.Image, full imaging.Region) imaging.Region {
	mask := imaging.InkMask(img, full, imaging.InkMaskOptions{
		Threshold:      l.params.BinarizeThreshold,
		SuppressRuling: l.params.SuppressRuling,
	})
	dilated := imaging.Dilate3x3(mask)

	components := labelComponents(dilated, full.Width, full.Height)

	minSide := l.params.MinComponentSize
	var best *component
	for i := range components {
		c := &components[i]
		if c.maxX-c.minX+1 < minSide || c.maxY-c.minY+1 < minSide {
			continue
		}
		if best == nil || c.size > best.size {
			best = c
		}
	}
	if best == nil {
		return imaging.Region{}
	}
	return imaging.Region{
		X:      full.X + best.minX,
		Y:      full.Y + best.minY,
		Width:  best.maxX - best.minX + 1,
		Height: best.maxY - best.minY + 1,
	}
}

// locateByProfiles finds the table edges from smoothed ink profiles,
// scanning inward from each of the four sides independently. Heuristic
// and non-fatal: a side with no detectable edge defaults to length/10 in
// from that side.
func (l *TableLocator) locateByProfiles(img image.Image, full imaging.Region) imaging.Region {
	rule := imaging.DarkerThan(l.params.EdgeInkThreshold)

	horizontal := imaging.ColumnProfile(img, full, rule).Smooth(imaging.DefaultWindow(full.Width))
	vertical := imaging.RowProfile(img, full, rule).Smooth(imaging.DefaultWindow(full.Height))

	left := l.findEdge(horizontal, true)
	right := l.findEdge(horizontal, false)
	top := l.findEdge(vertical, true)
	bottom := l.findEdge(vertical, false)

	if right <= left || bottom <= top {
		return imaging.Region{}
	}
	return imaging.Region{
		X:      full.X + left,
		Y:      full.Y + top,
		Width:  right - left,
		Height: bottom - top,
	}
}

// findEdge walks a smoothed profile from one end until the signal first
// exceeds max(EdgeMaxFraction*max, EdgeAvgFactor*avg), then backs off
// toward that end to the nearest sample below half the threshold. An edge
// must appear within the first (or last) half of the profile; otherwise
// the fallback position length/10 from that side is used.
func (l *TableLocator) findEdge(p imaging.Profile, fromStart bool) int {
	n := len(p)
	if n == 0 {
		return 0
	}

	threshold := l.params.EdgeMaxFraction * p.Max()
	if avgCut := l.params.EdgeAvgFactor * p.Avg(); avgCut > threshold {
		threshold = avgCut
	}

	half := n / 2
	if fromStart {
		for i := 0; i < half; i++ {
			if p[i] > threshold {
				for j := i; j >= 0; j-- {
					if p[j] < threshold/2 {
						return j
					}
				}
				return i
			}
		}
		return n / 10
	}

	for i := n - 1; i >= half; i-- {
		if p[i] > threshold {
			for j := i; j < n; j++ {
				if p[j] < threshold/2 {
					return j
				}
			}
			return i
		}
	}
	return n - n/10
}

// component is one 8-connected ink region of the dilated binary image.
type component struct {
	size                   int
	minX, minY, maxX, maxY int
}

// labelComponents finds all 8-connected components of a binary mask using
// iterative flood-fill. The stack-based fill avoids recursion depth limits
// on large tables; each pixel is visited once.
func labelComponents(mask [][]bool, width, height int) []component {
	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, width)
	}

	var components []component
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !mask[y][x] || visited[y][x] {
				continue
			}
			components = append(components, fillComponent(mask, visited, x, y, width, height))
		}
	}
	return components
}

// fillComponent flood-fills one component from a seed pixel, tracking its
// pixel count and bounding box. 8-connectivity includes diagonals.
func fillComponent(mask, visited [][]bool, startX, startY, width, height int) component {
	c := component{minX: startX, minY: startY, maxX: startX, maxY: startY}

	type point struct{ x, y int }
	stack := []point{{startX, startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.x < 0 || p.x >= width || p.y < 0 || p.y >= height {
			continue
		}
		if visited[p.y][p.x] || !mask[p.y][p.x] {
			continue
		}
		visited[p.y][p.x] = true

		c.size++
		if p.x < c.minX {
			c.minX = p.x
		}
		if p.x > c.maxX {
			c.maxX = p.x
		}
		if p.y < c.minY {
			c.minY = p.y
		}
		if p.y > c.maxY {
			c.maxY = p.y
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, point{p.x + dx, p.y + dy})
			}
		}
	}
	return c
}
