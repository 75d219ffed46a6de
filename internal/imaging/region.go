package imaging

import (
	"fmt"
	"image"
)

// Region is a rectangle in image coordinates, used for the whole sheet,
// the located notation table, or a single move column.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FullRegion returns a region covering an entire image.
func FullRegion(img image.Image) Region {
	b := img.Bounds()
	return Region{X: b.Min.X, Y: b.Min.Y, Width: b.Dx(), Height: b.Dy()}
}

// Empty reports whether the region has no area.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Right returns the exclusive right edge (X + Width).
func (r Region) Right() int {
	return r.X + r.Width
}

// Bottom returns the exclusive bottom edge (Y + Height).
func (r Region) Bottom() int {
	return r.Y + r.Height
}

// Rect converts the region to a standard image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Clamp clips the region to the bounds of img. A region entirely outside
// the image clamps to an empty region.
func (r Region) Clamp(img image.Image) Region {
	b := img.Bounds()
	clipped := r.Rect().Intersect(b)
	return Region{X: clipped.Min.X, Y: clipped.Min.Y, Width: clipped.Dx(), Height: clipped.Dy()}
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}
