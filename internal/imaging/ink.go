package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/lucasb-eyer/go-colorful"
)

// GrayAt converts the pixel at (x, y) to grayscale using ITU-R BT.601
// luminance weights. Formula: Y = 0.299*R + 0.587*G + 0.114*B
func GrayAt(img image.Image, x, y int) uint8 {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(float64(r>>8)*0.299 + float64(g>>8)*0.587 + float64(b>>8)*0.114)
}

// InkMaskOptions controls binary ink mask construction.
type InkMaskOptions struct {
	// Threshold is the grayscale cut: pixels at or below it count as ink.
	Threshold uint8

	// SuppressRuling drops pixels whose color looks like a printed ruling
	// grid (light, saturated print) rather than pen or pencil ink.
	SuppressRuling bool
}

// InkMask builds a binary ink indicator for a region of the image.
//
// The image is grayscaled and thresholded (via bild) so that dark pixels
// become true. With SuppressRuling set, pixels classified as printed
// ruling color are cleared even when dark enough, so a scoresheet's
// pre-printed grid does not register as handwriting.
//
// The returned mask is indexed mask[y][x] with region-relative coordinates.
func InkMask(img image.Image, region Region, opts InkMaskOptions) [][]bool {
	region = region.Clamp(img)
	mask := make([][]bool, region.Height)
	if region.Empty() {
		return mask
	}

	gray := effect.Grayscale(img)
	bin := segment.Threshold(gray, opts.Threshold)
	b := bin.Bounds()

	for y := 0; y < region.Height; y++ {
		mask[y] = make([]bool, region.Width)
		for x := 0; x < region.Width; x++ {
			px, py := region.X+x, region.Y+y
			if px < b.Min.X || px >= b.Max.X || py < b.Min.Y || py >= b.Max.Y {
				continue
			}
			// Threshold maps pixels at or below the level to black.
			if bin.GrayAt(px, py).Y != 0 {
				continue
			}
			if opts.SuppressRuling && IsRulingColor(img.At(px, py)) {
				continue
			}
			mask[y][x] = true
		}
	}
	return mask
}

// IsRulingColor reports whether a pixel color looks like a scoresheet's
// printed ruling rather than pen ink. Ruling grids are typically printed
// in a light but saturated color (pale blue, green, or red); pen and
// pencil ink sit much darker and less saturated once scanned.
func IsRulingColor(c color.Color) bool {
	col, ok := colorful.MakeColor(c)
	if !ok {
		return false
	}
	_, s, l := col.Hsl()
	return l > 0.45 && s > 0.3
}

// Dilate3x3 performs one pass of binary 3x3 dilation: every ink pixel
// marks its 8 neighbors as ink. Used to bridge small gaps between glyphs
// and ruling lines before connected-component analysis. The input mask is
// not modified.
func Dilate3x3(mask [][]bool) [][]bool {
	height := len(mask)
	if height == 0 {
		return [][]bool{}
	}
	width := len(mask[0])

	out := make([][]bool, height)
	for y := range out {
		out[y] = make([]bool, width)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !mask[y][x] {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					ny, nx := y+dy, x+dx
					if ny >= 0 && ny < height && nx >= 0 && nx < width {
						out[ny][nx] = true
					}
				}
			}
		}
	}
	return out
}
