package imaging

import (
	"image"
)

// InkRule decides whether an 8-bit grayscale value counts as ink.
// Different callers pass different rules: table-edge detection wants a
// permissive dark-pixel rule, column detection a fixed mid-gray cut.
type InkRule func(gray uint8) bool

// DarkerThan returns a rule that counts pixels strictly darker than t as ink.
// This is the usual rule for pen or pencil on a light scoresheet.
func DarkerThan(t uint8) InkRule {
	return func(gray uint8) bool { return gray < t }
}

// LighterThan returns the inverse rule, for light marks on a dark background.
func LighterThan(t uint8) InkRule {
	return func(gray uint8) bool { return gray > t }
}

// Profile is a 1-D projection of ink density along one image axis.
// Sample i holds the number of ink pixels in column (or row) i of the
// profiled region. Profiles are value objects: builders and Smooth always
// return fresh slices.
type Profile []float64

// ColumnProfile sums ink pixels down each column of the region, producing
// one sample per x position. The region must be clamped to the image.
func ColumnProfile(img image.Image, region Region, rule InkRule) Profile {
	p := make(Profile, region.Width)
	for x := 0; x < region.Width; x++ {
		var count float64
		for y := 0; y < region.Height; y++ {
			if rule(GrayAt(img, region.X+x, region.Y+y)) {
				count++
			}
		}
		p[x] = count
	}
	return p
}

// RowProfile sums ink pixels across each row of the region, producing one
// sample per y position.
func RowProfile(img image.Image, region Region, rule InkRule) Profile {
	p := make(Profile, region.Height)
	for y := 0; y < region.Height; y++ {
		var count float64
		for x := 0; x < region.Width; x++ {
			if rule(GrayAt(img, region.X+x, region.Y+y)) {
				count++
			}
		}
		p[y] = count
	}
	return p
}

// Smooth returns a new profile where each sample is the mean of a centered
// window of the given size. Windows are clamped at the array edges, so edge
// samples average over an asymmetric (smaller) window. A window below 3 is
// raised to 3; a window of DefaultWindow(len) is typical.
func (p Profile) Smooth(window int) Profile {
	n := len(p)
	if n == 0 {
		return Profile{}
	}
	if window < 3 {
		window = 3
	}
	half := window / 2

	out := make(Profile, n)
	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > n-1 {
			hi = n - 1
		}
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += p[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

// DefaultWindow is the smoothing window used when the caller has no better
// idea: one percent of the profile length, floor 3.
func DefaultWindow(length int) int {
	w := length / 100
	if w < 3 {
		w = 3
	}
	return w
}

// Max returns the largest sample, or 0 for an empty profile.
func (p Profile) Max() float64 {
	var max float64
	for _, v := range p {
		if v > max {
			max = v
		}
	}
	return max
}

// Avg returns the mean sample, or 0 for an empty profile.
func (p Profile) Avg() float64 {
	if len(p) == 0 {
		return 0
	}
	var sum float64
	for _, v := range p {
		sum += v
	}
	return sum / float64(len(p))
}
