package imaging

import (
	"image/color"
	"testing"
)

func TestGrayAt(t *testing.T) {
	img := newTestImage(3, 1, color.White)
	img.Set(1, 0, color.Black)
	img.Set(2, 0, color.RGBA{R: 255, A: 255})

	if got := GrayAt(img, 0, 0); got < 250 {
		t.Errorf("white: got %d, want ~255", got)
	}
	if got := GrayAt(img, 1, 0); got != 0 {
		t.Errorf("black: got %d, want 0", got)
	}
	// Pure red: 0.299 * 255 ~ 76.
	if got := GrayAt(img, 2, 0); got < 74 || got > 78 {
		t.Errorf("red: got %d, want ~76", got)
	}
}

func TestInkMask(t *testing.T) {
	img := newTestImage(10, 10, color.White)
	paintRect(img, 2, 3, 8, 7, color.Black)

	mask := InkMask(img, FullRegion(img), InkMaskOptions{Threshold: 128})

	if len(mask) != 10 || len(mask[0]) != 10 {
		t.Fatalf("mask dimensions: got %dx%d, want 10x10", len(mask[0]), len(mask))
	}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			wantInk := x >= 2 && x < 8 && y >= 3 && y < 7
			if mask[y][x] != wantInk {
				t.Errorf("mask[%d][%d]: got %v, want %v", y, x, mask[y][x], wantInk)
			}
		}
	}
}

func TestInkMask_SuppressRuling(t *testing.T) {
	// Pale saturated blue, like a printed ruling grid. Dark enough to pass
	// a high threshold but cleared by the ruling filter.
	ruling := color.RGBA{R: 120, G: 140, B: 230, A: 255}
	img := newTestImage(4, 4, color.White)
	img.Set(1, 1, ruling)
	img.Set(2, 2, color.Black)

	mask := InkMask(img, FullRegion(img), InkMaskOptions{Threshold: 180, SuppressRuling: true})
	if mask[1][1] {
		t.Error("ruling-colored pixel counted as ink")
	}
	if !mask[2][2] {
		t.Error("black pixel not counted as ink")
	}
}

func TestInkMask_EmptyRegion(t *testing.T) {
	img := newTestImage(4, 4, color.White)
	mask := InkMask(img, Region{X: 10, Y: 10, Width: 5, Height: 5}, InkMaskOptions{Threshold: 128})
	if len(mask) != 0 {
		t.Errorf("got %d rows, want 0", len(mask))
	}
}

func TestIsRulingColor(t *testing.T) {
	cases := []struct {
		name string
		c    color.Color
		want bool
	}{
		{"pale blue print", color.RGBA{R: 150, G: 150, B: 230, A: 255}, true},
		{"dark blue ink", color.RGBA{R: 20, G: 20, B: 80, A: 255}, false},
		{"pencil gray", color.RGBA{R: 120, G: 120, B: 120, A: 255}, false},
		{"black", color.RGBA{A: 255}, false},
	}
	for _, c := range cases {
		if got := IsRulingColor(c.c); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestDilate3x3(t *testing.T) {
	mask := make([][]bool, 5)
	for y := range mask {
		mask[y] = make([]bool, 5)
	}
	mask[2][2] = true

	out := Dilate3x3(mask)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			want := x >= 1 && x <= 3 && y >= 1 && y <= 3
			if out[y][x] != want {
				t.Errorf("out[%d][%d]: got %v, want %v", y, x, out[y][x], want)
			}
		}
	}
	if mask[1][1] {
		t.Error("input mask was modified")
	}
}

func TestDilate3x3_CornerClipped(t *testing.T) {
	mask := [][]bool{
		{true, false},
		{false, false},
	}
	out := Dilate3x3(mask)
	for _, want := range []struct{ y, x int }{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		if !out[want.y][want.x] {
			t.Errorf("out[%d][%d] not set", want.y, want.x)
		}
	}
}

func TestDilate3x3_Empty(t *testing.T) {
	if out := Dilate3x3(nil); len(out) != 0 {
		t.Errorf("got %d rows, want 0", len(out))
	}
}
