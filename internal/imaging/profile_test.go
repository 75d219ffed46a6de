package imaging

import (
	"image/color"
	"math"
	"reflect"
	"testing"
)

func TestColumnProfile(t *testing.T) {
	img := newTestImage(10, 8, color.White)
	paintRect(img, 3, 0, 5, 8, color.Black) // two full-height ink columns
	paintRect(img, 7, 2, 8, 6, color.Black) // one half-height ink column

	p := ColumnProfile(img, FullRegion(img), DarkerThan(128))
	want := Profile{0, 0, 0, 8, 8, 0, 0, 4, 0, 0}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("profile: got %v, want %v", p, want)
	}
}

func TestRowProfile(t *testing.T) {
	img := newTestImage(6, 5, color.White)
	paintRect(img, 0, 1, 6, 2, color.Black)
	paintRect(img, 2, 3, 5, 4, color.Black)

	p := RowProfile(img, FullRegion(img), DarkerThan(128))
	want := Profile{0, 6, 0, 3, 0}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("profile: got %v, want %v", p, want)
	}
}

func TestColumnProfile_SubRegion(t *testing.T) {
	img := newTestImage(10, 10, color.Black)
	paintRect(img, 4, 4, 6, 8, color.White)

	p := ColumnProfile(img, Region{X: 4, Y: 4, Width: 4, Height: 4}, DarkerThan(128))
	want := Profile{0, 0, 4, 4}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("profile: got %v, want %v", p, want)
	}
}

func TestProfileSmooth(t *testing.T) {
	p := Profile{0, 0, 6, 0, 0}

	got := p.Smooth(3)
	want := Profile{0, 2, 2, 2, 0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("sample %d: got %f, want %f", i, got[i], want[i])
		}
	}
}

func TestProfileSmooth_WindowFloor(t *testing.T) {
	p := Profile{0, 0, 6, 0, 0}

	// Windows below 3 are raised to 3, so this matches Smooth(3).
	got := p.Smooth(1)
	if math.Abs(got[1]-2) > 1e-9 {
		t.Errorf("sample 1: got %f, want 2", got[1])
	}
}

func TestProfileSmooth_PreservesFlat(t *testing.T) {
	p := Profile{5, 5, 5, 5, 5, 5}
	got := p.Smooth(5)
	for i, v := range got {
		if v != 5 {
			t.Errorf("sample %d: got %f, want 5", i, v)
		}
	}
}

func TestProfileSmooth_Empty(t *testing.T) {
	if got := (Profile{}).Smooth(3); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestDefaultWindow(t *testing.T) {
	cases := []struct {
		length, want int
	}{
		{0, 3},
		{100, 3},
		{500, 5},
		{2000, 20},
	}
	for _, c := range cases {
		if got := DefaultWindow(c.length); got != c.want {
			t.Errorf("DefaultWindow(%d): got %d, want %d", c.length, got, c.want)
		}
	}
}

func TestProfileMaxAvg(t *testing.T) {
	p := Profile{1, 4, 2, 5}
	if got := p.Max(); got != 5 {
		t.Errorf("Max: got %f, want 5", got)
	}
	if got := p.Avg(); got != 3 {
		t.Errorf("Avg: got %f, want 3", got)
	}
	if got := (Profile{}).Max(); got != 0 {
		t.Errorf("empty Max: got %f, want 0", got)
	}
	if got := (Profile{}).Avg(); got != 0 {
		t.Errorf("empty Avg: got %f, want 0", got)
	}
}

func TestInkRules(t *testing.T) {
	dark := DarkerThan(100)
	if !dark(50) || dark(100) || dark(200) {
		t.Error("DarkerThan(100) misclassifies")
	}
	light := LighterThan(100)
	if light(50) || light(100) || !light(200) {
		t.Error("LighterThan(100) misclassifies")
	}
}
