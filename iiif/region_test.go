package iiif

import (
	"testing"
)

func TestParseRegion(t *testing.T) {
	var tests = []struct {
		region string
		want   Region
	}{
		{"full", Region{Kind: RegionFull}},
		{"square", Region{Kind: RegionSquare}},
		{"10,20,30,40", Region{RegionPixel, 10, 20, 30, 40}},
		{"pct:10,20.5,30,40", Region{RegionPercent, 10, 20.5, 30, 40}},
		{"0,0,0,0", Region{RegionPixel, 0, 0, 0, 0}},
	}

	for _, test := range tests {
		r, err := ParseRegion(test.region)
		if err != nil {
			t.Errorf("%v: unexpected error %v", test.region, err)
			continue
		}
		if r != test.want {
			t.Errorf("%v: got %#v want %#v", test.region, r, test.want)
		}
	}
}

func TestParseRegionErrors(t *testing.T) {
	var tests = []string{
		"",
		"1,2,3",
		"1,2,3,4,5",
		"a,b,c,d",
		"1.5,0,1,1",
		"-1,0,1,1",
		"pct:",
		"pct:1,2,3",
		"pct:-1,0,1,1",
		"pct:1,2,3,inf",
		"99999999999,0,1,1",
	}

	for _, region := range tests {
		_, err := ParseRegion(region)
		if kind, _ := KindOf(err); err == nil || kind != InvalidRegion {
			t.Errorf("%#v: got %v want an InvalidRegion", region, err)
		}
	}
}

func TestRegionResolve(t *testing.T) {
	var tests = []struct {
		region string
		width  int
		height int
		want   RegionInstruction
	}{
		{"full", 800, 600, RegionInstruction{0, 0, 800, 600}},
		{"square", 800, 600, RegionInstruction{100, 0, 600, 600}},
		{"square", 600, 800, RegionInstruction{0, 100, 600, 600}},
		{"square", 601, 600, RegionInstruction{0, 0, 600, 600}},
		{"square", 100, 100, RegionInstruction{0, 0, 100, 100}},
		{"0,0,800,600", 800, 600, RegionInstruction{0, 0, 800, 600}},
		{"10,20,30,40", 800, 600, RegionInstruction{10, 20, 30, 40}},
		{"700,500,200,200", 800, 600, RegionInstruction{700, 500, 100, 100}},
		{"0,0,10000,10000", 800, 600, RegionInstruction{0, 0, 800, 600}},
		{"pct:0,0,100,100", 800, 600, RegionInstruction{0, 0, 800, 600}},
		{"pct:50,50,100,100", 800, 600, RegionInstruction{400, 300, 400, 300}},
		{"pct:10,10,80,80", 1084, 2318, RegionInstruction{108, 232, 867, 1854}},
		{"pct:0,0,200,200", 800, 600, RegionInstruction{0, 0, 800, 600}},
		{"pct:33.3,0,33.4,100", 3, 1, RegionInstruction{1, 0, 1, 1}},
	}

	for _, test := range tests {
		r, err := ParseRegion(test.region)
		if err != nil {
			t.Errorf("%v: unexpected error %v", test.region, err)
			continue
		}
		ri, err := r.Resolve(test.width, test.height)
		if err != nil {
			t.Errorf("%v on %vx%v: unexpected error %v", test.region, test.width, test.height, err)
			continue
		}
		if ri != test.want {
			t.Errorf("%v on %vx%v: got %v want %v", test.region, test.width, test.height, ri, test.want)
		}
	}
}

func TestRegionResolveErrors(t *testing.T) {
	var tests = []struct {
		region string
		width  int
		height int
	}{
		{"800,0,10,10", 800, 600},
		{"0,600,10,10", 800, 600},
		{"1000,1000,10,10", 800, 600},
		{"10,10,0,10", 800, 600},
		{"10,10,10,0", 800, 600},
		{"pct:100,0,10,10", 800, 600},
		{"pct:0,0,0,10", 800, 600},
		{"pct:0,0,0.01,100", 800, 600},
	}

	for _, test := range tests {
		r, err := ParseRegion(test.region)
		if err != nil {
			t.Errorf("%v: unexpected error %v", test.region, err)
			continue
		}
		_, err = r.Resolve(test.width, test.height)
		kind, _ := KindOf(err)
		if err == nil || kind != InvalidRegion {
			t.Errorf("%v on %vx%v: got %v want an InvalidRegion", test.region, test.width, test.height, err)
			continue
		}
		if e := err.(*Error); e.Phase != PhaseResolve {
			t.Errorf("%v: got phase %v want %v", test.region, e.Phase, PhaseResolve)
		}
	}
}

// Any region within the image is kept as is.
func TestRegionWithinImage(t *testing.T) {
	width, height := 37, 23
	for x := 0; x < width; x += 3 {
		for y := 0; y < height; y += 2 {
			for w := 1; x+w <= width; w += 5 {
				for h := 1; y+h <= height; h += 4 {
					r := Region{RegionPixel, float64(x), float64(y), float64(w), float64(h)}
					ri, err := r.Resolve(width, height)
					if err != nil {
						t.Fatalf("%v: unexpected error %v", r, err)
					}
					if want := (RegionInstruction{x, y, w, h}); ri != want {
						t.Fatalf("%v: got %v want %v", r, ri, want)
					}
				}
			}
		}
	}
}

// Percentages land within a pixel of the exact value.
func TestRegionPercentPrecision(t *testing.T) {
	var tests = []struct {
		x, y, w, h float64
	}{
		{0, 0, 50, 50},
		{12.5, 33.3, 25, 50},
		{66.6, 10, 33.4, 90},
		{1, 1, 1, 1},
	}

	width, height := 1000, 777
	for _, test := range tests {
		r := Region{RegionPercent, test.x, test.y, test.w, test.h}
		ri, err := r.Resolve(width, height)
		if err != nil {
			t.Errorf("%v: unexpected error %v", r, err)
			continue
		}

		exact := []float64{
			test.x * float64(width) / 100,
			test.y * float64(height) / 100,
			test.w * float64(width) / 100,
			test.h * float64(height) / 100,
		}
		got := []int{ri.X, ri.Y, ri.Width, ri.Height}
		for i := range exact {
			if d := float64(got[i]) - exact[i]; d > 1 || d < -1 {
				t.Errorf("%v: got %v want about %v", r, got, exact)
				break
			}
		}
	}
}
