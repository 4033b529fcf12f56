package iiif

import (
	"image"
	"image/color"
	"testing"
)

func TestOutputSizes(t *testing.T) {
	var tests = []struct {
		request string
		width   int
		height  int
	}{
		{"lena.jpg/full/max/0/default.png", 1084, 2318},
		{"lena.jpg/full/max/0/default.jpeg", 1084, 2318},
		{"lena.jpg/full/max/0/default.webp", 1084, 2318},
		{"lena.jpg/full/max/90/default.png", 2318, 1084},
		{"lena.jpg/full/max/!90/default.png", 2318, 1084},
		{"lena.jpg/full/max/180/default.png", 1084, 2318},
		{"lena.jpg/full/max/!270/default.png", 2318, 1084},
		{"lena.jpg/full/400,300/0/default.png", 400, 300},
		{"lena.jpg/full/!400,300/0/default.png", 140, 300},
		{"lena.jpg/full/pct:50/0/default.png", 542, 1159},
		{"lena.jpg/square/max/0/default.png", 1084, 1084},
		{"lena.jpg/square/500,500/0/default.png", 500, 500},
		{"lena.jpg/square/500,/0/default.png", 500, 500},
		{"lena.jpg/square/,500/0/default.png", 500, 500},
		{"lena.jpg/84,318,1000,2000/max/0/default.png", 1000, 2000},
		{"lena.jpg/84,318,1000,2000/500,1000/0/default.png", 500, 1000},
		{"lena.jpg/84,318,1000,2000/500,/0/default.png", 500, 1000},
		{"lena.jpg/84,318,1000,2000/,1000/0/default.png", 500, 1000},
		{"lena.jpg/pct:10,10,80,80/max/0/default.png", 867, 1854},
		{"lena.jpg/0,0,1084,2318/256,/0/default.png", 256, 547},
		{"lena.jpg/0,0,1084,2318/512,/0/default.png", 512, 1095},
		{"lena.jpg/542,1159,542,1159/512,/0/default.png", 512, 1095},
		{"lena.jpg/84,313,1000,2000/pct:50/0/default.png", 500, 1000},
	}

	for _, test := range tests {
		req, err := ParseRequest(test.request)
		if err != nil {
			t.Errorf("%v: unexpected error %v", test.request, err)
			continue
		}

		tr, err := NewTransformation(req, 1084, 2318, Options{})
		if err != nil {
			t.Errorf("%v: unexpected error %v", test.request, err)
			continue
		}

		if w, h := tr.OutputSize(); w != test.width || h != test.height {
			t.Errorf("sizes do not match for %v: got %vx%v want %vx%v", test.request, w, h, test.width, test.height)
		}
	}
}

func TestOutputMaxSizes(t *testing.T) {
	var tests = []struct {
		request string
		width   int
		height  int
	}{
		{"lena.jpg/full/max/0/default.png", 140, 300},
		{"lena.jpg/full/max/90/default.png", 300, 140},
		{"lena.jpg/square/max/0/default.png", 300, 300},
		{"lena.jpg/full/140,/0/default.png", 140, 299},
	}

	opts := Options{Limits: Limits{MaxWidth: 300, MaxHeight: 300}}
	for _, test := range tests {
		req, err := ParseRequest(test.request)
		if err != nil {
			t.Errorf("%v: unexpected error %v", test.request, err)
			continue
		}

		tr, err := NewTransformation(req, 1084, 2318, opts)
		if err != nil {
			t.Errorf("%v: unexpected error %v", test.request, err)
			continue
		}

		if w, h := tr.OutputSize(); w != test.width || h != test.height {
			t.Errorf("sizes do not match for %v: got %vx%v want %vx%v", test.request, w, h, test.width, test.height)
		}
	}
}

func TestFailing(t *testing.T) {
	var tests = []struct {
		request string
		kind    Kind
	}{
		{"lena.jpg/1084,0,10,10/max/0/default.png", InvalidRegion},
		{"lena.jpg/full/2000,/0/default.png", UpscaleNotAllowed},
		{"lena.jpg/full/pct:101/0/default.png", UpscaleNotAllowed},
		{"lena.jpg/full/400,/0/default.png", InvalidSize},
	}

	opts := Options{Limits: Limits{MaxWidth: 300, MaxHeight: 300}}
	for _, test := range tests {
		req, err := ParseRequest(test.request)
		if err != nil {
			t.Errorf("%v: unexpected error %v", test.request, err)
			continue
		}

		_, err = NewTransformation(req, 1084, 2318, opts)
		if kind, ok := KindOf(err); !ok || kind != test.kind {
			t.Errorf("%v: got %v want %v", test.request, err, test.kind)
		}
	}
}

func TestBackground(t *testing.T) {
	fill := color.NRGBA{0x12, 0x34, 0x56, 0xff}

	var tests = []struct {
		request string
		fill    color.Color
		want    color.Color
	}{
		{"a/full/max/45/default.png", nil, Transparent},
		{"a/full/max/45/color.webp", fill, Transparent},
		{"a/full/max/45/default.jpg", nil, White},
		{"a/full/max/45/default.jpg", fill, fill},
		{"a/full/max/45/gray.png", nil, White},
		{"a/full/max/45/bitonal.tif", fill, fill},
	}

	for _, test := range tests {
		req, err := ParseRequest(test.request)
		if err != nil {
			t.Errorf("%v: unexpected error %v", test.request, err)
			continue
		}

		tr, err := NewTransformation(req, 100, 100, Options{Fill: test.fill})
		if err != nil {
			t.Errorf("%v: unexpected error %v", test.request, err)
			continue
		}

		if tr.Rotation.Background != test.want {
			t.Errorf("%v: got %v want %v", test.request, tr.Rotation.Background, test.want)
		}
	}
}

func TestApply(t *testing.T) {
	var tests = []struct {
		request string
		width   int
		height  int
	}{
		{"a/full/max/0/default.png", 80, 60},
		{"a/square/max/0/default.png", 60, 60},
		{"a/10,10,20,30/max/90/default.png", 30, 20},
		{"a/full/40,/!180/default.png", 40, 30},
		{"a/full/pct:50/270/gray.png", 30, 40},
		{"a/pct:50,50,50,50/^80,/0/bitonal.png", 80, 60},
	}

	src := gradient(80, 60)
	for _, test := range tests {
		req, err := ParseRequest(test.request)
		if err != nil {
			t.Errorf("%v: unexpected error %v", test.request, err)
			continue
		}

		tr, err := NewTransformation(req, 80, 60, Options{})
		if err != nil {
			t.Errorf("%v: unexpected error %v", test.request, err)
			continue
		}

		b := tr.Apply(src).Bounds()
		if b.Dx() != test.width || b.Dy() != test.height {
			t.Errorf("%v: got %vx%v want %vx%v", test.request, b.Dx(), b.Dy(), test.width, test.height)
		}
		if w, h := tr.OutputSize(); w != b.Dx() || h != b.Dy() {
			t.Errorf("%v: planned %vx%v got %vx%v", test.request, w, h, b.Dx(), b.Dy())
		}
	}
}

func TestApplyCrop(t *testing.T) {
	src := gradient(80, 60)
	// Decoded images do not always start at the origin.
	shifted := src.SubImage(image.Rect(10, 5, 80, 60))

	req, err := ParseRequest("a/5,5,10,10/max/0/default.png")
	if err != nil {
		t.Fatal(err)
	}
	tr, err := NewTransformation(req, 70, 55, Options{})
	if err != nil {
		t.Fatal(err)
	}

	img := tr.Apply(shifted)
	got := color.NRGBAModel.Convert(img.At(img.Bounds().Min.X, img.Bounds().Min.Y))
	if want := src.NRGBAAt(15, 10); got != want {
		t.Errorf("top left pixel: got %v want %v", got, want)
	}
}

func TestApplyMirror(t *testing.T) {
	src := gradient(80, 60)

	req, err := ParseRequest("a/full/max/!0/default.png")
	if err != nil {
		t.Fatal(err)
	}
	tr, err := NewTransformation(req, 80, 60, Options{})
	if err != nil {
		t.Fatal(err)
	}

	img := tr.Apply(src)
	got := color.NRGBAModel.Convert(img.At(0, 0))
	if want := src.NRGBAAt(79, 0); got != want {
		t.Errorf("mirrored top left pixel: got %v want %v", got, want)
	}
}

func TestApplyRotateClockwise(t *testing.T) {
	src := gradient(80, 60)

	req, err := ParseRequest("a/full/max/90/default.png")
	if err != nil {
		t.Fatal(err)
	}
	tr, err := NewTransformation(req, 80, 60, Options{})
	if err != nil {
		t.Fatal(err)
	}

	// Clockwise, the bottom left corner goes to the top left.
	img := tr.Apply(src)
	got := color.NRGBAModel.Convert(img.At(0, 0))
	if want := src.NRGBAAt(0, 59); got != want {
		t.Errorf("rotated top left pixel: got %v want %v", got, want)
	}
}

func TestApplyArbitraryRotation(t *testing.T) {
	var tests = []struct {
		request string
		corner  color.NRGBA
	}{
		{"a/full/max/45/default.png", Transparent},
		{"a/full/max/45/default.jpg", White},
	}

	src := gradient(100, 100)
	for _, test := range tests {
		req, err := ParseRequest(test.request)
		if err != nil {
			t.Errorf("%v: unexpected error %v", test.request, err)
			continue
		}
		tr, err := NewTransformation(req, 100, 100, Options{})
		if err != nil {
			t.Errorf("%v: unexpected error %v", test.request, err)
			continue
		}

		img := tr.Apply(src)
		b := img.Bounds()
		if b.Dx() < 141 || b.Dy() < 141 {
			t.Errorf("%v: got %vx%v want at least 141x141", test.request, b.Dx(), b.Dy())
		}

		for _, p := range []image.Point{b.Min, {b.Max.X - 1, b.Min.Y}, {b.Min.X, b.Max.Y - 1}, {b.Max.X - 1, b.Max.Y - 1}} {
			if got := color.NRGBAModel.Convert(img.At(p.X, p.Y)); got != test.corner {
				t.Errorf("%v: corner %v got %v want %v", test.request, p, got, test.corner)
			}
		}
	}
}

func TestParseFill(t *testing.T) {
	c, err := ParseFill("#123456")
	if err != nil {
		t.Fatal(err)
	}
	if want := (color.NRGBA{0x12, 0x34, 0x56, 0xff}); c != want {
		t.Errorf("got %v want %v", c, want)
	}

	if _, err := ParseFill("blue"); err == nil {
		t.Errorf("blue is not a hex color")
	}
}
