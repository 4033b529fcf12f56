package iiif

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var regionError = "IIIF 3.0 `region` argument is not recognized: %#v"
var regionOutside = "IIIF 3.0 `region` %v lies outside of the %vx%v image"
var regionEmpty = "IIIF 3.0 `region` %v has no area on the %vx%v image"

// RegionKind tells which form of the region grammar was used.
type RegionKind int

// Region forms.
const (
	RegionFull RegionKind = iota
	RegionSquare
	RegionPixel
	RegionPercent
)

// Region is the parsed region parameter.
//
// X, Y, W and H are only meaningful for RegionPixel (integers) and
// RegionPercent (0 to 100).
type Region struct {
	Kind       RegionKind
	X, Y, W, H float64
}

// RegionInstruction is a crop rectangle in source pixels.
type RegionInstruction struct {
	X      int
	Y      int
	Width  int
	Height int
}

// ParseRegion reads the region parameter.
//
//	full
//	square
//	x,y,w,h (in pixels)
//	pct:x,y,w,h (in percents)
func ParseRegion(region string) (Region, error) {
	switch {
	case region == "full":
		return Region{Kind: RegionFull}, nil
	case region == "square":
		return Region{Kind: RegionSquare}, nil
	case strings.HasPrefix(region, "pct:"):
		values, err := parseCoordinates(region[4:], func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		})
		if err != nil {
			return Region{}, newError(InvalidRegion, PhaseParse, regionError, region)
		}
		return Region{RegionPercent, values[0], values[1], values[2], values[3]}, nil
	case strings.Contains(region, ","):
		values, err := parseCoordinates(region, func(s string) (float64, error) {
			n, err := strconv.ParseInt(s, 10, 32)
			return float64(n), err
		})
		if err != nil {
			return Region{}, newError(InvalidRegion, PhaseParse, regionError, region)
		}
		return Region{RegionPixel, values[0], values[1], values[2], values[3]}, nil
	}

	return Region{}, newError(InvalidRegion, PhaseParse, regionError, region)
}

func parseCoordinates(s string, parse func(string) (float64, error)) ([4]float64, error) {
	var values [4]float64

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return values, fmt.Errorf("expected 4 values, got %d", len(parts))
	}

	for i, part := range parts {
		v, err := parse(part)
		if err != nil {
			return values, err
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return values, fmt.Errorf("%q is not a positive number", part)
		}
		values[i] = v
	}

	return values, nil
}

// Resolve computes the crop rectangle on a width x height source.
func (r Region) Resolve(width, height int) (RegionInstruction, error) {
	switch r.Kind {
	case RegionFull:
		return RegionInstruction{0, 0, width, height}, nil

	case RegionSquare:
		side := width
		if height < side {
			side = height
		}
		return RegionInstruction{
			X:      (width - side) / 2,
			Y:      (height - side) / 2,
			Width:  side,
			Height: side,
		}, nil

	case RegionPercent:
		return r.clip(
			percentToPixels(r.X, width),
			percentToPixels(r.Y, height),
			percentToPixels(r.W, width),
			percentToPixels(r.H, height),
			width, height,
		)
	}

	return r.clip(int(r.X), int(r.Y), int(r.W), int(r.H), width, height)
}

// clip keeps the rectangle inside the image, a rectangle starting outside of
// it or ending up empty is rejected.
func (r Region) clip(x, y, w, h, width, height int) (RegionInstruction, error) {
	if x >= width || y >= height {
		return RegionInstruction{}, newError(InvalidRegion, PhaseResolve, regionOutside, r.String(), width, height)
	}

	if w > width-x {
		w = width - x
	}
	if h > height-y {
		h = height - y
	}

	if w <= 0 || h <= 0 {
		return RegionInstruction{}, newError(InvalidRegion, PhaseResolve, regionEmpty, r.String(), width, height)
	}

	debug("Crop area: %v; %v (%v x %v)", x, y, w, h)
	return RegionInstruction{x, y, w, h}, nil
}

func (r Region) String() string {
	switch r.Kind {
	case RegionFull:
		return "full"
	case RegionSquare:
		return "square"
	case RegionPercent:
		return "pct:" + formatFloat(r.X) + "," + formatFloat(r.Y) + "," + formatFloat(r.W) + "," + formatFloat(r.H)
	}
	return fmt.Sprintf("%d,%d,%d,%d", int(r.X), int(r.Y), int(r.W), int(r.H))
}

// percentToPixels converts a percentage of dim into pixels. Anything above
// 100% is clipped afterwards anyway.
func percentToPixels(pct float64, dim int) int {
	if pct > 100 {
		pct = 100
	}
	return int(math.Round(pct / 100 * float64(dim)))
}

// IsFull tells whether the instruction covers the whole width x height image.
func (ri RegionInstruction) IsFull(width, height int) bool {
	return ri.X == 0 && ri.Y == 0 && ri.Width == width && ri.Height == height
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
