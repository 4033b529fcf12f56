package iiif

import (
	"image/color"
	"math"
	"strconv"
	"strings"
)

var rotationError = "IIIF 3.0 `rotation` argument is not recognized: %#v"

// Rotation is the parsed rotation parameter: a clockwise angle in degrees,
// kept as requested, and whether the image is mirrored beforehand.
type Rotation struct {
	Angle  float64
	Mirror bool
}

// RotationInstruction is the resolved rotation.
//
// Width and Height are the dimensions of the output canvas. Background is
// only set for arbitrary angles, where the corners have to be filled.
type RotationInstruction struct {
	Flip       bool
	Angle      float64
	Arbitrary  bool
	Width      int
	Height     int
	Background color.Color
}

// ParseRotation reads the rotation parameter.
//
//	n angle clockwise in degrees
//	!n angle clockwise in degrees with a flip (beforehand)
func ParseRotation(rotation string) (Rotation, error) {
	mirror := strings.HasPrefix(rotation, "!")
	angle, err := strconv.ParseFloat(strings.TrimPrefix(rotation, "!"), 64)
	if err != nil || math.IsNaN(angle) || math.IsInf(angle, 0) {
		return Rotation{}, newError(InvalidRotation, PhaseParse, rotationError, rotation)
	}

	return Rotation{
		Angle:  angle,
		Mirror: mirror,
	}, nil
}

// Normalized returns the angle within [0, 360).
func (r Rotation) Normalized() float64 {
	a := math.Mod(r.Angle, 360)
	if a < 0 {
		a += 360
	}
	// -0 and 360 - tiny both end up here.
	if a == 0 || a >= 360 {
		return 0
	}
	return a
}

// IsAxisAligned tells whether the rotation is a multiple of 90 degrees.
func (r Rotation) IsAxisAligned() bool {
	switch r.Normalized() {
	case 0, 90, 180, 270:
		return true
	}
	return false
}

// Resolve computes the canvas of a width x height image once rotated.
// background fills the corners uncovered by an arbitrary rotation.
func (r Rotation) Resolve(width, height int, background color.Color) RotationInstruction {
	angle := r.Normalized()
	ri := RotationInstruction{
		Flip:   r.Mirror,
		Angle:  angle,
		Width:  width,
		Height: height,
	}

	if r.IsAxisAligned() {
		if angle == 90 || angle == 270 {
			ri.Width, ri.Height = height, width
		}
		return ri
	}

	sin, cos := math.Sincos(angle * math.Pi / 180)
	sin, cos = math.Abs(sin), math.Abs(cos)

	ri.Arbitrary = true
	ri.Width = ceilDimension(float64(width)*cos + float64(height)*sin)
	ri.Height = ceilDimension(float64(width)*sin + float64(height)*cos)
	ri.Background = background

	debug("Rotation %v: %v x %v -> %v x %v", angle, width, height, ri.Width, ri.Height)
	return ri
}

func (r Rotation) String() string {
	if r.Mirror {
		return "!" + formatFloat(r.Angle)
	}
	return formatFloat(r.Angle)
}

// ceilDimension rounds up, ignoring the floating point noise of sin and cos
// so that an exact integer is not pushed to the next pixel.
func ceilDimension(v float64) int {
	n := int(math.Ceil(v - 1e-9))
	if n < 1 {
		return 1
	}
	return n
}
