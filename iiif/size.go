package iiif

import (
	"math"
	"strconv"
	"strings"
)

var sizeError = "IIIF 3.0 `size` argument is not recognized: %#v"
var upscaleError = "IIIF 3.0 `size` %v gives %vx%v which is larger than the %vx%v region, use the `^` prefix to upscale"
var maxSizeError = "The given `size` is out of the limits %vx%v (%vx%v or area %v)"

// Ceiling bounds the upscaled outputs, whatever the configured limits.
var Ceiling = Limits{MaxWidth: 65535, MaxHeight: 65535, MaxArea: 1 << 28}

// SizeKind tells which form of the size grammar was used.
type SizeKind int

// Size forms.
const (
	SizeMax SizeKind = iota
	SizeWidth
	SizeHeight
	SizeExact
	SizeConfined
	SizePercent
)

// Size is the parsed size parameter.
type Size struct {
	Kind    SizeKind
	Width   int
	Height  int
	Percent float64
	Upscale bool
}

// SizeInstruction holds the target dimensions.
type SizeInstruction struct {
	Width  int
	Height int
}

// Limits are the server-imposed maximum dimensions, zero means unlimited.
type Limits struct {
	MaxWidth  int
	MaxHeight int
	MaxArea   int
}

// ParseSize reads the size parameter.
//
//	max (full)
//	w, (force width)
//	,h (force height)
//	w,h (deform)
//	!w,h (best fit within size)
//	pct:n (scale the region in %)
//
// Each form may be prefixed with ^ to allow upscaling.
func ParseSize(size string) (Size, error) {
	s := Size{}
	content := size
	if strings.HasPrefix(content, "^") {
		s.Upscale = true
		content = content[1:]
	}

	switch {
	case content == "max" || content == "full":
		s.Kind = SizeMax
		return s, nil

	case strings.HasPrefix(content, "pct:"):
		pct, err := strconv.ParseFloat(content[4:], 64)
		if err != nil || pct <= 0 || math.IsNaN(pct) || math.IsInf(pct, 0) {
			return Size{}, newError(InvalidSize, PhaseParse, sizeError, size)
		}
		s.Kind = SizePercent
		s.Percent = pct
		return s, nil

	case strings.HasPrefix(content, "!"):
		w, h, ok := parseDimensions(content[1:])
		if !ok || w == 0 || h == 0 {
			return Size{}, newError(InvalidSize, PhaseParse, sizeError, size)
		}
		s.Kind = SizeConfined
		s.Width = w
		s.Height = h
		return s, nil
	}

	w, h, ok := parseDimensions(content)
	if !ok {
		return Size{}, newError(InvalidSize, PhaseParse, sizeError, size)
	}

	switch {
	case w != 0 && h != 0:
		s.Kind = SizeExact
	case w != 0:
		s.Kind = SizeWidth
	case h != 0:
		s.Kind = SizeHeight
	default:
		return Size{}, newError(InvalidSize, PhaseParse, sizeError, size)
	}
	s.Width = w
	s.Height = h
	return s, nil
}

// parseDimensions reads "w,h", "w," or ",h". A missing value is returned as
// zero, an explicit zero or negative value is an error.
func parseDimensions(s string) (int, int, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	var dims [2]int
	for i, part := range parts {
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 32)
		if err != nil || n <= 0 {
			return 0, 0, false
		}
		dims[i] = int(n)
	}

	return dims[0], dims[1], true
}

// Resolve computes the target dimensions of a width x height region.
func (s Size) Resolve(width, height int, limits Limits) (SizeInstruction, error) {
	var w, h int

	switch s.Kind {
	case SizeMax:
		w, h = limits.fit(width, height, s.Upscale)
		debug("max %v x %v", w, h)
		if err := checkCeiling(w, h, width, height); err != nil {
			return SizeInstruction{}, err
		}
		return SizeInstruction{w, h}, nil

	case SizeWidth:
		w = s.Width
		h = roundDimension(float64(s.Width) * float64(height) / float64(width))

	case SizeHeight:
		w = roundDimension(float64(s.Height) * float64(width) / float64(height))
		h = s.Height

	case SizeExact:
		w, h = s.Width, s.Height

	case SizeConfined:
		scale := math.Min(float64(s.Width)/float64(width), float64(s.Height)/float64(height))
		w = roundDimension(float64(width) * scale)
		h = roundDimension(float64(height) * scale)

	case SizePercent:
		w = roundDimension(float64(width) * s.Percent / 100)
		h = roundDimension(float64(height) * s.Percent / 100)
	}

	debug("Output size: %v x %v (upscale: %v)", w, h, s.Upscale)

	if !s.Upscale && (w > width || h > height) {
		return SizeInstruction{}, newError(UpscaleNotAllowed, PhaseResolve, upscaleError, s.String(), w, h, width, height)
	}

	if limits.exceeded(w, h) {
		return SizeInstruction{}, newError(InvalidSize, PhaseResolve, maxSizeError, w, h, limits.MaxWidth, limits.MaxHeight, limits.MaxArea)
	}

	if err := checkCeiling(w, h, width, height); err != nil {
		return SizeInstruction{}, err
	}

	return SizeInstruction{w, h}, nil
}

// checkCeiling rejects a w x h output grown beyond Ceiling. Outputs within
// the width x height region are as large as the decoded source at most.
func checkCeiling(w, h, width, height int) error {
	if (w > width || h > height) && Ceiling.exceeded(w, h) {
		return newError(InvalidSize, PhaseResolve, maxSizeError, w, h, Ceiling.MaxWidth, Ceiling.MaxHeight, Ceiling.MaxArea)
	}
	return nil
}

func (s Size) String() string {
	prefix := ""
	if s.Upscale {
		prefix = "^"
	}

	switch s.Kind {
	case SizeWidth:
		return prefix + strconv.Itoa(s.Width) + ","
	case SizeHeight:
		return prefix + "," + strconv.Itoa(s.Height)
	case SizeExact:
		return prefix + strconv.Itoa(s.Width) + "," + strconv.Itoa(s.Height)
	case SizeConfined:
		return prefix + "!" + strconv.Itoa(s.Width) + "," + strconv.Itoa(s.Height)
	case SizePercent:
		return prefix + "pct:" + formatFloat(s.Percent)
	}
	return prefix + "max"
}

// fit scales width x height so that it respects the limits, keeping the
// aspect ratio. Without upscale, the size is never grown.
func (l Limits) fit(width, height int, upscale bool) (int, int) {
	// The three ratios computed for each max value.
	rW := math.Inf(1)
	rH := math.Inf(1)
	rA := math.Inf(1)

	if l.MaxWidth != 0 {
		rW = float64(l.MaxWidth) / float64(width)
	}

	if l.MaxHeight != 0 {
		rH = float64(l.MaxHeight) / float64(height)
	}

	if l.MaxArea != 0 {
		rA = math.Sqrt(float64(l.MaxArea) / (float64(width) * float64(height)))
	}

	// Picking the smallest ratio enforces the smallest limitation
	ratio := math.Min(math.Min(rW, rH), rA)
	if math.IsInf(ratio, 1) || (!upscale && ratio > 1) {
		ratio = 1
	}

	w := roundDimension(float64(width) * ratio)
	h := roundDimension(float64(height) * ratio)
	if l.MaxWidth != 0 && w > l.MaxWidth {
		w = l.MaxWidth
	}
	if l.MaxHeight != 0 && h > l.MaxHeight {
		h = l.MaxHeight
	}
	if l.MaxArea != 0 && int64(w)*int64(h) > int64(l.MaxArea) {
		// rounding up both sides may overshoot the area.
		w = int(math.Max(1, math.Floor(float64(width)*ratio)))
		h = int(math.Max(1, math.Floor(float64(height)*ratio)))
	}

	return w, h
}

func (l Limits) exceeded(w, h int) bool {
	return (l.MaxWidth != 0 && w > l.MaxWidth) ||
		(l.MaxHeight != 0 && h > l.MaxHeight) ||
		(l.MaxArea != 0 && int64(w)*int64(h) > int64(l.MaxArea))
}

// roundDimension rounds half away from zero and never goes below one pixel.
func roundDimension(v float64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	return n
}
