package iiif

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

var fillError = "the fill color %#v is not a valid hex color"

// Transparent fills the corners of rotated images when the format has an
// alpha channel.
var Transparent = color.NRGBA{}

// White is the default fill of the opaque formats.
var White = color.NRGBA{0xff, 0xff, 0xff, 0xff}

// Transformation is the plan computed for a request and a source image.
// It is never modified once created.
type Transformation struct {
	// Source dimensions
	Width  int
	Height int

	Region   RegionInstruction
	Size     SizeInstruction
	Rotation RotationInstruction
	Quality  Quality
	Format   Format
}

// Options configure the resolution of a request.
type Options struct {
	Limits
	// Fill is the background of arbitrary rotations for formats without
	// transparency, White when nil.
	Fill color.Color
}

// ParseFill reads a #rrggbb color.
func ParseFill(hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf(fillError+": %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{r, g, b, 0xff}, nil
}

// NewTransformation resolves the request against a width x height source:
// region, then size, then rotation.
func NewTransformation(req *ImageRequest, width, height int, opts Options) (*Transformation, error) {
	region, err := req.Region.Resolve(width, height)
	if err != nil {
		return nil, err
	}

	size, err := req.Size.Resolve(region.Width, region.Height, opts.Limits)
	if err != nil {
		return nil, err
	}

	rotation := req.Rotation.Resolve(size.Width, size.Height, opts.background(req))

	return &Transformation{
		Width:    width,
		Height:   height,
		Region:   region,
		Size:     size,
		Rotation: rotation,
		Quality:  req.Quality,
		Format:   req.Format,
	}, nil
}

func (o Options) background(req *ImageRequest) color.Color {
	if req.Format.HasAlpha() && !req.Quality.IsOpaque() {
		return Transparent
	}
	if o.Fill == nil {
		return White
	}
	return o.Fill
}

// OutputSize is the size of the final image.
func (t *Transformation) OutputSize() (int, int) {
	return t.Rotation.Width, t.Rotation.Height
}

// Apply runs the plan on the decoded source.
func (t *Transformation) Apply(img image.Image) image.Image {
	bounds := img.Bounds()

	if !t.Region.IsFull(bounds.Dx(), bounds.Dy()) {
		rect := image.Rect(t.Region.X, t.Region.Y, t.Region.X+t.Region.Width, t.Region.Y+t.Region.Height)
		img = imaging.Crop(img, rect.Add(bounds.Min))
	}

	if t.Size.Width != t.Region.Width || t.Size.Height != t.Region.Height {
		img = imaging.Resize(img, t.Size.Width, t.Size.Height, imaging.Lanczos)
	}

	if t.Rotation.Flip {
		img = imaging.FlipH(img)
	}

	img = t.rotate(img)

	return t.Quality.Apply(img)
}

// rotate turns the image clockwise, imaging turns it counter-clockwise.
func (t *Transformation) rotate(img image.Image) image.Image {
	r := t.Rotation

	if !r.Arbitrary {
		switch r.Angle {
		case 90:
			return imaging.Rotate270(img)
		case 180:
			return imaging.Rotate180(img)
		case 270:
			return imaging.Rotate90(img)
		}
		return img
	}

	rotated := imaging.Rotate(img, 360-r.Angle, r.Background)

	// imaging computes a slightly tighter box, center it on the expected one.
	canvas := imaging.New(r.Width, r.Height, r.Background)
	return imaging.PasteCenter(canvas, rotated)
}
