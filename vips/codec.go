// Package vips provides an iiif.Codec backed by libvips, through bimg.
//
// It reads whatever libvips reads (HEIF, PDF, SVG, ...) and adds the WebP
// and PDF outputs to the pure Go codec. JPEG 2000 is not written: bimg only
// reaches it through ImageMagick, which picks its own output format.
package vips

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/greut/iiif-pipeline/iiif"
	d "github.com/tj/go-debug"
	"gopkg.in/h2non/bimg.v1"
)

var debug = d.Debug("iiif:vips")

var formatReadMissing = "libvips cannot read this format %#v as of yet"

// Codec delegates to iiif.NativeCodec and falls back on libvips for the
// formats Go cannot handle.
type Codec struct {
	Native iiif.NativeCodec
	// Quality of the lossy libvips outputs, zero lets libvips decide.
	Quality int
}

// bimgTypeName maps a format to its name in bimg.ImageTypes.
func bimgTypeName(format iiif.Format) string {
	switch format {
	case iiif.FormatJPG:
		return "jpeg"
	case iiif.FormatTIF:
		return "tiff"
	}
	return format.String()
}

func bimgType(format iiif.Format) (bimg.ImageType, bool) {
	if format == iiif.FormatJP2 {
		return bimg.UNKNOWN, false
	}
	name := bimgTypeName(format)
	for k, v := range bimg.ImageTypes {
		if v == name {
			return k, true
		}
	}
	return bimg.UNKNOWN, false
}

// Decode reads data with Go first, then with libvips.
func (c Codec) Decode(data []byte) (image.Image, error) {
	img, err := c.Native.Decode(data)
	if err == nil {
		return img, nil
	}

	imageType := bimg.DetermineImageType(data)
	if !bimg.IsTypeSupported(imageType) {
		return nil, fmt.Errorf(formatReadMissing, bimg.ImageTypes[imageType])
	}

	debug("Converting %s to png", bimg.ImageTypes[imageType])
	buf, err := bimg.NewImage(data).Convert(bimg.PNG)
	if err != nil {
		return nil, err
	}

	return imaging.Decode(bytes.NewReader(buf))
}

// CanEncode tells whether Encode supports the format.
func (c Codec) CanEncode(format iiif.Format) bool {
	if c.Native.CanEncode(format) {
		return true
	}
	t, ok := bimgType(format)
	return ok && bimg.IsTypeSupportedSave(t)
}

// Encode writes img with Go when possible, with libvips otherwise.
func (c Codec) Encode(img image.Image, format iiif.Format) ([]byte, error) {
	if c.Native.CanEncode(format) {
		return c.Native.Encode(img, format)
	}

	t, ok := bimgType(format)
	if !ok || !bimg.IsTypeSupportedSave(t) {
		return nil, &iiif.Error{
			Kind:    iiif.FormatCapabilityError,
			Phase:   iiif.PhaseCodec,
			Message: fmt.Sprintf("libvips cannot output this format %#v as of yet", format.String()),
		}
	}

	// libvips gets a lossless copy of the pixels.
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}

	debug("Converting png to %s", format)
	return bimg.NewImage(buf.Bytes()).Process(bimg.Options{
		Type:    t,
		Quality: c.Quality,
	})
}
