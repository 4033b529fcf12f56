package iiif

import (
	"bytes"
	"image"
	"image/jpeg"

	// Register the decoders image.Decode relies on.
	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Codec reads source bytes into pixels and writes pixels into a format.
type Codec interface {
	Decode(data []byte) (image.Image, error)
	Encode(img image.Image, format Format) ([]byte, error)
}

// NativeCodec is the pure Go codec. It reads JPEG, PNG, GIF, TIFF, BMP and
// WebP and writes JPEG, PNG, GIF and TIFF.
type NativeCodec struct {
	// JPEGQuality ranges from 1 to 100, zero means jpeg.DefaultQuality.
	JPEGQuality int
}

var nativeFormats = map[Format]imaging.Format{
	FormatJPG: imaging.JPEG,
	FormatPNG: imaging.PNG,
	FormatGIF: imaging.GIF,
	FormatTIF: imaging.TIFF,
}

// Decode reads any registered image format.
func (c NativeCodec) Decode(data []byte) (image.Image, error) {
	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	debug("Decoded %s image %v", name, img.Bounds())
	return img, nil
}

// CanEncode tells whether Encode supports the format.
func (c NativeCodec) CanEncode(format Format) bool {
	_, ok := nativeFormats[format]
	return ok
}

// Encode writes img in the given format.
func (c NativeCodec) Encode(img image.Image, format Format) ([]byte, error) {
	f, ok := nativeFormats[format]
	if !ok {
		return nil, newError(FormatCapabilityError, PhaseCodec, formatMissing, format.String())
	}

	quality := c.JPEGQuality
	if quality == 0 {
		quality = jpeg.DefaultQuality
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, f, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
