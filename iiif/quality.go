package iiif

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

var qualityError = "IIIF 3.0 `quality` argument is not recognized: %#v"

// Quality is the color mode of the output.
type Quality int

// Qualities.
const (
	QualityDefault Quality = iota
	QualityColor
	QualityGray
	QualityBitonal
)

// bitonalThreshold is the luminance from which a pixel becomes white.
const bitonalThreshold = 128

var qualityNames = map[string]Quality{
	"default": QualityDefault,
	"color":   QualityColor,
	"gray":    QualityGray,
	"bitonal": QualityBitonal,
}

// ParseQuality reads the quality parameter.
//
//	default
//	color
//	gray
//	bitonal
func ParseQuality(quality string) (Quality, error) {
	q, ok := qualityNames[quality]
	if !ok {
		return QualityDefault, newError(UnsupportedQuality, PhaseParse, qualityError, quality)
	}
	return q, nil
}

func (q Quality) String() string {
	switch q {
	case QualityColor:
		return "color"
	case QualityGray:
		return "gray"
	case QualityBitonal:
		return "bitonal"
	}
	return "default"
}

// IsOpaque tells whether the quality drops the alpha channel.
func (q Quality) IsOpaque() bool {
	return q == QualityGray || q == QualityBitonal
}

// Apply converts img to the quality.
func (q Quality) Apply(img image.Image) image.Image {
	switch q {
	case QualityColor:
		if _, ok := img.(*image.NRGBA); ok {
			return img
		}
		return imaging.Clone(img)
	case QualityGray:
		// ITU-R BT.601 luma
		return toGray(effect.GrayscaleWithWeights(img, 0.299, 0.587, 0.114))
	case QualityBitonal:
		return segment.Threshold(img, bitonalThreshold)
	}
	return img
}

// toGray keeps one channel of a desaturated image, bild returns it as RGBA.
func toGray(img *image.RGBA) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for x := range dst {
			dst[x] = src[x*4]
		}
	}
	return gray
}
