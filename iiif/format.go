package iiif

var formatError = "IIIF 3.0 `format` argument is not recognized: %#v"
var formatMissing = "the codec cannot output this format %#v as of yet"

// Format is the encoding of the output.
type Format int

// Formats.
const (
	FormatJPG Format = iota
	FormatTIF
	FormatPNG
	FormatGIF
	FormatJP2
	FormatPDF
	FormatWEBP
)

type formatInfo struct {
	extension string
	mimeType  string
	alpha     bool
}

var formats = map[Format]formatInfo{
	FormatJPG:  {"jpg", "image/jpeg", false},
	FormatTIF:  {"tif", "image/tiff", true},
	FormatPNG:  {"png", "image/png", true},
	FormatGIF:  {"gif", "image/gif", true},
	FormatJP2:  {"jp2", "image/jp2", true},
	FormatPDF:  {"pdf", "application/pdf", false},
	FormatWEBP: {"webp", "image/webp", true},
}

var formatNames = map[string]Format{
	"jpg":  FormatJPG,
	"jpeg": FormatJPG,
	"tif":  FormatTIF,
	"tiff": FormatTIF,
	"png":  FormatPNG,
	"gif":  FormatGIF,
	"jp2":  FormatJP2,
	"pdf":  FormatPDF,
	"webp": FormatWEBP,
}

// ParseFormat reads the format parameter.
func ParseFormat(format string) (Format, error) {
	f, ok := formatNames[format]
	if !ok {
		return FormatJPG, newError(UnsupportedFormat, PhaseParse, formatError, format)
	}
	return f, nil
}

// Formats lists every format, in declaration order.
func Formats() []Format {
	return []Format{FormatJPG, FormatTIF, FormatPNG, FormatGIF, FormatJP2, FormatPDF, FormatWEBP}
}

func (f Format) String() string {
	return formats[f].extension
}

// MIMEType is the Content-Type of the encoded image.
func (f Format) MIMEType() string {
	return formats[f].mimeType
}

// HasAlpha tells whether the encoding can store transparency.
func (f Format) HasAlpha() bool {
	return formats[f].alpha
}
