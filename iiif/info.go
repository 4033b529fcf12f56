package iiif

// ImageContext is the JSON-LD context of the IIIF Image API 3.0.
const ImageContext = "http://iiif.io/api/image/3/context.json"

// ImageInfo contains the technical properties about an image (info.json).
type ImageInfo struct {
	Context        string   `json:"@context"`
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Protocol       string   `json:"protocol"`
	Profile        string   `json:"profile"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	MaxWidth       int      `json:"maxWidth,omitempty"`
	MaxHeight      int      `json:"maxHeight,omitempty"`
	MaxArea        int      `json:"maxArea,omitempty"`
	ExtraQualities []string `json:"extraQualities,omitempty"`
	ExtraFormats   []string `json:"extraFormats,omitempty"`
	ExtraFeatures  []string `json:"extraFeatures,omitempty"`
}

// NewImageInfo builds the level 2 description of a width x height image.
// formats are the output formats on top of jpg and png.
func NewImageInfo(id string, width, height int, limits Limits, formats []Format) *ImageInfo {
	info := &ImageInfo{
		Context:   ImageContext,
		ID:        id,
		Type:      "ImageService3",
		Protocol:  "http://iiif.io/api/image",
		Profile:   "level2",
		Width:     width,
		Height:    height,
		MaxWidth:  limits.MaxWidth,
		MaxHeight: limits.MaxHeight,
		MaxArea:   limits.MaxArea,
		ExtraQualities: []string{
			QualityColor.String(),
			QualityGray.String(),
			QualityBitonal.String(),
		},
		ExtraFeatures: []string{
			"mirroring",
			"regionByPct",
			"regionByPx",
			"regionSquare",
			"rotationArbitrary",
			"rotationBy90s",
			"sizeByConfinedWh",
			"sizeByH",
			"sizeByPct",
			"sizeByW",
			"sizeByWh",
			"sizeUpscaling",
		},
	}

	for _, f := range formats {
		if f != FormatJPG && f != FormatPNG {
			info.ExtraFormats = append(info.ExtraFormats, f.String())
		}
	}

	return info
}
