package iiif

import (
	"fmt"
	"net/url"
	"strings"
)

var requestError = "IIIF 3.0 request %#v is malformed: %s"

// Segments are the raw, percent-decoded fields of a request.
type Segments struct {
	Identifier string
	Region     string
	Size       string
	Rotation   string
	Quality    string
	Format     string
}

// ImageRequest is a parsed image request.
type ImageRequest struct {
	Identifier string
	Region     Region
	Size       Size
	Rotation   Rotation
	Quality    Quality
	Format     Format
}

// SplitRequest tokenizes {identifier}/{region}/{size}/{rotation}/{quality}.{format}
// without interpreting the parameters.
func SplitRequest(text string) (Segments, error) {
	malformed := func(reason string, args ...interface{}) error {
		return newError(MalformedRequest, PhaseParse, requestError, text, fmt.Sprintf(reason, args...))
	}

	parts := strings.Split(strings.TrimPrefix(text, "/"), "/")
	if len(parts) != 5 {
		return Segments{}, malformed("expected 5 segments, got %d", len(parts))
	}

	for i, part := range parts {
		if part == "" {
			return Segments{}, malformed("segment %d is empty", i+1)
		}
		decoded, err := url.PathUnescape(part)
		if err != nil {
			return Segments{}, malformed("segment %d is not properly escaped", i+1)
		}
		parts[i] = decoded
	}

	last := parts[4]
	dot := strings.IndexByte(last, '.')
	if dot <= 0 || dot == len(last)-1 || strings.IndexByte(last[dot+1:], '.') >= 0 {
		return Segments{}, malformed("%#v is not quality.format", last)
	}

	s := Segments{
		Identifier: parts[0],
		Region:     parts[1],
		Size:       parts[2],
		Rotation:   parts[3],
		Quality:    last[:dot],
		Format:     last[dot+1:],
	}

	for _, field := range []string{s.Region, s.Size, s.Rotation, s.Quality, s.Format} {
		if i := strings.IndexFunc(field, isNotGrammar); i >= 0 {
			return Segments{}, malformed("unexpected character %q in %#v", field[i], field)
		}
	}

	return s, nil
}

func isNotGrammar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune(".,:!^-", r):
		return false
	}
	return true
}

// ParseRequest parses and validates a request, no image is needed.
func ParseRequest(text string) (*ImageRequest, error) {
	s, err := SplitRequest(text)
	if err != nil {
		return nil, err
	}
	return s.Parse()
}

// Parse interprets each of the segments.
func (s Segments) Parse() (*ImageRequest, error) {
	region, err := ParseRegion(s.Region)
	if err != nil {
		return nil, err
	}

	size, err := ParseSize(s.Size)
	if err != nil {
		return nil, err
	}

	rotation, err := ParseRotation(s.Rotation)
	if err != nil {
		return nil, err
	}

	quality, err := ParseQuality(s.Quality)
	if err != nil {
		return nil, err
	}

	format, err := ParseFormat(s.Format)
	if err != nil {
		return nil, err
	}

	return &ImageRequest{
		Identifier: s.Identifier,
		Region:     region,
		Size:       size,
		Rotation:   rotation,
		Quality:    quality,
		Format:     format,
	}, nil
}

// String returns the canonical request, with the identifier escaped.
func (r *ImageRequest) String() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s.%s",
		url.PathEscape(r.Identifier), r.Region, r.Size, r.Rotation, r.Quality, r.Format)
}

// Filename is a file name safe version of the request.
func (r *ImageRequest) Filename() string {
	filename := fmt.Sprintf("%v-%v-%v-%v-%v.%v", r.Identifier, r.Region, r.Size, r.Rotation, r.Quality, r.Format)
	return strings.NewReplacer("/", "_", ":", "_", ",", "").Replace(filename)
}
