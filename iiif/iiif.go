// Package iiif implements the IIIF Image API 3.0 request pipeline.
//
// A request such as
//
//	demo.jpg/square/pct:50/!90/gray.png
//
// is parsed into an ImageRequest, resolved against the dimensions of the
// source image into a Transformation, applied, and encoded.
//
// Set DEBUG=iiif to trace the resolution steps.
package iiif

import (
	d "github.com/tj/go-debug"
)

var debug = d.Debug("iiif")
