package iiif

import (
	"context"
	"errors"
	"image"
	"io/fs"
	"time"
)

var sourceMissing = "the source %#v does not exist"
var sourceError = "the source %#v cannot be read"
var decodeError = "the codec cannot read the source %#v"
var encodeError = "the codec cannot write the %v image"

// Storage gives the bytes of a source image. Fetch reports a missing image
// with an error wrapping fs.ErrNotExist.
type Storage interface {
	Fetch(ctx context.Context, identifier string) ([]byte, error)
}

// EncodedImage is the output of a pipeline run.
type EncodedImage struct {
	Data        []byte
	ContentType string
	Format      Format
	Width       int
	Height      int
}

// Pipeline processes image requests against a storage.
type Pipeline struct {
	Storage Storage
	// Codec defaults to NativeCodec.
	Codec   Codec
	Options Options
	// Metrics is optional.
	Metrics *Metrics
}

// Process runs req against storage with the default codec and no limits.
func Process(ctx context.Context, req *ImageRequest, storage Storage) (*EncodedImage, error) {
	p := &Pipeline{Storage: storage}
	return p.Process(ctx, req)
}

// Process fetches the source of req, applies the transformation and encodes
// the result. Either a complete image or an *Error is returned.
func (p *Pipeline) Process(ctx context.Context, req *ImageRequest) (*EncodedImage, error) {
	start := time.Now()

	img, err := p.process(ctx, req)
	p.Metrics.observe(req, start, err)
	if err != nil {
		return nil, err
	}

	debug("Processed %s in %v", req, time.Since(start))
	return img, nil
}

func (p *Pipeline) process(ctx context.Context, req *ImageRequest) (*EncodedImage, error) {
	src, err := p.open(ctx, req.Identifier)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	t, err := NewTransformation(req, bounds.Dx(), bounds.Dy(), p.Options)
	if err != nil {
		return nil, err
	}

	out := t.Apply(src)

	data, err := p.codec().Encode(out, t.Format)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			return nil, e
		}
		return nil, wrapError(EncodeError, PhaseCodec, err, encodeError, t.Format)
	}

	w, h := t.OutputSize()
	return &EncodedImage{
		Data:        data,
		ContentType: t.Format.MIMEType(),
		Format:      t.Format,
		Width:       w,
		Height:      h,
	}, nil
}

// open fetches and decodes the source image.
func (p *Pipeline) open(ctx context.Context, identifier string) (image.Image, error) {
	data, err := p.Storage.Fetch(ctx, identifier)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, wrapError(SourceNotFound, PhaseSource, err, sourceMissing, identifier)
		}
		return nil, wrapError(SourceUnreadable, PhaseSource, err, sourceError, identifier)
	}

	img, err := p.codec().Decode(data)
	if err != nil {
		return nil, wrapError(DecodeError, PhaseCodec, err, decodeError, identifier)
	}

	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, newError(DecodeError, PhaseCodec, decodeError, identifier)
	}

	return img, nil
}

// Info describes the source image.
func (p *Pipeline) Info(ctx context.Context, identifier, id string) (*ImageInfo, error) {
	img, err := p.open(ctx, identifier)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	return NewImageInfo(id, b.Dx(), b.Dy(), p.Options.Limits, p.encodable()), nil
}

func (p *Pipeline) codec() Codec {
	if p.Codec == nil {
		return NativeCodec{}
	}
	return p.Codec
}

// encodable lists the formats the codec writes, when it can tell.
func (p *Pipeline) encodable() []Format {
	c, ok := p.codec().(interface{ CanEncode(Format) bool })
	if !ok {
		return Formats()
	}

	var formats []Format
	for _, f := range Formats() {
		if c.CanEncode(f) {
			formats = append(formats, f)
		}
	}
	return formats
}
