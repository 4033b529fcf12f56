// Package source implements the storages the pipeline reads images from.
//
// Every backend reports a missing image with an error wrapping
// fs.ErrNotExist.
package source

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/greut/iiif-pipeline/config"
	"github.com/greut/iiif-pipeline/iiif"
	"github.com/mitchellh/mapstructure"
	d "github.com/tj/go-debug"
)

var debug = d.Debug("iiif:source")

// NewSourceFromConfig builds the storage described by the configuration,
// wrapped in a cache when one is configured.
func NewSourceFromConfig(ctx context.Context, c *config.Config) (iiif.Storage, error) {
	src, err := newSource(ctx, c.Source)
	if err != nil {
		return nil, err
	}

	if c.Cache.ImagesSize > 0 {
		return NewCached(src, c.Cache.ImagesSize), nil
	}
	return src, nil
}

func newSource(ctx context.Context, c config.SourceConfig) (iiif.Storage, error) {
	switch strings.ToLower(c.Name) {
	case "", "disk":
		return NewDisk(c.Path), nil

	case "http":
		return NewHTTP(c.Path), nil

	case "s3":
		var opts S3Options
		if err := decodeOptions(c.Options, &opts); err != nil {
			return nil, err
		}
		if opts.Bucket == "" {
			opts.Bucket = c.Path
		}
		return NewS3(opts)

	case "gcs":
		var opts GCSOptions
		if err := decodeOptions(c.Options, &opts); err != nil {
			return nil, err
		}
		if opts.Bucket == "" {
			opts.Bucket = c.Path
		}
		return NewGCS(ctx, opts)

	case "pebble":
		var opts PebbleOptions
		if err := decodeOptions(c.Options, &opts); err != nil {
			return nil, err
		}
		return NewPebble(c.Path, opts)
	}

	return nil, fmt.Errorf("unknown source type %#v", c.Name)
}

func decodeOptions(input map[string]interface{}, output interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// notFound marks err as a missing image.
func notFound(identifier string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", fs.ErrNotExist, identifier)
	}
	return fmt.Errorf("%w: %s: %w", fs.ErrNotExist, identifier, err)
}
