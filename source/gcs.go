package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSOptions configures a Google Cloud Storage source.
type GCSOptions struct {
	Bucket      string `mapstructure:"bucket"`
	Prefix      string `mapstructure:"prefix"`
	Credentials string `mapstructure:"credentials"`
	Endpoint    string `mapstructure:"endpoint"`
}

// GCS reads the images from a Google Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCS creates the storage client.
func NewGCS(ctx context.Context, opts GCSOptions) (*GCS, error) {
	if opts.Bucket == "" {
		return nil, errors.New("gcs: missing bucket")
	}

	var clientOpts []option.ClientOption
	if opts.Credentials != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.Credentials))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}

	return &GCS{
		client: client,
		bucket: opts.Bucket,
		prefix: opts.Prefix,
	}, nil
}

// Fetch reads the object named prefix + identifier.
func (gs *GCS) Fetch(ctx context.Context, identifier string) ([]byte, error) {
	name := gs.prefix + identifier
	debug("Downloading gs://%s/%s", gs.bucket, name)

	r, err := gs.client.Bucket(gs.bucket).Object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, notFound(identifier, err)
		}
		return nil, fmt.Errorf("Object(%q).NewReader: %w", name, err)
	}
	defer r.Close()

	return io.ReadAll(r)
}

// Close releases the client.
func (gs *GCS) Close() error {
	return gs.client.Close()
}
