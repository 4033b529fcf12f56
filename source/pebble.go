package source

import (
	"context"
	"errors"

	"github.com/cockroachdb/pebble"
)

// PebbleOptions configures a Pebble source.
type PebbleOptions struct {
	// ReadWrite opens the store without the read only flag, so that it can
	// be created and filled.
	ReadWrite bool `mapstructure:"readWrite"`
}

// Pebble reads the images from a Pebble key/value store, keyed by identifier.
type Pebble struct {
	db *pebble.DB
}

// NewPebble opens the store in the dir directory.
func NewPebble(dir string, opts PebbleOptions) (*Pebble, error) {
	db, err := pebble.Open(dir, &pebble.Options{ReadOnly: !opts.ReadWrite})
	if err != nil {
		return nil, err
	}
	return &Pebble{db: db}, nil
}

// Fetch reads the value of the identifier key.
func (ps *Pebble) Fetch(ctx context.Context, identifier string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, closer, err := ps.db.Get([]byte(identifier))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, notFound(identifier, err)
		}
		return nil, err
	}
	defer closer.Close()

	// value is only valid until closer is closed.
	body := make([]byte, len(value))
	copy(body, value)
	return body, nil
}

// Put stores an image.
func (ps *Pebble) Put(identifier string, body []byte) error {
	return ps.db.Set([]byte(identifier), body, pebble.Sync)
}

// Close closes the store.
func (ps *Pebble) Close() error {
	return ps.db.Close()
}
