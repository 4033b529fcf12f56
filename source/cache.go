package source

import (
	"context"

	"github.com/golang/groupcache"
	"github.com/google/uuid"
	"github.com/greut/iiif-pipeline/iiif"
)

// Cached keeps the most recently fetched images in memory.
type Cached struct {
	group *groupcache.Group
}

// NewCached wraps src into a cache of cacheBytes.
func NewCached(src iiif.Storage, cacheBytes int64) *Cached {
	// Group names are global to the process.
	name := "sources-" + uuid.NewString()

	group := groupcache.NewGroup(name, cacheBytes, groupcache.GetterFunc(
		func(gctx groupcache.Context, key string, dest groupcache.Sink) error {
			ctx, ok := gctx.(context.Context)
			if !ok {
				ctx = context.Background()
			}
			data, err := src.Fetch(ctx, key)
			if err != nil {
				return err
			}
			return dest.SetBytes(data)
		},
	))

	return &Cached{group: group}
}

// Fetch returns the cached image, fetching it on a miss.
func (cs *Cached) Fetch(ctx context.Context, identifier string) ([]byte, error) {
	var body []byte
	err := cs.group.Get(ctx, identifier, groupcache.AllocatingByteSliceSink(&body))
	if err != nil {
		return nil, err
	}
	debug("From cache %v", identifier)
	return body, nil
}

// Stats gives the hits and the loads of the cache.
func (cs *Cached) Stats() (hits, loads int64) {
	return cs.group.Stats.CacheHits.Get(), cs.group.Stats.Loads.Get()
}
