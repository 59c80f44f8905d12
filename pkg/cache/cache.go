// Package cache stores computed artefacts (layouts, rendered networks, parsed
// datasets) behind a small byte-oriented interface.
//
// Three backends are provided:
//   - [NewNullCache]: caching disabled
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for server deployments
//
// Keys are built by a [Keyer] so that every entry is addressed by the hash of
// its inputs. A layout, for example, is keyed by the hash of the serialized
// graph together with the layout options; changing either yields a new key.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the cached value and whether it was found.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Entry lifetimes.
const (
	// TTLDataset applies to normalized datasets parsed from a source file.
	TTLDataset = 24 * time.Hour

	// TTLLayout applies to computed layouts. Layouts depend only on the graph
	// hash and options, so they may live long.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered outputs.
	TTLArtifact = 24 * time.Hour
)

// NewNullCache returns a cache that misses on every Get and drops every Set.
func NewNullCache() Cache { return nullCache{} }

type nullCache struct{}

func (nullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (nullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (nullCache) Delete(context.Context, string) error                     { return nil }
func (nullCache) Close() error                                             { return nil }
