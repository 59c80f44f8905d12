package config

import (
	"slices"
	"time"

	"github.com/fhgr/curnav/pkg/cache"
	"github.com/fhgr/curnav/pkg/layout"
	"github.com/fhgr/curnav/pkg/pipeline"
	"github.com/fhgr/curnav/pkg/session"
	"github.com/fhgr/curnav/pkg/store"
)

// DefaultAddr is the default listen address of `curnav serve`.
const DefaultAddr = "127.0.0.1:8050"

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	lo := layout.DefaultOptions()
	return &Config{
		Dataset: DatasetConfig{
			Dir:        ".",
			Candidates: slices.Clone(pipeline.DefaultCandidates),
		},
		Layout: LayoutConfig{K: lo.K, Iterations: lo.Iterations, Seed: lo.Seed, Scale: lo.Scale},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			CORSOrigins:  []string{"*"},
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			Metrics:      true,
		},
		Cache:    CacheConfig{Backend: CacheFile},
		Sessions: SessionsConfig{Backend: SessionsMemory, TTL: session.DefaultTTL},
		Redis:    cache.RedisConfig{Addr: "localhost:6379", Prefix: "curnav:"},
		Mongo: store.MongoConfig{
			Database:   store.DefaultMongoDatabase,
			Collection: store.DefaultMongoCollection,
			Timeout:    store.DefaultMongoTimeout,
		},
		LogLevel: "info",
	}
}
