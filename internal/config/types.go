package config

import (
	"time"

	"github.com/fhgr/curnav/pkg/cache"
	"github.com/fhgr/curnav/pkg/layout"
	"github.com/fhgr/curnav/pkg/store"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Session store backends.
const (
	SessionsMemory = "memory"
	SessionsFile   = "file"
	SessionsRedis  = "redis"
)

// Config is the top-level curnav configuration, corresponding to config.yaml.
type Config struct {
	Dataset  DatasetConfig     `yaml:"dataset" koanf:"dataset"`
	Layout   LayoutConfig      `yaml:"layout" koanf:"layout"`
	Palette  map[string]string `yaml:"palette,omitempty" koanf:"palette" validate:"dive,keys,required,endkeys,hexcolor"`
	Server   ServerConfig      `yaml:"server" koanf:"server"`
	Cache    CacheConfig       `yaml:"cache" koanf:"cache"`
	Sessions SessionsConfig    `yaml:"sessions" koanf:"sessions"`
	Redis    cache.RedisConfig `yaml:"redis" koanf:"redis" validate:"-"`
	Mongo    store.MongoConfig `yaml:"mongo" koanf:"mongo"`
	LogLevel string            `yaml:"log_level" koanf:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DatasetConfig selects the curriculum file.
type DatasetConfig struct {
	Path       string   `yaml:"path,omitempty" koanf:"path"`
	Dir        string   `yaml:"dir,omitempty" koanf:"dir"`
	Candidates []string `yaml:"candidates" koanf:"candidates"`
	Name       string   `yaml:"name,omitempty" koanf:"name"`
}

// LayoutConfig holds the spring layout parameters.
type LayoutConfig struct {
	K          float64 `yaml:"k" koanf:"k" validate:"gte=0"`
	Iterations int     `yaml:"iterations" koanf:"iterations" validate:"gte=0,lte=100000"`
	Seed       uint64  `yaml:"seed" koanf:"seed"`
	Scale      float64 `yaml:"scale" koanf:"scale" validate:"gte=0"`
}

// Options converts the configuration to layout options.
func (l LayoutConfig) Options() layout.Options {
	opts := layout.Options{K: l.K, Iterations: l.Iterations, Seed: l.Seed, Scale: l.Scale}
	opts.SetDefaults()
	return opts
}

// ServerConfig configures `curnav serve`.
type ServerConfig struct {
	Addr         string        `yaml:"addr" koanf:"addr" validate:"required"`
	CORSOrigins  []string      `yaml:"cors_origins" koanf:"cors_origins"`
	ReadTimeout  time.Duration `yaml:"read_timeout" koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" koanf:"write_timeout" validate:"gte=0"`
	Metrics      bool          `yaml:"metrics" koanf:"metrics"`
}

// CacheConfig selects the dataset/layout/artifact cache.
type CacheConfig struct {
	Backend string `yaml:"backend" koanf:"backend" validate:"oneof=none file redis"`
	Dir     string `yaml:"dir,omitempty" koanf:"dir"`

	// Namespace prefixes every cache key, separating deployments that share
	// one Redis instance.
	Namespace string `yaml:"namespace,omitempty" koanf:"namespace" validate:"omitempty,max=64"`
}

// SessionsConfig selects where interaction sessions live.
type SessionsConfig struct {
	Backend string        `yaml:"backend" koanf:"backend" validate:"oneof=memory file redis"`
	Dir     string        `yaml:"dir,omitempty" koanf:"dir"`
	TTL     time.Duration `yaml:"ttl" koanf:"ttl" validate:"gte=0"`
}
