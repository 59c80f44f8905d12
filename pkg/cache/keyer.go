package cache

import "fmt"

// Keyer builds cache keys.
type Keyer interface {
	// DatasetKey addresses a normalized dataset by the hash of its source.
	DatasetKey(sourceHash string) string

	// LayoutKey addresses a layout by graph hash and layout options.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey addresses a rendered output by layout hash and view state.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout inputs that affect positions.
type LayoutKeyOpts struct {
	K          float64 `json:"k"`
	Iterations int     `json:"iterations"`
	Seed       uint64  `json:"seed"`
	Scale      float64 `json:"scale"`
}

// ArtifactKeyOpts are the view inputs that affect a rendered network.
type ArtifactKeyOpts struct {
	Format string   `json:"format"`
	Focus  string   `json:"focus,omitempty"`
	Hard   bool     `json:"hard"`
	Soft   bool     `json:"soft"`
	Filter string   `json:"filter,omitempty"`
	Extra  []string `json:"extra,omitempty"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DatasetKey implements [Keyer].
func (DefaultKeyer) DatasetKey(sourceHash string) string {
	return fmt.Sprintf("dataset:%s", sourceHash)
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
