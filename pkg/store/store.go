package store

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	apperrors "github.com/fhgr/curnav/pkg/errors"
	"github.com/fhgr/curnav/pkg/records"
)

// ErrNotFound is returned (wrapped in a DATASET_NOT_FOUND error) when no
// module set exists under the requested name.
var ErrNotFound = errors.New("dataset not found")

// MaxNameLength bounds dataset names.
const MaxNameLength = 128

// Entry is one stored module set.
type Entry struct {
	Name       string           `json:"name" bson:"_id"`
	Source     string           `json:"source,omitempty" bson:"source,omitempty"`
	SourceHash string           `json:"source_hash,omitempty" bson:"source_hash,omitempty"`
	Modules    []records.Module `json:"modules" bson:"modules"`
	SavedAt    time.Time        `json:"saved_at" bson:"saved_at"`
}

// Info summarizes a stored entry without its modules.
type Info struct {
	Name    string    `json:"name" bson:"_id"`
	Source  string    `json:"source,omitempty" bson:"source,omitempty"`
	Modules int       `json:"modules" bson:"module_count"`
	SavedAt time.Time `json:"saved_at" bson:"saved_at"`
}

// Store saves and loads module sets by name.
type Store interface {
	// Save inserts or replaces the entry. A zero SavedAt is set to now.
	Save(ctx context.Context, e Entry) error

	// Load returns the named entry or a DATASET_NOT_FOUND error.
	Load(ctx context.Context, name string) (*Entry, error)

	// List returns all entries sorted by name.
	List(ctx context.Context) ([]Info, error)

	// Delete removes the named entry. Missing names are not an error.
	Delete(ctx context.Context, name string) error

	Close() error
}

// ValidateName checks a dataset name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "dataset name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "dataset name too long (max %d characters)", MaxNameLength)
	}
	if strings.ContainsAny(name, "\x00/\\$") {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "dataset name %q contains invalid characters", name)
	}
	return nil
}

func notFound(name string) error {
	return apperrors.Wrap(apperrors.ErrCodeDatasetNotFound, ErrNotFound, "no dataset named %q", name)
}

func (e Entry) info() Info {
	return Info{Name: e.Name, Source: e.Source, Modules: len(e.Modules), SavedAt: e.SavedAt}
}

func (e Entry) clone() Entry {
	e.Modules = slices.Clone(e.Modules)
	for i := range e.Modules {
		m := &e.Modules[i]
		m.Tags = slices.Clone(m.Tags)
		m.HardPrereqs = slices.Clone(m.HardPrereqs)
		m.SoftPrereqs = slices.Clone(m.SoftPrereqs)
	}
	return e
}

func prepare(e Entry) (Entry, error) {
	if err := ValidateName(e.Name); err != nil {
		return Entry{}, err
	}
	if e.SavedAt.IsZero() {
		e.SavedAt = time.Now().UTC()
	}
	return e, nil
}
