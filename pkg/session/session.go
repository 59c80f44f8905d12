// Package session holds the interaction state of one client: the focused
// module, the enabled edge kinds and the active filter.
//
// The four interaction triggers map onto methods:
//
//	selectNode(id)              -> [Session.SelectNode]
//	resetSelection()            -> [Session.ResetSelection]
//	setEdgeKindVisibility(v)    -> [Session.SetEdgeKindVisibility]
//	setFilter(spec)             -> [Session.SetFilter]
//
// A rejected trigger leaves the session unchanged. Sessions are stored in a
// [Store]; implementations exist for development (memory), the CLI (file)
// and multi-instance servers (Redis):
//
//	store := session.NewMemoryStore()
//	sess := session.New(session.DefaultTTL)
//	if err := sess.SelectNode(ds.Graph, "DB"); err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
package session

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/fhgr/curnav/pkg/depgraph"
	apperrors "github.com/fhgr/curnav/pkg/errors"
	"github.com/fhgr/curnav/pkg/explore"
	"github.com/fhgr/curnav/pkg/view"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is the idle lifetime of a session.
const DefaultTTL = 12 * time.Hour

// Session is the interaction state of one client.
type Session struct {
	ID        string              `json:"id" bson:"_id"`
	Focus     string              `json:"focus,omitempty" bson:"focus,omitempty"`
	Edges     view.EdgeVisibility `json:"edges" bson:"edges"`
	Filter    explore.FilterSpec  `json:"filter" bson:"filter"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time           `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time           `json:"expires_at" bson:"expires_at"`
}

// New creates a session with both edge kinds shown, no focus and the
// all-modules filter.
func New(ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Edges:     view.AllEdges(),
		Filter:    explore.All(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Touch records activity and extends the expiry by ttl.
func (s *Session) Touch(ttl time.Duration) {
	s.UpdatedAt = time.Now()
	s.ExpiresAt = s.UpdatedAt.Add(ttl)
}

// SelectNode focuses id. An id that is not in g is rejected with a
// MODULE_NOT_FOUND error.
func (s *Session) SelectNode(g *depgraph.Graph, id string) error {
	if err := apperrors.ValidateModuleID(id); err != nil {
		return err
	}
	if !g.HasNode(id) {
		return apperrors.Wrap(apperrors.ErrCodeModuleNotFound, depgraph.ErrUnknownNode, "module %q not found", id)
	}
	s.Focus = id
	return nil
}

// ResetSelection clears the focus. Edge kinds and filter are kept.
func (s *Session) ResetSelection() { s.Focus = "" }

// SetEdgeKindVisibility sets which edge kinds are drawn without a focus.
func (s *Session) SetEdgeKindVisibility(v view.EdgeVisibility) { s.Edges = v }

// SetFilter replaces the active filter after validating it.
func (s *Session) SetFilter(f explore.FilterSpec) error {
	if err := f.Validate(); err != nil {
		return err
	}
	f.Tags = slices.Clone(f.Tags)
	f.Groups = slices.Clone(f.Groups)
	s.Filter = f
	return nil
}

// ViewState returns the network view input for this session.
func (s *Session) ViewState() view.State {
	return view.State{Focus: s.Focus, Edges: s.Edges}
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.Filter.Tags = slices.Clone(s.Filter.Tags)
	c.Filter.Groups = slices.Clone(s.Filter.Groups)
	return &c
}

// Store persists sessions.
type Store interface {
	// Get returns the session or a SESSION_NOT_FOUND error wrapping
	// [ErrNotFound] when it is missing or expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a copy of sess.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions. It may be a no-op for backends with
	// native expiry.
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

func notFound(id string) error {
	return apperrors.Wrap(apperrors.ErrCodeSessionNotFound, ErrNotFound, "session %q not found", id)
}
