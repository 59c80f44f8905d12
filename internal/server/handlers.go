package server

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fhgr/curnav/pkg/buildinfo"
	apperrors "github.com/fhgr/curnav/pkg/errors"
	"github.com/fhgr/curnav/pkg/explore"
	"github.com/fhgr/curnav/pkg/observability"
	"github.com/fhgr/curnav/pkg/pipeline"
	"github.com/fhgr/curnav/pkg/records"
	"github.com/fhgr/curnav/pkg/session"
	"github.com/fhgr/curnav/pkg/view"
)

var validate = validator.New()

// Trigger names reported to the query hooks.
const (
	TriggerSelect = "select"
	TriggerReset  = "reset"
	TriggerEdges  = "edges"
	TriggerFilter = "filter"
)

// =============================================================================
// Dataset
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"build":   buildinfo.Get(),
		"dataset": s.ds.Name,
		"modules": len(s.ds.Modules),
	})
}

func (s *Server) handleModules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ds.Modules)
}

// moduleDetail is a module with its transitive neighbourhood.
type moduleDetail struct {
	records.Module
	Ancestors   []string          `json:"ancestors"`
	Descendants []string          `json:"descendants"`
	Names       map[string]string `json:"names"`
}

func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := s.ds.Module(id)
	if !ok {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeModuleNotFound, "module %q not found", id))
		return
	}
	anc, err := s.ds.Graph.Ancestors(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	desc, err := s.ds.Graph.Descendants(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	all := s.ds.Names()
	names := make(map[string]string, len(anc)+len(desc))
	for _, n := range append(slices.Clone(anc), desc...) {
		names[n] = all[n]
	}
	writeJSON(w, http.StatusOK, moduleDetail{Module: m, Ancestors: anc, Descendants: desc, Names: names})
}

// options are the choices offered by the filter controls.
type options struct {
	Semesters []records.Option `json:"semesters"`
	Tags      []string         `json:"tags"`
	Groups    []string         `json:"groups"`
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, options{
		Semesters: records.SemesterOptions(),
		Tags:      records.Tags(s.ds.Modules),
		Groups:    records.Groups(s.ds.Modules),
	})
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	issues := s.ds.Diagnostics
	if issues == nil {
		issues = records.Diagnostics{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"issues": issues,
		"counts": issues.ByKind(),
	})
}

// =============================================================================
// Sessions
// =============================================================================

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := session.New(s.cfg.SessionTTL)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// loadSession fetches the session named by the {sid} URL parameter and
// extends its lifetime.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	sess.Touch(s.cfg.SessionTTL)
	return sess, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "sid")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Views
// =============================================================================

func (s *Server) network(ctx context.Context, sess *session.Session) (view.Network, error) {
	start := time.Now()
	net, err := view.BuildNetwork(s.ds, sess.ViewState(), s.cfg.Palette)
	if sess.Focus != "" {
		observability.Query().OnReachability(ctx, len(net.Highlighted), time.Since(start), err)
	}
	return net, err
}

func (s *Server) summary(ctx context.Context, sess *session.Session) view.Summary {
	start := time.Now()
	sum := view.BuildSummary(s.ds, sess.Filter, s.cfg.Palette)
	observability.Query().OnFilter(ctx, len(sum.ModuleIDs), sum.Empty, time.Since(start))
	return sum
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	net, err := s.network(r.Context(), sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, net)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.summary(r.Context(), sess))
}

func (s *Server) handleRender(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.loadSession(w, r)
		if !ok {
			return
		}
		out, err := s.runner.Render(r.Context(), s.ds, pipeline.Options{
			Formats: []string{format},
			State:   sess.ViewState(),
			Palette: s.cfg.Palette,
			Legend:  r.URL.Query().Get("legend") == "true",
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", pipeline.ContentType(format))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out[format])
	}
}

// =============================================================================
// Interaction triggers
// =============================================================================

// interaction is the response to a trigger: the new state and both views.
type interaction struct {
	Session *session.Session `json:"session"`
	Network view.Network     `json:"network"`
	Summary view.Summary     `json:"summary"`
}

// trigger applies fn to the session, persists it and answers with both
// views. When fn fails the stored session is left unchanged.
func (s *Server) trigger(w http.ResponseWriter, r *http.Request, name string, fn func(*session.Session) error) {
	ctx := r.Context()
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if err := fn(sess); err != nil {
		observability.Query().OnTrigger(ctx, name, err)
		s.writeError(w, r, err)
		return
	}

	net, err := s.network(ctx, sess)
	if err == nil {
		err = s.sessions.Set(ctx, sess)
	}
	observability.Query().OnTrigger(ctx, name, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("trigger", "name", name, "session", sess.ID, "focus", sess.Focus)
	writeJSON(w, http.StatusOK, interaction{Session: sess, Network: net, Summary: s.summary(ctx, sess)})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.trigger(w, r, TriggerSelect, func(sess *session.Session) error {
		return sess.SelectNode(s.ds.Graph, id)
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.trigger(w, r, TriggerReset, func(sess *session.Session) error {
		sess.ResetSelection()
		return nil
	})
}

func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
	var v view.EdgeVisibility
	if err := decodeJSON(r, &v); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.trigger(w, r, TriggerEdges, func(sess *session.Session) error {
		sess.SetEdgeKindVisibility(v)
		return nil
	})
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var f explore.FilterSpec
	if err := decodeJSON(r, &f); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validate.Struct(f); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidFilter, err, "invalid filter"))
		return
	}
	s.trigger(w, r, TriggerFilter, func(sess *session.Session) error {
		return sess.SetFilter(f)
	})
}
