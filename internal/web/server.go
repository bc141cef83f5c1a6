// Package web serves the browser front end: an editor form, the tab bar,
// and the result sections rendered from a per-visitor session.
package web

import (
	"container/list"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/jward/prism"
	"github.com/jward/prism/internal/history"
	"github.com/jward/prism/internal/render"
	"github.com/jward/prism/internal/store"
)

// CookieName holds the visitor's session id.
const CookieName = "prism_session"

// DefaultMaxSessions bounds how many visitor sessions a Server keeps.
const DefaultMaxSessions = 1024

// Server maps visitors to sessions and renders their state.
type Server struct {
	analyzer  prism.Analyzer
	presenter *prism.Presenter
	policy    prism.Policy
	store     *store.Store
	title     string

	mu          sync.Mutex
	maxSessions int
	sessions    map[string]*list.Element // values are *visitor
	recent      *list.List               // front is most recently used
}

type visitor struct {
	id   string
	sess *prism.Session
}

// Option configures a Server.
type Option func(*Server)

// WithPresenter sets the presenter, and with it the locale.
func WithPresenter(p *prism.Presenter) Option {
	return func(s *Server) {
		s.presenter = p
	}
}

// WithPolicy sets the in-flight policy of new sessions.
func WithPolicy(p prism.Policy) Option {
	return func(s *Server) {
		s.policy = p
	}
}

// WithStore records every completed cycle in st.
func WithStore(st *store.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// WithMaxSessions caps the number of live sessions. Past the cap the least
// recently used session is dropped and its visitor starts over. Values
// below 1 are ignored.
func WithMaxSessions(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// New creates a Server submitting to a.
func New(a prism.Analyzer, opts ...Option) *Server {
	s := &Server{
		analyzer:  a,
		presenter: prism.NewPresenter(),
		policy:    prism.RejectWhileSubmitting,
		title:     "prism",

		maxSessions: DefaultMaxSessions,
		sessions:    map[string]*list.Element{},
		recent:      list.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /submit", s.handleSubmit)
	mux.HandleFunc("GET /api/view", s.handleView)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	return mux
}

// session returns the visitor's session, creating one and setting the
// cookie when the request carries no known id.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *prism.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, err := r.Cookie(CookieName); err == nil {
		if el, ok := s.sessions[c.Value]; ok {
			s.recent.MoveToFront(el)
			return el.Value.(*visitor).sess
		}
	}

	id := uuid.NewString()
	opts := []prism.SessionOption{prism.WithPolicy(s.policy)}
	if s.store != nil {
		opts = append(opts, prism.WithObserver(history.NewRecorder(s.store, id).Observe))
	}
	sess := prism.NewSession(opts...)
	s.sessions[id] = s.recent.PushFront(&visitor{id: id, sess: sess})
	for s.recent.Len() > s.maxSessions {
		oldest := s.recent.Back()
		s.recent.Remove(oldest)
		delete(s.sessions, oldest.Value.(*visitor).id)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// SessionCount reports how many visitor sessions exist.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if tab := r.URL.Query().Get("tab"); tab != "" {
		if t, err := prism.ParseTab(tab); err == nil {
			sess.SelectTab(t)
		}
	}
	s.renderPage(w, http.StatusOK, sess.Snapshot(), "")
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	code := r.PostFormValue("code")

	snap, err := sess.Run(r.Context(), s.analyzer, code)
	if err != nil {
		// Keep what the visitor typed; the in-flight cycle is untouched.
		snap.Source = code
		s.renderPage(w, http.StatusConflict, snap, s.presenter.Labels().InProgress)
		return
	}
	http.Redirect(w, r, "/?tab="+string(snap.Tab), http.StatusSeeOther)
}

// viewResponse is the JSON form of a session's state.
type viewResponse struct {
	Snapshot prism.Snapshot `json:"snapshot"`
	Error    string         `json:"error,omitempty"`
	View     *prism.View    `json:"view,omitempty"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	writeJSON(w, http.StatusOK, s.viewOf(sess.Snapshot()))
}

type analyzeRequest struct {
	Code string `json:"code"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	snap, err := sess.Run(r.Context(), s.analyzer, req.Code)
	status := http.StatusOK
	if err != nil {
		status = http.StatusConflict
	}
	writeJSON(w, status, s.viewOf(snap))
}

func (s *Server) viewOf(snap prism.Snapshot) viewResponse {
	resp := viewResponse{Snapshot: snap}
	if snap.State == prism.Failed {
		resp.Error = prism.UserMessage(snap.Err, s.presenter.Labels())
	}
	if snap.Result != nil {
		resp.View = s.presenter.Present(snap.Result)
	}
	return resp
}

func (s *Server) renderPage(w http.ResponseWriter, status int, snap prism.Snapshot, notice string) {
	resp := s.viewOf(snap)
	page := render.Page{
		Title:  s.title,
		Source: snap.Source,
		Labels: s.presenter.Labels(),
		Tab:    snap.Tab,
		Busy:   snap.State == prism.Submitting,
		Error:  resp.Error,
		Notice: notice,
		View:   resp.View,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := render.HTML(w, page); err != nil {
		log.Printf("warning: web: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("warning: web: encode response: %v", err)
	}
}
