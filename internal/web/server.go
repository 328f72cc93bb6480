package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/mused/internal/chart"
	"github.com/KaramelBytes/mused/internal/reactive"
	"github.com/KaramelBytes/mused/internal/utils"
	"golang.org/x/time/rate"
)

// SessionCookie names the cookie that carries the session id.
const SessionCookie = "mused_session"

// Options tunes the HTTP layer.
type Options struct {
	// RatePerSec and Burst bound /callback throughput and new sessions from GET /.
	// RatePerSec <= 0 disables the limit.
	RatePerSec float64
	Burst      int
	// SessionTTL expires idle sessions; zero keeps them forever.
	SessionTTL time.Duration
	// SweepInterval is how often expired sessions are dropped. Zero means one minute.
	SweepInterval time.Duration
}

// Server is the dashboard HTTP handler.
type Server struct {
	state    *State
	sessions *reactive.Sessions
	limiter  *rate.Limiter
	opt      Options
	mux      *http.ServeMux
}

// NewServer wires routes over st.
func NewServer(st *State, opt Options) *Server {
	s := &Server{
		state:    st,
		sessions: reactive.NewSessions(opt.SessionTTL),
		opt:      opt,
		mux:      http.NewServeMux(),
	}
	if opt.RatePerSec > 0 {
		burst := opt.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opt.RatePerSec), burst)
	}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /callback", s.handleCallback)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/charts/{name}", s.handleChart)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

// Sessions exposes the session store.
func (s *Server) Sessions() *reactive.Sessions { return s.sessions }

// Handler returns the root handler with request logging.
func (s *Server) Handler() http.Handler { return s }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	utils.Debugf("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

type panel struct {
	Name string
	SVG  template.HTML
	Wide bool
}

type pageData struct {
	*State
	Panels      []panel
	Controls    reactive.Controls
	Updates     []reactive.Update
	RuntimeMin  float64
	RuntimeMax  float64
	RuntimeStep float64
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// A reload resets the caller's session to the defaults the page shows.
	if id, ok := s.cookieSession(r); ok {
		s.sessions.Put(id, reactive.DefaultControls())
	} else {
		if !s.allow(r) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		setSessionCookie(w, s.sessions.New())
	}

	var panels []panel
	for _, c := range s.state.Charts.All() {
		panels = append(panels, panel{Name: c.Name, SVG: s.state.SVG[c.Name], Wide: c.Name == chart.NameHistogram})
	}
	data := pageData{
		State:       s.state,
		Panels:      panels,
		Controls:    reactive.DefaultControls(),
		Updates:     reactive.Initial(),
		RuntimeMin:  reactive.RuntimeMin,
		RuntimeMax:  reactive.RuntimeMax,
		RuntimeStep: reactive.RuntimeStep,
	}
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		utils.Errorf("render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if !s.allow(r) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	id := ""
	if ck, err := r.Cookie(SessionCookie); err == nil {
		id = ck.Value
	}
	cur, ok := s.sessions.Get(id)
	if !ok {
		id = s.sessions.New()
		cur = reactive.DefaultControls()
		setSessionCookie(w, id)
	}
	next := applyForm(cur, r)
	s.sessions.Put(id, next)

	updates := s.state.Graph.Recompute(next, changedInputs(r)...)
	if strings.Contains(r.Header.Get("Accept"), "application/json") && r.Header.Get("HX-Request") == "" {
		writeJSON(w, http.StatusOK, map[string]any{"controls": next, "updates": updates})
		return
	}
	var buf bytes.Buffer
	if err := updatesTmpl.Execute(&buf, map[string]any{"Updates": updates}); err != nil {
		utils.Errorf("render updates: %v", err)
		http.Error(w, "failed to render updates", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// allow reports whether the shared limiter admits another request.
func (s *Server) allow(r *http.Request) bool {
	if s.limiter == nil || s.limiter.Allow() {
		return true
	}
	utils.Warnf("rate limit exceeded for %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
	return false
}

// cookieSession returns the caller's session id when its cookie names a live session.
func (s *Server) cookieSession(r *http.Request) (string, bool) {
	ck, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}
	if _, ok := s.sessions.Get(ck.Value); !ok {
		return "", false
	}
	return ck.Value, true
}

// applyForm overlays submitted control values on cur. Missing or unparsable
// values keep the current ones.
func applyForm(cur reactive.Controls, r *http.Request) reactive.Controls {
	next := cur
	if v := r.PostForm.Get("genre"); v != "" {
		next.Genre = v
	}
	if v := r.PostForm.Get("artist"); v != "" {
		next.Artist = v
	}
	lo, errLo := strconv.ParseFloat(r.PostForm.Get("runtime_min"), 64)
	hi, errHi := strconv.ParseFloat(r.PostForm.Get("runtime_max"), 64)
	if errLo == nil && errHi == nil && lo <= hi {
		next.Runtime = [2]float64{lo, hi}
	}
	return next
}

// changedInputs maps the triggering element to a graph input. An unknown or
// absent trigger recomputes everything.
func changedInputs(r *http.Request) []string {
	name := r.Header.Get("HX-Trigger-Name")
	if name == "" {
		name = r.PostForm.Get("changed")
	}
	switch name {
	case "genre":
		return []string{reactive.InputGenre}
	case "artist":
		return []string{reactive.InputArtist}
	case "runtime", "runtime_min", "runtime_max":
		return []string{reactive.InputRuntime}
	}
	return nil
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Stats)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if strings.HasSuffix(name, ".svg") {
		svg, ok := s.state.SVG[strings.TrimSuffix(name, ".svg")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte(svg))
		return
	}
	cfg, err := s.state.Charts.Get(name)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "rows": s.state.Table.Len()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		utils.Errorf("encode json: %v", err)
		http.Error(w, "encode error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln, shutdownTimeout)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	srv := &http.Server{Handler: s, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	go s.sweep(ctx)

	utils.Successf("Dashboard running on http://%s/", ln.Addr())
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	utils.Infof("Shutting down server...")
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) sweep(ctx context.Context) {
	every := s.opt.SweepInterval
	if every <= 0 {
		every = time.Minute
	}
	tick := time.NewTicker(every)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if n := s.sessions.Sweep(); n > 0 {
				utils.Debugf("expired %d sessions", n)
			}
		}
	}
}
