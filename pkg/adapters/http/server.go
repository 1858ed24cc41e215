package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/morphett"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Engine compiles programs and wraps stored tables. *turing.Engine implements it.
type Engine interface {
	Compile(src string) (*turing.Program, error)
	FromTable(table *domain.Table) *turing.Program
}

// lockTTL bounds how long a crashed replica can block updates of a table.
const lockTTL = 10 * time.Second

// Server serves the compile/run API and the table store.
type Server struct {
	Engine  Engine
	Store   ports.TableStore
	Locker  ports.DistributedLocker
	Streams *StreamManager
	metrics http.Handler
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStore sets where PUT /tables/{name} keeps tables. Defaults to memory.
func WithStore(store ports.TableStore) Option {
	return func(s *Server) {
		s.Store = store
	}
}

// WithLocker sets the lock that serializes table updates. Defaults to an in-process lock.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Server) {
		s.Locker = locker
	}
}

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithTimeout bounds every request, runs included.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

// WithLogger sets a custom structured logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server with the given options.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		Engine:  engine,
		Streams: NewStreamManager(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Store == nil {
		s.Store = memory.NewStore()
	}
	if s.Locker == nil {
		s.Locker = memory.NewLocker()
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.Streams.logger = s.logger
	return s
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	return NewServer(engine, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	// Event streams are long-lived, so only the other routes get the request timeout.
	bounded := func(next http.Handler) http.Handler { return next }
	if s.timeout > 0 {
		bounded = middleware.Timeout(s.timeout)
	}

	r.With(bounded).Post("/compile", s.Compile)
	r.With(bounded).Post("/run", s.Run)
	r.Route("/tables", func(r chi.Router) {
		r.With(bounded).Get("/", s.ListTables)
		r.Route("/{name}", func(r chi.Router) {
			r.With(bounded).Put("/", s.PutTable)
			r.With(bounded).Get("/", s.GetTable)
			r.With(bounded).Delete("/", s.DeleteTable)
			r.With(bounded).Post("/run", s.RunTable)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CompileRequest carries program text.
type CompileRequest struct {
	Source string `json:"source"`
}

// CompileResponse is a compiled table in both JSON and canonical form.
type CompileResponse struct {
	InitialState string              `json:"initial_state"`
	Transitions  []domain.Transition `json:"transitions"`
	Canonical    string              `json:"canonical"`
}

// RunRequest carries program text (for POST /run) and the input tapes.
type RunRequest struct {
	Source string   `json:"source,omitempty"`
	Inputs []string `json:"inputs"`
}

// RunResult is one result plus the classic output line.
type RunResult struct {
	domain.Result
	Line string `json:"line"`
}

// RunResponse lists results in input order.
type RunResponse struct {
	Results []RunResult `json:"results"`
}

// ErrorResponse reports a failure; Line is set for compile errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Line  int    `json:"line,omitempty"`
}

// TableResponse reports the outcome of PUT /tables/{name}.
type TableResponse struct {
	Name string            `json:"name"`
	Diff *domain.TableDiff `json:"diff"`
}

// Compile handles the POST /compile request.
func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	var body CompileRequest
	if !s.decode(w, r, &body) {
		return
	}

	p, err := s.Engine.Compile(body.Source)
	if err != nil {
		s.compileError(w, err)
		return
	}

	var canonical strings.Builder
	if err := p.WriteCanonical(&canonical); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, CompileResponse{
		InitialState: p.Table().InitialState(),
		Transitions:  p.Table().Transitions(),
		Canonical:    canonical.String(),
	})
}

// Run handles the POST /run request: compile, then run every input.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if !s.decode(w, r, &body) {
		return
	}

	p, err := s.Engine.Compile(body.Source)
	if err != nil {
		s.compileError(w, err)
		return
	}
	s.runProgram(w, r, p, body.Inputs)
}

// ListTables handles the GET /tables request.
func (s *Server) ListTables(w http.ResponseWriter, r *http.Request) {
	names, err := s.Store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"tables": names})
}

// PutTable handles the PUT /tables/{name} request. The update is diffed against
// the stored table under a lock, and the diff is broadcast to event subscribers.
func (s *Server) PutTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var body CompileRequest
	if !s.decode(w, r, &body) {
		return
	}

	p, err := s.Engine.Compile(body.Source)
	if err != nil {
		s.compileError(w, err)
		return
	}

	unlock, ok := s.lockTable(w, r, name)
	if !ok {
		return
	}
	defer unlock()

	old, err := s.Store.Load(r.Context(), name)
	if err != nil && !errors.Is(err, domain.ErrTableNotFound) {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	if err := s.Store.Save(r.Context(), name, p.Table()); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	diff := domain.Diff(old, p.Table())
	s.broadcast(name, diff)

	status := http.StatusOK
	if old == nil {
		status = http.StatusCreated
	}
	s.writeJSON(w, status, TableResponse{Name: name, Diff: diff})
}

// GetTable handles the GET /tables/{name} request.
// With ?format=canonical the table is returned as five-field text.
func (s *Server) GetTable(w http.ResponseWriter, r *http.Request) {
	table, ok := s.load(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("format") == "canonical" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := morphett.Encode(w, table); err != nil {
			s.logger.Error("GetTable: encode failed", "err", err)
		}
		return
	}
	s.writeJSON(w, http.StatusOK, table)
}

// DeleteTable handles the DELETE /tables/{name} request. Like PutTable it holds
// the table lock, and subscribers receive every transition as removed.
func (s *Server) DeleteTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	unlock, ok := s.lockTable(w, r, name)
	if !ok {
		return
	}
	defer unlock()

	old, err := s.Store.Load(r.Context(), name)
	if err != nil && !errors.Is(err, domain.ErrTableNotFound) {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.Store.Delete(r.Context(), name); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if old != nil {
		s.broadcast(name, domain.Diff(old, domain.NewTable()))
	}
	w.WriteHeader(http.StatusNoContent)
}

// lockTable takes the distributed lock on name. On failure it has already written
// the response.
func (s *Server) lockTable(w http.ResponseWriter, r *http.Request, name string) (func(), bool) {
	unlock, err := s.Locker.Lock(r.Context(), name, lockTTL)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err)
		return nil, false
	}
	return func() {
		// Release even if the request was cancelled meanwhile.
		if err := unlock(context.WithoutCancel(r.Context())); err != nil {
			s.logger.Warn("unlock failed", "table", name, "err", err)
		}
	}, true
}

func (s *Server) broadcast(name string, diff *domain.TableDiff) {
	if diff.IsEmpty() {
		return
	}
	s.logger.Info("table updated", "table", name, "added", len(diff.Added), "changed", len(diff.Changed), "removed", len(diff.Removed))
	if data, err := json.Marshal(diff); err == nil {
		s.Streams.Broadcast(name, string(data))
	}
}

// RunTable handles the POST /tables/{name}/run request.
func (s *Server) RunTable(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if !s.decode(w, r, &body) {
		return
	}
	table, ok := s.load(w, r)
	if !ok {
		return
	}
	s.runProgram(w, r, s.Engine.FromTable(table), body.Inputs)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "turing-http",
		"version": strings.TrimSpace(turing.Version),
	})
}

// SubscribeEvents handles the GET /tables/{name}/events request (SSE).
// Each PUT that changes the table sends its diff as one event.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	name := chi.URLParam(r, "name")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(name)
	defer cancel()
	s.logger.Info("SSE: Subscribing to table updates", "table", name)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: diff\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) runProgram(w http.ResponseWriter, r *http.Request, p *turing.Program, args []string) {
	inputs := make([]string, len(args))
	for i, arg := range args {
		inputs[i] = domain.NormalizeInput(arg)
	}

	results, err := p.RunAll(r.Context(), inputs)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			status = http.StatusGatewayTimeout
		}
		s.writeError(w, status, err)
		return
	}

	resp := RunResponse{Results: make([]RunResult, len(results))}
	for i, res := range results {
		resp.Results[i] = RunResult{Result: res, Line: turing.PlainRenderer(args[i], res)}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*domain.Table, bool) {
	table, err := s.Store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrTableNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err)
		return nil, false
	}
	return table, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func (s *Server) compileError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var cerr *compiler.Error
	if errors.As(err, &cerr) {
		resp.Line = cerr.Line
	}
	s.writeJSON(w, http.StatusUnprocessableEntity, resp)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "err", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
