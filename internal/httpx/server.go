// path: internal/httpx/server.go
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"rensa_sim/internal/batch"
	"rensa_sim/internal/field"
	"rensa_sim/internal/shared"
	"rensa_sim/internal/store"
)

// Server exposes stored fields over a JSON API.
type Server struct {
	store        *store.Store
	log          *slog.Logger
	maxBodyBytes int64
	batchWorkers int
	srvMu        sync.Mutex
	srv          *http.Server
}

// Options configures NewServer. Zero values pick defaults.
type Options struct {
	Store        *store.Store
	Logger       *slog.Logger
	MaxBodyBytes int64
	BatchWorkers int
}

const (
	defaultMaxBodyBytes int64 = 1 << 20
	maxBatchFields            = 256
	apiCSP                    = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
)

// NewServer builds a Server around a field store.
func NewServer(opts Options) *Server {
	s := &Server{
		store:        opts.Store,
		log:          opts.Logger,
		maxBodyBytes: opts.MaxBodyBytes,
		batchWorkers: opts.BatchWorkers,
	}
	if s.store == nil {
		s.store = store.New(0)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = defaultMaxBodyBytes
	}
	return s
}

// Listen starts the HTTP server and blocks until it stops.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	s.log.Info("http listening", "addr", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/fields", s.withJSON(s.handleCreate))
	mux.HandleFunc("GET /api/fields", s.withJSON(s.handleList))
	mux.HandleFunc("GET /api/fields/{id}", s.withJSON(s.handleGet))
	mux.HandleFunc("DELETE /api/fields/{id}", s.withJSON(s.handleDelete))
	mux.HandleFunc("POST /api/fields/{id}/place", s.withJSON(s.handlePlace))
	mux.HandleFunc("POST /api/fields/{id}/kumipuyo", s.withJSON(s.handleKumipuyo))
	mux.HandleFunc("POST /api/fields/{id}/remove", s.withJSON(s.handleRemove))
	mux.HandleFunc("POST /api/fields/{id}/drop", s.withJSON(s.handleDrop))
	mux.HandleFunc("POST /api/fields/{id}/ojama", s.withJSON(s.handleOjama))
	mux.HandleFunc("POST /api/fields/{id}/simulate", s.withJSON(s.handleSimulate))
	mux.HandleFunc("POST /api/batch", s.withJSON(s.handleBatch))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return s.withLogging(mux)
}

// ---- JSON helpers ----

func (s *Server) withJSON(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", apiCSP)
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
		}
		h(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		level := slog.LevelDebug
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.log.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": msg})
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// decodeBody reads an optional JSON body into v. It reports false after writing
// the error response.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return true
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request too large")
			return false
		}
		if errors.Is(err, io.EOF) {
			return true
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// writeFailure maps domain errors to status codes.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrFull):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, field.ErrMalformedGrid),
		errors.Is(err, field.ErrUnknownColor),
		errors.Is(err, field.ErrColumnFull),
		errors.Is(err, field.ErrInvalidColumn),
		errors.Is(err, field.ErrInvalidDecision),
		errors.Is(err, field.ErrEmptyColumn):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ---- state ----

type fieldState struct {
	Rows           []string          `json:"rows"`
	Heights        [shared.Width]int `json:"heights"`
	Puyos          int               `json:"puyos"`
	Zenkeshi       bool              `json:"zenkeshi"`
	RensaWillOccur bool              `json:"rensaWillOccur"`
	Erasing        [][2]int          `json:"erasing,omitempty"`
}

func stateOf(f *field.Field) fieldState {
	g := f.ToGrid()
	st := fieldState{
		Rows:           g.Rows(),
		Puyos:          f.CountPuyos(),
		Zenkeshi:       f.IsZenkeshi(),
		RensaWillOccur: f.RensaWillOccur(),
	}
	for x := 1; x <= shared.Width; x++ {
		st.Heights[x-1] = f.Height(x)
	}
	f.ErasingMask().IterateCells(func(x, y int) {
		st.Erasing = append(st.Erasing, [2]int{x, y})
	})
	return st
}

func (s *Server) writeState(w http.ResponseWriter, id string, f field.Field) {
	writeJSON(w, map[string]any{"id": id, "state": stateOf(&f)})
}

// ---- API: fields ----

type createBody struct {
	Rows []string `json:"rows"`
	Drop bool     `json:"drop"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body createBody
	if !decodeBody(w, r, &body) {
		return
	}
	g, err := field.ParseRows(body.Rows...)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	f := field.FromGrid(g)
	if body.Drop {
		f.ForceDrop()
	}
	id, err := s.store.Create(f)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	s.writeState(w, id, f)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"ids": s.store.IDs()})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f, err := s.store.Get(id)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeState(w, id, f)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.PathValue("id")); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, map[string]bool{"deleted": true})
}

// update runs fn against the stored field and writes the new state.
func (s *Server) update(w http.ResponseWriter, r *http.Request, fn func(*field.Field) error) {
	id := r.PathValue("id")
	f, err := s.store.Update(id, fn)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeState(w, id, f)
}

// ---- API: mutations ----

type placeBody struct {
	Column    int      `json:"column"`
	Colors    []string `json:"colors"`
	MaxHeight int      `json:"maxHeight"`
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var body placeBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Column < 1 || body.Column > shared.Width {
		s.writeFailure(w, r, fmt.Errorf("%w: %d", field.ErrInvalidColumn, body.Column))
		return
	}
	if len(body.Colors) == 0 || len(body.Colors) > 2 {
		writeError(w, http.StatusBadRequest, "place takes one or two colors")
		return
	}
	colors, err := parseColors(body.Colors)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	maxHeight := body.MaxHeight
	if maxHeight <= 0 {
		maxHeight = shared.Height
	}
	s.update(w, r, func(f *field.Field) error {
		if !f.Place(body.Column, maxHeight, colors...) {
			return fmt.Errorf("%w: column %d at height %d", field.ErrColumnFull, body.Column, f.Height(body.Column))
		}
		return nil
	})
}

type kumipuyoBody struct {
	X     int    `json:"x"`
	R     int    `json:"r"`
	Axis  string `json:"axis"`
	Child string `json:"child"`
}

func (s *Server) handleKumipuyo(w http.ResponseWriter, r *http.Request) {
	var body kumipuyoBody
	if !decodeBody(w, r, &body) {
		return
	}
	d := field.Decision{X: body.X, R: body.R}
	if !d.IsValid() {
		s.writeFailure(w, r, fmt.Errorf("%w: %s", field.ErrInvalidDecision, d))
		return
	}
	colors, err := parseColors([]string{body.Axis, body.Child})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	k := field.Kumipuyo{Axis: colors[0], Child: colors[1]}
	s.update(w, r, func(f *field.Field) error {
		if !f.DropKumipuyo(d, k) {
			return fmt.Errorf("%w: decision %s", field.ErrColumnFull, d)
		}
		return nil
	})
}

type removeBody struct {
	Column int `json:"column"`
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	var body removeBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Column < 1 || body.Column > shared.Width {
		s.writeFailure(w, r, fmt.Errorf("%w: %d", field.ErrInvalidColumn, body.Column))
		return
	}
	s.update(w, r, func(f *field.Field) error {
		if f.Height(body.Column) == 0 {
			return fmt.Errorf("%w: %d", field.ErrEmptyColumn, body.Column)
		}
		f.RemoveTop(body.Column)
		return nil
	})
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, func(f *field.Field) error {
		f.ForceDrop()
		return nil
	})
}

type ojamaBody struct {
	Lines int `json:"lines"`
}

func (s *Server) handleOjama(w http.ResponseWriter, r *http.Request) {
	var body ojamaBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Lines < 1 || body.Lines > shared.Height {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("lines must be within 1..%d", shared.Height))
		return
	}
	id := r.PathValue("id")
	var frames int
	f, err := s.store.Update(id, func(f *field.Field) error {
		frames = f.FallOjama(body.Lines)
		return nil
	})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"id": id, "frames": frames, "state": stateOf(&f)})
}

// ---- API: simulate ----

type simulateBody struct {
	Fast  bool `json:"fast"`
	Track bool `json:"track"`
}

type simulateResponse struct {
	ID       string            `json:"id"`
	Result   field.RensaResult `json:"result"`
	State    fieldState        `json:"state"`
	ErasedAt [][]int           `json:"erasedAt,omitempty"`
	Coefs    []field.StepCoef  `json:"coefs,omitempty"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var body simulateBody
	if !decodeBody(w, r, &body) {
		return
	}
	id := r.PathValue("id")
	var (
		res    field.RensaResult
		erased field.ErasedTracker
		coef   field.CoefTracker
	)
	f, err := s.store.Update(id, func(f *field.Field) error {
		switch {
		case body.Fast:
			res.Chains, res.Score = f.SimulateFast()
		case body.Track:
			res = f.SimulateWith(field.MultiTracker{&erased, &coef})
		default:
			res = f.Simulate()
		}
		return nil
	})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	resp := simulateResponse{ID: id, Result: res, State: stateOf(&f)}
	if body.Track && !body.Fast {
		resp.ErasedAt = erasedGrid(&erased)
		resp.Coefs = coef.Steps()
	}
	writeJSON(w, resp)
}

// erasedGrid lays out the first erase chain of every cell, top row first.
func erasedGrid(t *field.ErasedTracker) [][]int {
	rows := make([][]int, 0, shared.Height)
	for y := shared.Height; y >= 1; y-- {
		row := make([]int, shared.Width)
		for x := 1; x <= shared.Width; x++ {
			row[x-1] = t.ChainAt(x, y)
		}
		rows = append(rows, row)
	}
	return rows
}

// ---- API: batch ----

type batchBody struct {
	Fields [][]string `json:"fields"`
	Fast   bool       `json:"fast"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var body batchBody
	if !decodeBody(w, r, &body) {
		return
	}
	if len(body.Fields) > maxBatchFields {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d fields per batch", maxBatchFields))
		return
	}
	fields := make([]field.Field, 0, len(body.Fields))
	for i, rows := range body.Fields {
		f, err := field.FromRows(rows...)
		if err != nil {
			s.writeFailure(w, r, fmt.Errorf("field %d: %w", i, err))
			return
		}
		fields = append(fields, f)
	}
	out, err := batch.Simulate(r.Context(), fields, batch.Options{Workers: s.batchWorkers, Fast: body.Fast})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"outcomes": out})
}

// ---- parsing helpers ----

func parseColors(names []string) ([]shared.Color, error) {
	out := make([]shared.Color, 0, len(names))
	for _, name := range names {
		c, ok := shared.ParseColorName(name)
		if !ok || c == shared.Empty {
			return nil, fmt.Errorf("%w: %q", field.ErrUnknownColor, strings.TrimSpace(name))
		}
		out = append(out, c)
	}
	return out, nil
}
