package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/josephheron/devlens/internal/application/analysis"
	appconv "github.com/josephheron/devlens/internal/application/conversation"
	domain "github.com/josephheron/devlens/internal/domain/analysis"
	"github.com/josephheron/devlens/internal/domain/faults"
	"github.com/josephheron/devlens/internal/domain/history"
	"github.com/josephheron/devlens/internal/domain/screenshot"
	"github.com/josephheron/devlens/internal/domain/session"
	"github.com/josephheron/devlens/internal/middleware"
)

type Router struct {
	analysisSvc *appanalysis.Service
	convSvc     *appconv.Service
	sessions    session.Store
	history     history.Repository // optional
	faults      faults.Repository  // optional
	objects     screenshot.Source  // optional, object-storage attachments
	logger      *slog.Logger
}

type Options struct {
	Analysis *appanalysis.Service
	Conv     *appconv.Service
	Sessions session.Store
	History  history.Repository
	Faults   faults.Repository
	Objects  screenshot.Source
	Logger   *slog.Logger

	// Health names dependency checkers served at /health. Empty means
	// /health degrades to a plain liveness probe.
	Health map[string]middleware.HealthChecker

	RateLimitCapacity   int
	RateLimitRefillRate int
}

func NewRouter(opts Options) http.Handler {
	r := &Router{
		analysisSvc: opts.Analysis,
		convSvc:     opts.Conv,
		sessions:    opts.Sessions,
		history:     opts.History,
		faults:      opts.Faults,
		objects:     opts.Objects,
		logger:      opts.Logger,
	}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-OpenAI-Key"},
	}))
	if opts.Logger != nil {
		mux.Use(middleware.Logging(opts.Logger))
	}
	mux.Use(middleware.CountRequests)

	if len(opts.Health) > 0 {
		mux.Get("/health", middleware.HealthHandler(opts.Health))
	} else {
		mux.Get("/health", middleware.LivenessHandler)
	}
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/sessions/{session}", func(rt chi.Router) {
		rt.Use(middleware.ExtractAPIKey)
		if opts.RateLimitCapacity > 0 {
			rt.Use(middleware.RateLimit(opts.RateLimitCapacity, opts.RateLimitRefillRate))
		}
		rt.Post("/analyse", r.wrap(r.handleAnalyse))
		rt.Post("/ask", r.wrap(r.handleAsk))
		rt.Get("/analysis", r.wrap(r.handleAnalysis))
		rt.Get("/transcript", r.wrap(r.handleTranscript))
		rt.Get("/history", r.wrap(r.handleHistory))
		rt.Get("/faults", r.wrap(r.handleFaults))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, fs.ErrNotExist):
				http.Error(w, "screenshot not readable", http.StatusBadRequest)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

func sessionID(req *http.Request) (string, error) {
	id := chi.URLParam(req, "session")
	if err := middleware.ValidateSessionID(id); err != nil {
		return "", err
	}
	return id, nil
}

type analyseUpdate struct {
	Status string         `json:"status"`
	Output string         `json:"output,omitempty"`
	Result *domain.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// POST /v1/sessions/{session}/analyse
// Multipart: "prompt" field plus one or more "screenshots" files.
// JSON: {"prompt": "...", "keys": ["object/key.jpg", ...]} against the
// configured object store.
// Responds with two ndjson lines: a working acknowledgment, then the
// final outcome.
func (r *Router) handleAnalyse(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	cmd := appanalysis.Command{
		SessionID: id,
		APIKey:    middleware.APIKeyFromContext(req.Context()),
	}

	var cleanup func()
	if isMultipart(req) {
		atts, prompt, cl, err := saveUploads(req)
		if err != nil {
			return err
		}
		cleanup = cl
		cmd.Prompt = prompt
		cmd.Attachments = atts
	} else {
		var body struct {
			Prompt string   `json:"prompt"`
			Keys   []string `json:"keys"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return err
		}
		if len(body.Keys) > 0 && r.objects == nil {
			http.Error(w, "object storage is not configured", http.StatusBadRequest)
			return nil
		}
		cmd.Prompt = middleware.SanitizeString(body.Prompt)
		cmd.Source = r.objects
		for _, key := range body.Keys {
			cmd.Attachments = append(cmd.Attachments, screenshot.Attachment{
				Name: filepath.Base(key),
				Ref:  key,
			})
		}
	}
	if cleanup != nil {
		defer cleanup()
	}

	middleware.IncrementAnalyses()

	w.Header().Set("Content-Type", "application/x-ndjson")
	enc := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)

	// The channel is always drained so cleanup cannot remove temp files
	// from under a still-running analysis.
	clientGone := false
	for u := range r.analysisSvc.AnalyseAsync(req.Context(), cmd) {
		line := analyseUpdate{Status: string(u.Stage), Output: u.Rendered, Result: u.Result}
		if u.Err != nil {
			line = analyseUpdate{Status: "error", Error: u.Err.Error()}
			middleware.IncrementAnalysesFailed()
		} else if u.Stage == appanalysis.StageDone && u.Result == nil {
			middleware.IncrementAnalysesFailed()
		}
		if clientGone {
			continue
		}
		if err := enc.Encode(line); err != nil {
			clientGone = true
			continue
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
	return nil
}

// POST /v1/sessions/{session}/ask
// Body: {"question": "..."}
func (r *Router) handleAsk(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	var body struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}

	middleware.IncrementFollowUps()

	transcript, status := r.convSvc.Ask(req.Context(), id, body.Question, middleware.APIKeyFromContext(req.Context()))

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]string{
		"transcript": string(transcript),
		"status":     status,
	})
}

// GET /v1/sessions/{session}/analysis
func (r *Router) handleAnalysis(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	snap, ok := r.sessions.Snapshot(id)
	if !ok || snap.Result == nil {
		http.Error(w, "no analysis for session", http.StatusNotFound)
		return nil
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"rendered": domain.Render(snap.Result),
		"result":   snap.Result,
	})
}

// GET /v1/sessions/{session}/transcript
func (r *Router) handleTranscript(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	snap, _ := r.sessions.Snapshot(id)
	text := string(snap.Transcript)
	if text == "" {
		text = session.TranscriptPlaceholder
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]string{"transcript": text})
}

// GET /v1/sessions/{session}/history?page=&page_size=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	if r.history == nil {
		http.Error(w, "history is not configured", http.StatusNotFound)
		return nil
	}

	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.history.Paginate(req.Context(), id, middleware.ValidatePage(page), middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/sessions/{session}/faults?limit=
func (r *Router) handleFaults(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	if r.faults == nil {
		http.Error(w, "failure log is not configured", http.StatusNotFound)
		return nil
	}

	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.faults.ListBySession(req.Context(), id, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

func isMultipart(req *http.Request) bool {
	mt := req.Header.Get("Content-Type")
	return len(mt) >= 19 && mt[:19] == "multipart/form-data"
}

const maxUploadBytes = 32 << 20

// saveUploads writes each uploaded screenshot to a temp file and
// returns attachments in upload order plus a cleanup func. Ordering
// matters: the encoded list and the breakdown ordinals follow it.
func saveUploads(req *http.Request) ([]screenshot.Attachment, string, func(), error) {
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", nil, fmt.Errorf("parse multipart form: %w", err)
	}

	prompt := middleware.SanitizeString(req.FormValue("prompt"))

	var paths []string
	cleanup := func() {
		for _, p := range paths {
			os.Remove(p)
		}
	}

	var atts []screenshot.Attachment
	if req.MultipartForm != nil {
		for _, fh := range req.MultipartForm.File["screenshots"] {
			path, err := saveUpload(fh)
			if err != nil {
				cleanup()
				return nil, "", nil, err
			}
			paths = append(paths, path)
			atts = append(atts, screenshot.Attachment{
				Name: filepath.Base(fh.Filename),
				Ref:  path,
			})
		}
	}
	return atts, prompt, cleanup, nil
}

func saveUpload(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "devlens-screenshot-*")
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("spool upload %q: %w", fh.Filename, err)
	}
	return dst.Name(), nil
}
