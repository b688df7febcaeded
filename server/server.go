package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/vidscope/vidscope/pkg/analyzer"
	"github.com/vidscope/vidscope/pkg/blindspot"
	"github.com/vidscope/vidscope/pkg/domain"
	"github.com/vidscope/vidscope/pkg/memory"
	"github.com/vidscope/vidscope/pkg/repository"
	"github.com/vidscope/vidscope/pkg/session"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/analyzer.go -pkg mocks -skip-ensure -fmt goimports . Analyzer
//go:generate moq -out mocks/memory_engine.go -pkg mocks -skip-ensure -fmt goimports . MemoryEngine
//go:generate moq -out mocks/searcher.go -pkg mocks -skip-ensure -fmt goimports . Searcher
//go:generate moq -out mocks/generator.go -pkg mocks -skip-ensure -fmt goimports . Generator
//go:generate moq -out mocks/blind_spotter.go -pkg mocks -skip-ensure -fmt goimports . BlindSpotter

// Server represents HTTP server instance
type Server struct {
	config      ConfigProvider
	analyzer    Analyzer
	memEngine   MemoryEngine
	searcher    Searcher
	generator   Generator
	blindSpots  BlindSpotter
	repos       *repository.Repositories
	sessions    *session.Service
	version     string
	debug       bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	AnalysisTTL() time.Duration
}

// Analyzer runs the per-video generation pipeline
type Analyzer interface {
	Analyze(ctx context.Context, req analyzer.Request) (*domain.VideoAnalysis, error)
}

// MemoryEngine handles preference extraction, merging and condensation
type MemoryEngine interface {
	ExtractFromFeedback(ctx context.Context, feedback domain.FeedbackType,
		videoID, videoTitle string, analysis domain.VideoAnalysis) ([]domain.MemoryEntry, error)
	CheckSimilarity(ctx context.Context, newPreference string, existing []domain.MemoryEntry) (memory.SimilarityResult, error)
	Condense(ctx context.Context, memories []domain.MemoryEntry) ([]domain.MemoryEntry, error)
	SynthesizeProfile(ctx context.Context, manualPreferences string, memories []domain.MemoryEntry) (string, error)
}

// Searcher finds related web content
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.RelatedResource, error)
}

// Generator is the plain text generation surface, used for key validation
type Generator interface {
	Generate(ctx context.Context, task, prompt string) (string, error)
}

// BlindSpotter derives blind-spot reports from watch history
type BlindSpotter interface {
	Analyze(ctx context.Context, days int) (blindspot.Analysis, error)
}

// Deps bundles the collaborators the server needs
type Deps struct {
	Analyzer   Analyzer
	Memory     MemoryEngine
	Searcher   Searcher
	Generator  Generator
	BlindSpots BlindSpotter
	Repos      *repository.Repositories
	Sessions   *session.Service
}

// New initializes a new server instance
func New(cfg ConfigProvider, deps Deps, version string, debug bool) *Server {
	s := &Server{
		config:     cfg,
		analyzer:   deps.Analyzer,
		memEngine:  deps.Memory,
		searcher:   deps.Searcher,
		generator:  deps.Generator,
		blindSpots: deps.BlindSpots,
		repos:      deps.Repos,
		sessions:   deps.Sessions,
		version:    version,
		debug:      debug,
		router:     routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("vidscope", "vidscope", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)

		// analysis core
		r.HandleFunc("POST /videos/analyze", s.analyzeHandler)
		r.HandleFunc("GET /videos/{id}/cache", s.cachedAnalysisHandler)
		r.HandleFunc("POST /videos/{id}/feedback", s.saveFeedbackHandler)
		r.HandleFunc("GET /videos/{id}/feedback", s.getFeedbackHandler)
		r.HandleFunc("POST /videos/{id}/related", s.relatedContentHandler)
		r.HandleFunc("POST /videos/{id}/guardian", s.guardianCheckHandler)

		// memories and profile
		r.HandleFunc("GET /memories", s.listMemoriesHandler)
		r.HandleFunc("POST /memories/condense", s.condenseMemoriesHandler)
		r.HandleFunc("DELETE /memories/{id}", s.deleteMemoryHandler)
		r.HandleFunc("POST /profile/regenerate", s.regenerateProfileHandler)

		// settings and focus schedule
		r.HandleFunc("GET /settings", s.getSettingsHandler)
		r.HandleFunc("PUT /settings", s.saveSettingsHandler)
		r.HandleFunc("GET /focus", s.getFocusHandler)
		r.HandleFunc("POST /focus/pause", s.pauseFocusHandler)

		// watch sessions
		r.HandleFunc("GET /session", s.getSessionHandler)
		r.HandleFunc("POST /session/start", s.startSessionHandler)
		r.HandleFunc("POST /session/videos", s.sessionAddVideoHandler)
		r.HandleFunc("POST /session/videos/{id}/end", s.sessionEndVideoHandler)
		r.HandleFunc("POST /session/activity", s.sessionActivityHandler)
		r.HandleFunc("POST /session/intent", s.sessionIntentHandler)
		r.HandleFunc("GET /session/checkin", s.sessionCheckinHandler)

		// stats
		r.HandleFunc("POST /stats/watch", s.recordWatchHandler)
		r.HandleFunc("GET /stats/daily", s.dailyStatsHandler)
		r.HandleFunc("GET /stats/channels", s.listChannelStatsHandler)
		r.HandleFunc("GET /stats/channels/{id}", s.getChannelStatsHandler)
		r.HandleFunc("GET /stats/overrides", s.getOverridesHandler)
		r.HandleFunc("POST /stats/overrides/track", s.trackOverrideHandler)
		r.HandleFunc("GET /stats/blindspots", s.blindSpotsHandler)

		// notes
		r.HandleFunc("GET /videos/{id}/notes", s.listNotesHandler)
		r.HandleFunc("POST /videos/{id}/notes", s.addNoteHandler)
		r.HandleFunc("PUT /notes/{id}", s.updateNoteHandler)
		r.HandleFunc("DELETE /notes/{id}", s.deleteNoteHandler)

		// liked channels
		r.HandleFunc("GET /channels/liked", s.listLikedChannelsHandler)
		r.HandleFunc("DELETE /channels/liked/{id}", s.removeLikedChannelHandler)
		r.HandleFunc("PUT /channels/liked/{id}/subscription", s.setSubscriptionHandler)

		// API key validation
		r.HandleFunc("POST /keys/validate", s.validateKeysHandler)
	})
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// renderJSON sends data as json
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends a uniform structured failure
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]interface{}{"success": false, "error": errMsg})
}
