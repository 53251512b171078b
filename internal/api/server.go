// File path: internal/api/server.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nicodishanthj/docgen/internal/catalog"
	"github.com/nicodishanthj/docgen/internal/common"
	"github.com/nicodishanthj/docgen/internal/document"
	"github.com/nicodishanthj/docgen/internal/llm"
	"github.com/nicodishanthj/docgen/internal/workflow"
)

const maxRequestBody = 1 << 20

// History exposes the artifact catalog for listing endpoints. It is optional.
type History interface {
	Recent(ctx context.Context, limit int) ([]document.Artifact, error)
	Audit(ctx context.Context, artifactID string) ([]catalog.AuditEntry, error)
}

type Server struct {
	router    chi.Router
	generator *workflow.Generator
	history   History
	cfg       Config
	now       func() time.Time
}

// Config controls the HTTP surface.
type Config struct {
	AllowedOrigins []string
	UIPath         string
}

// DefaultConfig returns the configuration used when no overrides are
// provided.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
		UIPath:         filepath.Join("web", "ui"),
	}
}

// Merge overlays non-empty fields of override onto c.
func (c Config) Merge(override Config) Config {
	result := c
	if len(override.AllowedOrigins) > 0 {
		result.AllowedOrigins = append([]string(nil), override.AllowedOrigins...)
	}
	if strings.TrimSpace(override.UIPath) != "" {
		result.UIPath = strings.TrimSpace(override.UIPath)
	}
	return result
}

// LoadConfig reads DOCGEN_ALLOWED_ORIGINS (comma separated) and DOCGEN_UI_PATH.
func LoadConfig() Config {
	var env Config
	for _, origin := range strings.Split(os.Getenv("DOCGEN_ALLOWED_ORIGINS"), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			env.AllowedOrigins = append(env.AllowedOrigins, trimmed)
		}
	}
	env.UIPath = os.Getenv("DOCGEN_UI_PATH")
	return DefaultConfig().Merge(env)
}

// NewServer builds the HTTP handler around generator. history may be nil.
func NewServer(generator *workflow.Generator, history History, cfg *Config) (*Server, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator required")
	}
	configuration := DefaultConfig()
	if cfg != nil {
		configuration = configuration.Merge(*cfg)
	}
	srv := &Server{
		router:    chi.NewRouter(),
		generator: generator,
		history:   history,
		cfg:       configuration,
		now:       time.Now,
	}
	srv.routes()
	common.Logger().Info("api: server ready", "provider", generator.ProviderName(), "history", history != nil)
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(),
				"dur", time.Since(start), "request_id", middleware.GetReqID(r.Context()))
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.Get("/health", s.handleHealth)

	uiPath := s.cfg.UIPath
	index := filepath.Join(uiPath, "index.html")
	if _, err := os.Stat(index); err != nil {
		logger.Warn("api: ui index missing", "path", index, "error", err)
	}
	fileServer := http.FileServer(http.Dir(uiPath))
	s.router.Get("/ui", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/", http.StatusMovedPermanently)
	})
	s.router.Get("/ui/*", func(w http.ResponseWriter, r *http.Request) {
		trimmed := strings.TrimPrefix(r.URL.Path, "/ui/")
		if trimmed == "" || trimmed == "/" {
			http.ServeFile(w, r, index)
			return
		}
		http.StripPrefix("/ui/", fileServer).ServeHTTP(w, r)
	})
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/", http.StatusFound)
	})

	s.router.Get("/api/document-types", s.handleDocumentTypes)
	s.router.Post("/api/chat", s.handleChat)
	s.router.Post("/api/generate-document", s.handleGenerate)
	s.router.Get("/api/download/{id}", s.handleDownload)
	s.router.Get("/api/artifacts", s.handleArtifacts)
	s.router.Get("/api/artifacts/{id}/audit", s.handleAudit)
	s.router.Get("/v1/logs", s.handleLogs)
	s.router.Method(http.MethodGet, "/debug/vars", expvar.Handler())
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	body := errorResponse{Error: err.Error()}
	if kind := workflow.ErrorKind(err); kind != string(llm.KindUnknown) {
		body.Kind = kind
		body.Hint = workflow.Hint(err).Message()
	}
	writeJSON(w, status, body)
}

// statusFor maps a workflow error onto an HTTP status.
func statusFor(err error) int {
	var upstream *llm.UpstreamError
	switch {
	case errors.Is(err, workflow.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, document.ErrEmptyInput), errors.Is(err, document.ErrEmptyAfterNormalization):
		return http.StatusUnprocessableEntity
	case errors.Is(err, workflow.ErrArtifactNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrArtifactInvalid):
		return http.StatusForbidden
	case errors.As(err, &upstream):
		switch upstream.Kind {
		case llm.KindRateLimited:
			return http.StatusTooManyRequests
		case llm.KindTimeout:
			return http.StatusGatewayTimeout
		case llm.KindUnknown:
			return http.StatusInternalServerError
		default:
			return http.StatusBadGateway
		}
	default:
		return http.StatusInternalServerError
	}
}

func downloadURL(id string) string {
	return "/api/download/" + id
}
