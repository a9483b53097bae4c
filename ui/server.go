package ui

import (
	"embed"
	"html/template"
	"net/http"
	"os"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fbal23/BIO-RED-Validation-Portal/app"
	"github.com/fbal23/BIO-RED-Validation-Portal/domain/report"
	"github.com/fbal23/BIO-RED-Validation-Portal/domain/schema"
	"github.com/fbal23/BIO-RED-Validation-Portal/internal"
	"github.com/fbal23/BIO-RED-Validation-Portal/internal/config"
	apperrors "github.com/fbal23/BIO-RED-Validation-Portal/internal/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// recentReportLimit bounds the in-memory report cache backing the download
// endpoints. Reports are transient; nothing is persisted server-side.
const recentReportLimit = 100

// Server is the partner-facing upload portal. It is thin presentation glue:
// one upload form, one report page, downloads, and per-template guidance.
// It holds no validation rules beyond what the engine computes.
type Server struct {
	router    chi.Router
	service   *app.ValidatorService
	registry  *schema.Registry
	cfg       config.ServerConfig
	uploadDir string
	logger    *internal.Logger
	templates *template.Template

	mu     sync.Mutex
	recent map[string]*report.ValidationReport
	order  []string
}

// NewServer builds the portal server and its routes.
func NewServer(cfg *config.Config, service *app.ValidatorService, registry *schema.Registry, logger *internal.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse ui templates")
	}
	if err := os.MkdirAll(cfg.Validator.UploadDir, 0o755); err != nil {
		return nil, apperrors.Wrapf(err, "failed to create upload directory %s", cfg.Validator.UploadDir)
	}

	s := &Server{
		service:   service,
		registry:  registry,
		cfg:       cfg.Server,
		uploadDir: cfg.Validator.UploadDir,
		logger:    logger,
		templates: tmpl,
		recent:    make(map[string]*report.ValidationReport),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/validate", s.handleValidate)
	r.Post("/api/validate", s.handleValidateAPI)
	r.Get("/reports/{reportID}/download", s.handleDownload)
	r.Get("/guide/{template}", s.handleGuide)

	s.router = r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("failed to render %s: %v", name, err)
	}
}

// remember caches a report for the download endpoints, evicting the oldest
// entry past the cache limit.
func (s *Server) remember(rep *report.ValidationReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent[rep.Metadata.ReportID] = rep
	s.order = append(s.order, rep.Metadata.ReportID)
	for len(s.order) > recentReportLimit {
		delete(s.recent, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *Server) lookup(reportID string) (*report.ValidationReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.recent[reportID]
	return rep, ok
}
