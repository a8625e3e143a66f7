// Package server serves a built site for local preview. Detail pages and
// the map and calendar fragments are rendered per request from the data
// registries.
package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kagai-portal/hanamachi/internal/calendar"
	"github.com/kagai-portal/hanamachi/internal/config"
	"github.com/kagai-portal/hanamachi/internal/layout"
	"github.com/kagai-portal/hanamachi/internal/mapview"
	"github.com/kagai-portal/hanamachi/internal/records"
	"github.com/kagai-portal/hanamachi/internal/site"
)

// Config holds server configuration.
type Config struct {
	Port     int
	Dir      string // built site to serve
	BasePath string // path the site is mounted under
	AllowAll bool   // allow all CORS origins
}

// Server is the local preview server.
type Server struct {
	cfg        Config
	regs       site.Registries
	logger     *zap.Logger
	calendar   *calendar.Renderer
	now        func() time.Time
	router     chi.Router
	httpServer *http.Server
}

// New creates a preview server for cfg.Dir.
func New(cfg Config, regs site.Registries, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.BasePath = config.NormalizeBasePath(cfg.BasePath)
	s := &Server{
		cfg:      cfg,
		regs:     regs,
		logger:   logger,
		calendar: calendar.NewRenderer(),
		now:      time.Now,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	prefix := strings.TrimSuffix(s.cfg.BasePath, "/")
	if prefix != "" {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, s.cfg.BasePath, http.StatusFound)
		})
	}

	siteRouter := chi.NewRouter()
	siteRouter.Get("/api/map/{region}", s.handleMap)
	siteRouter.Get("/api/calendar/{month}", s.handleCalendar)
	siteRouter.Post("/api/reload", s.handleReload)
	siteRouter.Get("/pages/event-detail.html", s.handleDetail(site.EventDetail))
	siteRouter.Get("/pages/kagai-detail.html", s.handleDetail(site.PlaceDetail))
	siteRouter.Handle("/*", http.StripPrefix(prefix, http.FileServer(http.Dir(s.cfg.Dir))))

	if prefix == "" {
		r.Mount("/", siteRouter)
	} else {
		r.Mount(prefix, siteRouter)
	}
	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("preview server listening",
		zap.String("addr", addr),
		zap.String("base_path", s.cfg.BasePath),
		zap.String("dir", s.cfg.Dir))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleDetail(kind site.DetailKind) http.HandlerFunc {
	name := "event-detail.html"
	if kind == site.PlaceDetail {
		name = "kagai-detail.html"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := os.Open(filepath.Join(s.cfg.Dir, "pages", name))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()
		doc, err := goquery.NewDocumentFromReader(f)
		if err != nil {
			s.logger.Error("detail page unreadable", zap.String("page", name), zap.Error(err))
			http.Error(w, "page unreadable", http.StatusInternalServerError)
			return
		}

		id := r.URL.Query().Get("id")
		var found bool
		switch kind {
		case site.EventDetail:
			found = site.RenderEventDetail(r.Context(), doc, s.regs.Subpage, id)
		default:
			found = site.RenderPlaceDetail(r.Context(), doc, s.regs.Subpage, id, true)
		}

		var buf bytes.Buffer
		if err := layout.WriteDocument(&buf, doc); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if !found {
			w.WriteHeader(http.StatusNotFound)
		}
		w.Write(buf.Bytes())
	}
}

// handleMap renders the modal body for one region, as the map script shows
// it after a hotspot is activated.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	region, err := records.ParseRegion(chi.URLParam(r, "region"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	isSubpage := boolParam(r, "subpage", false)

	m := mapview.NewMachine(&mapview.Stack{}, isSubpage)
	m.Open(region)
	view := m.Load(r.Context(), mapview.SourceLoader(s.regs.For(isSubpage)))

	var buf bytes.Buffer
	if err := mapview.RenderView(&buf, view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Map-Title", view.Title)
	w.Write(buf.Bytes())
}

// handleCalendar renders the day cells and modal templates of a month given
// as YYYY-MM, for month navigation without a page reload.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	month, err := time.Parse("2006-01", chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
		return
	}
	reg := s.regs.For(boolParam(r, "subpage", true))
	ctx := r.Context()
	grid := calendar.BuildGrid(calendar.NewState(month), func(dateKey string) []records.EventRecord {
		return reg.EventsForDate(ctx, dateKey)
	}, s.now())

	var buf bytes.Buffer
	if err := s.calendar.RenderDays(&buf, grid); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.calendar.RenderModalTemplates(&buf, grid); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Calendar-Month", grid.State.MonthName())
	w.Header().Set("X-Calendar-Year", grid.State.YearLabel())
	w.Write(buf.Bytes())
}

// handleReload drops cached data so edited spreadsheets are picked up.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.regs.Invalidate()
	s.logger.Info("data caches invalidated")
	w.WriteHeader(http.StatusNoContent)
}

func boolParam(r *http.Request, name string, def bool) bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
