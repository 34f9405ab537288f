// Package server provides the HTTP server and handlers.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jade/nuestro27/internal/anniversary"
	"github.com/jade/nuestro27/internal/app"
	"github.com/jade/nuestro27/internal/calendar"
	"github.com/jade/nuestro27/internal/notify"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// permissionWait bounds how long an opt-in waits for the page's answer.
const permissionWait = 2 * time.Minute

// Server is the main HTTP server.
type Server struct {
	state     *app.State
	gate      *notify.Gate
	browser   *notify.Browser // nil unless notifications go to the page
	watcher   *anniversary.Watcher
	router    chi.Router
	templates *template.Template
	log       *zap.Logger
	http      *http.Server
}

// New creates a new server. browser may be nil.
func New(state *app.State, gate *notify.Gate, browser *notify.Browser, watcher *anniversary.Watcher, log *zap.Logger) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"monthName": func(m time.Month) string { return calendar.MonthNames[m-1] },
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		state:     state,
		gate:      gate,
		browser:   browser,
		watcher:   watcher,
		templates: tmpl,
		log:       log,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Serve static files.
	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Pages.
	r.Get("/", s.handleHome)

	// API.
	r.Route("/api", func(r chi.Router) {
		r.Get("/countdown", s.handleCountdown)

		r.Get("/settings", s.handleGetSettings)
		r.Post("/settings", s.handleSaveSettings)
		r.Post("/settings/background", s.handleUploadBackground)

		r.Get("/memories", s.handleListMemories)
		r.Post("/memories", s.handleAddMemory)
		r.Delete("/memories/{id}", s.handleDeleteMemory)

		r.Get("/calendar", s.handleCalendarYear)
		r.Get("/calendar/{year}/{month}", s.handleCalendarMonth)

		r.Get("/notifications", s.handlePollNotifications)
		r.Post("/notifications/enable", s.handleEnableNotifications)
		r.Post("/notifications/permission", s.handleReportPermission)
		r.Post("/notifications/disable", s.handleDisableNotifications)

		r.Get("/overrides", s.handleGetOverrides)
		r.Put("/overrides", s.handleSaveOverrides)
	})

	s.router = r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the watcher and serves HTTP until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.watcher.Start()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("server starting", zap.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and stops the watcher.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	s.watcher.Stop()
	return err
}

// --- Page Handlers ---

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	now := s.watcher.Now()
	cfg := s.state.Config()
	st := anniversary.Compute(now, cfg.AnniversaryDay)

	data := map[string]interface{}{
		"AnniversaryDay": cfg.AnniversaryDay,
		"IsAnniversary":  st.IsAnniversary,
		"TimeLeft":       st.TimeLeft,
		"Message":        s.state.Message(),
		"Month":          now.Month(),
	}
	s.render(w, "layout.html", data)
}

// --- Helpers ---

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("template error", zap.String("template", name), zap.Error(err))
		http.Error(w, "Render error", http.StatusInternalServerError)
	}
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Debug("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("took", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
