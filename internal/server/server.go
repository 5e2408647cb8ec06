// Package server hosts a sprite sheet for browser preview.
//
// The server exposes the assembled sheet PNG, a JSON description of its
// geometry, and an index page that animates the sheet with a CSS steps()
// animation, which is exactly how a game or web consumer steps through the
// frames.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"spriteforge/pkg/cache"
	"spriteforge/pkg/sheet"
)

// Config describes the sheet to serve.
type Config struct {
	SheetPath string      // assembled sprite sheet PNG
	Frames    int         // frame count the sheet holds
	FPS       int         // playback rate for the preview page
	Name      string      // animation name shown on the page
	Cache     cache.Cache // artifact cache (nil disables caching)
	Logger    *log.Logger // nil falls back to the package default
}

// Server serves one sprite sheet.
type Server struct {
	cfg    Config
	info   *sheet.Info
	cache  cache.Cache
	logger *log.Logger
	router chi.Router
}

// New validates the sheet and builds the server.
// The sheet's geometry is fixed at startup; re-assembling the sheet requires
// a restart, matching the one-shot lifecycle of the asset pipeline.
func New(cfg Config) (*Server, error) {
	info, err := sheet.Inspect(cfg.SheetPath, cfg.Frames)
	if err != nil {
		return nil, err
	}
	if cfg.FPS < 1 {
		cfg.FPS = 12
	}
	if cfg.Name == "" {
		cfg.Name = "animation"
	}
	c := cfg.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:    cfg,
		info:   info,
		cache:  cache.NewScoped(c, "serve:"),
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/sheet.png", s.handleSheet)
	r.Get("/api/info", s.handleInfo)
	s.router = r

	return s, nil
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Infof("Preview at http://localhost%s", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// handleIndex renders the animated preview page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	duration := float64(s.info.Frames) / float64(s.cfg.FPS)
	data := struct {
		Name     string
		Info     *sheet.Info
		FPS      int
		Duration string
	}{
		Name:     s.cfg.Name,
		Info:     s.info,
		FPS:      s.cfg.FPS,
		Duration: fmt.Sprintf("%.3f", duration),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Errorf("render index: %v", err)
	}
}

// handleSheet serves the sheet PNG, cached by path and modification time so
// a re-assembled sheet is picked up without serving stale bytes.
func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	st, err := os.Stat(s.cfg.SheetPath)
	if err != nil {
		http.Error(w, "sheet not found", http.StatusNotFound)
		return
	}
	key := cache.Hash([]byte(fmt.Sprintf("%s|%d", s.cfg.SheetPath, st.ModTime().UnixNano())))

	if data, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
		s.writePNG(w, data)
		return
	}

	data, err := os.ReadFile(s.cfg.SheetPath)
	if err != nil {
		http.Error(w, "read sheet failed", http.StatusInternalServerError)
		return
	}
	if err := s.cache.Set(r.Context(), key, data, cache.DefaultTTL); err != nil {
		s.logger.Debugf("cache write failed: %v", err)
	}
	s.writePNG(w, data)
}

func (s *Server) writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}

// handleInfo reports the sheet geometry as JSON.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	out := struct {
		Name string `json:"name"`
		FPS  int    `json:"fps"`
		*sheet.Info
	}{
		Name: s.cfg.Name,
		FPS:  s.cfg.FPS,
		Info: s.info,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.logger.Errorf("encode info: %v", err)
	}
}

// indexTemplate animates the sheet with a steps() background slide, the same
// frame-lookup pattern the consuming game uses.
var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.Name}} - spriteforge</title>
<style>
  body {
    background: #1e1e22;
    color: #c8c8cc;
    font-family: monospace;
    display: flex;
    flex-direction: column;
    align-items: center;
    gap: 1.5rem;
    padding-top: 4rem;
  }
  .sprite {
    width: {{.Info.FrameWidth}}px;
    height: {{.Info.FrameHeight}}px;
    background: url(/sheet.png) 0 0 no-repeat;
    animation: play {{.Duration}}s steps({{.Info.Frames}}) infinite;
    image-rendering: pixelated;
    zoom: 4;
  }
  @keyframes play {
    to { background-position: -{{.Info.Width}}px 0; }
  }
</style>
</head>
<body>
<h1>{{.Name}}</h1>
<div class="sprite"></div>
<p>{{.Info.Frames}} frames · {{.Info.FrameWidth}}×{{.Info.FrameHeight}} · {{.FPS}} fps</p>
</body>
</html>
`))
