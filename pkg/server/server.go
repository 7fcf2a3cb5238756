// Package server serves a built atlas over HTTP for previewing and for
// tools that fetch single icons during development.
//
// Routes:
//
//	GET /healthz            liveness probe
//	GET /atlas.png          the sheet image
//	GET /atlas.json         the metadata, as written by the build command
//	GET /icons              sorted icon names
//	GET /icons/{name}.png   one icon cut out of the sheet
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/iconatlas/pkg/atlas"
	"github.com/matzehuels/iconatlas/pkg/raster"
	"github.com/matzehuels/iconatlas/pkg/sink"
)

// ErrNotLoaded is returned when a server is created without an atlas.
var ErrNotLoaded = errors.New("atlas not loaded")

// shutdownTimeout bounds how long in-flight requests may take after the
// server was asked to stop.
const shutdownTimeout = 5 * time.Second

// previewCompression favors encode speed; previews are served locally.
const previewCompression = png.BestSpeed

// Atlas is a sheet together with its metadata.
type Atlas struct {
	Sheet    *image.NRGBA
	Metadata atlas.Metadata
}

// Load reads a sheet image and its metadata from disk.
func Load(sheetPath, metadataPath string) (*Atlas, error) {
	sheet, err := raster.DecodeFile(sheetPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(metadataPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	meta, err := sink.ReadMetadata(f)
	if err != nil {
		return nil, err
	}

	return &Atlas{Sheet: sheet, Metadata: meta}, nil
}

// Names returns the icon names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.Metadata.Icons))
	for name := range a.Metadata.Icons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Icon cuts the named icon out of the sheet.
func (a *Atlas) Icon(name string) (*image.NRGBA, bool) {
	r, ok := a.Metadata.Lookup(name)
	if !ok {
		return nil, false
	}
	rect := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
	if !rect.In(a.Sheet.Bounds()) {
		return nil, false
	}
	return imaging.Crop(a.Sheet, rect), true
}

// Server is the preview HTTP server.
type Server struct {
	atlas    *Atlas
	sheetPNG []byte
	metaJSON []byte
	logger   *log.Logger
	router   chi.Router
}

// New prepares a server for a. The sheet and metadata are encoded once up
// front; icon crops are encoded per request.
func New(a *Atlas, logger *log.Logger) (*Server, error) {
	if a == nil || a.Sheet == nil {
		return nil, ErrNotLoaded
	}
	if logger == nil {
		logger = log.Default()
	}

	var sheet bytes.Buffer
	if err := sink.EncodeSheet(&sheet, a.Sheet, sink.WithCompression(previewCompression)); err != nil {
		return nil, err
	}
	var meta bytes.Buffer
	if err := sink.WriteMetadata(&meta, a.Metadata); err != nil {
		return nil, err
	}

	s := &Server{
		atlas:    a,
		sheetPNG: sheet.Bytes(),
		metaJSON: meta.Bytes(),
		logger:   logger,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/atlas.png", s.handleSheet)
	r.Get("/atlas.json", s.handleMetadata)
	r.Get("/icons", s.handleIcons)
	r.Get("/icons/{file}", s.handleIcon)
	return r
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Write(s.sheetPNG)
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.metaJSON)
}

func (s *Server) handleIcons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.atlas.Names())
}

func (s *Server) handleIcon(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	name, ok := strings.CutSuffix(file, ".png")
	if !ok || name == "" {
		writeError(w, http.StatusNotFound, "icon not found: "+file)
		return
	}

	img, ok := s.atlas.Icon(name)
	if !ok {
		writeError(w, http.StatusNotFound, "icon not found: "+name)
		return
	}

	var buf bytes.Buffer
	if err := sink.EncodeSheet(&buf, img, sink.WithCompression(previewCompression)); err != nil {
		s.logger.Error("encode icon", "icon", name, "err", err)
		writeError(w, http.StatusInternalServerError, "encode failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// logRequests logs each request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
