// Package server exposes the signup-sheet renderer over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	kerrors "github.com/k1LoW/errors"

	"github.com/ByLCY/sheetsmith/layout"
	"github.com/ByLCY/sheetsmith/renderer"
)

const (
	contentTypePNG = "image/png"
	cacheControl   = "public, max-age=3600"
	notFoundBody   = "404 Not Found"
	errorBody      = "500 Internal Server Error"

	iconPath = "/icon.png"
)

// Server holds the immutable resources shared by every request.
type Server struct {
	geometry layout.Geometry
	renderer renderer.MeasuringRenderer
	icon     []byte
	logger   *slog.Logger
}

type Option func(*Server) error

func WithGeometry(g layout.Geometry) Option {
	return func(s *Server) error {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("invalid geometry: %w", err)
		}
		s.geometry = g
		return nil
	}
}

func WithRenderer(r renderer.MeasuringRenderer) Option {
	return func(s *Server) error {
		s.renderer = r
		return nil
	}
}

// WithIcon sets the bytes served at /icon.png. The slice must not be modified afterwards.
func WithIcon(icon []byte) Option {
	return func(s *Server) error {
		s.icon = icon
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

func New(opts ...Option) (_ *Server, err error) {
	defer func() {
		err = kerrors.WithStack(err)
	}()

	s := &Server{geometry: layout.DefaultGeometry()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.renderer == nil {
		return nil, errors.New("renderer is required")
	}
	if s.icon == nil {
		return nil, errors.New("icon is required")
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.withRequestLog(s.withRecover(http.HandlerFunc(s.route)))
}

// route dispatches on the raw path. Paths are not cleaned, so "//" and ".." inside
// contact details reach the sheet handler unchanged instead of being redirected.
func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.handleNotFound(w, r)
		return
	}
	if r.URL.Path == iconPath {
		s.handleIcon(w, r)
		return
	}
	s.handleSheet(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) (err error) {
	defer func() {
		err = kerrors.WithStack(err)
	}()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.logger.Info(fmt.Sprintf("Server is listening on %s", ln.Addr()))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) handleIcon(w http.ResponseWriter, r *http.Request) {
	writePNG(w, s.icon)
}

func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	req, ok := ParsePath(r.URL.EscapedPath())
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	out, err := s.Render(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writePNG(w, out)
}

// Render lays out and renders one request.
func (s *Server) Render(req layout.Request) ([]byte, error) {
	res, err := layout.Build(req, layout.BuildOptions{Measurer: s.renderer, Geometry: s.geometry})
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(res)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, notFoundBody)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("failed to render sheet",
		slog.String("request_id", requestID(r.Context())),
		slog.String("path", r.URL.EscapedPath()),
		slog.String("error", err.Error()),
	)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = io.WriteString(w, errorBody)
}

func writePNG(w http.ResponseWriter, body []byte) {
	h := w.Header()
	h.Set("Content-Type", contentTypePNG)
	h.Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
