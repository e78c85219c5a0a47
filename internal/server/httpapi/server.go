package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/uptimekeeper/internal/logging"
)

// MetricsPath is served by the outer mux ahead of the dispatcher.
const MetricsPath = "/metrics"

// ServerOptions configures one listener. A listener is served over TLS
// when both TLSCertFile and TLSKeyFile are set.
type ServerOptions struct {
	Name              string
	Addr              string
	TLSCertFile       string
	TLSKeyFile        string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

func (o ServerOptions) tls() bool {
	return o.TLSCertFile != "" && o.TLSKeyFile != ""
}

// Server runs one http.Server until its context is cancelled.
type Server struct {
	http *http.Server
	opts ServerOptions
	log  logging.Logger
}

func NewServer(h http.Handler, opts ServerOptions, log logging.Logger) *Server {
	if opts.Name == "" {
		opts.Name = "http"
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.ReadHeaderTimeout == 0 {
		opts.ReadHeaderTimeout = 5 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	return &Server{
		opts: opts,
		log:  log.With("module", opts.Name+"_server"),
		http: &http.Server{
			Addr:              opts.Addr,
			Handler:           h,
			ReadTimeout:       opts.ReadTimeout,
			ReadHeaderTimeout: opts.ReadHeaderTimeout,
			WriteTimeout:      opts.WriteTimeout,
			IdleTimeout:       opts.IdleTimeout,
		},
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve serves on lis until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if s.opts.tls() {
			err = s.http.ServeTLS(lis, s.opts.TLSCertFile, s.opts.TLSKeyFile)
		} else {
			err = s.http.Serve(lis)
		}
		errCh <- err
	}()

	s.log.Info(ctx, "Starting server", "address", lis.Addr().String(), "tls", s.opts.tls())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info(ctx, "Stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// NewMux sends MetricsPath to metrics (when non-nil) and every other path
// to the dispatcher untouched. http.ServeMux is not used because it cleans
// paths and redirects "//ping" before the dispatcher can trim it.
func NewMux(dispatcher http.Handler, metrics http.Handler) http.Handler {
	return &mux{dispatcher: dispatcher, metrics: metrics}
}

type mux struct {
	dispatcher http.Handler
	metrics    http.Handler
}

func (m *mux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if m.metrics != nil && r.URL.Path == MetricsPath {
		m.metrics.ServeHTTP(w, r)
		return
	}
	m.dispatcher.ServeHTTP(w, r)
}
