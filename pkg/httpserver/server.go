package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Option func(*Options)

type Options struct {
	port           int
	logger         *zap.Logger
	enableLogging  bool
	allowedOrigins []string
	readTimeout    time.Duration
	writeTimeout   time.Duration
}

func WithPort(port int) Option {
	return func(o *Options) {
		o.port = port
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

func WithLogging(enabled bool) Option {
	return func(o *Options) {
		o.enableLogging = enabled
	}
}

// WithAllowedOrigins overrides the default allow-all CORS policy.
func WithAllowedOrigins(origins ...string) Option {
	return func(o *Options) {
		o.allowedOrigins = origins
	}
}

func WithTimeouts(read, write time.Duration) Option {
	return func(o *Options) {
		o.readTimeout = read
		o.writeTimeout = write
	}
}

type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	lis        net.Listener
	logger     *zap.Logger
}

// New creates a new HTTP server using the builder options. The listener is
// bound immediately so port conflicts surface at construction time.
func New(opts ...Option) (*Server, error) {
	options := &Options{
		port:           8000,
		logger:         zap.NewNop(),
		allowedOrigins: []string{"*"},
		readTimeout:    30 * time.Second,
		writeTimeout:   30 * time.Second,
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.port < 1 || options.port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be between 1 and 65535", options.port)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", options.port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", options.port, err)
	}

	logger := options.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	if options.enableLogging {
		router.Use(RequestLogger(logger))
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: options.allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	return &Server{
		httpServer: &http.Server{
			Handler:      router,
			ReadTimeout:  options.readTimeout,
			WriteTimeout: options.writeTimeout,
		},
		router: router,
		lis:    lis,
		logger: logger.Named("http-server"),
	}, nil
}

// RegisterRoutes lets the application mount its routes on the router.
func (s *Server) RegisterRoutes(register func(r chi.Router)) {
	register(s.router)
}

// Start runs the server in a goroutine and returns immediately.
func (s *Server) Start() {
	s.logger.Info("http server starting", zap.String("addr", s.lis.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(s.lis); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server failed", zap.Error(err))
		}
	}()
}

// Shutdown gracefully drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warn("forced shutdown", zap.Error(err))
		_ = s.httpServer.Close()
		return err
	}

	s.logger.Info("http server stopped")
	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() net.Addr {
	return s.lis.Addr()
}
