package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jrazmi/anchorboard/sdk/environment"
)

// WebServer is an http.Server that remembers its shutdown budget.
type WebServer struct {
	*http.Server
	Config ServerConfig
}

// ServerConfig is the environment driven server configuration.
type ServerConfig struct {
	Port            string        `env:"PORT" default:":8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"20s"`
}

type serveroptions struct {
	handler  http.Handler
	errorLog *log.Logger
	config   ServerConfig
}

type ServerOption func(*serveroptions)

func WithHandler(handler http.Handler) ServerOption {
	return func(o *serveroptions) {
		o.handler = handler
	}
}

// WithErrorLog routes net/http's internal errors, usually through
// logger.NewStdLogger.
func WithErrorLog(errorLog *log.Logger) ServerOption {
	return func(o *serveroptions) {
		o.errorLog = errorLog
	}
}

func WithPort(port string) ServerOption {
	return func(o *serveroptions) {
		o.config.Port = port
	}
}

// NewServerFromEnv reads ServerConfig under prefix and applies opts on top.
func NewServerFromEnv(prefix string, opts ...ServerOption) (*WebServer, error) {
	var config ServerConfig
	if err := environment.ParseEnvTags(prefix, &config); err != nil {
		return nil, fmt.Errorf("parsing webserver config: %w", err)
	}

	return newWebServer(config, opts...), nil
}

func newWebServer(cfg ServerConfig, opts ...ServerOption) *WebServer {
	o := &serveroptions{config: cfg}
	for _, opt := range opts {
		opt(o)
	}

	return &WebServer{
		Server: &http.Server{
			Addr:         o.config.Port,
			Handler:      o.handler,
			ReadTimeout:  o.config.ReadTimeout,
			WriteTimeout: o.config.WriteTimeout,
			IdleTimeout:  o.config.IdleTimeout,
			ErrorLog:     o.errorLog,
		},
		Config: o.config,
	}
}

// GracefulShutdown drains connections within the configured budget and force closes
// whatever is left.
func (s *WebServer) GracefulShutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.Config.ShutdownTimeout)
	defer cancel()

	if err := s.Server.Shutdown(ctx); err != nil {
		s.Server.Close()
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("shutdown exceeded %s: %w", s.Config.ShutdownTimeout, err)
		}
		return fmt.Errorf("could not stop server gracefully: %w", err)
	}
	return nil
}
