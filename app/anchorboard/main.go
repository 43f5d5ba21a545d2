package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jrazmi/anchorboard/app/anchorboard/api"
	"github.com/jrazmi/anchorboard/app/anchorboard/config"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/mid"
	"github.com/jrazmi/anchorboard/core/dashboard"
	"github.com/jrazmi/anchorboard/core/settings"
	"github.com/jrazmi/anchorboard/infrastructure/githubapi"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/environment"
	"github.com/jrazmi/anchorboard/sdk/logger"
	"github.com/jrazmi/anchorboard/sdk/telemetry"
)

var build = "develop"
var appName = "ANCHORBOARD"

func main() {
	if err := environment.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
	}

	log, err := logger.NewFromEnv(appName, logger.WithTraceIDFunc(telemetry.TraceID))
	if err != nil {
		fmt.Println("oh no we couldn't even get logging going.")
		os.Exit(1)
	}
	ctx := context.Background()

	if err := run(ctx, log); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	// DATABASES
	var dbOpts config.Options
	if err := environment.ParseEnvTags(appName, &dbOpts); err != nil {
		return fmt.Errorf("parsing database options: %w", err)
	}

	backend, err := config.OpenBackend(ctx, log, appName, dbOpts)
	if err != nil {
		return err
	}
	defer func() {
		log.InfoContext(ctx, "shutdown", "status", "closing database connection", "driver", backend.Driver)
		backend.Close()
	}()
	log.InfoContext(ctx, "init", "service", backend.Driver)

	// SERVICES
	settingsStore, err := settings.NewFileStoreFromEnv(log, appName)
	if err != nil {
		return fmt.Errorf("configuring settings store: %w", err)
	}

	gh, err := githubapi.NewFromEnv(appName, log)
	if err != nil {
		return fmt.Errorf("configuring github client: %w", err)
	}

	tel := telemetry.NewTelemetry()
	cfg := config.Anchorboard{
		Build:        build,
		Logger:       log,
		Telemetry:    tel,
		Driver:       backend.Driver,
		Repositories: backend.Repositories,
		Dashboard:    dashboard.NewService(log, backend.Repositories.Tasks, backend.Repositories.Repos),
		Settings:     settingsStore,
		GitHub:       gh,
		StatusCheck:  backend.StatusCheck,
	}

	handler, err := web.NewWebHandlerFromEnv(appName,
		web.WithLogging(log),
		web.WithTelemetry(tel),
		web.WithGlobalMiddleware(
			mid.Logger(log),
			mid.Errors(log),
			mid.Metrics(),
			mid.Panics(),
		),
	)
	if err != nil {
		return fmt.Errorf("webhandler: %w", err)
	}
	api.AddHandlers(handler, cfg)

	server, err := web.NewServerFromEnv(appName,
		web.WithHandler(handler),
		web.WithErrorLog(logger.NewStdLogger(log, slog.LevelError)),
	)
	if err != nil {
		return fmt.Errorf("webserver: %w", err)
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "startup", "status", "api router started", "host", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.InfoContext(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		defer log.InfoContext(ctx, "shutdown", "status", "shutdown complete", "signal", sig)

		if err := server.GracefulShutdown(ctx); err != nil {
			return err
		}
	}

	return nil
}
