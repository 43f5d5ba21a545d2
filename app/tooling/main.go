package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jrazmi/anchorboard/app/tooling/commands"
	"github.com/jrazmi/anchorboard/sdk/environment"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

var build = "develop"
var appName = "TOOLING"

func main() {
	if err := environment.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
	}

	log, err := logger.NewFromEnv(appName)
	if err != nil {
		fmt.Println("oh no we couldn't even get logging going.")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := commands.NewRootCmd(log, appName, build)
	if err := root.ExecuteContext(ctx); err != nil {
		log.ErrorContext(ctx, "tooling", "err", err)
		os.Exit(1)
	}
}
