// Package main is the entry point for todoctl, a command line client for the
// TODO API. The client section of the layered config (configs/*.yaml and
// APP_CLIENT_* variables) selects the server, token, retry and breaker
// settings.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsamuelsen11/todo-api/internal/adapters/cli"
	"github.com/jsamuelsen11/todo-api/internal/adapters/clients/todoapi"
	"github.com/jsamuelsen11/todo-api/internal/platform/config"
	"github.com/jsamuelsen11/todo-api/internal/platform/httpclient"
	"github.com/jsamuelsen11/todo-api/internal/platform/logging"
)

const defaultProfile = "local"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	profile := config.ProfileFromEnv(defaultProfile)

	opts := []config.Option{}
	if dir := os.Getenv("TODOCTL_CONFIG_DIR"); dir != "" {
		opts = append(opts, config.WithConfigDir(dir))
	}

	cfg, err := config.Load(profile, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
		return cli.ExitUserError
	}

	// Text on stderr keeps retry and breaker warnings out of command output.
	logger := logging.New(cfg.Log.Level, "text", os.Stderr)
	ctx = logging.WithLogger(ctx, logger)

	hc := httpclient.New(&cfg.Client, "todo-api", nil, logger)
	client := todoapi.New(hc, logger)

	return cli.NewDispatcher(client, cli.DefaultWorkers).Run(ctx, args, os.Stdout, os.Stderr)
}
