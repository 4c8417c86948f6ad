package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/campuskit/identity-api/config"
	"github.com/campuskit/identity-api/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

func main() {
	logger := bootstrap.InitLogger("info")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrate,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Run database migrations and seed development data",
			run:         runDBSeed,
		},
		"create-admin": {
			name:        "create-admin",
			description: "Create an administrator account",
			run:         runCreateAdmin,
		},
		"create-user": {
			name:        "create-user",
			description: "Create a staff, parent, or student account",
			run:         runCreateUser,
		},
		"list": {
			name:        "list",
			description: "List principals of a kind",
			run:         runList,
		},
		"set-active": {
			name:        "set-active",
			description: "Activate or deactivate a principal",
			run:         runSetActive,
		},
		"session-get": {
			name:        "session-get",
			description: "Inspect a session by id",
			run:         runSessionGet,
		},
		"session-del": {
			name:        "session-del",
			description: "Delete a session by id",
			run:         runSessionDel,
		},
	}
}

func printUsage() {
	fmt.Fprintf(os.Stdout, "Usage: identity-admin <command> [flags]\n\n")
	fmt.Fprintf(os.Stdout, "Available commands:\n")
	for _, c := range commands() {
		fmt.Fprintf(os.Stdout, "  %-16s %s\n", c.name, c.description)
	}
}
