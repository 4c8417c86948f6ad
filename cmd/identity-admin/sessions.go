package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	redisadapter "github.com/campuskit/identity-api/internal/adapters/redis"
	"github.com/campuskit/identity-api/internal/ports"
)

func runSessionGet(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("session-get", flag.ContinueOnError)
	id := fs.String("id", "", "session id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag("id", *id); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	client, err := connectRedis(cmdCtx.Logger, &cmdCtx.Config)
	if err != nil {
		return err
	}
	defer closeRedis(cmdCtx.Logger, client)

	sess, err := redisadapter.NewSessionStore(client).Get(ctx, *id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return fmt.Errorf("session %q not found", *id)
		}
		return fmt.Errorf("get session: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(sess)
}

func runSessionDel(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("session-del", flag.ContinueOnError)
	id := fs.String("id", "", "session id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag("id", *id); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	client, err := connectRedis(cmdCtx.Logger, &cmdCtx.Config)
	if err != nil {
		return err
	}
	defer closeRedis(cmdCtx.Logger, client)

	if err = redisadapter.NewSessionStore(client).Delete(ctx, *id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	cmdCtx.Logger.InfoContext(ctx, "session deleted", "id", *id)
	return nil
}
