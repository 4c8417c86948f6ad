package main

import (
	"context"
	"flag"
	"time"

	"github.com/campuskit/identity-api/internal/bootstrap"
	"github.com/campuskit/identity-api/internal/data/cryptoutil"
	"github.com/campuskit/identity-api/internal/devseed"
)

const defaultMigrationTimeout = 5 * time.Minute

func runMigrate(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	timeout := fs.Duration("timeout", defaultMigrationTimeout, "migration timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, *timeout)
	defer cancel()

	db, err := connectDB(cmdCtx.Logger, &cmdCtx.Config)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx.Logger, db)

	return bootstrap.RunMigrations(ctx, db, cmdCtx.Logger)
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("db-seed", flag.ContinueOnError)
	timeout := fs.Duration("timeout", defaultMigrationTimeout, "seed timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, *timeout)
	defer cancel()

	db, err := connectDB(cmdCtx.Logger, &cmdCtx.Config)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx.Logger, db)

	if err = bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
		return err
	}

	hasher := cryptoutil.NewBcryptHasher(cmdCtx.Config.Auth.BcryptCost)
	return devseed.NewSeeder(db, hasher, cmdCtx.Logger).Run(ctx)
}
