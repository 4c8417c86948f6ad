package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/campuskit/identity-api/internal/data"
	"github.com/campuskit/identity-api/internal/data/cryptoutil"
	"github.com/campuskit/identity-api/internal/domain/principal"
)

const defaultCommandTimeout = time.Minute

func repoFor(db *sql.DB, kind principal.Kind) *data.PrincipalRepo {
	switch kind {
	case principal.KindAdmin:
		return data.NewAdminRepo(db)
	case principal.KindStaff:
		return data.NewStaffRepo(db)
	case principal.KindParent:
		return data.NewParentRepo(db)
	default:
		return data.NewStudentRepo(db)
	}
}

func runCreateAdmin(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	email := fs.String("email", "", "administrator email (required)")
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	secret := fs.String("secret", "", "initial password (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag("email", *email); err != nil {
		return err
	}
	if err := requireFlag("secret", *secret); err != nil {
		return err
	}

	return createPrincipal(cmdCtx, createPrincipalRequest{
		Kind:      principal.KindAdmin,
		Email:     *email,
		FirstName: *firstName,
		LastName:  *lastName,
		Secret:    *secret,
	})
}

func runCreateUser(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	kindArg := fs.String("kind", "", "principal kind: staff, parent, or student (required)")
	email := fs.String("email", "", "email (required)")
	phone := fs.String("phone", "", "phone number")
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	secret := fs.String("secret", "", "initial password (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag("kind", *kindArg); err != nil {
		return err
	}
	if err := requireFlag("email", *email); err != nil {
		return err
	}
	if err := requireFlag("secret", *secret); err != nil {
		return err
	}

	kind, ok := principal.ParseKind(*kindArg)
	if !ok || kind == principal.KindAdmin {
		return fmt.Errorf("invalid kind %q (valid: staff, parent, student)", *kindArg)
	}

	return createPrincipal(cmdCtx, createPrincipalRequest{
		Kind:      kind,
		Email:     *email,
		Phone:     *phone,
		FirstName: *firstName,
		LastName:  *lastName,
		Secret:    *secret,
	})
}

type createPrincipalRequest struct {
	Kind      principal.Kind
	Email     string
	Phone     string
	FirstName string
	LastName  string
	Secret    string
}

func createPrincipal(cmdCtx *commandContext, req createPrincipalRequest) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	db, err := connectDB(cmdCtx.Logger, &cmdCtx.Config)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx.Logger, db)

	hasher := cryptoutil.NewBcryptHasher(cmdCtx.Config.Auth.BcryptCost)
	secretHash, err := hasher.Hash(req.Secret)
	if err != nil {
		return fmt.Errorf("hash secret: %w", err)
	}

	created, err := repoFor(db, req.Kind).Create(ctx, data.CreatePrincipalParams{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Active:     true,
		SecretHash: secretHash,
	})
	if err != nil {
		return fmt.Errorf("create %s: %w", req.Kind, err)
	}

	cmdCtx.Logger.InfoContext(ctx, "principal created",
		"kind", string(created.Kind), "id", created.ID, "email", created.Email)
	return nil
}

func runList(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	kindArg := fs.String("kind", "", "principal kind (required)")
	limit := fs.Int("limit", 50, "maximum rows")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag("kind", *kindArg); err != nil {
		return err
	}
	kind, ok := principal.ParseKind(*kindArg)
	if !ok {
		return fmt.Errorf("invalid kind %q", *kindArg)
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	db, err := connectDB(cmdCtx.Logger, &cmdCtx.Config)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx.Logger, db)

	rows, err := repoFor(db, kind).List(ctx, *limit)
	if err != nil {
		return fmt.Errorf("list %s: %w", kind, err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tACTIVE")
	for _, p := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", p.ID, p.FullName(), p.Email, p.Phone, p.Active)
	}
	return tw.Flush()
}

func runSetActive(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("set-active", flag.ContinueOnError)
	kindArg := fs.String("kind", "", "principal kind (required)")
	id := fs.Int64("id", 0, "principal id (required)")
	active := fs.Bool("active", true, "target active state")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag("kind", *kindArg); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("%w: -id", errMissingFlag)
	}
	kind, ok := principal.ParseKind(*kindArg)
	if !ok {
		return fmt.Errorf("invalid kind %q", *kindArg)
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	db, err := connectDB(cmdCtx.Logger, &cmdCtx.Config)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx.Logger, db)

	if err = repoFor(db, kind).SetActive(ctx, *id, *active); err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	cmdCtx.Logger.InfoContext(ctx, "principal updated",
		"kind", string(kind), "id", *id, "active", *active)
	return nil
}
