package data

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Shared sentinel errors for data-layer repositories.
var (
	ErrDuplicateIdentifier = errors.New("identifier already in use")
	ErrKindNotGrouped      = errors.New("kind does not participate in groups")
)

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (duplicate email or phone).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
