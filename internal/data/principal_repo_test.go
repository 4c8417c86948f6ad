package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/identity-api/internal/domain/principal"
	"github.com/campuskit/identity-api/internal/ports"
	"github.com/campuskit/identity-api/internal/testutil"
)

func TestPrincipalRepo_CreateAndFind(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewStaffRepo(db)

		created, err := repo.Create(ctx, CreatePrincipalParams{
			FirstName:  "Sam",
			LastName:   "Okafor",
			Email:      "sam@example.com",
			Phone:      "+15550001234",
			Active:     true,
			SecretHash: "$2a$04$hash",
		})
		require.NoError(t, err)
		assert.Equal(t, principal.KindStaff, created.Kind)
		assert.NotZero(t, created.ID)

		byID, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "sam@example.com", byID.Email)

		byEmail, err := repo.FindByEmail(ctx, "sam@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)

		byPhone, err := repo.FindByPhone(ctx, "+15550001234")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byPhone.ID)
	})
}

func TestPrincipalRepo_MissesReturnErrNotFound(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewStudentRepo(db)

		_, err := repo.FindByID(ctx, 9999)
		assert.ErrorIs(t, err, ports.ErrNotFound)

		_, err = repo.FindByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, ports.ErrNotFound)

		_, err = repo.FindByPhone(ctx, "+10000000000")
		assert.ErrorIs(t, err, ports.ErrNotFound)

		// Blank identifiers never match a row.
		_, err = repo.FindByEmail(ctx, "")
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})
}

func TestAdminRepo_PhoneLookupAlwaysMisses(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAdminRepo(db)

		created, err := repo.Create(ctx, CreatePrincipalParams{
			FirstName:  "Ada",
			LastName:   "Stone",
			Email:      "ada@example.com",
			Active:     true,
			SecretHash: "$2a$04$hash",
		})
		require.NoError(t, err)

		// The administrators table has no phone column.
		_, err = repo.FindByPhone(ctx, "+15550001234")
		assert.ErrorIs(t, err, ports.ErrNotFound)

		byID, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Empty(t, byID.Phone)
	})
}

func TestPrincipalRepo_DuplicateEmailRejected(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewParentRepo(db)

		params := CreatePrincipalParams{
			FirstName:  "Pat",
			LastName:   "Nguyen",
			Email:      "pat@example.com",
			Active:     true,
			SecretHash: "$2a$04$hash",
		}
		_, err := repo.Create(ctx, params)
		require.NoError(t, err)

		_, err = repo.Create(ctx, params)
		assert.ErrorIs(t, err, ErrDuplicateIdentifier)
	})
}

func TestPrincipalRepo_IDsCollideAcrossTables(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()

		// Each table owns its own id sequence, so the same numeric id can
		// name different people. Force the collision explicitly.
		const collidingID = 424242
		_, err := db.ExecContext(ctx, `
			INSERT INTO staff (id, first_name, last_name, email, active, secret_hash)
			VALUES ($1, 'S', 'One', 's1@example.com', true, '$2a$04$hash')`, collidingID)
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, `
			INSERT INTO students (id, first_name, last_name, email, active, secret_hash)
			VALUES ($1, 'St', 'One', 'st1@example.com', true, '$2a$04$hash')`, collidingID)
		require.NoError(t, err)

		staff, err := NewStaffRepo(db).FindByID(ctx, collidingID)
		require.NoError(t, err)
		student, err := NewStudentRepo(db).FindByID(ctx, collidingID)
		require.NoError(t, err)

		assert.Equal(t, staff.ID, student.ID)
		assert.Equal(t, principal.KindStaff, staff.Kind)
		assert.Equal(t, principal.KindStudent, student.Kind)
	})
}

func TestPrincipalRepo_SetActiveAndList(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewStaffRepo(db)

		created, err := repo.Create(ctx, CreatePrincipalParams{
			FirstName: "Sam", LastName: "Okafor", Email: "sam@example.com",
			Active: true, SecretHash: "$2a$04$hash",
		})
		require.NoError(t, err)

		require.NoError(t, repo.SetActive(ctx, created.ID, false))

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, found.Active)

		list, err := repo.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, created.ID, list[0].ID)
	})
}
