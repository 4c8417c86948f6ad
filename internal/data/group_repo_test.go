package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/identity-api/internal/domain/principal"
	"github.com/campuskit/identity-api/internal/testutil"
)

func seedGroup(t *testing.T, repo *GroupRepo, name string, perms ...[2]string) int64 {
	t.Helper()
	ctx := context.Background()

	groupID, err := repo.EnsureGroup(ctx, name)
	require.NoError(t, err)
	for _, p := range perms {
		permID, permErr := repo.EnsurePermission(ctx, p[0], p[1])
		require.NoError(t, permErr)
		require.NoError(t, repo.Grant(ctx, groupID, permID))
	}
	return groupID
}

func TestGroupRepo_PermissionStringsOf(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewGroupRepo(db)

		teachers := seedGroup(t, repo, "teachers",
			[2]string{"courses", "view_course"},
			[2]string{"grades", "change_grade"})
		seniors := seedGroup(t, repo, "seniors",
			[2]string{"courses", "view_course"})

		require.NoError(t, repo.AddMember(ctx, teachers, principal.KindStaff, 1))
		require.NoError(t, repo.AddMember(ctx, seniors, principal.KindStaff, 1))

		perms, err := repo.PermissionStringsOf(ctx, principal.KindStaff, 1)
		require.NoError(t, err)
		// The shared permission is deduplicated across groups.
		assert.ElementsMatch(t, []string{"courses.view_course", "grades.change_grade"}, perms)

		// A different member id of the same kind has no grants.
		perms, err = repo.PermissionStringsOf(ctx, principal.KindStaff, 2)
		require.NoError(t, err)
		assert.Empty(t, perms)

		// Student membership is keyed separately from staff, even for the
		// same numeric id.
		perms, err = repo.PermissionStringsOf(ctx, principal.KindStudent, 1)
		require.NoError(t, err)
		assert.Empty(t, perms)
	})
}

func TestGroupRepo_RejectsUngroupedKinds(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewGroupRepo(db)

		_, err := repo.PermissionStringsOf(ctx, principal.KindAdmin, 1)
		assert.ErrorIs(t, err, ErrKindNotGrouped)

		_, err = repo.PermissionStringsOf(ctx, principal.KindParent, 1)
		assert.ErrorIs(t, err, ErrKindNotGrouped)

		groupID := seedGroup(t, repo, "teachers")
		err = repo.AddMember(ctx, groupID, principal.KindParent, 1)
		assert.ErrorIs(t, err, ErrKindNotGrouped)
	})
}

func TestGroupRepo_AllPermissionStrings(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewGroupRepo(db)

		seedGroup(t, repo, "registrars",
			[2]string{"directory", "view_principal"},
			[2]string{"enrollment", "change_enrollment"})

		all, err := repo.AllPermissionStrings(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"directory.view_principal", "enrollment.change_enrollment"}, all)
	})
}

func TestGroupRepo_EnsureIsIdempotent(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewGroupRepo(db)

		first, err := repo.EnsureGroup(ctx, "teachers")
		require.NoError(t, err)
		second, err := repo.EnsureGroup(ctx, "teachers")
		require.NoError(t, err)
		assert.Equal(t, first, second)

		p1, err := repo.EnsurePermission(ctx, "courses", "view_course")
		require.NoError(t, err)
		p2, err := repo.EnsurePermission(ctx, "courses", "view_course")
		require.NoError(t, err)
		assert.Equal(t, p1, p2)

		// Double-granting and double-adding are no-ops.
		require.NoError(t, repo.Grant(ctx, first, p1))
		require.NoError(t, repo.Grant(ctx, first, p1))
		require.NoError(t, repo.AddMember(ctx, first, principal.KindStudent, 4))
		require.NoError(t, repo.AddMember(ctx, first, principal.KindStudent, 4))

		groups, err := repo.GroupsOf(ctx, principal.KindStudent, 4)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, "teachers", groups[0].Name)
	})
}
