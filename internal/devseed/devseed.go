// Package devseed populates a development database with a predictable set of
// principals, groups, and permission grants. Every table gets rows starting
// at id 1, so the seeded data exercises the colliding-id resolution paths.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/campuskit/identity-api/internal/data"
	"github.com/campuskit/identity-api/internal/data/cryptoutil"
	"github.com/campuskit/identity-api/internal/domain/principal"
)

// DefaultSecret is the password every seeded principal authenticates with.
const DefaultSecret = "changeme-dev"

// Seeder bundles the repositories needed for development seeding.
type Seeder struct {
	repos  map[principal.Kind]*data.PrincipalRepo
	groups *data.GroupRepo
	hasher cryptoutil.Hasher
	logger *slog.Logger
}

// NewSeeder constructs a Seeder over the given database.
func NewSeeder(db *sql.DB, hasher cryptoutil.Hasher, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		repos: map[principal.Kind]*data.PrincipalRepo{
			principal.KindAdmin:   data.NewAdminRepo(db),
			principal.KindStaff:   data.NewStaffRepo(db),
			principal.KindParent:  data.NewParentRepo(db),
			principal.KindStudent: data.NewStudentRepo(db),
		},
		groups: data.NewGroupRepo(db),
		hasher: hasher,
		logger: logger,
	}
}

type seedPrincipal struct {
	kind      principal.Kind
	firstName string
	lastName  string
	email     string
	phone     string
	groups    []string
}

var seedPrincipals = []seedPrincipal{
	{kind: principal.KindAdmin, firstName: "Ada", lastName: "Stone", email: "admin@campuskit.dev"},
	{kind: principal.KindStaff, firstName: "Sam", lastName: "Okafor", email: "staff@campuskit.dev", phone: "+15550000001", groups: []string{"teachers"}},
	{kind: principal.KindStaff, firstName: "Rita", lastName: "Velez", email: "registrar@campuskit.dev", phone: "+15550000002", groups: []string{"registrars"}},
	{kind: principal.KindParent, firstName: "Pat", lastName: "Nguyen", email: "parent@campuskit.dev", phone: "+15550000003"},
	{kind: principal.KindStudent, firstName: "Stu", lastName: "Ibrahim", email: "student@campuskit.dev", phone: "+15550000004", groups: []string{"seniors"}},
	{kind: principal.KindStudent, firstName: "Sky", lastName: "Larsen", email: "student2@campuskit.dev", phone: "+15550000005", groups: []string{"seniors"}},
}

type seedGrant struct {
	group     string
	namespace string
	codename  string
}

var seedGrants = []seedGrant{
	{group: "teachers", namespace: "courses", codename: "view_course"},
	{group: "teachers", namespace: "grades", codename: "change_grade"},
	{group: "registrars", namespace: "directory", codename: "view_principal"},
	{group: "registrars", namespace: "enrollment", codename: "change_enrollment"},
	{group: "seniors", namespace: "courses", codename: "view_course"},
}

// Run seeds groups, permissions, and principals. Re-running against an
// already seeded database is a no-op for duplicates.
func (s *Seeder) Run(ctx context.Context) error {
	secretHash, err := s.hasher.Hash(DefaultSecret)
	if err != nil {
		return fmt.Errorf("hash seed secret: %w", err)
	}

	groupIDs := make(map[string]int64)
	for _, grant := range seedGrants {
		groupID, ok := groupIDs[grant.group]
		if !ok {
			groupID, err = s.groups.EnsureGroup(ctx, grant.group)
			if err != nil {
				return err
			}
			groupIDs[grant.group] = groupID
		}

		permID, permErr := s.groups.EnsurePermission(ctx, grant.namespace, grant.codename)
		if permErr != nil {
			return permErr
		}
		if grantErr := s.groups.Grant(ctx, groupID, permID); grantErr != nil {
			return grantErr
		}
	}

	for _, sp := range seedPrincipals {
		created, createErr := s.repos[sp.kind].Create(ctx, data.CreatePrincipalParams{
			FirstName:  sp.firstName,
			LastName:   sp.lastName,
			Email:      sp.email,
			Phone:      sp.phone,
			Active:     true,
			SecretHash: secretHash,
		})
		if createErr != nil {
			if errors.Is(createErr, data.ErrDuplicateIdentifier) {
				s.logger.InfoContext(ctx, "seed principal exists, skipping",
					"kind", string(sp.kind), "email", sp.email)
				continue
			}
			return fmt.Errorf("seed %s %s: %w", sp.kind, sp.email, createErr)
		}

		for _, group := range sp.groups {
			groupID, ok := groupIDs[group]
			if !ok {
				groupID, err = s.groups.EnsureGroup(ctx, group)
				if err != nil {
					return err
				}
				groupIDs[group] = groupID
			}
			if memberErr := s.groups.AddMember(ctx, groupID, sp.kind, created.ID); memberErr != nil {
				return memberErr
			}
		}

		s.logger.InfoContext(ctx, "seeded principal",
			"kind", string(sp.kind), "id", created.ID, "email", sp.email)
	}

	s.logger.InfoContext(ctx, "development seed complete", "secret", DefaultSecret)
	return nil
}
