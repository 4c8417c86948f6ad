// Package mocks provides mock implementations for testing the identity ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	groups := mocks.NewMockGroupStore(ctrl)
//	groups.EXPECT().PermissionStringsOf(gomock.Any(), gomock.Any(), gomock.Any()).Return(perms, nil)
package mocks

// Generate mock for the IdentityStore interface from internal/ports.
// This creates MockIdentityStore with methods:
// Kind, FindByID, FindByEmail, FindByPhone
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=identity_store_mock.go github.com/campuskit/identity-api/internal/ports IdentityStore

// Generate mock for the GroupStore interface from internal/ports.
// This creates MockGroupStore with methods:
// PermissionStringsOf, AllPermissionStrings
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=group_store_mock.go github.com/campuskit/identity-api/internal/ports GroupStore
