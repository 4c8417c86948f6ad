package testutil

import (
	"github.com/campuskit/identity-api/internal/domain/principal"
)

// PrincipalBuilder builds principals for tests with sensible defaults.
type PrincipalBuilder struct {
	p principal.Principal
}

// NewPrincipal starts a builder for an active staff principal.
func NewPrincipal() *PrincipalBuilder {
	return &PrincipalBuilder{p: principal.Principal{
		Kind:       principal.KindStaff,
		ID:         1,
		FirstName:  "Test",
		LastName:   "Person",
		Email:      "test@example.com",
		Active:     true,
		SecretHash: "$2a$04$unusable",
	}}
}

// WithKind sets the principal kind.
func (b *PrincipalBuilder) WithKind(kind principal.Kind) *PrincipalBuilder {
	b.p.Kind = kind
	return b
}

// WithID sets the principal id.
func (b *PrincipalBuilder) WithID(id int64) *PrincipalBuilder {
	b.p.ID = id
	return b
}

// WithEmail sets the email.
func (b *PrincipalBuilder) WithEmail(email string) *PrincipalBuilder {
	b.p.Email = email
	return b
}

// WithPhone sets the phone number.
func (b *PrincipalBuilder) WithPhone(phone string) *PrincipalBuilder {
	b.p.Phone = phone
	return b
}

// WithSecretHash sets the stored secret hash.
func (b *PrincipalBuilder) WithSecretHash(hash string) *PrincipalBuilder {
	b.p.SecretHash = hash
	return b
}

// Inactive marks the principal inactive.
func (b *PrincipalBuilder) Inactive() *PrincipalBuilder {
	b.p.Active = false
	return b
}

// Build returns a fresh copy of the principal.
func (b *PrincipalBuilder) Build() *principal.Principal {
	p := b.p
	return &p
}

// Admin returns an active administrator principal.
func Admin(id int64, email string) *principal.Principal {
	return NewPrincipal().WithKind(principal.KindAdmin).WithID(id).WithEmail(email).Build()
}

// Staff returns an active staff principal.
func Staff(id int64, email, phone string) *principal.Principal {
	return NewPrincipal().WithKind(principal.KindStaff).WithID(id).WithEmail(email).WithPhone(phone).Build()
}

// Parent returns an active parent principal.
func Parent(id int64, email, phone string) *principal.Principal {
	return NewPrincipal().WithKind(principal.KindParent).WithID(id).WithEmail(email).WithPhone(phone).Build()
}

// Student returns an active student principal.
func Student(id int64, email, phone string) *principal.Principal {
	return NewPrincipal().WithKind(principal.KindStudent).WithID(id).WithEmail(email).WithPhone(phone).Build()
}
