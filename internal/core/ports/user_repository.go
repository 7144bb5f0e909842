package ports

import (
	"context"

	"github.com/arabemerge/helpdesk/internal/core/domain"
)

// ProfilePatch carries the five editable profile fields. Nil pointers mean
// "leave unchanged" so a partial PUT body does not blank the rest.
type ProfilePatch struct {
	Name    *string
	Company *string
	Phone   *string
	Address *string
	Website *string
}

// UserRepository defines persistence for user profiles and credentials.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// EnsureByEmail upserts a minimal profile document for email and returns
	// it. Used on first authenticated access ("created on first login").
	EnsureByEmail(ctx context.Context, email, role string) (*domain.User, error)
	UpdateProfile(ctx context.Context, email string, patch ProfilePatch) (*domain.User, error)
}
