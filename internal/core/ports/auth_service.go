package ports

import (
	"context"

	"github.com/arabemerge/helpdesk/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// CurrentUser returns the profile for the session, creating a minimal
	// document on first access.
	CurrentUser(ctx context.Context, actor Session) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor Session, patch ProfilePatch) (*domain.User, error)
}
