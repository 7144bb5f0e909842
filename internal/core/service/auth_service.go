package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/arabemerge/helpdesk/internal/core/domain"
	"github.com/arabemerge/helpdesk/internal/core/ports"
)

// AuthService implements registration, login, and profile access. The role
// is never accepted from the caller: it is derived from the e-mail domain
// both at registration and at every login.
type AuthService struct {
	repo        ports.UserRepository
	jwtSecret   string
	adminDomain string
	tokenTTL    time.Duration
}

func NewAuthService(repo ports.UserRepository, jwtSecret, adminDomain string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, adminDomain: adminDomain, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Role:         domain.RoleForEmail(email, s.adminDomain),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	// Recompute rather than trust the stored role.
	user.Role = domain.RoleForEmail(user.Email, s.adminDomain)

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// CurrentUser returns the session's profile, creating a minimal document on
// first authenticated access.
func (s *AuthService) CurrentUser(ctx context.Context, actor ports.Session) (*domain.User, error) {
	role := domain.RoleClient
	if actor.IsAdmin {
		role = domain.RoleAdmin
	}
	return s.repo.EnsureByEmail(ctx, actor.Email, role)
}

// UpdateProfile writes the editable profile fields for the session's user.
func (s *AuthService) UpdateProfile(ctx context.Context, actor ports.Session, patch ports.ProfilePatch) (*domain.User, error) {
	return s.repo.UpdateProfile(ctx, actor.Email, patch)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"email": user.Email,
		"role":  user.Role,
		"uid":   user.ID,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
