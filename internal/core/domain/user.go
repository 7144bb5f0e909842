package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models an authenticated actor. Role is derived from the e-mail
// domain, not stored as an independent source of truth: RoleForEmail is
// recomputed at token issue and again in the auth middleware so a stale
// document can never grant admin access.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Name         string    `json:"name,omitempty"`
	Company      string    `json:"company,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Website      string    `json:"website,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleForEmail derives the role from the configured admin e-mail domain
// suffix (e.g. "@arabemerge.com").
func RoleForEmail(email, adminDomain string) string {
	if adminDomain != "" && strings.HasSuffix(strings.ToLower(email), strings.ToLower(adminDomain)) {
		return RoleAdmin
	}
	return RoleClient
}
