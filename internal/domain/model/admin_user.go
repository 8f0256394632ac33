package model

import (
	"net/mail"
	"strings"
	"time"

	"telegram-admin-backend/internal/domain"

	"github.com/google/uuid"
)

const (
	MinPasswordLength = 8
	// MaxPasswordLength is the bcrypt input limit in bytes.
	MaxPasswordLength = 72
)

// AdminUser is an operator allowed to use the management API.
type AdminUser struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// NewAdminUser validates the identity fields; the caller supplies an already hashed password.
func NewAdminUser(email, name, passwordHash string) (*AdminUser, error) {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidArgument
	}
	if passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}
	return &AdminUser{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Role:         "admin",
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *AdminUser) TouchLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}
