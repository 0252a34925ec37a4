// services/auth_service.go
package services

import (
	"context"
	"fmt"
	"log"

	"github.com/rkaram/bankms_backend/models"
	"github.com/rkaram/bankms_backend/utils"
)

// AuthService validates credentials and produces identity claims
type AuthService struct {
	users UserStore
}

// NewAuthService creates an auth service over the given credential store
func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Login checks the email/password pair and returns the identity claims for
// the credential. Unknown email and wrong password both come back as
// ErrAuthFailed so callers cannot probe which emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrAuthFailed
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := utils.CheckPassword(password, user.Password); err != nil {
		return nil, ErrAuthFailed
	}

	if err := s.users.SetActive(ctx, user.ID, true); err != nil {
		// Non-fatal; the login itself succeeded
		log.Printf("Failed to update user active status: %v", err)
	}

	identity := &models.Identity{
		UserID:   user.ID.Hex(),
		Username: user.Username,
	}
	if !user.CustomerID.IsZero() {
		identity.CustomerID = user.CustomerID.Hex()
	}

	return identity, nil
}
