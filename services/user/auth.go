package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"safarihub/models"
	"safarihub/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is how long a login session stays valid.
const tokenTTL = 72 * time.Hour

// Register creates an account and returns it with a fresh auth token.
func (s *DefaultUserService) Register(input RegisterInput) (*models.User, string, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, "", utils.NewInvalidArgument("name and email are required")
	}
	if len(input.Password) < 8 {
		return nil, "", utils.NewInvalidArgument("password must be at least 8 characters")
	}

	existing, err := s.Repo.GetByEmail(input.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", utils.NewConflict("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	u := &models.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Authenticate verifies the credentials and returns the user with a fresh
// auth token.
func (s *DefaultUserService) Authenticate(email, password string) (*models.User, string, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", utils.NewForbidden("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", utils.NewForbidden("invalid email or password")
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *DefaultUserService) issueToken(u *models.User) (string, error) {
	token, err := utils.GenerateToken(u.ID, u.Email, u.Role, tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	if err := utils.StoreAuthToken(context.Background(), u.ID, utils.HashToken(token), tokenTTL); err != nil {
		return "", fmt.Errorf("failed to store auth token: %w", err)
	}
	return token, nil
}

// GetUserByID retrieves an account by ID.
func (s *DefaultUserService) GetUserByID(id string) (*models.User, error) {
	u, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, utils.NewNotFound(fmt.Sprintf("user %s not found", id))
	}
	return u, nil
}

// SetFCMToken records the device token used for push notifications.
func (s *DefaultUserService) SetFCMToken(userID, token string) error {
	u, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	u.FCMToken = token
	u.UpdatedAt = time.Now()
	return s.Repo.Update(u)
}
