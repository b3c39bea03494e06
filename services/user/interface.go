package user

import (
	userRepo "safarihub/database/repository/user"
	"safarihub/models"

	"go.uber.org/zap"
)

// RegisterInput carries a validated registration request.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// UserService defines account operations backing the authenticated surface.
type UserService interface {
	Register(input RegisterInput) (*models.User, string, error)
	Authenticate(email, password string) (*models.User, string, error)
	GetUserByID(id string) (*models.User, error)
	SetFCMToken(userID, token string) error
}

// DefaultUserService implements UserService.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Logger *zap.Logger
}
