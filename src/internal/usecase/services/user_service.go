package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/api-sage/treasury-engine/src/internal/adapter/http/models"
	"github.com/api-sage/treasury-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/treasury-engine/src/internal/commons"
	"github.com/api-sage/treasury-engine/src/internal/domain"
	"github.com/api-sage/treasury-engine/src/internal/logger"
)

// UserService manages the operators recorded as import actors. Access keys
// are stored bcrypt-hashed, never in the clear.
type UserService struct {
	userRepo repo_interfaces.UserRepository
}

func NewUserService(userRepo repo_interfaces.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) RegisterUser(ctx context.Context, req models.RegisterUserRequest) (commons.Response[models.UserResponse], error) {
	logger.Info("user service register request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.UserResponse]("validation failed", err.Error()), err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.AccessKey), bcrypt.DefaultCost)
	if err != nil {
		return commons.ErrorResponse[models.UserResponse]("failed to register user", "Unable to register right now"), err
	}

	user, err := s.userRepo.Create(ctx, domain.User{
		Username:      strings.TrimSpace(req.Username),
		AccessKeyHash: string(hash),
	})
	if err != nil {
		if domain.IsValidationError(err) {
			return commons.ErrorResponse[models.UserResponse]("validation failed", err.Error()), err
		}
		return commons.ErrorResponse[models.UserResponse]("failed to register user", "Unable to register right now"), err
	}

	return commons.SuccessResponse("User registered", models.UserResponse{
		ID:       user.ID,
		Username: user.Username,
	}), nil
}

func (s *UserService) VerifyCredentials(ctx context.Context, username, accessKey string) error {
	if strings.TrimSpace(username) == "" || accessKey == "" {
		return domain.NewValidationError("username and accessKey are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.ErrRecordNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.AccessKeyHash), []byte(accessKey)); err != nil {
		return domain.NewValidationError("invalid credentials")
	}

	return nil
}
