// Package user provides the application layer for user profiles
package user

import (
	"context"
	stderrors "errors"

	"github.com/alchemorsel/foodgram/internal/application/projection"
	"github.com/alchemorsel/foodgram/internal/domain/user"
	"github.com/alchemorsel/foodgram/internal/ports/inbound"
	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/alchemorsel/foodgram/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService implements profile lookups and account provisioning
type UserService struct {
	userRepo   outbound.UserRepository
	projector  *projection.Projector
	bcryptCost int
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo outbound.UserRepository,
	projector *projection.Projector,
	bcryptCost int,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		projector:  projector,
		bcryptCost: bcryptCost,
		validate:   validator.New(),
		logger:     logger.Named("user-service"),
	}
}

// RegisterCommand contains user registration data
type RegisterCommand struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Password  string `json:"password" validate:"required,min=8"`
}

// Register creates an account. Tokens are issued elsewhere.
func (s *UserService) Register(ctx context.Context, cmd RegisterCommand) (*inbound.UserView, error) {
	s.logger.Info("Registering user", zap.String("email", cmd.Email))

	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}

	userEntity, err := user.NewUser(cmd.Email, cmd.Username, cmd.FirstName, cmd.LastName, cmd.Password, s.bcryptCost)
	if err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}

	if err := s.userRepo.Create(ctx, userEntity); err != nil {
		if stderrors.Is(err, user.ErrUserExists) {
			return nil, errors.NewAlreadyExistsError(user.ErrUserExists.Error())
		}
		return nil, errors.NewDatabaseError("create user", err)
	}

	s.logger.Info("User registered", zap.String("user_id", userEntity.ID().String()))

	view := projection.UserBase(userEntity)
	return &view, nil
}

// Authenticate checks credentials and returns the matching user. Unknown
// emails and wrong passwords fail the same way.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	userEntity, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return nil, errors.NewUnauthorizedError("invalid credentials")
		}
		return nil, errors.NewDatabaseError("find user", err)
	}

	if err := userEntity.CheckPassword(password); err != nil {
		s.logger.Info("Failed login", zap.String("user_id", userEntity.ID().String()))
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}
	return userEntity, nil
}

// GetProfile returns a user as seen by viewer, which may be nil.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID, viewer *uuid.UUID) (*inbound.UserView, error) {
	userEntity, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return nil, errors.NewNotFoundError(user.ErrUserNotFound.Error()).WithMetadata("user_id", userID.String())
		}
		return nil, errors.NewDatabaseError("find user", err)
	}

	view, err := s.projector.ProjectUser(ctx, userEntity, viewer)
	if err != nil {
		return nil, errors.NewDatabaseError("project user", err)
	}
	return &view, nil
}
