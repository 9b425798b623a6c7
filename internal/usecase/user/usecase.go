package user

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "user-crud-service/internal/domain/user"
	pkgerrors "user-crud-service/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (e.g., PostgreSQL, SQLite) to be used interchangeably.
type Repository interface {
	// Create inserts a new user; the ID is assigned by the store.
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// GetByEmail returns nil without error when no user has that email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update merges the non-empty fields of u into the stored user.
	Update(ctx context.Context, u *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	// List returns all users ordered by ascending ID.
	List(ctx context.Context) ([]domain.User, error)
}

// Service implements the business logic for user management operations.
// It provides a clean separation between the transport layer and data layer.
type Service struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new Service with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a typed validation error.
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.NewValidationError("", err.Error())
	}

	var messages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		case "gt":
			messages = append(messages, fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return pkgerrors.NewValidationError("", strings.Join(messages, ", "))
}

// CreateUser creates a new user after validating the request and checking
// email uniqueness. Validation happens before any storage mutation.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error) {
	s.log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("create user validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil {
		s.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, pkgerrors.NewAlreadyExistsError("user", fmt.Sprintf("user with email %s already exists", in.Email))
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Name:  in.Name,
		Email: in.Email,
	})
	if err != nil {
		s.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	return &UserResponse{
		ID:    created.ID,
		Name:  created.Name,
		Email: created.Email,
	}, nil
}

// GetUser retrieves a user by ID after validating the request.
func (s *Service) GetUser(ctx context.Context, in GetUserRequest) (*UserResponse, error) {
	if in.ID <= 0 {
		s.log.Warn("get user validation failed", zap.Int64("id", in.ID))
		return nil, pkgerrors.NewValidationError("id", "user id must be positive")
	}

	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		s.log.Warn("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}, nil
}

// ListUsers retrieves all users ordered by ID.
func (s *Service) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	s.log.Debug("listing users")

	domainUsers, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]UserResponse, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = UserResponse{
			ID:    du.ID,
			Name:  du.Name,
			Email: du.Email,
		}
	}

	return &ListUsersResponse{Users: users}, nil
}

// UpdateUser merges the supplied fields into an existing user. Fields absent
// from the request leave the stored values untouched.
func (s *Service) UpdateUser(ctx context.Context, in UpdateUserRequest) (*UserResponse, error) {
	s.log.Info("updating user", zap.Int64("id", in.ID), zap.String("name", in.Name), zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("update user validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	if in.Email != "" {
		existing, err := s.repo.GetByEmail(ctx, in.Email)
		if err != nil {
			s.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
			return nil, pkgerrors.NewInternalError("failed to validate email uniqueness", err)
		}
		if existing != nil && existing.ID != in.ID {
			s.log.Warn("email already exists", zap.String("email", in.Email), zap.Int64("existing_id", existing.ID))
			return nil, pkgerrors.NewAlreadyExistsError("user", fmt.Sprintf("user with email %s already exists", in.Email))
		}
	}

	updated, err := s.repo.Update(ctx, &domain.User{
		ID:    in.ID,
		Name:  in.Name,
		Email: in.Email,
	})
	if err != nil {
		s.log.Warn("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &UserResponse{
		ID:    updated.ID,
		Name:  updated.Name,
		Email: updated.Email,
	}, nil
}

// DeleteUser deletes a user after validating the user ID. Deleting an
// already-deleted ID reports not found rather than succeeding silently.
func (s *Service) DeleteUser(ctx context.Context, in DeleteUserRequest) error {
	s.log.Info("deleting user", zap.Int64("id", in.ID))

	if in.ID <= 0 {
		s.log.Warn("delete user validation failed", zap.Int64("id", in.ID))
		return pkgerrors.NewValidationError("id", "user id must be positive")
	}

	if err := s.repo.Delete(ctx, in.ID); err != nil {
		s.log.Warn("failed to delete user", zap.Int64("id", in.ID), zap.Error(err))
		return err
	}

	return nil
}
