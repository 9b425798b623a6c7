package user

import "context"

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error)
	GetUser(ctx context.Context, in GetUserRequest) (*UserResponse, error)
	ListUsers(ctx context.Context) (*ListUsersResponse, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, in DeleteUserRequest) error
}
