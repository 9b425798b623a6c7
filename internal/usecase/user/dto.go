package user

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	Name  string `validate:"required,max=100"`
	Email string `validate:"required,email,max=254"`
}

// UpdateUserRequest represents the request payload for updating an existing user.
// Empty fields are left untouched on the stored user.
type UpdateUserRequest struct {
	ID    int64  `validate:"required,gt=0"`
	Name  string `validate:"omitempty,max=100"`
	Email string `validate:"omitempty,email,max=254"`
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID int64
}

// UserResponse represents a single user returned by the usecase.
type UserResponse struct {
	ID    int64
	Name  string
	Email string
}

// ListUsersResponse represents the response payload for user listing.
// Users are ordered by ascending ID, matching insertion order.
type ListUsersResponse struct {
	Users []UserResponse
}
