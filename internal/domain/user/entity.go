package user

// User represents a user entity in the system.
type User struct {
	ID    int64  // ID is the store-assigned unique identifier, immutable once created
	Name  string // Name is the full name of the user
	Email string // Email is the unique email address of the user
}
