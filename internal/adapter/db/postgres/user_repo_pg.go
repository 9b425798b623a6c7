package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-crud-service/internal/domain/user"
	pkgerrors "user-crud-service/pkg/errors"
)

// UserRepoPG implements the Repository interface using GORM.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"not null;size:100"`
	Email     string    `gorm:"not null;uniqueIndex;size:254"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// Migrate ensures the users table exists. Called once at startup.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

func (m *UserSchema) toDomain() *user.User {
	return &user.User{
		ID:    m.ID,
		Name:  m.Name,
		Email: m.Email,
	}
}

// Create inserts a new user into the database. The ID is assigned by the
// store's auto-increment sequence, never by the caller.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := UserSchema{
		Name:  u.Name,
		Email: u.Email,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return nil, pkgerrors.NewInternalError("failed to create user", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.toDomain(), nil
}

// GetByID retrieves a user from the database by their unique ID.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user not found", zap.Int64("id", id))
			return nil, pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, pkgerrors.NewInternalError("failed to get user", err)
	}

	return model.toDomain(), nil
}

// GetByEmail retrieves a user from the database by their email address.
// Returns nil without error when no user has that email.
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, pkgerrors.NewInternalError("failed to get user by email", err)
	}

	return model.toDomain(), nil
}

// Update merges the non-empty fields of u into the stored user inside a
// transaction, so concurrent updates to the same ID cannot interleave.
func (r *UserRepoPG) Update(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	var model UserSchema
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model, u.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", u.ID))
			}
			return pkgerrors.NewInternalError("failed to load user for update", err)
		}

		if u.Name != "" {
			model.Name = u.Name
		}
		if u.Email != "" {
			model.Email = u.Email
		}

		if err := tx.Save(&model).Error; err != nil {
			return pkgerrors.NewInternalError("failed to update user", err)
		}
		return nil
	})
	if err != nil {
		r.log.Warn("update failed", zap.Int64("id", u.ID), zap.Error(err))
		return nil, err
	}

	r.log.Info("user updated in db", zap.Int64("id", model.ID))
	return model.toDomain(), nil
}

// Delete removes a user from the database by ID. A missing ID is reported as
// not found so repeated deletes stay unambiguous.
func (r *UserRepoPG) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.NewValidationError("id", "user id must be positive")
	}

	res := r.db.WithContext(ctx).Delete(&UserSchema{}, id)
	if res.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(res.Error), zap.Int64("id", id))
		return pkgerrors.NewInternalError("failed to delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		r.log.Warn("delete target not found", zap.Int64("id", id))
		return pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return nil
}

// List retrieves all users ordered by ascending ID.
func (r *UserRepoPG) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to list users", err)
	}

	users := make([]user.User, len(models))
	for i, model := range models {
		users[i] = *model.toDomain()
	}

	return users, nil
}
