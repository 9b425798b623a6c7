package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	domain "user-crud-service/internal/domain/user"
	pkgerrors "user-crud-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func setupTestService(t *testing.T) (*Service, *MockRepository) {
	mockRepo := new(MockRepository)
	logger := zaptest.NewLogger(t)
	svc := New(mockRepo, logger)
	return svc, mockRepo
}

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "Anya Forger",
		Email: "anya@example.com",
	}

	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 0 && u.Name == req.Name && u.Email == req.Email
	})).Return(&domain.User{ID: 1, Name: req.Name, Email: req.Email}, nil)

	resp, err := svc.CreateUser(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, req.Name, resp.Name)
	assert.Equal(t, req.Email, resp.Email)

	mockRepo.AssertExpectations(t)
}

func TestCreateUser_ValidationError_NameRequired(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "",
		Email: "anya@example.com",
	}

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Name is required")

	var valErr *pkgerrors.ValidationError
	assert.True(t, errors.As(err, &valErr))

	// Validation must fail before any storage access
	mockRepo.AssertNotCalled(t, "Create")
	mockRepo.AssertNotCalled(t, "GetByEmail")
}

func TestCreateUser_ValidationError_EmailRequired(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "Anya Forger",
		Email: "",
	}

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Email is required")
	mockRepo.AssertNotCalled(t, "Create")
}

func TestCreateUser_ValidationError_EmailFormat(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "Anya Forger",
		Email: "not-an-email",
	}

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Email must be a valid email")
	mockRepo.AssertNotCalled(t, "Create")
}

func TestCreateUser_EmailAlreadyExists(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "Anya Forger",
		Email: "anya@example.com",
	}

	mockRepo.On("GetByEmail", ctx, req.Email).Return(&domain.User{ID: 7, Name: "Other", Email: req.Email}, nil)

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var existsErr *pkgerrors.AlreadyExistsError
	assert.True(t, errors.As(err, &existsErr))
	mockRepo.AssertNotCalled(t, "Create")
}

func TestCreateUser_RepositoryError(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "Anya Forger",
		Email: "anya@example.com",
	}

	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.Anything).Return(nil, pkgerrors.NewInternalError("db down", errors.New("connection refused")))

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var internalErr *pkgerrors.InternalError
	assert.True(t, errors.As(err, &internalErr))
}

// ==================== GET USER TESTS ====================

func TestGetUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Name: "Anya Forger", Email: "anya@example.com"}, nil)

	resp, err := svc.GetUser(ctx, GetUserRequest{ID: 1})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Anya Forger", resp.Name)
	assert.Equal(t, "anya@example.com", resp.Email)
}

func TestGetUser_InvalidID(t *testing.T) {
	svc, mockRepo := setupTestService(t)

	resp, err := svc.GetUser(context.Background(), GetUserRequest{ID: 0})

	assert.Error(t, err)
	assert.Nil(t, resp)

	var valErr *pkgerrors.ValidationError
	assert.True(t, errors.As(err, &valErr))
	mockRepo.AssertNotCalled(t, "GetByID")
}

func TestGetUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(99)).Return(nil, pkgerrors.NewNotFoundError("user", "user not found: id=99"))

	resp, err := svc.GetUser(ctx, GetUserRequest{ID: 99})

	assert.Error(t, err)
	assert.Nil(t, resp)

	var notFoundErr *pkgerrors.NotFoundError
	assert.True(t, errors.As(err, &notFoundErr))
}

// ==================== LIST USERS TESTS ====================

func TestListUsers_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{
		{ID: 1, Name: "Anya Forger", Email: "anya@example.com"},
		{ID: 2, Name: "Loid Forger", Email: "loid@example.com"},
	}, nil)

	resp, err := svc.ListUsers(ctx)

	assert.NoError(t, err)
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, int64(1), resp.Users[0].ID)
	assert.Equal(t, int64(2), resp.Users[1].ID)
}

func TestListUsers_Empty(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{}, nil)

	resp, err := svc.ListUsers(ctx)

	assert.NoError(t, err)
	assert.NotNil(t, resp.Users)
	assert.Len(t, resp.Users, 0)
}

// ==================== UPDATE USER TESTS ====================

func TestUpdateUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:    1,
		Name:  "Twilight",
		Email: "twilight@example.com",
	}

	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 1 && u.Name == req.Name && u.Email == req.Email
	})).Return(&domain.User{ID: 1, Name: req.Name, Email: req.Email}, nil)

	resp, err := svc.UpdateUser(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, "Twilight", resp.Name)
	assert.Equal(t, "twilight@example.com", resp.Email)
}

func TestUpdateUser_NameOnly_SkipsEmailUniquenessCheck(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:   1,
		Name: "Twilight",
	}

	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 1 && u.Name == "Twilight" && u.Email == ""
	})).Return(&domain.User{ID: 1, Name: "Twilight", Email: "anya@example.com"}, nil)

	resp, err := svc.UpdateUser(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, "Twilight", resp.Name)
	// Email untouched by a name-only update
	assert.Equal(t, "anya@example.com", resp.Email)
	mockRepo.AssertNotCalled(t, "GetByEmail")
}

func TestUpdateUser_EmailTakenByOtherUser(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:    1,
		Email: "loid@example.com",
	}

	mockRepo.On("GetByEmail", ctx, req.Email).Return(&domain.User{ID: 2, Email: req.Email}, nil)

	resp, err := svc.UpdateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var existsErr *pkgerrors.AlreadyExistsError
	assert.True(t, errors.As(err, &existsErr))
	mockRepo.AssertNotCalled(t, "Update")
}

func TestUpdateUser_SameEmailSameUser(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:    1,
		Email: "anya@example.com",
	}

	// The user already owns this email; not a conflict
	mockRepo.On("GetByEmail", ctx, req.Email).Return(&domain.User{ID: 1, Email: req.Email}, nil)
	mockRepo.On("Update", ctx, mock.Anything).Return(&domain.User{ID: 1, Name: "Anya Forger", Email: req.Email}, nil)

	resp, err := svc.UpdateUser(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := UpdateUserRequest{ID: 99, Name: "Twilight"}

	mockRepo.On("Update", ctx, mock.Anything).Return(nil, pkgerrors.NewNotFoundError("user", "user not found: id=99"))

	resp, err := svc.UpdateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var notFoundErr *pkgerrors.NotFoundError
	assert.True(t, errors.As(err, &notFoundErr))
}

func TestUpdateUser_ValidationError_BadEmail(t *testing.T) {
	svc, mockRepo := setupTestService(t)

	req := UpdateUserRequest{ID: 1, Email: "not-an-email"}

	resp, err := svc.UpdateUser(context.Background(), req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	mockRepo.AssertNotCalled(t, "Update")
}

// ==================== DELETE USER TESTS ====================

func TestDeleteUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(1)).Return(nil)

	err := svc.DeleteUser(ctx, DeleteUserRequest{ID: 1})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestDeleteUser_InvalidID(t *testing.T) {
	svc, mockRepo := setupTestService(t)

	err := svc.DeleteUser(context.Background(), DeleteUserRequest{ID: -1})

	assert.Error(t, err)

	var valErr *pkgerrors.ValidationError
	assert.True(t, errors.As(err, &valErr))
	mockRepo.AssertNotCalled(t, "Delete")
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(99)).Return(pkgerrors.NewNotFoundError("user", "user not found: id=99"))

	err := svc.DeleteUser(ctx, DeleteUserRequest{ID: 99})

	assert.Error(t, err)

	var notFoundErr *pkgerrors.NotFoundError
	assert.True(t, errors.As(err, &notFoundErr))
}
