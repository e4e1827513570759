package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/account"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/auth"
	"github.com/xSp1der42/disk-site-sub000/internal/repository"
	"github.com/xSp1der42/disk-site-sub000/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var admin = auth.Actor{Name: "root", Role: auth.RoleAdmin}

func hashed(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.UserRepository{}
	repo.On("GetByUsername", ctx, "petr").Return(&account.User{
		Username:     "petr",
		PasswordHash: hashed(t, "secret"),
		Role:         auth.RoleProrab,
		CreatedAt:    time.Now(),
	}, nil)

	svc := account.NewService(repo, nil)
	profile, err := svc.Login(ctx, "petr", "secret")
	require.NoError(t, err)
	require.Equal(t, "petr", profile.Username)
	require.Equal(t, auth.RoleProrab, profile.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.UserRepository{}
	repo.On("GetByUsername", ctx, "petr").Return(&account.User{
		Username:     "petr",
		PasswordHash: hashed(t, "secret"),
		Role:         auth.RoleProrab,
	}, nil)

	svc := account.NewService(repo, nil)
	_, err := svc.Login(ctx, "petr", "wrong")
	require.ErrorIs(t, err, account.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.UserRepository{}
	repo.On("GetByUsername", ctx, "ghost").Return(nil, repository.ErrNotFound)

	svc := account.NewService(repo, nil)
	_, err := svc.Login(ctx, "ghost", "whatever")
	require.ErrorIs(t, err, account.ErrInvalidCredentials)
}

func TestCreateUser_DuplicateIsExplicit(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.UserRepository{}
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate)

	svc := account.NewService(repo, nil)
	_, err := svc.CreateUser(ctx, admin, "petr", "secret", auth.RoleProrab)
	// Unlike structural denials, this surfaces as an explicit error.
	require.ErrorIs(t, err, account.ErrDuplicateUsername)
}

func TestCreateUser_DeniedForNonAdmin(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.UserRepository{}

	svc := account.NewService(repo, nil)
	_, err := svc.CreateUser(ctx, auth.Actor{Name: "arc", Role: auth.RoleArchitect}, "x", "y", auth.RoleWorker)
	require.ErrorIs(t, err, account.ErrDenied)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnsureDefaultAdmin_SeedsOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.UserRepository{}
	repo.On("List", ctx).Return([]*account.User{}, nil)
	var seeded *account.User
	repo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		seeded = args.Get(1).(*account.User)
	}).Return(nil)

	svc := account.NewService(repo, nil)
	require.NoError(t, svc.EnsureDefaultAdmin(ctx, "admin", "admin"))
	require.NotNil(t, seeded)
	require.Equal(t, auth.RoleAdmin, seeded.Role)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(seeded.PasswordHash), []byte("admin")))

	populated := &mocks.UserRepository{}
	populated.On("List", ctx).Return([]*account.User{{Username: "admin"}}, nil)
	svc = account.NewService(populated, nil)
	require.NoError(t, svc.EnsureDefaultAdmin(ctx, "admin", "admin"))
	populated.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
