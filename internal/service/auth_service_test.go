package service

import (
	"testing"
	"time"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/testutil"
	"go-inventory-api/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (AuthService, *gorm.DB) {
	db := testutil.NewDB(t)
	tokens := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(repository.NewUserRepo(db), tokens), db
}

func TestRegister_CreatesStaff(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Register(&RegisterRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "correct-horse",
		Password2: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, user.Role)
	assert.True(t, user.CheckPassword("correct-horse"))
}

func TestRegister_PasswordMismatch(t *testing.T) {
	svc, db := newAuthService(t)

	_, err := svc.Register(&RegisterRequest{Username: "alice", Password: "correct-horse", Password2: "battery-staple"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "password", vErr.Field)
	assert.Zero(t, testutil.Count(t, db, &model.User{}))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, db := newAuthService(t)
	testutil.CreateUser(t, db, "alice", model.RoleStaff, "")

	_, err := svc.Register(&RegisterRequest{Username: "alice", Password: "correct-horse", Password2: "correct-horse"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "username", vErr.Field)
}

func TestLoginAndRefresh(t *testing.T) {
	svc, db := newAuthService(t)
	user := testutil.CreateUser(t, db, "alice", model.RoleManager, "")

	resp, err := svc.Login(&LoginRequest{Username: "alice", Password: "secret-pass-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Access)
	assert.NotEmpty(t, resp.Refresh)
	assert.Equal(t, model.RoleManager, resp.User.Role)
	assert.NotNil(t, resp.User.LastLogin)

	authed, err := svc.Authenticate(resp.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	pair, err := svc.Refresh(resp.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)

	// tokens are not interchangeable
	_, err = svc.Refresh(resp.Access)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	_, err = svc.Authenticate(resp.Refresh)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, db := newAuthService(t)
	testutil.CreateUser(t, db, "alice", model.RoleStaff, "")

	_, err := svc.Login(&LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&LoginRequest{Username: "nobody", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	svc, db := newAuthService(t)
	user := testutil.CreateUser(t, db, "alice", model.RoleStaff, "")

	resp, err := svc.Login(&LoginRequest{Username: "alice", Password: "secret-pass-1"})
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	_, err = svc.Authenticate(resp.Access)
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestChangePassword(t *testing.T) {
	svc, db := newAuthService(t)
	user := testutil.CreateUser(t, db, "alice", model.RoleStaff, "")

	err := svc.ChangePassword(user, &ChangePasswordRequest{OldPassword: "nope", NewPassword: "new-password-1"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "old_password", vErr.Field)

	require.NoError(t, svc.ChangePassword(user, &ChangePasswordRequest{OldPassword: "secret-pass-1", NewPassword: "new-password-1"}))
	_, err = svc.Login(&LoginRequest{Username: "alice", Password: "new-password-1"})
	assert.NoError(t, err)
}
