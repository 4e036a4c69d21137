package service

import (
	"context"
	"strings"
	"testing"

	"github.com/White1313devil/medicals/internal/apperror"
	"github.com/White1313devil/medicals/internal/authctx"
	"github.com/White1313devil/medicals/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func (ts *testServices) seedAdmin(t *testing.T, username, email, password string, role model.AdminRole) *model.Admin {
	t.Helper()
	admin := &model.Admin{Username: username, Email: ptr(email), Role: role, IsActive: true}
	admin.SetPassword(password)
	require.NoError(t, ts.auth.SaveAdmin(context.Background(), admin))
	return admin
}

func TestSaveAdminHashesOnlyDirtyPasswords(t *testing.T) {
	ts := newTestServices(t)
	admin := ts.seedAdmin(t, "admin", "admin@sm.com", "admin123", model.RoleSuperAdmin)

	assert.False(t, admin.PasswordDirty())
	assert.True(t, strings.HasPrefix(admin.Password, "$2"))
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("admin123")))

	hash := admin.Password
	admin.Role = model.RoleManager
	require.NoError(t, ts.auth.SaveAdmin(context.Background(), admin))
	assert.Equal(t, hash, admin.Password)

	other := ts.seedAdmin(t, "other", "other@sm.com", "admin123", model.RoleAdmin)
	assert.NotEqual(t, hash, other.Password)
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	ts := newTestServices(t)
	admin := ts.seedAdmin(t, "admin", "admin@sm.com", "admin123", model.RoleSuperAdmin)

	for _, identifier := range []string{"admin", "admin@sm.com"} {
		result, err := ts.auth.Login(context.Background(), identifier, "admin123")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, result.Admin.ID)
		assert.NotEmpty(t, result.Token)
		require.NotNil(t, result.Admin.LastLogin)

		authed, err := ts.auth.Authenticate(context.Background(), result.Token)
		require.NoError(t, err)
		assert.Equal(t, admin.ID, authed.ID)
	}

	entries, err := ts.audit.List(context.Background(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, ActionLogin, entries[0].Action)
	assert.Equal(t, "admin", entries[0].AdminUsername)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ts := newTestServices(t)
	ts.seedAdmin(t, "admin", "admin@sm.com", "admin123", model.RoleSuperAdmin)
	inactive := ts.seedAdmin(t, "sleepy", "sleepy@sm.com", "admin123", model.RoleAdmin)
	inactive.IsActive = false
	require.NoError(t, ts.auth.SaveAdmin(context.Background(), inactive))

	_, wrongPassword := ts.auth.Login(context.Background(), "admin", "nope")
	_, unknownUser := ts.auth.Login(context.Background(), "ghost", "admin123")
	_, inactiveUser := ts.auth.Login(context.Background(), "sleepy", "admin123")

	for _, err := range []error{wrongPassword, unknownUser, inactiveUser} {
		require.Error(t, err)
		assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
		assert.Equal(t, apperror.HTTPStatus(wrongPassword), apperror.HTTPStatus(err))
		assert.Equal(t, apperror.PublicMessage(wrongPassword), apperror.PublicMessage(err))
	}

	_, err := ts.auth.Login(context.Background(), "", "")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestUnknownAdminLoginStillComparesHash(t *testing.T) {
	ts := newTestServices(t)
	require.Nil(t, ts.auth.decoyHash)

	_, err := ts.auth.Login(context.Background(), "ghost", "admin123")
	require.True(t, apperror.Is(err, apperror.KindAuth))

	require.NotNil(t, ts.auth.decoyHash)
	cost, err := bcrypt.Cost(ts.auth.decoyHash)
	require.NoError(t, err)
	assert.Equal(t, ts.auth.BcryptCost, cost)
	assert.Error(t, bcrypt.CompareHashAndPassword(ts.auth.decoyHash, []byte("admin123")))
}

func TestAuthenticateRejects(t *testing.T) {
	ts := newTestServices(t)
	admin := ts.seedAdmin(t, "admin", "admin@sm.com", "admin123", model.RoleSuperAdmin)

	_, err := ts.auth.Authenticate(context.Background(), "garbage")
	assert.True(t, apperror.Is(err, apperror.KindAuth))

	token, err := ts.auth.JWT.GenerateToken(admin.ID)
	require.NoError(t, err)
	admin.IsActive = false
	require.NoError(t, ts.auth.SaveAdmin(context.Background(), admin))
	_, err = ts.auth.Authenticate(context.Background(), token)
	assert.True(t, apperror.Is(err, apperror.KindAuth))

	token, err = ts.auth.JWT.GenerateToken(12345)
	require.NoError(t, err)
	_, err = ts.auth.Authenticate(context.Background(), token)
	assert.True(t, apperror.Is(err, apperror.KindAuth))
}

func TestCreateAdminRequiresSuperAdmin(t *testing.T) {
	ts := newTestServices(t)
	input := CreateAdminInput{Username: "manager", Email: "m@sm.com", Password: "secret1", Role: model.RoleManager}

	managerCtx := authctx.WithCurrentAdmin(context.Background(), authctx.CurrentAdmin{ID: 2, Role: model.RoleManager})
	_, err := ts.auth.CreateAdmin(managerCtx, input)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = ts.auth.CreateAdmin(context.Background(), input)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	created, err := ts.auth.CreateAdmin(asAdmin(), input)
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, created.Role)
	assert.True(t, created.IsActive)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret1")))

	_, err = ts.auth.CreateAdmin(asAdmin(), input)
	assert.True(t, apperror.Is(err, apperror.KindDuplicate))

	_, err = ts.auth.CreateAdmin(asAdmin(), CreateAdminInput{Username: "x", Password: "short"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = ts.auth.CreateAdmin(asAdmin(), CreateAdminInput{Username: "y", Password: "secret1", Role: "owner"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestChangePassword(t *testing.T) {
	ts := newTestServices(t)
	admin := ts.seedAdmin(t, "admin", "admin@sm.com", "admin123", model.RoleSuperAdmin)

	err := ts.auth.ChangePassword(asAdmin(), admin.ID, "wrong", "newpass1")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	require.NoError(t, ts.auth.ChangePassword(asAdmin(), admin.ID, "admin123", "newpass1"))

	_, err = ts.auth.Login(context.Background(), "admin", "admin123")
	assert.True(t, apperror.Is(err, apperror.KindAuth))
	_, err = ts.auth.Login(context.Background(), "admin", "newpass1")
	assert.NoError(t, err)

	profile, err := ts.auth.Profile(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", profile.Username)
}
