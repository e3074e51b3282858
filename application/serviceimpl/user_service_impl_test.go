package serviceimpl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/errs"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/services"
	"gofiber-cms/infrastructure/memory"
	"gofiber-cms/infrastructure/postgres"
	"gofiber-cms/pkg/utils"
)

const testSecret = "test-secret"

type rbacSuite struct {
	users services.UserService
	roles services.RoleService
	perms services.PermissionService
}

func newRBACSuite(t *testing.T) *rbacSuite {
	t.Helper()
	db := newTestDB(t)
	cache := memory.NewPermissionCache(time.Hour)
	events := &recorder{}
	return &rbacSuite{
		users: NewUserService(postgres.NewUserRepository(db), cache, events, testSecret, time.Hour),
		roles: NewRoleService(postgres.NewRoleRepository(db), cache, events),
		perms: NewPermissionService(postgres.NewPermissionRepository(db), cache, events),
	}
}

func (s *rbacSuite) user(t *testing.T, email, username string) *models.User {
	t.Helper()
	u, err := s.users.Create(context.Background(), &dto.CreateUserRequest{
		Email:     email,
		Username:  username,
		Password:  "password123",
		FirstName: "Test",
		LastName:  "User",
	})
	require.NoError(t, err)
	return u
}

func (s *rbacSuite) permission(t *testing.T, name string) *models.Permission {
	t.Helper()
	p, err := s.perms.Create(context.Background(), &dto.CreatePermissionRequest{Name: name})
	require.NoError(t, err)
	return p
}

func TestUserCreateConflicts(t *testing.T) {
	s := newRBACSuite(t)
	ctx := context.Background()
	s.user(t, "a@example.com", "alice")

	_, err := s.users.Create(ctx, &dto.CreateUserRequest{Email: "a@example.com", Username: "other", Password: "password123"})
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = s.users.Create(ctx, &dto.CreateUserRequest{Email: "b@example.com", Username: "alice", Password: "password123"})
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestUserCreateWithUnknownRoleRollsBack(t *testing.T) {
	s := newRBACSuite(t)
	ctx := context.Background()

	_, err := s.users.Create(ctx, &dto.CreateUserRequest{
		Email:    "a@example.com",
		Username: "alice",
		Password: "password123",
		RoleIDs:  []uuid.UUID{uuid.New()},
	})
	assert.ErrorIs(t, err, errs.ErrValidation)

	// อีเมลต้องว่างให้ใช้ได้อีกครั้ง
	s.user(t, "a@example.com", "alice")
}

func TestUserLogin(t *testing.T) {
	s := newRBACSuite(t)
	ctx := context.Background()
	u := s.user(t, "a@example.com", "alice")

	token, logged, err := s.users.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	claims, err := utils.ValidateTokenStringToUUID("Bearer "+token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.ID)
	assert.Equal(t, "alice", claims.Username)

	_, _, err = s.users.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.users.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, s.users.Delete(ctx, []uuid.UUID{u.ID}, true))
	_, _, err = s.users.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserChangePassword(t *testing.T) {
	s := newRBACSuite(t)
	ctx := context.Background()
	u := s.user(t, "a@example.com", "alice")

	err := s.users.ChangePassword(ctx, u.ID, &dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "newpassword1"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	require.NoError(t, s.users.ChangePassword(ctx, u.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword1",
	}))
	_, _, err = s.users.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "newpassword1"})
	assert.NoError(t, err)
}

func TestPermissionsFollowRoles(t *testing.T) {
	s := newRBACSuite(t)
	ctx := context.Background()
	u := s.user(t, "a@example.com", "alice")
	read := s.permission(t, "post.read")
	write := s.permission(t, "post.create")

	role, err := s.roles.Create(ctx, &dto.CreateRoleRequest{Name: " Editor ", PermissionIDs: []uuid.UUID{read.ID}})
	require.NoError(t, err)
	assert.Equal(t, "editor", role.Name)

	ok, err := s.users.HasPermission(ctx, u.ID, "post.read")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.users.AssignRoles(ctx, u.ID, []uuid.UUID{role.ID})
	require.NoError(t, err)

	perms, err := s.users.Permissions(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"post.read"}, perms)

	// เปลี่ยน permission ของ role แล้ว cache ของผู้ถือ role ต้องถูกล้าง
	_, err = s.roles.SetPermissions(ctx, role.ID, []uuid.UUID{read.ID, write.ID})
	require.NoError(t, err)
	ok, err = s.users.HasPermission(ctx, u.ID, "post.create")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.roles.Delete(ctx, []uuid.UUID{role.ID}, false))
	perms, err = s.users.Permissions(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestInactiveUserHasNoPermissions(t *testing.T) {
	s := newRBACSuite(t)
	ctx := context.Background()
	u := s.user(t, "a@example.com", "alice")
	p := s.permission(t, "post.read")

	role, err := s.roles.Create(ctx, &dto.CreateRoleRequest{Name: "reader", PermissionIDs: []uuid.UUID{p.ID}})
	require.NoError(t, err)
	_, err = s.users.AssignRoles(ctx, u.ID, []uuid.UUID{role.ID})
	require.NoError(t, err)

	inactive := false
	_, err = s.users.Update(ctx, u.ID, &dto.UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)

	ok, err := s.users.HasPermission(ctx, u.ID, "post.read")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRoleCreateConflict(t *testing.T) {
	s := newRBACSuite(t)
	ctx := context.Background()

	_, err := s.roles.Create(ctx, &dto.CreateRoleRequest{Name: "admin"})
	require.NoError(t, err)
	_, err = s.roles.Create(ctx, &dto.CreateRoleRequest{Name: "ADMIN"})
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = s.roles.Create(ctx, &dto.CreateRoleRequest{Name: "ghost", PermissionIDs: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = s.roles.Create(ctx, &dto.CreateRoleRequest{Name: "ghost"})
	assert.NoError(t, err)
}
