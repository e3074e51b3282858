package routes

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gofiber-cms/application/serviceimpl"
	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/services"
	"gofiber-cms/infrastructure/memory"
	"gofiber-cms/infrastructure/messaging"
	"gofiber-cms/infrastructure/postgres"
	"gofiber-cms/infrastructure/storage"
	"gofiber-cms/interfaces/api/handlers"
	"gofiber-cms/interfaces/api/middleware"
	"gofiber-cms/pkg/pagination"
	"gofiber-cms/pkg/utils"
)

const secret = "routes-test-secret"

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Meta    pagination.Meta  `json:"meta"`
	Error   *utils.ErrorInfo `json:"error"`
}

type testAPI struct {
	t     *testing.T
	app   *fiber.App
	users services.UserService
	admin string // bearer token
	guest string // login ได้ แต่ไม่มี permission
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cms.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))

	store, err := storage.NewLocalStorage(storage.LocalStorageConfig{
		BasePath: filepath.Join(t.TempDir(), "uploads"),
		BaseURL:  "http://localhost/files",
	})
	require.NoError(t, err)

	events := messaging.NoopEventPublisher{}
	cache := memory.NewPermissionCache(time.Minute)
	categoryRepo := postgres.NewCategoryRepository(db)
	postRepo := postgres.NewPostRepository(db)

	s := &handlers.Services{
		UserService:       serviceimpl.NewUserService(postgres.NewUserRepository(db), cache, events, secret, time.Hour),
		RoleService:       serviceimpl.NewRoleService(postgres.NewRoleRepository(db), cache, events),
		PermissionService: serviceimpl.NewPermissionService(postgres.NewPermissionRepository(db), cache, events),
		CategoryService:   serviceimpl.NewCategoryService(categoryRepo, events),
		PostService:       serviceimpl.NewPostService(postRepo, categoryRepo, store, events),
		CommentService:    serviceimpl.NewCommentService(postgres.NewCommentRepository(db), postRepo, events),
		PingDB: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		MaxCoverBytes: 1 << 20,
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	SetupRoutes(app, handlers.NewHandlers(s), Options{JWTSecret: secret})

	api := &testAPI{t: t, app: app, users: s.UserService}

	var permIDs []uuid.UUID
	for _, name := range []string{"category.create", "category.update", "category.delete", "category.restore"} {
		p, err := s.PermissionService.Create(ctx, &dto.CreatePermissionRequest{Name: name})
		require.NoError(t, err)
		permIDs = append(permIDs, p.ID)
	}
	role, err := s.RoleService.Create(ctx, &dto.CreateRoleRequest{Name: "editor", PermissionIDs: permIDs})
	require.NoError(t, err)

	admin := api.createUser("admin@example.com", "admin")
	_, err = s.UserService.AssignRoles(ctx, admin, []uuid.UUID{role.ID})
	require.NoError(t, err)
	guest := api.createUser("guest@example.com", "guest")

	api.admin = api.token(admin)
	api.guest = api.token(guest)
	return api
}

func (a *testAPI) createUser(email, username string) uuid.UUID {
	a.t.Helper()
	u, err := a.users.Create(context.Background(), &dto.CreateUserRequest{
		Email:     email,
		Username:  username,
		Password:  "password123",
		FirstName: "Test",
		LastName:  "User",
	})
	require.NoError(a.t, err)
	return u.ID
}

func (a *testAPI) token(id uuid.UUID) string {
	a.t.Helper()
	token, err := utils.GenerateToken(id, "", "", secret, time.Hour)
	require.NoError(a.t, err)
	return token
}

func (a *testAPI) do(method, path string, body any, token string) (int, envelope) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	if len(raw) > 0 {
		require.NoError(a.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	status, env := api.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	status, env := api.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Email: "admin@example.com", Password: "password123",
	}, "")
	require.Equal(t, http.StatusOK, status)
	login := decode[dto.LoginResponse](t, env)
	assert.NotEmpty(t, login.Token)

	status, env = api.do(http.MethodGet, "/api/v1/auth/me/permissions", nil, login.Token)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, decode[[]string](t, env), "category.create")

	status, _ = api.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Email: "admin@example.com", Password: "not-the-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCategoryWritesRequirePermission(t *testing.T) {
	api := newTestAPI(t)
	body := dto.CreateCategoryRequest{Name: "News"}

	status, _ := api.do(http.MethodPost, "/api/v1/categories", body, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := api.do(http.MethodPost, "/api/v1/categories", body, api.guest)
	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.ErrCodeForbidden, env.Error.Code)

	status, _ = api.do(http.MethodPost, "/api/v1/categories", dto.CreateCategoryRequest{}, api.admin)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCategoryLifecycle(t *testing.T) {
	api := newTestAPI(t)

	create := func(name string, parent *uuid.UUID) dto.CategoryResponse {
		t.Helper()
		status, env := api.do(http.MethodPost, "/api/v1/categories", dto.CreateCategoryRequest{Name: name, ParentID: parent}, api.admin)
		require.Equal(t, http.StatusCreated, status)
		return decode[dto.CategoryResponse](t, env)
	}
	news := create("News", nil)
	local := create("Local", &news.ID)
	create("Sport", nil)

	t.Run("paginated list is flattened with depth", func(t *testing.T) {
		status, env := api.do(http.MethodGet, "/api/v1/categories?limit=2", nil, "")
		require.Equal(t, http.StatusOK, status)
		items := decode[[]dto.CategoryResponse](t, env)
		require.Len(t, items, 2)
		assert.Equal(t, "local", items[1].Slug)
		assert.Equal(t, 1, items[1].Depth)
		assert.Equal(t, int64(3), env.Meta.TotalItems)
		assert.Equal(t, 2, env.Meta.TotalPages)
	})

	t.Run("breadcrumbs", func(t *testing.T) {
		status, env := api.do(http.MethodGet, "/api/v1/categories/"+local.ID.String()+"/breadcrumbs", nil, "")
		require.Equal(t, http.StatusOK, status)
		crumbs := decode[[]dto.CategoryResponse](t, env)
		require.Len(t, crumbs, 2)
		assert.Equal(t, news.ID, crumbs[0].ID)
		assert.Equal(t, local.ID, crumbs[1].ID)
	})

	t.Run("moving under a descendant conflicts", func(t *testing.T) {
		status, env := api.do(http.MethodPut, "/api/v1/categories/"+news.ID.String(),
			dto.UpdateCategoryRequest{ParentID: &local.ID}, api.admin)
		assert.Equal(t, http.StatusConflict, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, utils.ErrCodeConflict, env.Error.Code)
	})

	t.Run("bad list queries", func(t *testing.T) {
		status, _ := api.do(http.MethodGet, "/api/v1/categories?orderBy=password", nil, "")
		assert.Equal(t, http.StatusBadRequest, status)
		status, _ = api.do(http.MethodGet, "/api/v1/categories?trashed=maybe", nil, "")
		assert.Equal(t, http.StatusBadRequest, status)
		status, _ = api.do(http.MethodGet, "/api/v1/categories/not-a-uuid", nil, "")
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("soft delete, restore, force delete", func(t *testing.T) {
		path := "/api/v1/categories/" + news.ID.String()

		status, env := api.do(http.MethodDelete, path, nil, api.admin)
		require.Equal(t, http.StatusNoContent, status)
		assert.Nil(t, env.Data)

		status, _ = api.do(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusNotFound, status)
		status, _ = api.do(http.MethodGet, path+"?trashed=only", nil, "")
		assert.Equal(t, http.StatusOK, status)

		// children ขยับขึ้นไปเป็น root
		status, env = api.do(http.MethodGet, "/api/v1/categories/"+local.ID.String(), nil, "")
		require.Equal(t, http.StatusOK, status)
		assert.Nil(t, decode[dto.CategoryResponse](t, env).ParentID)

		status, _ = api.do(http.MethodPost, "/api/v1/categories/restore", dto.RestoreRequest{IDs: []uuid.UUID{news.ID}}, api.admin)
		require.Equal(t, http.StatusOK, status)
		status, _ = api.do(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, status)

		status, env = api.do(http.MethodPost, "/api/v1/categories/delete",
			dto.DeleteRequest{IDs: []uuid.UUID{news.ID}, Force: true}, api.admin)
		require.Equal(t, http.StatusOK, status)
		assert.True(t, env.Success)
		status, _ = api.do(http.MethodGet, path+"?trashed=all", nil, "")
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("delete unknown id", func(t *testing.T) {
		status, _ := api.do(http.MethodDelete, "/api/v1/categories/"+uuid.NewString(), nil, api.admin)
		assert.Equal(t, http.StatusNotFound, status)
	})
}
