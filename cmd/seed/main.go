// Command seed สร้าง permissions มาตรฐาน, role "admin" ที่มีทุกสิทธิ์ และ
// user admin คนแรก รันซ้ำได้โดยไม่สร้างข้อมูลซ้ำ
package main

import (
	"context"
	"errors"
	"os"

	"github.com/google/uuid"

	"gofiber-cms/application/serviceimpl"
	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/errs"
	"gofiber-cms/infrastructure/memory"
	"gofiber-cms/infrastructure/messaging"
	"gofiber-cms/infrastructure/postgres"
	"gofiber-cms/pkg/config"
	"gofiber-cms/pkg/logger"
)

var resources = map[string][]string{
	"category":   {"create", "update", "delete", "restore"},
	"post":       {"create", "update", "delete", "restore"},
	"comment":    {"update", "delete", "restore"},
	"user":       {"read", "create", "update", "delete", "restore"},
	"role":       {"read", "create", "update", "delete"},
	"permission": {"read", "create", "update", "delete"},
	"system":     {"monitor", "purge"},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	if err := logger.Init(logger.Config{Level: "info", Format: "text", Output: "stdout"}); err != nil {
		panic("Failed to init logger: " + err.Error())
	}

	db, err := postgres.NewDatabase(postgres.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		logger.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(db); err != nil {
		logger.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	events := messaging.NoopEventPublisher{}
	cache := memory.NewPermissionCache(cfg.Cache.PermissionTTL)

	permRepo := postgres.NewPermissionRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	userRepo := postgres.NewUserRepository(db)

	permService := serviceimpl.NewPermissionService(permRepo, cache, events)
	roleService := serviceimpl.NewRoleService(roleRepo, cache, events)
	userService := serviceimpl.NewUserService(userRepo, cache, events, cfg.JWT.Secret, cfg.JWT.TTL)

	ctx := context.Background()

	var permIDs []uuid.UUID
	for resource, actions := range resources {
		for _, action := range actions {
			name := resource + "." + action
			perm, err := permRepo.GetByName(ctx, name)
			if errors.Is(err, errs.ErrNotFound) {
				perm, err = permService.Create(ctx, &dto.CreatePermissionRequest{Name: name})
			}
			if err != nil {
				logger.Error("Failed to seed permission", "permission", name, "error", err)
				os.Exit(1)
			}
			permIDs = append(permIDs, perm.ID)
		}
	}
	logger.Info("Permissions seeded", "count", len(permIDs))

	role, err := roleRepo.GetByName(ctx, "admin")
	if errors.Is(err, errs.ErrNotFound) {
		role, err = roleService.Create(ctx, &dto.CreateRoleRequest{
			Name:          "admin",
			Label:         "Administrator",
			PermissionIDs: permIDs,
		})
	} else if err == nil {
		role, err = roleService.SetPermissions(ctx, role.ID, permIDs)
	}
	if err != nil {
		logger.Error("Failed to seed admin role", "error", err)
		os.Exit(1)
	}
	logger.Info("Admin role ready", "role_id", role.ID)

	email := getEnv("ADMIN_EMAIL", "admin@example.com")
	user, err := userRepo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		user, err = userService.Create(ctx, &dto.CreateUserRequest{
			Email:     email,
			Username:  getEnv("ADMIN_USERNAME", "admin"),
			Password:  getEnv("ADMIN_PASSWORD", "change-me-now"),
			FirstName: "Admin",
			LastName:  "User",
			RoleIDs:   []uuid.UUID{role.ID},
		})
	case err == nil:
		user, err = userService.AssignRoles(ctx, user.ID, []uuid.UUID{role.ID})
	}
	if err != nil {
		logger.Error("Failed to seed admin user", "email", email, "error", err)
		os.Exit(1)
	}

	logger.Info("Admin user ready", "user_id", user.ID, "email", user.Email)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
