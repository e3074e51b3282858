package handlers

import (
	"context"

	"gofiber-cms/domain/services"
	natspkg "gofiber-cms/infrastructure/nats"
	"gofiber-cms/pkg/scheduler"
)

// Services contains all the services needed for handlers
type Services struct {
	UserService       services.UserService
	RoleService       services.RoleService
	PermissionService services.PermissionService
	CategoryService   services.CategoryService
	PostService       services.PostService
	CommentService    services.CommentService
	TrashService      services.TrashService

	NATSClient    *natspkg.Client // nil เมื่อปิด NATS
	Scheduler     scheduler.EventScheduler
	PingDB        func(ctx context.Context) error
	MaxCoverBytes int64
}

// Handlers contains all HTTP handlers
type Handlers struct {
	AuthHandler       *AuthHandler
	UserHandler       *UserHandler
	RoleHandler       *RoleHandler
	PermissionHandler *PermissionHandler
	CategoryHandler   *CategoryHandler
	PostHandler       *PostHandler
	CommentHandler    *CommentHandler
	MonitoringHandler *MonitoringHandler

	// ใช้ตรวจสิทธิ์ใน route middleware
	Permissions services.UserService
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(s *Services) *Handlers {
	return &Handlers{
		AuthHandler:       NewAuthHandler(s.UserService),
		UserHandler:       NewUserHandler(s.UserService),
		RoleHandler:       NewRoleHandler(s.RoleService),
		PermissionHandler: NewPermissionHandler(s.PermissionService),
		CategoryHandler:   NewCategoryHandler(s.CategoryService),
		PostHandler:       NewPostHandler(s.PostService, s.MaxCoverBytes),
		CommentHandler:    NewCommentHandler(s.CommentService),
		MonitoringHandler: NewMonitoringHandler(s.NATSClient, s.Scheduler, s.TrashService, s.PingDB),
		Permissions:       s.UserService,
	}
}
