package serviceimpl

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/errs"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/ports"
	"gofiber-cms/domain/repositories"
	"gofiber-cms/domain/services"
	"gofiber-cms/pkg/logger"
)

type RoleServiceImpl struct {
	*contentService[models.Role, *models.Role]
	roleRepo  repositories.RoleRepository
	permCache ports.PermissionCachePort
}

func NewRoleService(roleRepo repositories.RoleRepository, permCache ports.PermissionCachePort, events ports.EventPublisherPort) services.RoleService {
	return &RoleServiceImpl{
		contentService: newContentService[models.Role, *models.Role]("role", roleRepo, events),
		roleRepo:       roleRepo,
		permCache:      permCache,
	}
}

func (s *RoleServiceImpl) Create(ctx context.Context, req *dto.CreateRoleRequest) (*models.Role, error) {
	name := strings.ToLower(strings.TrimSpace(req.Name))
	if _, err := s.roleRepo.GetByName(ctx, name); err == nil {
		logger.WarnContext(ctx, "Role already exists", "name", name)
		return nil, errs.Conflict("role already exists")
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	role := &models.Role{
		Name:        name,
		Label:       req.Label,
		Description: req.Description,
	}

	if err := s.roleRepo.Create(ctx, role); err != nil {
		logger.ErrorContext(ctx, "Failed to create role", "name", name, "error", err)
		return nil, err
	}
	if len(req.PermissionIDs) > 0 {
		if err := s.roleRepo.ReplacePermissions(ctx, role, uniqueIDs(req.PermissionIDs)); err != nil {
			// permission ไม่ถูกต้อง: ลบ role ที่เพิ่งสร้างทิ้ง
			if delErr := s.roleRepo.HardDelete(ctx, []uuid.UUID{role.ID}); delErr != nil {
				logger.ErrorContext(ctx, "Failed to roll back role", "role_id", role.ID, "error", delErr)
			}
			return nil, err
		}
	}

	logger.InfoContext(ctx, "Role created", "role_id", role.ID, "name", role.Name)
	s.publish(ctx, ports.ActionCreated, []uuid.UUID{role.ID})
	return role, nil
}

func (s *RoleServiceImpl) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateRoleRequest) (*models.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id, repositories.TrashNone)
	if err != nil {
		return nil, err
	}
	if req.Label != nil {
		role.Label = *req.Label
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		logger.ErrorContext(ctx, "Failed to update role", "role_id", id, "error", err)
		return nil, err
	}

	s.publish(ctx, ports.ActionUpdated, []uuid.UUID{id})
	return role, nil
}

func (s *RoleServiceImpl) SetPermissions(ctx context.Context, id uuid.UUID, permissionIDs []uuid.UUID) (*models.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id, repositories.TrashNone)
	if err != nil {
		return nil, err
	}

	if err := s.roleRepo.ReplacePermissions(ctx, role, uniqueIDs(permissionIDs)); err != nil {
		logger.ErrorContext(ctx, "Failed to set role permissions", "role_id", id, "error", err)
		return nil, err
	}
	s.invalidateHolders(ctx, []uuid.UUID{id})

	logger.InfoContext(ctx, "Role permissions updated", "role_id", id, "permissions", len(role.Permissions))
	s.publish(ctx, ports.ActionUpdated, []uuid.UUID{id})
	return role, nil
}

// Delete ต้องเก็บรายชื่อผู้ถือ role ไว้ก่อน เพราะ join rows จะหายไปพร้อม role
func (s *RoleServiceImpl) Delete(ctx context.Context, ids []uuid.UUID, trash bool) error {
	holders := s.holders(ctx, ids)
	if err := s.contentService.Delete(ctx, ids, trash); err != nil {
		return err
	}
	if err := s.permCache.Invalidate(ctx, holders...); err != nil {
		logger.WarnContext(ctx, "Failed to invalidate permission cache", "error", err)
	}
	return nil
}

func (s *RoleServiceImpl) holders(ctx context.Context, roleIDs []uuid.UUID) []uuid.UUID {
	var userIDs []uuid.UUID
	for _, roleID := range roleIDs {
		ids, err := s.roleRepo.UserIDs(ctx, roleID)
		if err != nil {
			logger.WarnContext(ctx, "Failed to list role holders", "role_id", roleID, "error", err)
			continue
		}
		userIDs = append(userIDs, ids...)
	}
	return uniqueIDs(userIDs)
}

func (s *RoleServiceImpl) invalidateHolders(ctx context.Context, roleIDs []uuid.UUID) {
	holders := s.holders(ctx, roleIDs)
	if err := s.permCache.Invalidate(ctx, holders...); err != nil {
		logger.WarnContext(ctx, "Failed to invalidate permission cache", "error", err)
	}
}

type PermissionServiceImpl struct {
	*contentService[models.Permission, *models.Permission]
	permRepo  repositories.PermissionRepository
	permCache ports.PermissionCachePort
}

func NewPermissionService(permRepo repositories.PermissionRepository, permCache ports.PermissionCachePort, events ports.EventPublisherPort) services.PermissionService {
	return &PermissionServiceImpl{
		contentService: newContentService[models.Permission, *models.Permission]("permission", permRepo, events),
		permRepo:       permRepo,
		permCache:      permCache,
	}
}

func (s *PermissionServiceImpl) Create(ctx context.Context, req *dto.CreatePermissionRequest) (*models.Permission, error) {
	name := strings.ToLower(strings.TrimSpace(req.Name))
	resource, action, ok := strings.Cut(name, ".")
	if !ok || resource == "" || action == "" {
		return nil, errs.Invalid("name", `must look like "<resource>.<action>"`)
	}
	if _, err := s.permRepo.GetByName(ctx, name); err == nil {
		return nil, errs.Conflict("permission already exists")
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	perm := &models.Permission{Name: name, Description: req.Description}
	if err := s.permRepo.Create(ctx, perm); err != nil {
		logger.ErrorContext(ctx, "Failed to create permission", "name", name, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Permission created", "permission_id", perm.ID, "name", name)
	s.publish(ctx, ports.ActionCreated, []uuid.UUID{perm.ID})
	return perm, nil
}

func (s *PermissionServiceImpl) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePermissionRequest) (*models.Permission, error) {
	perm, err := s.permRepo.FindByID(ctx, id, repositories.TrashNone)
	if err != nil {
		return nil, err
	}
	if req.Description != nil {
		perm.Description = *req.Description
	}
	if err := s.permRepo.Save(ctx, perm); err != nil {
		return nil, err
	}
	s.publish(ctx, ports.ActionUpdated, []uuid.UUID{id})
	return perm, nil
}

// Delete กระทบทุก user ที่ได้ permission นี้ จึงล้าง cache ทั้งหมด
func (s *PermissionServiceImpl) Delete(ctx context.Context, ids []uuid.UUID, trash bool) error {
	if err := s.contentService.Delete(ctx, ids, trash); err != nil {
		return err
	}
	if err := s.permCache.InvalidateAll(ctx); err != nil {
		logger.WarnContext(ctx, "Failed to flush permission cache", "error", err)
	}
	return nil
}
