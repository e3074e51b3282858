package serviceimpl

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/errs"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/ports"
	"gofiber-cms/domain/repositories"
	"gofiber-cms/domain/services"
	"gofiber-cms/pkg/logger"
	"gofiber-cms/pkg/utils"
)

// ErrInvalidCredentials: ไม่บอกว่าผิดที่ email หรือ password
var ErrInvalidCredentials = errors.New("invalid credentials")

type UserServiceImpl struct {
	*contentService[models.User, *models.User]
	userRepo  repositories.UserRepository
	permCache ports.PermissionCachePort
	jwtSecret string
	jwtTTL    time.Duration
}

func NewUserService(
	userRepo repositories.UserRepository,
	permCache ports.PermissionCachePort,
	events ports.EventPublisherPort,
	jwtSecret string,
	jwtTTL time.Duration,
) services.UserService {
	return &UserServiceImpl{
		contentService: newContentService[models.User, *models.User]("user", userRepo, events),
		userRepo:       userRepo,
		permCache:      permCache,
		jwtSecret:      jwtSecret,
		jwtTTL:         jwtTTL,
	}
}

func (s *UserServiceImpl) Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		logger.WarnContext(ctx, "Email already exists", "email", req.Email)
		return nil, errs.Conflict("email already exists")
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		logger.WarnContext(ctx, "Username already exists", "username", req.Username)
		return nil, errs.Conflict("username already exists")
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to hash password", "error", err)
		return nil, err
	}

	user := dto.CreateUserRequestToUser(req)
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ErrorContext(ctx, "Failed to create user in database", "error", err)
		return nil, err
	}

	if len(req.RoleIDs) > 0 {
		if err := s.userRepo.ReplaceRoles(ctx, user, req.RoleIDs); err != nil {
			// roles ไม่ถูกต้อง: ลบ user ที่เพิ่งสร้างทิ้ง
			if delErr := s.userRepo.HardDelete(ctx, []uuid.UUID{user.ID}); delErr != nil {
				logger.ErrorContext(ctx, "Failed to roll back user", "user_id", user.ID, "error", delErr)
			}
			return nil, err
		}
	}

	logger.InfoContext(ctx, "User created successfully", "user_id", user.ID, "email", user.Email)
	s.publish(ctx, ports.ActionCreated, []uuid.UUID{user.ID})
	return user, nil
}

func (s *UserServiceImpl) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id, repositories.TrashNone)
	if err != nil {
		logger.WarnContext(ctx, "User not found for update", "user_id", id)
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		logger.ErrorContext(ctx, "Failed to update user", "user_id", id, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "User updated", "user_id", id)
	s.publish(ctx, ports.ActionUpdated, []uuid.UUID{id})
	return user, nil
}

func (s *UserServiceImpl) ChangePassword(ctx context.Context, id uuid.UUID, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, id, repositories.TrashNone)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		logger.WarnContext(ctx, "Invalid current password", "user_id", id)
		return errs.Invalid("currentPassword", "is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Save(ctx, user); err != nil {
		logger.ErrorContext(ctx, "Failed to change password", "user_id", id, "error", err)
		return err
	}

	logger.InfoContext(ctx, "Password changed", "user_id", id)
	return nil
}

func (s *UserServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, errs.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if user.DeletedAt.Valid || !user.IsActive {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Email, s.jwtSecret, s.jwtTTL)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to sign token", "user_id", user.ID, "error", err)
		return "", nil, err
	}
	return token, user, nil
}

func (s *UserServiceImpl) AssignRoles(ctx context.Context, id uuid.UUID, roleIDs []uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id, repositories.TrashNone)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.ReplaceRoles(ctx, user, uniqueIDs(roleIDs)); err != nil {
		logger.ErrorContext(ctx, "Failed to assign roles", "user_id", id, "error", err)
		return nil, err
	}
	if err := s.permCache.Invalidate(ctx, id); err != nil {
		logger.WarnContext(ctx, "Failed to invalidate permission cache", "user_id", id, "error", err)
	}

	logger.InfoContext(ctx, "Roles assigned", "user_id", id, "roles", len(user.Roles))
	s.publish(ctx, ports.ActionUpdated, []uuid.UUID{id})
	return user, nil
}

func (s *UserServiceImpl) Permissions(ctx context.Context, id uuid.UUID) ([]string, error) {
	return s.permCache.GetOrLoad(ctx, id, func() ([]string, error) {
		return s.userRepo.PermissionNames(ctx, id)
	})
}

// HasPermission: user ที่ถูกปิดใช้งานหรืออยู่ในถังขยะไม่มีสิทธิ์ใดๆ
func (s *UserServiceImpl) HasPermission(ctx context.Context, id uuid.UUID, permission string) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, id, repositories.TrashNone)
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !user.IsActive {
		return false, nil
	}

	perms, err := s.Permissions(ctx, id)
	if err != nil {
		return false, err
	}
	return slices.Contains(perms, permission), nil
}

func (s *UserServiceImpl) Delete(ctx context.Context, ids []uuid.UUID, trash bool) error {
	if err := s.contentService.Delete(ctx, ids, trash); err != nil {
		return err
	}
	if err := s.permCache.Invalidate(ctx, ids...); err != nil {
		logger.WarnContext(ctx, "Failed to invalidate permission cache", "error", err)
	}
	return nil
}
