package dto

import (
	"gofiber-cms/domain/models"
)

func UserToSummary(user *models.User) *UserSummary {
	if user == nil {
		return nil
	}
	return &UserSummary{ID: user.ID, Username: user.Username}
}

func UserToUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	roles := make([]string, len(user.Roles))
	for i, r := range user.Roles {
		roles[i] = r.Name
	}
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.Avatar,
		IsActive:  user.IsActive,
		Roles:     roles,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
		DeletedAt: deletedAt(user.DeletedAt),
	}
}

func UserNodeToResponse(node models.FlatNode[models.User]) UserResponse {
	return *UserToUserResponse(node.Entity)
}

func CreateUserRequestToUser(req *CreateUserRequest) *models.User {
	return &models.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}
}

func RoleToRoleResponse(role *models.Role) *RoleResponse {
	if role == nil {
		return nil
	}
	perms := make([]string, len(role.Permissions))
	for i, p := range role.Permissions {
		perms[i] = p.Name
	}
	return &RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Label:       role.Label,
		Description: role.Description,
		Permissions: perms,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

func RoleNodeToResponse(node models.FlatNode[models.Role]) RoleResponse {
	return *RoleToRoleResponse(node.Entity)
}

func PermissionToPermissionResponse(perm *models.Permission) *PermissionResponse {
	if perm == nil {
		return nil
	}
	return &PermissionResponse{
		ID:          perm.ID,
		Name:        perm.Name,
		Description: perm.Description,
		CreatedAt:   perm.CreatedAt,
		UpdatedAt:   perm.UpdatedAt,
	}
}

func PermissionNodeToResponse(node models.FlatNode[models.Permission]) PermissionResponse {
	return *PermissionToPermissionResponse(node.Entity)
}
