package redis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gofiber-cms/domain/ports"
)

const permissionKeyPrefix = "perm:user:"

// PermissionCache เก็บ permission names ของ user ใน Redis
type PermissionCache struct {
	client *Client
	ttl    time.Duration
}

var _ ports.PermissionCachePort = (*PermissionCache)(nil)

func NewPermissionCache(client *Client, ttl time.Duration) *PermissionCache {
	return &PermissionCache{client: client, ttl: ttl}
}

func permissionKey(userID uuid.UUID) string {
	return permissionKeyPrefix + userID.String()
}

func (c *PermissionCache) GetOrLoad(ctx context.Context, userID uuid.UUID, load func() ([]string, error)) ([]string, error) {
	var perms []string
	err := c.client.GetOrSet(ctx, permissionKey(userID), &perms, c.ttl, func() (any, error) {
		names, err := load()
		if names == nil {
			names = []string{}
		}
		return names, err
	})
	if err != nil {
		return nil, err
	}
	return perms, nil
}

func (c *PermissionCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = permissionKey(id)
	}
	return c.client.Del(ctx, keys...)
}

func (c *PermissionCache) InvalidateAll(ctx context.Context) error {
	_, err := c.client.ScanAndDelete(ctx, permissionKeyPrefix+"*")
	return err
}
