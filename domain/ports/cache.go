package ports

import (
	"context"

	"github.com/google/uuid"
)

// PermissionCachePort เก็บชื่อ permission ที่ user ได้รับ (ผ่าน roles)
type PermissionCachePort interface {
	// GetOrLoad คืนค่าจาก cache หรือเรียก load แล้วเก็บผลลัพธ์
	GetOrLoad(ctx context.Context, userID uuid.UUID, load func() ([]string, error)) ([]string, error)

	// Invalidate ล้าง cache ของ users ที่ระบุ
	Invalidate(ctx context.Context, userIDs ...uuid.UUID) error

	// InvalidateAll ล้าง cache ของทุก user
	InvalidateAll(ctx context.Context) error
}
