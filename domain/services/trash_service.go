package services

import (
	"context"
	"time"
)

// TrashPurger is the part of a content service the purge job needs.
type TrashPurger interface {
	PurgeTrashed(ctx context.Context, before time.Time) (int, error)
}

type TrashService interface {
	// Purge ลบถาวรทุกอย่างที่อยู่ในถังขยะนานกว่า retention
	Purge(ctx context.Context) (map[string]int, error)
}
