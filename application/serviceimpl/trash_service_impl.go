package serviceimpl

import (
	"context"
	"errors"
	"time"

	"gofiber-cms/domain/services"
	"gofiber-cms/pkg/logger"
)

// TrashTarget is one entity the purge job sweeps, in sweep order.
type TrashTarget struct {
	Name   string
	Purger services.TrashPurger
}

type TrashServiceImpl struct {
	targets   []TrashTarget
	retention time.Duration
	now       func() time.Time
}

func NewTrashService(retention time.Duration, targets ...TrashTarget) services.TrashService {
	return &TrashServiceImpl{
		targets:   targets,
		retention: retention,
		now:       time.Now,
	}
}

// Purge ลบถาวรแต่ละ entity ตามลำดับ ถ้า entity หนึ่งล้มเหลวยังทำตัวถัดไปต่อ
func (s *TrashServiceImpl) Purge(ctx context.Context) (map[string]int, error) {
	before := s.now().Add(-s.retention)
	purged := make(map[string]int, len(s.targets))

	var errList []error
	for _, t := range s.targets {
		n, err := t.Purger.PurgeTrashed(ctx, before)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to purge trash", "entity", t.Name, "error", err)
			errList = append(errList, err)
			continue
		}
		purged[t.Name] = n
	}

	logger.InfoContext(ctx, "Trash purged", "before", before.Format(time.RFC3339), "purged", purged)
	return purged, errors.Join(errList...)
}
