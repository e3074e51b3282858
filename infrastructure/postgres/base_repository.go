package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"gofiber-cms/domain/errs"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/repositories"
	"gofiber-cms/pkg/ordering"
)

// EntityConfig describes how an entity is retrieved.
type EntityConfig struct {
	Name         string // used in not-found errors, e.g. "category"
	EnableTrash  bool   // entity has a gorm.DeletedAt column
	DefaultOrder ordering.Order

	// Scope attaches the relations every retrieval needs (Preload).
	Scope func(db *gorm.DB) *gorm.DB

	// BeforeHardDelete runs in the delete transaction, e.g. to clear join rows.
	BeforeHardDelete func(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

// BaseRepository implements repositories.Repository for any gorm model.
type BaseRepository[E any, P models.EntityPtr[E]] struct {
	db    *gorm.DB
	cfg   EntityConfig
	table string
}

var tableCache sync.Map

func NewBaseRepository[E any, P models.EntityPtr[E]](db *gorm.DB, cfg EntityConfig) *BaseRepository[E, P] {
	s, err := schema.Parse(new(E), &tableCache, db.NamingStrategy)
	if err != nil {
		panic(fmt.Sprintf("postgres: cannot parse schema of %T: %v", new(E), err))
	}
	return &BaseRepository[E, P]{db: db, cfg: cfg, table: s.Table}
}

func (r *BaseRepository[E, P]) withDB(db *gorm.DB) *BaseRepository[E, P] {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BaseRepository[E, P]) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *BaseRepository[E, P]) col(name string) string {
	return r.table + "." + name
}

func (r *BaseRepository[E, P]) Table() string {
	return r.table
}

func (r *BaseRepository[E, P]) EnableTrash() bool {
	return r.cfg.EnableTrash
}

// withTrash translates a trash mode into the soft-delete filter.
func (r *BaseRepository[E, P]) withTrash(db *gorm.DB, mode repositories.TrashMode) *gorm.DB {
	if !r.cfg.EnableTrash {
		return db
	}
	switch mode {
	case repositories.TrashAll:
		return db.Unscoped()
	case repositories.TrashOnly:
		return db.Unscoped().Where(r.col("deleted_at") + " IS NOT NULL")
	default:
		return db
	}
}

// filtered is the model query with only the trash filter, used for counts.
func (r *BaseRepository[E, P]) filtered(ctx context.Context, mode repositories.TrashMode) *gorm.DB {
	return r.withTrash(r.conn(ctx).Model(new(E)), mode)
}

func (r *BaseRepository[E, P]) scoped(ctx context.Context, mode repositories.TrashMode) *gorm.DB {
	db := r.conn(ctx).Model(new(E))
	if r.cfg.Scope != nil {
		db = r.cfg.Scope(db)
	}
	return r.withTrash(db, mode)
}

func (r *BaseRepository[E, P]) order(db *gorm.DB, order ordering.Order) (*gorm.DB, error) {
	if len(order) == 0 {
		order = r.cfg.DefaultOrder
	}
	return ordering.Apply(db, new(E), r.table, order)
}

func (r *BaseRepository[E, P]) BuildQuery(ctx context.Context, opts repositories.FindOptions) (*gorm.DB, error) {
	db := r.scoped(ctx, opts.Trashed)
	if opts.AddQuery != nil {
		db = opts.AddQuery(db)
	}
	return r.order(db, opts.OrderBy)
}

func (r *BaseRepository[E, P]) Find(ctx context.Context, opts repositories.FindOptions) ([]*E, error) {
	q, err := r.BuildQuery(ctx, opts)
	if err != nil {
		return nil, err
	}
	var rows []*E
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.cfg.Name, err)
	}
	return rows, nil
}

func (r *BaseRepository[E, P]) FindByID(ctx context.Context, id uuid.UUID, trashed repositories.TrashMode) (*E, error) {
	var entity E
	err := r.scoped(ctx, trashed).Where(r.col("id")+" = ?", id).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound(r.cfg.Name, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", r.cfg.Name, err)
	}
	return &entity, nil
}

func (r *BaseRepository[E, P]) FindByIDs(ctx context.Context, ids []uuid.UUID, trashed repositories.TrashMode) ([]*E, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []*E
	if err := r.scoped(ctx, trashed).Where(r.col("id")+" IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", r.cfg.Name, err)
	}
	return rows, nil
}

// FindTrashedBefore returns ids of rows soft-deleted before the cutoff.
func (r *BaseRepository[E, P]) FindTrashedBefore(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
	if !r.cfg.EnableTrash {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.conn(ctx).Unscoped().Model(new(E)).
		Where(r.col("deleted_at")+" IS NOT NULL AND "+r.col("deleted_at")+" < ?", before).
		Pluck(r.col("id"), &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find trashed %s: %w", r.cfg.Name, err)
	}
	return ids, nil
}

func (r *BaseRepository[E, P]) Create(ctx context.Context, entity *E) error {
	return r.conn(ctx).Omit(clause.Associations).Create(entity).Error
}

// Save writes every column, including on soft-deleted rows. Relations are
// never written through Save.
func (r *BaseRepository[E, P]) Save(ctx context.Context, entity *E) error {
	return r.conn(ctx).Unscoped().Omit(clause.Associations).Save(entity).Error
}

func (r *BaseRepository[E, P]) SoftDelete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if !r.cfg.EnableTrash {
		return fmt.Errorf("%s does not support trash", r.cfg.Name)
	}
	return r.conn(ctx).Where(r.col("id")+" IN ?", ids).Delete(new(E)).Error
}

func (r *BaseRepository[E, P]) HardDelete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if r.cfg.BeforeHardDelete == nil {
		return r.conn(ctx).Unscoped().Where(r.col("id")+" IN ?", ids).Delete(new(E)).Error
	}
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.cfg.BeforeHardDelete(ctx, tx, ids); err != nil {
			return err
		}
		return tx.Unscoped().Where(r.col("id")+" IN ?", ids).Delete(new(E)).Error
	})
}

func (r *BaseRepository[E, P]) Restore(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 || !r.cfg.EnableTrash {
		return nil
	}
	return r.conn(ctx).Unscoped().Model(new(E)).
		Where(r.col("id")+" IN ?", ids).
		Update("deleted_at", nil).Error
}

func (r *BaseRepository[E, P]) Transaction(ctx context.Context, fn func(repo repositories.Repository[E]) error) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.withDB(tx))
	})
}
