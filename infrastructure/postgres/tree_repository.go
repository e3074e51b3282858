package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gofiber-cms/domain/errs"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/repositories"
	"gofiber-cms/pkg/ordering"
)

type TreeConfig struct {
	EntityConfig

	ClosureTable string
	Resolution   repositories.ChildrenResolution
}

// TreeRepository stores a parent-pointer tree together with its closure
// table. Every write that touches parent_id keeps the closure rows in step.
type TreeRepository[E any, P models.TreePtr[E]] struct {
	*BaseRepository[E, P]
	closure    string
	resolution repositories.ChildrenResolution
}

func NewTreeRepository[E any, P models.TreePtr[E]](db *gorm.DB, cfg TreeConfig) *TreeRepository[E, P] {
	if cfg.Resolution == "" {
		cfg.Resolution = repositories.ResolveDelete
	}
	// ลำดับ sibling เริ่มต้น: ใหม่สุดก่อน
	if len(cfg.DefaultOrder) == 0 {
		cfg.DefaultOrder = ordering.ByDesc("created_at")
	}
	return &TreeRepository[E, P]{
		BaseRepository: NewBaseRepository[E, P](db, cfg.EntityConfig),
		closure:        cfg.ClosureTable,
		resolution:     cfg.Resolution,
	}
}

func (r *TreeRepository[E, P]) withTx(tx *gorm.DB) *TreeRepository[E, P] {
	return &TreeRepository[E, P]{
		BaseRepository: r.BaseRepository.withDB(tx),
		closure:        r.closure,
		resolution:     r.resolution,
	}
}

func (r *TreeRepository[E, P]) Resolution() repositories.ChildrenResolution {
	return r.resolution
}

func (r *TreeRepository[E, P]) ClosureTable() string {
	return r.closure
}

// joinClosure joins the closure table on the given side ("descendant_id" or
// "ancestor_id") and restricts it to strict relatives within depth.
func (r *TreeRepository[E, P]) joinClosure(db *gorm.DB, side, other string, ids any, depth int) *gorm.DB {
	db = db.Joins(fmt.Sprintf("JOIN %s AS closure ON closure.%s = %s", r.closure, side, r.col("id"))).
		Where("closure."+other+" IN ? AND closure.depth > 0", ids)
	if depth > 0 {
		db = db.Where("closure.depth <= ?", depth)
	}
	return db
}

// ---------- writes ----------

// Create inserts the entity and its closure rows: the self row plus one row
// per ancestor of the parent.
func (r *TreeRepository[E, P]) Create(ctx context.Context, entity *E) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(entity).Error; err != nil {
			return err
		}

		id := P(entity).GetID()
		if err := tx.Exec(
			fmt.Sprintf("INSERT INTO %s (ancestor_id, descendant_id, depth) VALUES (?, ?, 0)", r.closure),
			id, id,
		).Error; err != nil {
			return fmt.Errorf("failed to insert closure self row: %w", err)
		}

		parentID := P(entity).GetParentID()
		if parentID == nil {
			return nil
		}
		return tx.Exec(
			fmt.Sprintf("INSERT INTO %[1]s (ancestor_id, descendant_id, depth) SELECT ancestor_id, ?, depth + 1 FROM %[1]s WHERE descendant_id = ?", r.closure),
			id, *parentID,
		).Error
	})
}

// Save never writes parent_id; re-parenting goes through Move.
func (r *TreeRepository[E, P]) Save(ctx context.Context, entity *E) error {
	return r.conn(ctx).Unscoped().Omit(clause.Associations, "parent_id").Save(entity).Error
}

// Move re-parents node together with its subtree. Moving a node under itself
// or under one of its descendants is rejected.
func (r *TreeRepository[E, P]) Move(ctx context.Context, node *E, parentID *uuid.UUID) error {
	id := P(node).GetID()

	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if parentID != nil {
			var n int64
			err := tx.Table(r.closure).
				Where("ancestor_id = ? AND descendant_id = ?", id, *parentID).
				Count(&n).Error
			if err != nil {
				return fmt.Errorf("failed to check %s ancestry: %w", r.cfg.Name, err)
			}
			if n > 0 {
				return &errs.ConsistencyError{Entity: r.cfg.Name, ID: id.String(), ParentID: parentID.String()}
			}
		}

		var value any
		if parentID != nil {
			value = *parentID
		}
		if err := tx.Unscoped().Model(new(E)).
			Where(r.col("id")+" = ?", id).
			Update("parent_id", value).Error; err != nil {
			return err
		}

		// ตัด path จาก ancestor เดิม (นอก subtree) ไปยังทุก node ใน subtree
		if err := tx.Exec(fmt.Sprintf(
			`DELETE FROM %[1]s
			WHERE descendant_id IN (SELECT descendant_id FROM %[1]s WHERE ancestor_id = ?)
			AND ancestor_id IN (SELECT ancestor_id FROM %[1]s WHERE descendant_id = ? AND ancestor_id <> ?)`,
			r.closure), id, id, id).Error; err != nil {
			return fmt.Errorf("failed to detach subtree: %w", err)
		}

		if parentID == nil {
			return nil
		}

		// ต่อ ancestor ใหม่ทุกตัวเข้ากับทุก node ใน subtree
		return tx.Exec(fmt.Sprintf(
			`INSERT INTO %[1]s (ancestor_id, descendant_id, depth)
			SELECT p.ancestor_id, s.descendant_id, p.depth + s.depth + 1
			FROM %[1]s p CROSS JOIN %[1]s s
			WHERE p.descendant_id = ? AND s.ancestor_id = ?`,
			r.closure), *parentID, id).Error
	})
	var cycle *errs.ConsistencyError
	if errors.As(err, &cycle) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to move %s: %w", r.cfg.Name, err)
	}

	P(node).SetParentID(parentID)
	return nil
}

// HardDelete removes the rows and every closure row that mentions them.
// Callers resolve children first.
func (r *TreeRepository[E, P]) HardDelete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			fmt.Sprintf("DELETE FROM %s WHERE ancestor_id IN ? OR descendant_id IN ?", r.closure),
			ids, ids,
		).Error; err != nil {
			return fmt.Errorf("failed to delete closure rows: %w", err)
		}
		return r.BaseRepository.withDB(tx).HardDelete(ctx, ids)
	})
}

func (r *TreeRepository[E, P]) Transaction(ctx context.Context, fn func(repo repositories.Repository[E]) error) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.withTx(tx))
	})
}

func (r *TreeRepository[E, P]) TreeTransaction(ctx context.Context, fn func(repo repositories.TreeRepository[E]) error) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.withTx(tx))
	})
}

// ---------- traversals ----------

func (r *TreeRepository[E, P]) FindRoots(ctx context.Context, opts repositories.FindOptions) ([]*E, error) {
	q, err := r.BuildQuery(ctx, opts)
	if err != nil {
		return nil, err
	}
	var roots []*E
	if err := q.Where(r.col("parent_id") + " IS NULL").Find(&roots).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s roots: %w", r.cfg.Name, err)
	}
	return roots, nil
}

func (r *TreeRepository[E, P]) FindChildren(ctx context.Context, id uuid.UUID, trashed repositories.TrashMode) ([]*E, error) {
	q, err := r.order(r.scoped(ctx, trashed), nil)
	if err != nil {
		return nil, err
	}
	var children []*E
	if err := q.Where(r.col("parent_id")+" = ?", id).Find(&children).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s children: %w", r.cfg.Name, err)
	}
	return children, nil
}

// descendantsOf loads every strict descendant of ids in sibling order.
func (r *TreeRepository[E, P]) descendantsOf(ctx context.Context, ids []uuid.UUID, opts repositories.TreeOptions) ([]*E, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := r.joinClosure(r.scoped(ctx, opts.Trashed), "descendant_id", "ancestor_id", ids, opts.Depth).
		Select(r.table + ".*")
	q, err := r.order(q, opts.OrderBy)
	if err != nil {
		return nil, err
	}
	var rows []*E
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s descendants: %w", r.cfg.Name, err)
	}
	return rows, nil
}

func (r *TreeRepository[E, P]) FindDescendants(ctx context.Context, node *E, opts repositories.TreeOptions) ([]*E, error) {
	return r.descendantsOf(ctx, []uuid.UUID{P(node).GetID()}, opts)
}

func (r *TreeRepository[E, P]) FindDescendantsTree(ctx context.Context, node *E, opts repositories.TreeOptions) (*models.TreeNode[E], error) {
	descendants, err := r.FindDescendants(ctx, node, opts)
	if err != nil {
		return nil, err
	}
	return models.BuildTree[E, P](node, descendants), nil
}

// FindAncestors returns the ancestors of node, nearest parent first.
func (r *TreeRepository[E, P]) FindAncestors(ctx context.Context, node *E, opts repositories.TreeOptions) ([]*E, error) {
	q := r.joinClosure(r.scoped(ctx, opts.Trashed), "ancestor_id", "descendant_id", []uuid.UUID{P(node).GetID()}, opts.Depth).
		Select(r.table + ".*").
		Order("closure.depth ASC")
	var rows []*E
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s ancestors: %w", r.cfg.Name, err)
	}
	return rows, nil
}

func (r *TreeRepository[E, P]) FindAncestorsTree(ctx context.Context, node *E, opts repositories.TreeOptions) (*models.TreeNode[E], error) {
	ancestors, err := r.FindAncestors(ctx, node, opts)
	if err != nil {
		return nil, err
	}
	return models.BuildAncestorChain(node, ancestors), nil
}

// FindTrees loads the roots, then every descendant of every root in one
// query. AddQuery narrows the roots only.
func (r *TreeRepository[E, P]) FindTrees(ctx context.Context, opts repositories.TreeOptions) ([]*models.TreeNode[E], error) {
	roots, err := r.FindRoots(ctx, opts.FindOptions)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return []*models.TreeNode[E]{}, nil
	}

	ids := make([]uuid.UUID, len(roots))
	for i, root := range roots {
		ids[i] = P(root).GetID()
	}

	descOpts := opts
	descOpts.AddQuery = nil
	descendants, err := r.descendantsOf(ctx, ids, descOpts)
	if err != nil {
		return nil, err
	}
	return models.BuildForest[E, P](roots, descendants), nil
}

func (r *TreeRepository[E, P]) CountDescendants(ctx context.Context, node *E, opts repositories.TreeOptions) (int64, error) {
	var n int64
	err := r.joinClosure(r.filtered(ctx, opts.Trashed), "descendant_id", "ancestor_id", []uuid.UUID{P(node).GetID()}, opts.Depth).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count %s descendants: %w", r.cfg.Name, err)
	}
	return n, nil
}

func (r *TreeRepository[E, P]) CountAncestors(ctx context.Context, node *E, opts repositories.TreeOptions) (int64, error) {
	var n int64
	err := r.joinClosure(r.filtered(ctx, opts.Trashed), "ancestor_id", "descendant_id", []uuid.UUID{P(node).GetID()}, opts.Depth).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count %s ancestors: %w", r.cfg.Name, err)
	}
	return n, nil
}

func (r *TreeRepository[E, P]) DescendantIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []uuid.UUID
	err := r.conn(ctx).Table(r.closure).
		Where("ancestor_id IN ? AND depth > 0", ids).
		Distinct("descendant_id").
		Pluck("descendant_id", &out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s descendant ids: %w", r.cfg.Name, err)
	}
	return out, nil
}

func (r *TreeRepository[E, P]) ToFlatTrees(trees []*models.TreeNode[E], depth int) []models.FlatNode[E] {
	return models.FlattenTrees(trees, depth)
}

// FlatAncestorsTree returns the live ancestor chain of node root first,
// ending with node itself.
func (r *TreeRepository[E, P]) FlatAncestorsTree(ctx context.Context, node *E) ([]models.FlatNode[E], error) {
	chain, err := r.FindAncestorsTree(ctx, node, repositories.TreeOptions{})
	if err != nil {
		return nil, err
	}
	return models.FlattenAncestors(chain), nil
}
