package serviceimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gofiber-cms/domain/errs"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/ports"
	"gofiber-cms/domain/repositories"
	"gofiber-cms/domain/services"
	"gofiber-cms/pkg/logger"
	"gofiber-cms/pkg/pagination"
)

// contentService implements services.ContentService for one entity. Whether
// the entity is a tree is decided once, from the repository it is bound to.
type contentService[E any, P models.EntityPtr[E]] struct {
	name   string
	repo   repositories.Repository[E]
	tree   repositories.TreeRepository[E] // nil สำหรับ entity แบบ flat
	events ports.EventPublisherPort
}

func newContentService[E any, P models.EntityPtr[E]](name string, repo repositories.Repository[E], events ports.EventPublisherPort) *contentService[E, P] {
	s := &contentService[E, P]{name: name, repo: repo, events: events}
	if tree, ok := repo.(repositories.TreeRepository[E]); ok {
		s.tree = tree
	}
	return s
}

// options ตรวจ trash mode; entity ที่ไม่มีถังขยะจะถูกบังคับเป็น none เสมอ
func (s *contentService[E, P]) options(opts services.ListOptions) (services.ListOptions, error) {
	if !opts.Trashed.Valid() {
		return opts, errs.Invalid("trashed", fmt.Sprintf("unknown trash mode %q", opts.Trashed))
	}
	if opts.Trashed == "" || !s.repo.EnableTrash() {
		opts.Trashed = repositories.TrashNone
	}
	return opts, nil
}

func (s *contentService[E, P]) trashMode(mode repositories.TrashMode) (repositories.TrashMode, error) {
	opts, err := s.options(services.ListOptions{FindOptions: repositories.FindOptions{Trashed: mode}})
	return opts.Trashed, err
}

func (s *contentService[E, P]) List(ctx context.Context, opts services.ListOptions) ([]models.FlatNode[E], error) {
	opts, err := s.options(opts)
	if err != nil {
		return nil, err
	}

	if s.tree != nil {
		trees, err := s.tree.FindTrees(ctx, opts)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to list trees", "entity", s.name, "error", err)
			return nil, err
		}
		return s.tree.ToFlatTrees(trees, 0), nil
	}

	rows, err := s.repo.Find(ctx, opts.FindOptions)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list rows", "entity", s.name, "error", err)
		return nil, err
	}
	return models.Flat(rows), nil
}

// Paginate pages a tree after flattening the whole forest; a flat entity is
// paged by the store.
func (s *contentService[E, P]) Paginate(ctx context.Context, opts services.ListOptions, page pagination.Options) (*pagination.Result[models.FlatNode[E]], error) {
	if s.tree != nil {
		nodes, err := s.List(ctx, opts)
		if err != nil {
			return nil, err
		}
		return pagination.Slice(nodes, page), nil
	}

	opts, err := s.options(opts)
	if err != nil {
		return nil, err
	}
	query, err := s.repo.BuildQuery(ctx, opts.FindOptions)
	if err != nil {
		return nil, err
	}
	result, err := pagination.Query[*E](ctx, query, page)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to paginate rows", "entity", s.name, "error", err)
		return nil, err
	}
	return pagination.Map(result, func(e *E) models.FlatNode[E] {
		return models.FlatNode[E]{Entity: e}
	}), nil
}

func (s *contentService[E, P]) Detail(ctx context.Context, id uuid.UUID, trashed repositories.TrashMode) (*E, error) {
	mode, err := s.trashMode(trashed)
	if err != nil {
		return nil, err
	}
	entity, err := s.repo.FindByID(ctx, id, mode)
	if err != nil {
		logger.WarnContext(ctx, "Entity not found", "entity", s.name, "id", id)
		return nil, err
	}
	return entity, nil
}

func (s *contentService[E, P]) Delete(ctx context.Context, ids []uuid.UUID, trash bool) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return errs.Invalid("ids", "must not be empty")
	}

	targets, err := s.repo.FindByIDs(ctx, ids, repositories.TrashAll)
	if err != nil {
		return err
	}
	if missing, ok := missingID[E, P](ids, targets); ok {
		logger.WarnContext(ctx, "Entity not found for deletion", "entity", s.name, "id", missing)
		return errs.NotFound(s.name, missing)
	}

	soft := trash && s.repo.EnableTrash()
	var hardIDs, softIDs []uuid.UUID

	if s.tree != nil {
		err = s.tree.TreeTransaction(ctx, func(tx repositories.TreeRepository[E]) error {
			if err := s.resolveChildren(ctx, tx, ids); err != nil {
				return err
			}
			subtree := sameIDs
			if tx.Resolution() == repositories.ResolveDelete {
				subtree = func(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
					return withDescendants(ctx, tx, ids)
				}
			}
			var err error
			hardIDs, softIDs, err = s.remove(ctx, tx, ids, soft, subtree)
			return err
		})
	} else {
		err = s.repo.Transaction(ctx, func(tx repositories.Repository[E]) error {
			var err error
			hardIDs, softIDs, err = s.remove(ctx, tx, ids, soft, sameIDs)
			return err
		})
	}
	if err != nil {
		logger.ErrorContext(ctx, "Failed to delete", "entity", s.name, "ids", ids, "error", err)
		return err
	}

	logger.InfoContext(ctx, "Entities deleted",
		"entity", s.name,
		"deleted", len(hardIDs),
		"trashed", len(softIDs),
	)
	s.publish(ctx, ports.ActionDeleted, hardIDs)
	s.publish(ctx, ports.ActionTrashed, softIDs)
	return nil
}

// resolveChildren re-parents the children of every id under the UP and ROOT
// policies. Under DELETE the children go with the node, see remove.
func (s *contentService[E, P]) resolveChildren(ctx context.Context, tx repositories.TreeRepository[E], ids []uuid.UUID) error {
	policy := tx.Resolution()
	if policy == repositories.ResolveDelete {
		return nil
	}

	for _, id := range ids {
		// โหลดใหม่ทุกครั้ง เพราะรอบก่อนหน้าอาจย้าย node นี้ไปแล้ว
		node, err := tx.FindByID(ctx, id, repositories.TrashAll)
		if err != nil {
			return err
		}
		treeNode, ok := any(node).(models.TreeEntity)
		if !ok {
			return fmt.Errorf("%s is not a tree entity", s.name)
		}

		var target *uuid.UUID
		switch policy {
		case repositories.ResolveUp:
			target = treeNode.GetParentID()
		case repositories.ResolveRoot:
			target = nil
		default:
			return fmt.Errorf("unknown children resolution %q for %s", policy, s.name)
		}

		children, err := tx.FindChildren(ctx, id, repositories.TrashAll)
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := tx.Move(ctx, child, target); err != nil {
				return err
			}
		}
	}
	return nil
}

// subtreeFunc expands requested ids into every row removed with them.
type subtreeFunc func(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

func sameIDs(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return ids, nil
}

func withDescendants[E any](ctx context.Context, tx repositories.TreeRepository[E], ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	descendants, err := tx.DescendantIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return uniqueIDs(append(append([]uuid.UUID{}, ids...), descendants...)), nil
}

// remove deletes the requested ids with their subtrees. Without soft
// everything is hard-deleted. With soft the decision follows the requested
// id: one already in the trash is purged with its whole subtree, a live one
// is trashed with its live rows, and rows already in the trash stay there.
func (s *contentService[E, P]) remove(ctx context.Context, tx repositories.Repository[E], ids []uuid.UUID, soft bool, subtree subtreeFunc) (hard, trashed []uuid.UUID, err error) {
	if !soft {
		all, err := subtree(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
		return all, nil, tx.HardDelete(ctx, all)
	}

	inTrash, err := tx.FindByIDs(ctx, ids, repositories.TrashOnly)
	if err != nil {
		return nil, nil, err
	}
	trashedSet := make(map[uuid.UUID]bool, len(inTrash))
	for _, e := range inTrash {
		trashedSet[P(e).GetID()] = true
	}
	var purge, live []uuid.UUID
	for _, id := range ids {
		if trashedSet[id] {
			purge = append(purge, id)
		} else {
			live = append(live, id)
		}
	}

	if hard, err = subtree(ctx, purge); err != nil {
		return nil, nil, err
	}
	hardSet := make(map[uuid.UUID]bool, len(hard))
	for _, id := range hard {
		hardSet[id] = true
	}

	liveTree, err := subtree(ctx, live)
	if err != nil {
		return nil, nil, err
	}
	var candidates []uuid.UUID
	for _, id := range liveTree {
		if !hardSet[id] {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) > 0 {
		rows, err := tx.FindByIDs(ctx, candidates, repositories.TrashNone)
		if err != nil {
			return nil, nil, err
		}
		for _, e := range rows {
			trashed = append(trashed, P(e).GetID())
		}
	}

	if err := tx.SoftDelete(ctx, trashed); err != nil {
		return nil, nil, err
	}
	if err := tx.HardDelete(ctx, hard); err != nil {
		return nil, nil, err
	}
	return hard, trashed, nil
}

func (s *contentService[E, P]) Restore(ctx context.Context, ids []uuid.UUID) error {
	if !s.repo.EnableTrash() {
		return errs.Invalid("ids", s.name+" does not support trash")
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return errs.Invalid("ids", "must not be empty")
	}

	rows, err := s.repo.FindByIDs(ctx, ids, repositories.TrashOnly)
	if err != nil {
		return err
	}
	if missing, ok := missingID[E, P](ids, rows); ok {
		logger.WarnContext(ctx, "Entity not found in trash", "entity", s.name, "id", missing)
		return errs.NotFound(s.name, missing)
	}

	if err := s.repo.Restore(ctx, ids); err != nil {
		logger.ErrorContext(ctx, "Failed to restore", "entity", s.name, "error", err)
		return err
	}

	logger.InfoContext(ctx, "Entities restored", "entity", s.name, "count", len(ids))
	s.publish(ctx, ports.ActionRestored, ids)
	return nil
}

func (s *contentService[E, P]) PurgeTrashed(ctx context.Context, before time.Time) (int, error) {
	ids, err := s.repo.FindTrashedBefore(ctx, before)
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	if err := s.Delete(ctx, ids, false); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// publish ส่ง event แบบ best effort: ถ้าส่งไม่ได้แค่ log ไว้
func (s *contentService[E, P]) publish(ctx context.Context, action ports.EventAction, ids []uuid.UUID) {
	if s.events == nil || len(ids) == 0 {
		return
	}
	event := &ports.ContentEvent{
		Entity:     s.name,
		Action:     action,
		IDs:        make([]string, len(ids)),
		OccurredAt: time.Now().UTC(),
	}
	for i, id := range ids {
		event.IDs[i] = id.String()
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish content event",
			"entity", s.name,
			"action", action,
			"error", err,
		)
	}
}

// ---------- helpers ----------

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func missingID[E any, P models.EntityPtr[E]](ids []uuid.UUID, rows []*E) (uuid.UUID, bool) {
	found := make(map[uuid.UUID]bool, len(rows))
	for _, r := range rows {
		found[P(r).GetID()] = true
	}
	for _, id := range ids {
		if !found[id] {
			return id, true
		}
	}
	return uuid.Nil, false
}
