package repositories

import (
	"context"

	"github.com/google/uuid"

	"gofiber-cms/domain/models"
)

// ChildrenResolution decides what happens to the children of a deleted node.
type ChildrenResolution string

const (
	ResolveDelete ChildrenResolution = "delete" // children are removed with the node
	ResolveUp     ChildrenResolution = "up"     // children move to the node's parent
	ResolveRoot   ChildrenResolution = "root"   // children become roots
)

type TreeOptions struct {
	FindOptions

	// Depth limits how many levels below a node are loaded. Zero or negative
	// means unlimited.
	Depth int
}

// TreeRepository is implemented by repositories of tree-shaped entities only.
// Services detect it with a type assertion on Repository.
type TreeRepository[E any] interface {
	Repository[E]

	Resolution() ChildrenResolution

	FindRoots(ctx context.Context, opts FindOptions) ([]*E, error)
	FindChildren(ctx context.Context, id uuid.UUID, trashed TrashMode) ([]*E, error)
	FindDescendants(ctx context.Context, node *E, opts TreeOptions) ([]*E, error)
	FindDescendantsTree(ctx context.Context, node *E, opts TreeOptions) (*models.TreeNode[E], error)
	FindAncestors(ctx context.Context, node *E, opts TreeOptions) ([]*E, error)
	FindAncestorsTree(ctx context.Context, node *E, opts TreeOptions) (*models.TreeNode[E], error)
	FindTrees(ctx context.Context, opts TreeOptions) ([]*models.TreeNode[E], error)

	CountDescendants(ctx context.Context, node *E, opts TreeOptions) (int64, error)
	CountAncestors(ctx context.Context, node *E, opts TreeOptions) (int64, error)

	// DescendantIDs returns every id below the given nodes, any trash state.
	DescendantIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	ToFlatTrees(trees []*models.TreeNode[E], depth int) []models.FlatNode[E]
	FlatAncestorsTree(ctx context.Context, node *E) ([]models.FlatNode[E], error)

	// Move re-parents node and its subtree. A nil parentID makes it a root.
	Move(ctx context.Context, node *E, parentID *uuid.UUID) error

	TreeTransaction(ctx context.Context, fn func(repo TreeRepository[E]) error) error
}
