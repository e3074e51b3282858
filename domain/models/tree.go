package models

import "github.com/google/uuid"

// Entity is implemented by every persisted model (pointer receiver).
type Entity interface {
	GetID() uuid.UUID
}

// TreeEntity is a model stored as a parent-pointer tree.
type TreeEntity interface {
	Entity
	GetParentID() *uuid.UUID
	SetParentID(id *uuid.UUID)
}

// EntityPtr / TreePtr let generic code call methods on *E while working with E.
type EntityPtr[E any] interface {
	*E
	Entity
}

type TreePtr[E any] interface {
	*E
	TreeEntity
}

// TreeNode wraps an entity for one traversal. Children and Parent live only
// on the wrapper, never on the shared entity.
//
// A descendants tree fills Children (leaves get an empty slice). An ancestors
// chain fills Parent up to the root and leaves Children empty.
type TreeNode[E any] struct {
	Entity   *E
	Parent   *TreeNode[E]
	Children []*TreeNode[E]
}

// FlatNode is one row of a flattened traversal. Depth is the distance from
// the root of that traversal and is meaningless outside of it.
type FlatNode[E any] struct {
	Entity *E
	Depth  int
}

// BuildTree nests descendants under root following parent pointers.
// descendants keep their relative order among siblings; rows whose parent is
// not reachable from root are dropped.
func BuildTree[E any, P TreePtr[E]](root *E, descendants []*E) *TreeNode[E] {
	return BuildForest[E, P]([]*E{root}, descendants)[0]
}

// BuildForest is BuildTree for several roots sharing one descendant list.
func BuildForest[E any, P TreePtr[E]](roots []*E, descendants []*E) []*TreeNode[E] {
	byParent := make(map[uuid.UUID][]*E, len(descendants))
	for _, d := range descendants {
		parentID := P(d).GetParentID()
		if parentID == nil {
			continue
		}
		byParent[*parentID] = append(byParent[*parentID], d)
	}

	visited := make(map[uuid.UUID]bool, len(descendants)+len(roots))
	var build func(e *E) *TreeNode[E]
	build = func(e *E) *TreeNode[E] {
		id := P(e).GetID()
		visited[id] = true
		node := &TreeNode[E]{Entity: e, Children: []*TreeNode[E]{}}
		for _, child := range byParent[id] {
			if visited[P(child).GetID()] {
				continue
			}
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	forest := make([]*TreeNode[E], len(roots))
	for i, root := range roots {
		forest[i] = build(root)
	}
	return forest
}

// BuildAncestorChain links node to its ancestors. ancestors must be ordered
// nearest parent first.
func BuildAncestorChain[E any](node *E, ancestors []*E) *TreeNode[E] {
	head := &TreeNode[E]{Entity: node, Children: []*TreeNode[E]{}}
	cur := head
	for _, a := range ancestors {
		cur.Parent = &TreeNode[E]{Entity: a, Children: []*TreeNode[E]{}}
		cur = cur.Parent
	}
	return head
}

// FlattenTrees walks trees depth-first, parents before their children,
// assigning depth to the roots and depth+1 per level below.
func FlattenTrees[E any](trees []*TreeNode[E], depth int) []FlatNode[E] {
	flat := make([]FlatNode[E], 0, len(trees))
	for _, t := range trees {
		flat = append(flat, FlatNode[E]{Entity: t.Entity, Depth: depth})
		if len(t.Children) > 0 {
			flat = append(flat, FlattenTrees(t.Children, depth+1)...)
		}
	}
	return flat
}

// FlattenAncestors unwinds an ancestor chain root first, so the root has
// depth 0 and node has the largest depth.
func FlattenAncestors[E any](chain *TreeNode[E]) []FlatNode[E] {
	var reversed []*E
	for cur := chain; cur != nil; cur = cur.Parent {
		reversed = append(reversed, cur.Entity)
	}

	flat := make([]FlatNode[E], len(reversed))
	for i := range reversed {
		flat[i] = FlatNode[E]{Entity: reversed[len(reversed)-1-i], Depth: i}
	}
	return flat
}

// Flat wraps rows of a non-hierarchical entity; every depth is 0.
func Flat[E any](rows []*E) []FlatNode[E] {
	flat := make([]FlatNode[E], len(rows))
	for i, r := range rows {
		flat[i] = FlatNode[E]{Entity: r}
	}
	return flat
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
