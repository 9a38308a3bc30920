package tree

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Position is a relative placement understood by Engine.Move.
type Position string

const (
	PositionFirstChild    Position = "first-child"
	PositionLastChild     Position = "last-child"
	PositionSortedChild   Position = "sorted-child"
	PositionLeft          Position = "left"
	PositionRight         Position = "right"
	PositionFirstSibling  Position = "first-sibling"
	PositionLastSibling   Position = "last-sibling"
	PositionSortedSibling Position = "sorted-sibling"

	// PositionRootChild only exists at the selection layer: it means "append
	// as a last root node" and is satisfied by AddRoot, never passed to Move.
	PositionRootChild Position = "root-child"
)

var (
	ErrNodeNotFound     = errors.New("node not found")
	ErrInvalidPosition  = errors.New("invalid position for reference node")
	ErrMoveToDescendant = errors.New("cannot move a node into its own subtree")
)

// NodeFields carries the non-relational attributes of a node. Reference id
// and position are control inputs, they never travel through here.
type NodeFields struct {
	Name string
}

// NodeRef is a read view over one stored node plus its structural queries.
// Refs are only valid against the engine that produced them and only for the
// duration of one request; a structural change invalidates them.
type NodeRef interface {
	ID() uuid.UUID
	Name() string
	IsRoot() bool
	Depth(ctx context.Context) (int, error)
	Children(ctx context.Context) ([]NodeRef, error)
	Parent(ctx context.Context) (NodeRef, error)
	PrevSibling(ctx context.Context) (NodeRef, error)
	IsSorted() bool
	IsParentSorted() bool
	IsDescendantOf(ctx context.Context, other NodeRef) (bool, error)
}

// Engine is the tree storage capability. Implementations own parent/child
// links and sibling ordering; callers never mutate structure except through
// AddChild, AddRoot, Move and Delete.
//
// Move guarantees consistency of a single call, but an AddChild immediately
// followed by Move is only atomic when the implementation also satisfies
// Transactional and the caller brackets the pair.
type Engine interface {
	// OrderByIsSet reports whether the whole tree keeps children sorted by
	// a comparison key instead of explicit sibling ordering.
	OrderByIsSet() bool

	RootNodes(ctx context.Context) ([]NodeRef, error)
	// FirstRootNode returns nil when the tree is empty.
	FirstRootNode(ctx context.Context) (NodeRef, error)
	// FetchByID returns ErrNodeNotFound when the id does not resolve.
	FetchByID(ctx context.Context, id uuid.UUID) (NodeRef, error)

	AddChild(ctx context.Context, parent NodeRef, fields NodeFields) (NodeRef, error)
	AddRoot(ctx context.Context, fields NodeFields) (NodeRef, error)
	UpdateFields(ctx context.Context, node NodeRef, fields NodeFields) error
	Move(ctx context.Context, node NodeRef, reference NodeRef, pos Position) error
	// Delete removes the node and its whole subtree.
	Delete(ctx context.Context, node NodeRef) error
}

// Transactional is implemented by engines that can bracket a sequence of
// calls in one storage transaction. Rollback after Commit is a no-op.
type Transactional interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
}

// EngineFactory yields a request-scoped engine for one user's tree.
type EngineFactory interface {
	EngineFor(ctx context.Context, userID uuid.UUID) Engine
}
