package gormtree

import (
	"context"
	"sort"
	"time"

	"tree-editor-be/internal/entity"
	"tree-editor-be/internal/repository/specification"
	"tree-editor-be/internal/repository/unitofwork"
	"tree-editor-be/internal/tree"

	"github.com/google/uuid"
)

// Engine is the persistent tree engine: an adjacency list over the nodes
// table, scoped to one user. Sibling order lives in sib_order when the tree
// is unsorted; in sorted mode ordering is derived from name and sib_order is
// ignored.
type Engine struct {
	uow     unitofwork.UnitOfWork
	userID  uuid.UUID
	ordered bool
	inTx    bool
}

func NewEngine(uow unitofwork.UnitOfWork, userID uuid.UUID, ordered bool) *Engine {
	return &Engine{
		uow:     uow,
		userID:  userID,
		ordered: ordered,
	}
}

func (e *Engine) OrderByIsSet() bool {
	return e.ordered
}

// Begin / Commit / Rollback let callers bracket an add-child + move pair in
// one transaction. Rollback without an open transaction is a no-op.

func (e *Engine) Begin(ctx context.Context) error {
	if err := e.uow.Begin(ctx); err != nil {
		return err
	}
	e.inTx = true
	return nil
}

func (e *Engine) Commit() error {
	e.inTx = false
	return e.uow.Commit()
}

func (e *Engine) Rollback() error {
	if !e.inTx {
		return nil
	}
	e.inTx = false
	return e.uow.Rollback()
}

func (e *Engine) withTx(ctx context.Context, fn func(context.Context) error) error {
	if e.inTx {
		return fn(ctx)
	}
	if err := e.Begin(ctx); err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		_ = e.Rollback()
		return err
	}
	return e.Commit()
}

func (e *Engine) RootNodes(ctx context.Context) ([]tree.NodeRef, error) {
	roots, err := e.children(ctx, nil, uuid.Nil)
	if err != nil {
		return nil, err
	}
	return e.refs(roots), nil
}

func (e *Engine) FirstRootNode(ctx context.Context) (tree.NodeRef, error) {
	roots, err := e.children(ctx, nil, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, nil
	}
	return e.ref(roots[0]), nil
}

func (e *Engine) FetchByID(ctx context.Context, id uuid.UUID) (tree.NodeRef, error) {
	n, err := e.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.ref(n), nil
}

func (e *Engine) AddChild(ctx context.Context, parent tree.NodeRef, fields tree.NodeFields) (tree.NodeRef, error) {
	p, err := e.fetch(ctx, parent.ID())
	if err != nil {
		return nil, err
	}
	return e.add(ctx, &p.Id, fields)
}

func (e *Engine) AddRoot(ctx context.Context, fields tree.NodeFields) (tree.NodeRef, error) {
	return e.add(ctx, nil, fields)
}

func (e *Engine) add(ctx context.Context, parentID *uuid.UUID, fields tree.NodeFields) (tree.NodeRef, error) {
	siblings, err := e.children(ctx, parentID, uuid.Nil)
	if err != nil {
		return nil, err
	}
	n := &entity.Node{
		Id:        uuid.New(),
		Name:      fields.Name,
		ParentId:  parentID,
		SibOrder:  len(siblings),
		UserId:    e.userID,
		CreatedAt: time.Now(),
	}
	if err := e.uow.NodeRepository().Create(ctx, n); err != nil {
		return nil, err
	}
	return e.ref(n), nil
}

func (e *Engine) UpdateFields(ctx context.Context, ref tree.NodeRef, fields tree.NodeFields) error {
	n, err := e.fetch(ctx, ref.ID())
	if err != nil {
		return err
	}
	now := time.Now()
	n.Name = fields.Name
	n.UpdatedAt = &now
	return e.uow.NodeRepository().Update(ctx, n)
}

func (e *Engine) Move(ctx context.Context, ref tree.NodeRef, reference tree.NodeRef, pos tree.Position) error {
	return e.withTx(ctx, func(ctx context.Context) error {
		return e.move(ctx, ref.ID(), reference.ID(), pos)
	})
}

func (e *Engine) move(ctx context.Context, nodeID, targetID uuid.UUID, pos tree.Position) error {
	n, err := e.fetch(ctx, nodeID)
	if err != nil {
		return err
	}
	target, err := e.fetch(ctx, targetID)
	if err != nil {
		return err
	}

	sortedPos := pos == tree.PositionSortedChild || pos == tree.PositionSortedSibling
	if e.ordered != sortedPos {
		return tree.ErrInvalidPosition
	}

	var newParentID *uuid.UUID
	switch pos {
	case tree.PositionFirstChild, tree.PositionLastChild, tree.PositionSortedChild:
		newParentID = &target.Id
	case tree.PositionLeft, tree.PositionRight,
		tree.PositionFirstSibling, tree.PositionLastSibling, tree.PositionSortedSibling:
		newParentID = target.ParentId
	default:
		return tree.ErrInvalidPosition
	}

	// The new parent must not sit inside the moved subtree.
	for pid := newParentID; pid != nil; {
		if *pid == n.Id {
			return tree.ErrMoveToDescendant
		}
		p, err := e.fetch(ctx, *pid)
		if err != nil {
			return err
		}
		pid = p.ParentId
	}

	n.ParentId = newParentID
	if e.ordered {
		// Ordering is derived from name, nothing to renumber.
		n.SibOrder = 0
		return e.uow.NodeRepository().Update(ctx, n)
	}

	siblings, err := e.children(ctx, newParentID, n.Id)
	if err != nil {
		return err
	}

	idx := len(siblings)
	switch pos {
	case tree.PositionFirstChild, tree.PositionFirstSibling:
		idx = 0
	case tree.PositionLeft:
		idx = indexOf(siblings, target.Id)
	case tree.PositionRight:
		idx = indexOf(siblings, target.Id) + 1
	}
	if idx > len(siblings) {
		idx = len(siblings)
	}

	reordered := make([]*entity.Node, 0, len(siblings)+1)
	reordered = append(reordered, siblings[:idx]...)
	reordered = append(reordered, n)
	reordered = append(reordered, siblings[idx:]...)

	for i, s := range reordered {
		if s.SibOrder == i && s.Id != n.Id {
			continue
		}
		s.SibOrder = i
		if err := e.uow.NodeRepository().Update(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) Delete(ctx context.Context, ref tree.NodeRef) error {
	return e.withTx(ctx, func(ctx context.Context) error {
		return e.deleteSubtree(ctx, ref.ID())
	})
}

func (e *Engine) deleteSubtree(ctx context.Context, id uuid.UUID) error {
	n, err := e.fetch(ctx, id)
	if err != nil {
		return err
	}
	children, err := e.children(ctx, &n.Id, uuid.Nil)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := e.deleteSubtree(ctx, child.Id); err != nil {
			return err
		}
	}
	return e.uow.NodeRepository().Delete(ctx, n.Id)
}

func (e *Engine) fetch(ctx context.Context, id uuid.UUID) (*entity.Node, error) {
	n, err := e.uow.NodeRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: e.userID},
	)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, tree.ErrNodeNotFound
	}
	return n, nil
}

func (e *Engine) children(ctx context.Context, parentID *uuid.UUID, exclude uuid.UUID) ([]*entity.Node, error) {
	specs := []specification.Specification{
		specification.OwnedBy{UserID: e.userID},
	}
	if parentID == nil {
		specs = append(specs, specification.RootsOnly{})
	} else {
		specs = append(specs, specification.ByParentID{ParentID: *parentID})
	}
	if exclude != uuid.Nil {
		specs = append(specs, specification.ExcludeID{ID: exclude})
	}
	if e.ordered {
		specs = append(specs, specification.OrderBy{Field: "name"})
	} else {
		specs = append(specs, specification.OrderBy{Field: "sib_order"})
	}

	nodes, err := e.uow.NodeRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if e.ordered {
		// Name collation can differ between the DB and Go; keep one source
		// of truth for the order callers observe.
		sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	}
	return nodes, nil
}

func indexOf(nodes []*entity.Node, id uuid.UUID) int {
	for i, n := range nodes {
		if n.Id == id {
			return i
		}
	}
	return len(nodes)
}

func (e *Engine) ref(n *entity.Node) *nodeRef {
	return &nodeRef{engine: e, node: n}
}

func (e *Engine) refs(nodes []*entity.Node) []tree.NodeRef {
	out := make([]tree.NodeRef, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, e.ref(n))
	}
	return out
}

// nodeRef is a snapshot view; structural queries go back to storage.
type nodeRef struct {
	engine *Engine
	node   *entity.Node
}

func (r *nodeRef) ID() uuid.UUID {
	return r.node.Id
}

func (r *nodeRef) Name() string {
	return r.node.Name
}

func (r *nodeRef) IsRoot() bool {
	return r.node.ParentId == nil
}

func (r *nodeRef) Depth(ctx context.Context) (int, error) {
	depth := 1
	for pid := r.node.ParentId; pid != nil; {
		p, err := r.engine.fetch(ctx, *pid)
		if err != nil {
			return 0, err
		}
		depth++
		pid = p.ParentId
	}
	return depth, nil
}

func (r *nodeRef) Children(ctx context.Context) ([]tree.NodeRef, error) {
	children, err := r.engine.children(ctx, &r.node.Id, uuid.Nil)
	if err != nil {
		return nil, err
	}
	return r.engine.refs(children), nil
}

func (r *nodeRef) Parent(ctx context.Context) (tree.NodeRef, error) {
	if r.node.ParentId == nil {
		return nil, nil
	}
	p, err := r.engine.fetch(ctx, *r.node.ParentId)
	if err != nil {
		return nil, err
	}
	return r.engine.ref(p), nil
}

func (r *nodeRef) PrevSibling(ctx context.Context) (tree.NodeRef, error) {
	siblings, err := r.engine.children(ctx, r.node.ParentId, uuid.Nil)
	if err != nil {
		return nil, err
	}
	idx := indexOf(siblings, r.node.Id)
	if idx == 0 || idx >= len(siblings) {
		return nil, nil
	}
	return r.engine.ref(siblings[idx-1]), nil
}

func (r *nodeRef) IsSorted() bool {
	return r.engine.ordered
}

func (r *nodeRef) IsParentSorted() bool {
	return r.engine.ordered
}

func (r *nodeRef) IsDescendantOf(ctx context.Context, other tree.NodeRef) (bool, error) {
	for pid := r.node.ParentId; pid != nil; {
		if *pid == other.ID() {
			return true, nil
		}
		p, err := r.engine.fetch(ctx, *pid)
		if err != nil {
			return false, err
		}
		pid = p.ParentId
	}
	return false, nil
}

// Factory builds a request-scoped engine per user over a fresh unit of work.
type Factory struct {
	uowFactory unitofwork.RepositoryFactory
	ordered    bool
}

func NewFactory(uowFactory unitofwork.RepositoryFactory, ordered bool) *Factory {
	return &Factory{
		uowFactory: uowFactory,
		ordered:    ordered,
	}
}

func (f *Factory) EngineFor(ctx context.Context, userID uuid.UUID) tree.Engine {
	return NewEngine(f.uowFactory.NewUnitOfWork(ctx), userID, f.ordered)
}
