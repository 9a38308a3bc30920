package memory

import (
	"context"
	"sort"
	"sync"

	"tree-editor-be/internal/tree"

	"github.com/google/uuid"
)

// Engine is an in-memory adjacency-list tree engine. It backs the unit
// tests and small single-process deployments; the gormtree engine is the
// persistent counterpart with identical move semantics.
type Engine struct {
	mu      sync.Mutex
	ordered bool
	nodes   map[uuid.UUID]*node
	roots   []*node
}

type node struct {
	id       uuid.UUID
	name     string
	parent   *node
	children []*node
}

// NewEngine creates an empty engine. ordered selects sorted mode: children
// are kept ordered by name and only the sorted positions are legal.
func NewEngine(ordered bool) *Engine {
	return &Engine{
		ordered: ordered,
		nodes:   make(map[uuid.UUID]*node),
	}
}

func (e *Engine) OrderByIsSet() bool {
	return e.ordered
}

func (e *Engine) RootNodes(ctx context.Context) ([]tree.NodeRef, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.refs(e.roots), nil
}

func (e *Engine) FirstRootNode(ctx context.Context) (tree.NodeRef, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.roots) == 0 {
		return nil, nil
	}
	return e.ref(e.roots[0]), nil
}

func (e *Engine) FetchByID(ctx context.Context, id uuid.UUID) (tree.NodeRef, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.nodes[id]
	if !ok {
		return nil, tree.ErrNodeNotFound
	}
	return e.ref(n), nil
}

func (e *Engine) AddChild(ctx context.Context, parent tree.NodeRef, fields tree.NodeFields) (tree.NodeRef, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.nodes[parent.ID()]
	if !ok {
		return nil, tree.ErrNodeNotFound
	}
	n := &node{id: uuid.New(), name: fields.Name, parent: p}
	e.nodes[n.id] = n
	p.children = e.insert(p.children, n, len(p.children))
	return e.ref(n), nil
}

func (e *Engine) AddRoot(ctx context.Context, fields tree.NodeFields) (tree.NodeRef, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := &node{id: uuid.New(), name: fields.Name}
	e.nodes[n.id] = n
	e.roots = e.insert(e.roots, n, len(e.roots))
	return e.ref(n), nil
}

func (e *Engine) UpdateFields(ctx context.Context, ref tree.NodeRef, fields tree.NodeFields) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.nodes[ref.ID()]
	if !ok {
		return tree.ErrNodeNotFound
	}
	n.name = fields.Name
	if e.ordered && n.parent != nil {
		// A renamed node may no longer sit at its sort position.
		n.parent.children = e.resort(n.parent.children)
	} else if e.ordered {
		e.roots = e.resort(e.roots)
	}
	return nil
}

func (e *Engine) Move(ctx context.Context, ref tree.NodeRef, reference tree.NodeRef, pos tree.Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, ok := e.nodes[ref.ID()]
	if !ok {
		return tree.ErrNodeNotFound
	}
	target, ok := e.nodes[reference.ID()]
	if !ok {
		return tree.ErrNodeNotFound
	}
	if err := e.checkPosition(pos); err != nil {
		return err
	}

	var newParent *node
	switch pos {
	case tree.PositionFirstChild, tree.PositionLastChild, tree.PositionSortedChild:
		newParent = target
	case tree.PositionLeft, tree.PositionRight,
		tree.PositionFirstSibling, tree.PositionLastSibling, tree.PositionSortedSibling:
		newParent = target.parent
	default:
		return tree.ErrInvalidPosition
	}

	// The new parent must not sit inside the moved subtree.
	for p := newParent; p != nil; p = p.parent {
		if p == n {
			return tree.ErrMoveToDescendant
		}
	}

	e.detach(n)
	n.parent = newParent

	siblings := e.roots
	if newParent != nil {
		siblings = newParent.children
	}

	idx := len(siblings)
	switch pos {
	case tree.PositionFirstChild, tree.PositionFirstSibling:
		idx = 0
	case tree.PositionLastChild, tree.PositionLastSibling:
		idx = len(siblings)
	case tree.PositionSortedChild, tree.PositionSortedSibling:
		idx = sort.Search(len(siblings), func(i int) bool {
			return siblings[i].name >= n.name
		})
	case tree.PositionLeft:
		idx = indexOf(siblings, target)
	case tree.PositionRight:
		idx = indexOf(siblings, target) + 1
	}

	siblings = e.insert(siblings, n, idx)
	if newParent != nil {
		newParent.children = siblings
	} else {
		e.roots = siblings
	}
	return nil
}

func (e *Engine) Delete(ctx context.Context, ref tree.NodeRef) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.nodes[ref.ID()]
	if !ok {
		return tree.ErrNodeNotFound
	}
	e.detach(n)
	e.forget(n)
	return nil
}

func (e *Engine) checkPosition(pos tree.Position) error {
	sorted := pos == tree.PositionSortedChild || pos == tree.PositionSortedSibling
	if e.ordered != sorted {
		return tree.ErrInvalidPosition
	}
	return nil
}

func (e *Engine) detach(n *node) {
	if n.parent != nil {
		n.parent.children = remove(n.parent.children, n)
		n.parent = nil
		return
	}
	e.roots = remove(e.roots, n)
}

func (e *Engine) forget(n *node) {
	for _, child := range n.children {
		e.forget(child)
	}
	delete(e.nodes, n.id)
}

// insert places n at idx; in sorted mode idx is recomputed from the name so
// callers never break the sort invariant.
func (e *Engine) insert(siblings []*node, n *node, idx int) []*node {
	if e.ordered {
		idx = sort.Search(len(siblings), func(i int) bool {
			return siblings[i].name >= n.name
		})
	}
	siblings = append(siblings, nil)
	copy(siblings[idx+1:], siblings[idx:])
	siblings[idx] = n
	return siblings
}

func (e *Engine) resort(siblings []*node) []*node {
	sort.SliceStable(siblings, func(i, j int) bool {
		return siblings[i].name < siblings[j].name
	})
	return siblings
}

func remove(siblings []*node, n *node) []*node {
	out := siblings[:0]
	for _, s := range siblings {
		if s != n {
			out = append(out, s)
		}
	}
	return out
}

func indexOf(siblings []*node, n *node) int {
	for i, s := range siblings {
		if s == n {
			return i
		}
	}
	return len(siblings)
}

func (e *Engine) ref(n *node) *nodeRef {
	return &nodeRef{engine: e, node: n}
}

func (e *Engine) refs(nodes []*node) []tree.NodeRef {
	out := make([]tree.NodeRef, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, e.ref(n))
	}
	return out
}

type nodeRef struct {
	engine *Engine
	node   *node
}

func (r *nodeRef) ID() uuid.UUID {
	return r.node.id
}

func (r *nodeRef) Name() string {
	r.engine.mu.Lock()
	defer r.engine.mu.Unlock()
	return r.node.name
}

func (r *nodeRef) IsRoot() bool {
	r.engine.mu.Lock()
	defer r.engine.mu.Unlock()
	return r.node.parent == nil
}

func (r *nodeRef) Depth(ctx context.Context) (int, error) {
	r.engine.mu.Lock()
	defer r.engine.mu.Unlock()
	depth := 0
	for n := r.node; n != nil; n = n.parent {
		depth++
	}
	return depth, nil
}

func (r *nodeRef) Children(ctx context.Context) ([]tree.NodeRef, error) {
	r.engine.mu.Lock()
	defer r.engine.mu.Unlock()
	return r.engine.refs(r.node.children), nil
}

func (r *nodeRef) Parent(ctx context.Context) (tree.NodeRef, error) {
	r.engine.mu.Lock()
	defer r.engine.mu.Unlock()
	if r.node.parent == nil {
		return nil, nil
	}
	return r.engine.ref(r.node.parent), nil
}

func (r *nodeRef) PrevSibling(ctx context.Context) (tree.NodeRef, error) {
	r.engine.mu.Lock()
	defer r.engine.mu.Unlock()
	siblings := r.engine.roots
	if r.node.parent != nil {
		siblings = r.node.parent.children
	}
	idx := indexOf(siblings, r.node)
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
	r.engine.mu.Lock()
	defer r.engine.mu.Unlock()
	for n := r.node.parent; n != nil; n = n.parent {
		if n.id == other.ID() {
			return true, nil
		}
	}
	return false, nil
}

// Factory hands out the same shared engine regardless of user. It exists for
// tests and single-tenant setups.
type Factory struct {
	engine *Engine
}

func NewFactory(engine *Engine) *Factory {
	return &Factory{engine: engine}
}

func (f *Factory) EngineFor(ctx context.Context, userID uuid.UUID) tree.Engine {
	return f.engine
}
