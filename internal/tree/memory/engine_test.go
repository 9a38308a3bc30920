package memory

import (
	"context"
	"errors"
	"testing"

	"tree-editor-be/internal/tree"
)

func mustAdd(t *testing.T, engine *Engine, name string, parent tree.NodeRef) tree.NodeRef {
	t.Helper()
	ctx := context.Background()
	var (
		n   tree.NodeRef
		err error
	)
	if parent == nil {
		n, err = engine.AddRoot(ctx, tree.NodeFields{Name: name})
	} else {
		n, err = engine.AddChild(ctx, parent, tree.NodeFields{Name: name})
	}
	if err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	return n
}

func childNames(t *testing.T, parent tree.NodeRef) []string {
	t.Helper()
	children, err := parent.Children(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, c.Name())
	}
	return names
}

func TestMoveFirstChild(t *testing.T) {
	engine := NewEngine(false)
	ctx := context.Background()

	root := mustAdd(t, engine, "root", nil)
	mustAdd(t, engine, "a", root)
	b := mustAdd(t, engine, "b", nil)

	if err := engine.Move(ctx, b, root, tree.PositionFirstChild); err != nil {
		t.Fatal(err)
	}

	parent, err := b.Parent(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if parent == nil || parent.ID() != root.ID() {
		t.Fatal("moved node should be a child of root")
	}
	got := childNames(t, root)
	want := []string{"b", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("children = %v, want %v", got, want)
		}
	}
}

func TestMoveLeftRight(t *testing.T) {
	engine := NewEngine(false)
	ctx := context.Background()

	root := mustAdd(t, engine, "root", nil)
	a := mustAdd(t, engine, "a", root)
	mustAdd(t, engine, "b", root)
	c := mustAdd(t, engine, "c", root)

	if err := engine.Move(ctx, c, a, tree.PositionLeft); err != nil {
		t.Fatal(err)
	}
	got := childNames(t, root)
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("after left: children = %v, want %v", got, want)
		}
	}

	if err := engine.Move(ctx, c, a, tree.PositionRight); err != nil {
		t.Fatal(err)
	}
	got = childNames(t, root)
	want = []string{"a", "c", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("after right: children = %v, want %v", got, want)
		}
	}
}

func TestMoveToDescendantRejected(t *testing.T) {
	engine := NewEngine(false)
	ctx := context.Background()

	a := mustAdd(t, engine, "a", nil)
	b := mustAdd(t, engine, "b", a)
	c := mustAdd(t, engine, "c", b)

	err := engine.Move(ctx, a, c, tree.PositionFirstChild)
	if !errors.Is(err, tree.ErrMoveToDescendant) {
		t.Fatalf("err = %v, want ErrMoveToDescendant", err)
	}
	// Moving next to a descendant's sibling slot is a cycle too.
	err = engine.Move(ctx, a, c, tree.PositionLeft)
	if !errors.Is(err, tree.ErrMoveToDescendant) {
		t.Fatalf("err = %v, want ErrMoveToDescendant", err)
	}
	// But moving relative to itself at sibling level is legal: the new
	// parent is the node's own parent, not the node.
	if err := engine.Move(ctx, b, b, tree.PositionLeft); err != nil {
		t.Fatalf("sibling move relative to self: %v", err)
	}
}

func TestPositionMatchesOrdering(t *testing.T) {
	ctx := context.Background()

	unsorted := NewEngine(false)
	root := mustAdd(t, unsorted, "root", nil)
	n := mustAdd(t, unsorted, "n", nil)
	if err := unsorted.Move(ctx, n, root, tree.PositionSortedChild); !errors.Is(err, tree.ErrInvalidPosition) {
		t.Fatalf("sorted position on unsorted engine: err = %v, want ErrInvalidPosition", err)
	}

	sorted := NewEngine(true)
	root = mustAdd(t, sorted, "root", nil)
	n = mustAdd(t, sorted, "n", nil)
	if err := sorted.Move(ctx, n, root, tree.PositionFirstChild); !errors.Is(err, tree.ErrInvalidPosition) {
		t.Fatalf("positional move on sorted engine: err = %v, want ErrInvalidPosition", err)
	}
}

func TestSortedEngineKeepsNameOrder(t *testing.T) {
	engine := NewEngine(true)
	ctx := context.Background()

	root := mustAdd(t, engine, "root", nil)
	mustAdd(t, engine, "mango", root)
	mustAdd(t, engine, "apple", root)
	banana := mustAdd(t, engine, "banana", nil)

	if err := engine.Move(ctx, banana, root, tree.PositionSortedChild); err != nil {
		t.Fatal(err)
	}
	got := childNames(t, root)
	want := []string{"apple", "banana", "mango"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("children = %v, want %v", got, want)
		}
	}

	// Renaming re-sorts the sibling group.
	if err := engine.UpdateFields(ctx, banana, tree.NodeFields{Name: "zucchini"}); err != nil {
		t.Fatal(err)
	}
	got = childNames(t, root)
	want = []string{"apple", "mango", "zucchini"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("after rename: children = %v, want %v", got, want)
		}
	}
}

func TestPrevSibling(t *testing.T) {
	engine := NewEngine(false)
	ctx := context.Background()

	root := mustAdd(t, engine, "root", nil)
	a := mustAdd(t, engine, "a", root)
	b := mustAdd(t, engine, "b", root)

	prev, err := a.PrevSibling(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if prev != nil {
		t.Fatal("first child should have no previous sibling")
	}
	prev, err = b.PrevSibling(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if prev == nil || prev.ID() != a.ID() {
		t.Fatal("previous sibling of b should be a")
	}
}

func TestDeleteRemovesSubtree(t *testing.T) {
	engine := NewEngine(false)
	ctx := context.Background()

	a := mustAdd(t, engine, "a", nil)
	b := mustAdd(t, engine, "b", a)
	c := mustAdd(t, engine, "c", b)

	if err := engine.Delete(ctx, b); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.FetchByID(ctx, b.ID()); !errors.Is(err, tree.ErrNodeNotFound) {
		t.Fatalf("deleted node still fetchable: %v", err)
	}
	if _, err := engine.FetchByID(ctx, c.ID()); !errors.Is(err, tree.ErrNodeNotFound) {
		t.Fatalf("descendant of deleted node still fetchable: %v", err)
	}
	if got := childNames(t, a); len(got) != 0 {
		t.Fatalf("parent still lists deleted child: %v", got)
	}
}

func TestFirstRootNode(t *testing.T) {
	engine := NewEngine(false)
	ctx := context.Background()

	first, err := engine.FirstRootNode(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first != nil {
		t.Fatal("empty engine should have no first root")
	}

	a := mustAdd(t, engine, "a", nil)
	mustAdd(t, engine, "b", nil)
	first, err = engine.FirstRootNode(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first == nil || first.ID() != a.ID() {
		t.Fatal("first root should be the earliest created root")
	}
}
