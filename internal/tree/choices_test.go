package tree_test

import (
	"context"
	"testing"

	"tree-editor-be/internal/tree"
	"tree-editor-be/internal/tree/memory"
)

// buildFixture creates:
//
//	alpha
//	├── beta
//	│   └── delta
//	└── gamma
//	omega
func buildFixture(t *testing.T, engine *memory.Engine) map[string]tree.NodeRef {
	t.Helper()
	ctx := context.Background()
	nodes := make(map[string]tree.NodeRef)

	add := func(name string, parent tree.NodeRef) tree.NodeRef {
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
		nodes[name] = n
		return n
	}

	alpha := add("alpha", nil)
	beta := add("beta", alpha)
	add("delta", beta)
	add("gamma", alpha)
	add("omega", nil)
	return nodes
}

func TestBuildReferenceChoicesPreOrder(t *testing.T) {
	engine := memory.NewEngine(false)
	buildFixture(t, engine)

	choices, err := tree.BuildReferenceChoices(context.Background(), engine, nil)
	if err != nil {
		t.Fatal(err)
	}

	wantLabels := []string{
		"-- root --",
		"alpha",
		"    beta",
		"        delta",
		"    gamma",
		"omega",
	}
	if len(choices) != len(wantLabels) {
		t.Fatalf("got %d choices, want %d", len(choices), len(wantLabels))
	}
	if choices[0].ID != tree.RootChoiceID {
		t.Errorf("first choice id = %v, want root choice id", choices[0].ID)
	}
	for i, want := range wantLabels {
		if choices[i].Label != want {
			t.Errorf("choice %d label = %q, want %q", i, choices[i].Label, want)
		}
	}
}

func TestBuildReferenceChoicesPrunesEditedSubtree(t *testing.T) {
	engine := memory.NewEngine(false)
	nodes := buildFixture(t, engine)

	choices, err := tree.BuildReferenceChoices(context.Background(), engine, nodes["beta"])
	if err != nil {
		t.Fatal(err)
	}

	for _, c := range choices {
		if c.ID == nodes["beta"].ID() {
			t.Error("edited node offered as reference")
		}
		if c.ID == nodes["delta"].ID() {
			t.Error("descendant of edited node offered as reference")
		}
	}
	// Everything outside the pruned subtree stays.
	wantLabels := []string{"-- root --", "alpha", "    gamma", "omega"}
	if len(choices) != len(wantLabels) {
		t.Fatalf("got %d choices, want %d", len(choices), len(wantLabels))
	}
	for i, want := range wantLabels {
		if choices[i].Label != want {
			t.Errorf("choice %d label = %q, want %q", i, choices[i].Label, want)
		}
	}
}

func TestBuildReferenceChoicesSortedFlags(t *testing.T) {
	engine := memory.NewEngine(true)
	buildFixture(t, engine)

	choices, err := tree.BuildReferenceChoices(context.Background(), engine, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !choices[0].Sorted {
		t.Error("root choice should carry the engine's sortedness")
	}
	for _, c := range choices[1:] {
		if !c.Sorted || !c.ParentSorted {
			t.Errorf("choice %q should be sorted in an ordered engine", c.Label)
		}
	}
}

func TestIsLoopSafe(t *testing.T) {
	engine := memory.NewEngine(false)
	nodes := buildFixture(t, engine)
	ctx := context.Background()

	tests := []struct {
		name           string
		forNode        tree.NodeRef
		possibleParent tree.NodeRef
		want           bool
	}{
		{"nil node is always safe", nil, nodes["beta"], true},
		{"node itself", nodes["beta"], nodes["beta"], false},
		{"descendant", nodes["beta"], nodes["delta"], false},
		{"sibling", nodes["beta"], nodes["gamma"], true},
		{"other root", nodes["beta"], nodes["omega"], true},
		{"own parent", nodes["beta"], nodes["alpha"], true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tree.IsLoopSafe(ctx, tt.forNode, tt.possibleParent)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("IsLoopSafe = %v, want %v", got, tt.want)
			}
		})
	}
}
