package tree

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// RootChoiceID is the reserved reference id meaning "no reference node,
// place at root level".
var RootChoiceID = uuid.Nil

const (
	indentUnit      = "    "
	rootChoiceLabel = "-- root --"
)

// ReferenceChoice is one selectable reference node, tagged with the
// sortedness metadata the position resolver needs.
type ReferenceChoice struct {
	ID           uuid.UUID `json:"id"`
	Label        string    `json:"label"`
	Sorted       bool      `json:"sorted"`
	ParentSorted bool      `json:"parent_sorted"`
}

// BuildReferenceChoices walks the tree in pre-order and returns the
// candidate reference nodes for placing forNode (nil when creating). The
// root-level choice always comes first; forNode and its whole subtree are
// pruned. The result reflects tree state at call time and must not be
// cached across requests.
func BuildReferenceChoices(ctx context.Context, engine Engine, forNode NodeRef) ([]ReferenceChoice, error) {
	choices := []ReferenceChoice{{
		ID:     RootChoiceID,
		Label:  rootChoiceLabel,
		Sorted: engine.OrderByIsSet(),
	}}

	roots, err := engine.RootNodes(ctx)
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		choices, err = addSubtree(ctx, forNode, root, choices)
		if err != nil {
			return nil, err
		}
	}
	return choices, nil
}

func addSubtree(ctx context.Context, forNode, node NodeRef, choices []ReferenceChoice) ([]ReferenceChoice, error) {
	safe, err := IsLoopSafe(ctx, forNode, node)
	if err != nil {
		return nil, err
	}
	if !safe {
		// Skipping the node prunes its children too: nothing below it can
		// be loop-safe either.
		return choices, nil
	}

	depth, err := node.Depth(ctx)
	if err != nil {
		return nil, err
	}
	choices = append(choices, ReferenceChoice{
		ID:           node.ID(),
		Label:        strings.Repeat(indentUnit, depth-1) + node.Name(),
		Sorted:       node.IsSorted(),
		ParentSorted: node.IsParentSorted(),
	})

	children, err := node.Children(ctx)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		choices, err = addSubtree(ctx, forNode, child, choices)
		if err != nil {
			return nil, err
		}
	}
	return choices, nil
}
