package tree

import "github.com/google/uuid"

// PositionOption is one legal relative position with its display label.
type PositionOption struct {
	Value Position `json:"value"`
	Label string   `json:"label"`
}

var (
	posSortedChild   = PositionOption{Value: PositionSortedChild, Label: "Child of"}
	posSortedSibling = PositionOption{Value: PositionSortedSibling, Label: "Sibling of"}
	posFirstChild    = PositionOption{Value: PositionFirstChild, Label: "First child of"}
	posRootChild     = PositionOption{Value: PositionRootChild, Label: "Last child of"}
	posBefore        = PositionOption{Value: PositionLeft, Label: "Before"}
	posAfter         = PositionOption{Value: PositionRight, Label: "After"}
)

// PositionResolver narrows the relative-position options for the currently
// selected reference node. It keeps the last resolved set so that a stale
// selection degrades to a no-op instead of an error, which keeps multi-step
// interactions alive when the tree changed underneath the user.
type PositionResolver struct {
	options []PositionOption
}

func NewPositionResolver() *PositionResolver {
	return &PositionResolver{}
}

// Resolve recomputes the legal options for refID against choices. The first
// option of the result is the default selection. An id not present in
// choices leaves the previous set unchanged.
func (r *PositionResolver) Resolve(refID uuid.UUID, choices []ReferenceChoice) []PositionOption {
	var selected *ReferenceChoice
	for i := range choices {
		if choices[i].ID == refID {
			selected = &choices[i]
			break
		}
	}
	if selected == nil {
		return r.options
	}

	r.options = positionsFor(refID, *selected)
	return r.options
}

// Options returns the last resolved set.
func (r *PositionResolver) Options() []PositionOption {
	return r.options
}

// positionsFor is the actual state machine: the base option follows the
// reference node's own sortedness, sibling options follow its parent's.
func positionsFor(refID uuid.UUID, choice ReferenceChoice) []PositionOption {
	var opts []PositionOption
	switch {
	case choice.Sorted:
		opts = append(opts, posSortedChild)
	case refID == RootChoiceID:
		opts = append(opts, posRootChild)
	default:
		opts = append(opts, posFirstChild)
	}

	if refID != RootChoiceID {
		if choice.ParentSorted {
			opts = append(opts, posSortedSibling)
		} else {
			opts = append(opts, posBefore, posAfter)
		}
	}
	return opts
}

// PositionAllowed re-validates a submitted position against the choice it
// was submitted for. The resolver already constrains what the UI offers;
// this is the defensive check before any engine call.
func PositionAllowed(refID uuid.UUID, choice ReferenceChoice, pos Position) bool {
	for _, opt := range positionsFor(refID, choice) {
		if opt.Value == pos {
			return true
		}
	}
	return false
}
