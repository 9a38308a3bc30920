package tree

import (
	"testing"

	"github.com/google/uuid"
)

func TestResolvePositions(t *testing.T) {
	refID := uuid.New()

	tests := []struct {
		name   string
		refID  uuid.UUID
		choice ReferenceChoice
		want   []Position
	}{
		{
			name:   "root choice unsorted",
			refID:  RootChoiceID,
			choice: ReferenceChoice{ID: RootChoiceID},
			want:   []Position{PositionRootChild},
		},
		{
			name:   "root choice sorted",
			refID:  RootChoiceID,
			choice: ReferenceChoice{ID: RootChoiceID, Sorted: true},
			want:   []Position{PositionSortedChild},
		},
		{
			name:   "unsorted node with unsorted parent",
			refID:  refID,
			choice: ReferenceChoice{ID: refID},
			want:   []Position{PositionFirstChild, PositionLeft, PositionRight},
		},
		{
			name:   "sorted node with unsorted parent",
			refID:  refID,
			choice: ReferenceChoice{ID: refID, Sorted: true},
			want:   []Position{PositionSortedChild, PositionLeft, PositionRight},
		},
		{
			name:   "unsorted node with sorted parent",
			refID:  refID,
			choice: ReferenceChoice{ID: refID, ParentSorted: true},
			want:   []Position{PositionFirstChild, PositionSortedSibling},
		},
		{
			name:   "sorted node with sorted parent",
			refID:  refID,
			choice: ReferenceChoice{ID: refID, Sorted: true, ParentSorted: true},
			want:   []Position{PositionSortedChild, PositionSortedSibling},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewPositionResolver()
			got := r.Resolve(tt.refID, []ReferenceChoice{tt.choice})
			if len(got) != len(tt.want) {
				t.Fatalf("got %d options, want %d", len(got), len(tt.want))
			}
			for i, opt := range got {
				if opt.Value != tt.want[i] {
					t.Errorf("option %d = %q, want %q", i, opt.Value, tt.want[i])
				}
				if opt.Label == "" {
					t.Errorf("option %d has empty label", i)
				}
			}
		})
	}
}

func TestResolveUnknownReferenceKeepsOptions(t *testing.T) {
	refID := uuid.New()
	choices := []ReferenceChoice{
		{ID: RootChoiceID},
		{ID: refID},
	}

	r := NewPositionResolver()
	before := r.Resolve(refID, choices)
	if len(before) != 3 {
		t.Fatalf("got %d options, want 3", len(before))
	}

	// An id missing from the choices (stale client state) must not clear
	// or change the previous resolution.
	after := r.Resolve(uuid.New(), choices)
	if len(after) != len(before) {
		t.Fatalf("got %d options after stale resolve, want %d", len(after), len(before))
	}
	for i := range after {
		if after[i].Value != before[i].Value {
			t.Errorf("option %d changed from %q to %q", i, before[i].Value, after[i].Value)
		}
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	refID := uuid.New()
	choices := []ReferenceChoice{{ID: refID}}

	r := NewPositionResolver()
	first := r.Resolve(refID, choices)
	second := r.Resolve(refID, choices)
	if len(first) != len(second) {
		t.Fatalf("repeated resolve changed option count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("option %d changed on repeated resolve", i)
		}
	}
}

func TestPositionAllowed(t *testing.T) {
	refID := uuid.New()
	choice := ReferenceChoice{ID: refID}

	if !PositionAllowed(refID, choice, PositionLeft) {
		t.Error("left should be allowed for an unsorted node")
	}
	if PositionAllowed(refID, choice, PositionSortedSibling) {
		t.Error("sorted-sibling should not be allowed under an unsorted parent")
	}
	if PositionAllowed(RootChoiceID, ReferenceChoice{ID: RootChoiceID}, PositionLeft) {
		t.Error("left should not be allowed for the root choice")
	}
}
