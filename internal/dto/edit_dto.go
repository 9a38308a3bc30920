package dto

import (
	"github.com/google/uuid"
)

type ReferenceChoiceItem struct {
	Id           uuid.UUID `json:"id"`
	Label        string    `json:"label"`
	Sorted       bool      `json:"sorted"`
	ParentSorted bool      `json:"parent_sorted"`
}

type PositionOptionItem struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// StartEditSessionResponse is the full form state for one edit: the
// selectable reference nodes, the legal positions for the pre-selected
// reference, and the pre-filled values reproducing the node's current
// placement. NodeId is absent for create sessions.
type StartEditSessionResponse struct {
	SessionId uuid.UUID             `json:"session_id"`
	NodeId    *uuid.UUID            `json:"node_id,omitempty"`
	Name      string                `json:"name,omitempty"`
	RefNodeId uuid.UUID             `json:"ref_node_id"`
	Position  string                `json:"position"`
	Choices   []ReferenceChoiceItem `json:"choices"`
	Positions []PositionOptionItem  `json:"positions"`
}

type ChangeReferenceRequest struct {
	RefNodeId uuid.UUID `json:"ref_node_id"`
}

type ChangeReferenceResponse struct {
	Positions []PositionOptionItem `json:"positions"`
}

type SubmitEditRequest struct {
	Name      string    `json:"name" validate:"required,max=255"`
	RefNodeId uuid.UUID `json:"ref_node_id"`
	Position  string    `json:"position" validate:"required"`
}

type SubmitEditResponse struct {
	Node NodeResponse `json:"node"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
