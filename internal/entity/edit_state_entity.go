package entity

import (
	"tree-editor-be/internal/tree"

	"github.com/google/uuid"
)

type EditSessionState string

const (
	EditStateBound    EditSessionState = "bound"
	EditStateSaved    EditSessionState = "saved"
	EditStateRejected EditSessionState = "rejected"
)

// EditState is the server-side state of one node edit: the choice list built
// when the session started and the resolver tracking the legal positions for
// the current reference selection. NodeId is nil for create sessions.
type EditState struct {
	SessionId uuid.UUID
	UserId    uuid.UUID
	NodeId    *uuid.UUID
	Choices   []tree.ReferenceChoice
	Resolver  *tree.PositionResolver
	State     EditSessionState
}
