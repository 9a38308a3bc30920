package dto

import (
	"time"

	"github.com/google/uuid"
)

type NodeTreeItem struct {
	Id       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Depth    int             `json:"depth"`
	Children []*NodeTreeItem `json:"children"`
}

type GetTreeResponse struct {
	Sorted bool            `json:"sorted"`
	Roots  []*NodeTreeItem `json:"roots"`
}

type NodeResponse struct {
	Id        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ParentId  *uuid.UUID `json:"parent_id"`
	Depth     int        `json:"depth"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
}

type NodeTreeChangedMessage struct {
	UserId uuid.UUID `json:"user_id"`
	NodeId uuid.UUID `json:"node_id"`
	Action string    `json:"action"` // "created" | "moved" | "deleted"
}
