package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy scopes every node query to one user's tree.
type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByParentID selects the children of one node.
type ByParentID struct {
	ParentID uuid.UUID
}

func (s ByParentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("parent_id = ?", s.ParentID)
}

// RootsOnly selects the root nodes.
type RootsOnly struct{}

func (s RootsOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("parent_id IS NULL")
}

// ExcludeID drops one node from the result, e.g. the node being moved when
// renumbering its future siblings.
type ExcludeID struct {
	ID uuid.UUID
}

func (s ExcludeID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id <> ?", s.ID)
}
