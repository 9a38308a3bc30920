package entity

import (
	"time"

	"github.com/google/uuid"
)

type Node struct {
	Id        uuid.UUID
	Name      string
	ParentId  *uuid.UUID
	SibOrder  int
	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
