package mapper

import (
	"time"

	"tree-editor-be/internal/entity"
	"tree-editor-be/internal/model"

	"gorm.io/gorm"
)

type NodeMapper struct{}

func NewNodeMapper() *NodeMapper {
	return &NodeMapper{}
}

func (m *NodeMapper) ToEntity(n *model.Node) *entity.Node {
	if n == nil {
		return nil
	}

	var deletedAt *time.Time
	if n.DeletedAt.Valid {
		t := n.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	return &entity.Node{
		Id:        n.Id,
		Name:      n.Name,
		ParentId:  n.ParentId,
		SibOrder:  n.SibOrder,
		UserId:    n.UserId,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: n.DeletedAt.Valid,
	}
}

func (m *NodeMapper) ToModel(n *entity.Node) *model.Node {
	if n == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if n.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *n.DeletedAt, Valid: true}
	} else if n.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	return &model.Node{
		Id:        n.Id,
		Name:      n.Name,
		ParentId:  n.ParentId,
		SibOrder:  n.SibOrder,
		UserId:    n.UserId,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *NodeMapper) ToEntities(models []*model.Node) []*entity.Node {
	entities := make([]*entity.Node, 0, len(models))
	for _, n := range models {
		entities = append(entities, m.ToEntity(n))
	}
	return entities
}
