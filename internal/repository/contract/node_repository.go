package contract

import (
	"context"

	"tree-editor-be/internal/entity"
	"tree-editor-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NodeRepository interface {
	Create(ctx context.Context, node *entity.Node) error
	Update(ctx context.Context, node *entity.Node) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Node, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Node, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
