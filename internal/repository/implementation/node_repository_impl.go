package implementation

import (
	"context"
	"errors"

	"tree-editor-be/internal/entity"
	"tree-editor-be/internal/mapper"
	"tree-editor-be/internal/model"
	"tree-editor-be/internal/repository/contract"
	"tree-editor-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NodeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NodeMapper
}

func NewNodeRepository(db *gorm.DB) contract.NodeRepository {
	return &NodeRepositoryImpl{
		db:     db,
		mapper: mapper.NewNodeMapper(),
	}
}

func (r *NodeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NodeRepositoryImpl) Create(ctx context.Context, node *entity.Node) error {
	m := r.mapper.ToModel(node)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*node = *r.mapper.ToEntity(m)
	return nil
}

func (r *NodeRepositoryImpl) Update(ctx context.Context, node *entity.Node) error {
	m := r.mapper.ToModel(node)
	// Save updates all fields including zero values, which matters for
	// sib_order 0 and parent_id NULL after a move to root.
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*node = *r.mapper.ToEntity(m)
	return nil
}

func (r *NodeRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Node{}, id).Error
}

func (r *NodeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Node, error) {
	var m model.Node
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NodeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Node, error) {
	var models []*model.Node
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NodeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Node{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
