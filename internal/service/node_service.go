package service

import (
	"context"
	"encoding/json"

	"tree-editor-be/internal/dto"
	"tree-editor-be/internal/pkg/logger"
	"tree-editor-be/internal/tree"

	"github.com/google/uuid"
)

type INodeService interface {
	GetTree(ctx context.Context, userId uuid.UUID) (*dto.GetTreeResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type nodeService struct {
	engineFactory    tree.EngineFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewNodeService(
	engineFactory tree.EngineFactory,
	publisherService IPublisherService,
	logger logger.ILogger,
) INodeService {
	return &nodeService{
		engineFactory:    engineFactory,
		publisherService: publisherService,
		logger:           logger,
	}
}

func (s *nodeService) GetTree(ctx context.Context, userId uuid.UUID) (*dto.GetTreeResponse, error) {
	engine := s.engineFactory.EngineFor(ctx, userId)

	roots, err := engine.RootNodes(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.NodeTreeItem, 0, len(roots))
	for _, root := range roots {
		item, err := s.toTreeItem(ctx, root, 1)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return &dto.GetTreeResponse{
		Sorted: engine.OrderByIsSet(),
		Roots:  items,
	}, nil
}

func (s *nodeService) toTreeItem(ctx context.Context, node tree.NodeRef, depth int) (*dto.NodeTreeItem, error) {
	item := &dto.NodeTreeItem{
		Id:       node.ID(),
		Name:     node.Name(),
		Depth:    depth,
		Children: make([]*dto.NodeTreeItem, 0),
	}
	children, err := node.Children(ctx)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		childItem, err := s.toTreeItem(ctx, child, depth+1)
		if err != nil {
			return nil, err
		}
		item.Children = append(item.Children, childItem)
	}
	return item, nil
}

func (s *nodeService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	engine := s.engineFactory.EngineFor(ctx, userId)

	node, err := engine.FetchByID(ctx, id)
	if err != nil {
		return err
	}
	if err := engine.Delete(ctx, node); err != nil {
		return err
	}

	msg := dto.NodeTreeChangedMessage{
		UserId: userId,
		NodeId: id,
		Action: "deleted",
	}
	if payload, err := json.Marshal(msg); err == nil {
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.logger.Warn("NodeService", "failed to publish tree change", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return nil
}
