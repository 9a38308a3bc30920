package service

import (
	"context"
	"encoding/json"
	"errors"

	"tree-editor-be/internal/dto"
	"tree-editor-be/internal/entity"
	"tree-editor-be/internal/pkg/logger"
	"tree-editor-be/internal/repository/memory"
	"tree-editor-be/internal/tree"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("edit session not found or expired")

type INodeEditService interface {
	// StartSession opens an edit session. nodeId nil starts a create
	// session; otherwise the session edits the existing node and the
	// response pre-fills the reference and position reproducing its
	// current placement.
	StartSession(ctx context.Context, userId uuid.UUID, nodeId *uuid.UUID) (*dto.StartEditSessionResponse, error)
	// ChangeReference recomputes the legal positions after the user picked
	// a different reference node.
	ChangeReference(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.ChangeReferenceRequest) (*dto.ChangeReferenceResponse, error)
	// Submit validates and executes the edit. On rejection the session
	// stays alive and the returned EditError carries field messages.
	Submit(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.SubmitEditRequest) (*dto.SubmitEditResponse, error)
}

type nodeEditService struct {
	engineFactory    tree.EngineFactory
	sessions         *memory.EditSessionRepository
	publisherService IPublisherService
	executor         moveExecutor
	logger           logger.ILogger
}

func NewNodeEditService(
	engineFactory tree.EngineFactory,
	sessions *memory.EditSessionRepository,
	publisherService IPublisherService,
	logger logger.ILogger,
) INodeEditService {
	return &nodeEditService{
		engineFactory:    engineFactory,
		sessions:         sessions,
		publisherService: publisherService,
		logger:           logger,
	}
}

func (s *nodeEditService) StartSession(ctx context.Context, userId uuid.UUID, nodeId *uuid.UUID) (*dto.StartEditSessionResponse, error) {
	engine := s.engineFactory.EngineFor(ctx, userId)

	var forNode tree.NodeRef
	if nodeId != nil {
		var err error
		forNode, err = engine.FetchByID(ctx, *nodeId)
		if err != nil {
			return nil, err
		}
	}

	// Choices reflect tree state right now; never reused across sessions.
	choices, err := tree.BuildReferenceChoices(ctx, engine, forNode)
	if err != nil {
		return nil, err
	}

	refNodeId := tree.RootChoiceID
	var position tree.Position
	if forNode != nil {
		refNodeId, position, err = s.initialPlacement(ctx, forNode)
		if err != nil {
			return nil, err
		}
	}

	resolver := tree.NewPositionResolver()
	options := resolver.Resolve(refNodeId, choices)
	if position == "" && len(options) > 0 {
		position = options[0].Value
	}

	state := &entity.EditState{
		SessionId: uuid.New(),
		UserId:    userId,
		NodeId:    nodeId,
		Choices:   choices,
		Resolver:  resolver,
		State:     entity.EditStateBound,
	}
	s.sessions.Save(state)

	res := &dto.StartEditSessionResponse{
		SessionId: state.SessionId,
		NodeId:    nodeId,
		RefNodeId: refNodeId,
		Position:  string(position),
		Choices:   toChoiceItems(choices),
		Positions: toPositionItems(options),
	}
	if forNode != nil {
		res.Name = forNode.Name()
	}
	return res, nil
}

// initialPlacement derives the (reference, position) pair that reproduces
// the node's current spot: parent for sorted groups, previous sibling with
// "after" otherwise, falling back to root level or first child.
func (s *nodeEditService) initialPlacement(ctx context.Context, node tree.NodeRef) (uuid.UUID, tree.Position, error) {
	if node.IsParentSorted() {
		parent, err := node.Parent(ctx)
		if err != nil {
			return uuid.Nil, "", err
		}
		if parent == nil {
			return tree.RootChoiceID, tree.PositionSortedChild, nil
		}
		return parent.ID(), tree.PositionSortedChild, nil
	}

	prev, err := node.PrevSibling(ctx)
	if err != nil {
		return uuid.Nil, "", err
	}
	if prev != nil {
		return prev.ID(), tree.PositionRight, nil
	}
	if node.IsRoot() {
		return tree.RootChoiceID, tree.PositionRootChild, nil
	}
	parent, err := node.Parent(ctx)
	if err != nil {
		return uuid.Nil, "", err
	}
	return parent.ID(), tree.PositionFirstChild, nil
}

func (s *nodeEditService) ChangeReference(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.ChangeReferenceRequest) (*dto.ChangeReferenceResponse, error) {
	state, err := s.session(userId, sessionId)
	if err != nil {
		return nil, err
	}

	options := state.Resolver.Resolve(req.RefNodeId, state.Choices)
	s.sessions.Save(state)

	return &dto.ChangeReferenceResponse{
		Positions: toPositionItems(options),
	}, nil
}

func (s *nodeEditService) Submit(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.SubmitEditRequest) (*dto.SubmitEditResponse, error) {
	state, err := s.session(userId, sessionId)
	if err != nil {
		return nil, err
	}
	engine := s.engineFactory.EngineFor(ctx, userId)

	// Recompute the legal set for the submitted reference before anything
	// touches the tree; the client's option list may be stale.
	options := state.Resolver.Resolve(req.RefNodeId, state.Choices)
	position := tree.Position(req.Position)
	legal := false
	for _, opt := range options {
		if opt.Value == position {
			legal = true
			break
		}
	}
	if !legal {
		return nil, s.reject(state, fieldError("position", "position is not available for the selected reference node"))
	}

	isNew := state.NodeId == nil
	var instance tree.NodeRef
	if !isNew {
		instance, err = engine.FetchByID(ctx, *state.NodeId)
		if err != nil {
			return nil, s.reject(state, err)
		}
	}

	fields := tree.NodeFields{Name: req.Name}
	node, err := s.executor.Execute(ctx, engine, isNew, fields, req.RefNodeId, position, instance, engine.OrderByIsSet())
	if err != nil {
		return nil, s.reject(state, err)
	}

	state.State = entity.EditStateSaved
	s.sessions.Delete(state.SessionId)

	action := "moved"
	if isNew {
		action = "created"
	}
	s.publishChange(ctx, userId, node.ID(), action)
	s.logger.Info("NodeEditService", "node "+action, map[string]interface{}{
		"user_id":  userId.String(),
		"node_id":  node.ID().String(),
		"position": req.Position,
	})

	res, err := s.toNodeResponse(ctx, node)
	if err != nil {
		return nil, err
	}
	return &dto.SubmitEditResponse{Node: *res}, nil
}

func (s *nodeEditService) session(userId uuid.UUID, sessionId uuid.UUID) (*entity.EditState, error) {
	state, ok := s.sessions.Get(sessionId)
	if !ok || state.UserId != userId {
		return nil, ErrSessionNotFound
	}
	return state, nil
}

func (s *nodeEditService) reject(state *entity.EditState, err error) error {
	state.State = entity.EditStateRejected
	s.sessions.Save(state)

	var editErr *EditError
	if errors.As(err, &editErr) {
		s.logger.Warn("NodeEditService", "edit rejected", map[string]interface{}{
			"session_id": state.SessionId.String(),
			"error":      err.Error(),
		})
	}
	return err
}

func (s *nodeEditService) publishChange(ctx context.Context, userId, nodeId uuid.UUID, action string) {
	msg := dto.NodeTreeChangedMessage{
		UserId: userId,
		NodeId: nodeId,
		Action: action,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("NodeEditService", "failed to publish tree change", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *nodeEditService) toNodeResponse(ctx context.Context, node tree.NodeRef) (*dto.NodeResponse, error) {
	depth, err := node.Depth(ctx)
	if err != nil {
		return nil, err
	}
	var parentId *uuid.UUID
	parent, err := node.Parent(ctx)
	if err != nil {
		return nil, err
	}
	if parent != nil {
		id := parent.ID()
		parentId = &id
	}
	return &dto.NodeResponse{
		Id:       node.ID(),
		Name:     node.Name(),
		ParentId: parentId,
		Depth:    depth,
	}, nil
}

func toChoiceItems(choices []tree.ReferenceChoice) []dto.ReferenceChoiceItem {
	items := make([]dto.ReferenceChoiceItem, 0, len(choices))
	for _, c := range choices {
		items = append(items, dto.ReferenceChoiceItem{
			Id:           c.ID,
			Label:        c.Label,
			Sorted:       c.Sorted,
			ParentSorted: c.ParentSorted,
		})
	}
	return items
}

func toPositionItems(options []tree.PositionOption) []dto.PositionOptionItem {
	items := make([]dto.PositionOptionItem, 0, len(options))
	for _, opt := range options {
		items = append(items, dto.PositionOptionItem{
			Value: string(opt.Value),
			Label: opt.Label,
		})
	}
	return items
}
