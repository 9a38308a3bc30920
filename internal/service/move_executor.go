package service

import (
	"context"
	"errors"

	"tree-editor-be/internal/tree"

	"github.com/google/uuid"
)

// moveExecutor turns a validated (reference node, position) pair into the
// engine call sequence. Creation: add under the reference then move into
// place, or add as root. Relocation: save field changes first, then move; a
// cleared reference falls back to a sibling of the current first root so the
// node always lands somewhere deterministic.
type moveExecutor struct{}

func (e *moveExecutor) Execute(
	ctx context.Context,
	engine tree.Engine,
	isNew bool,
	fields tree.NodeFields,
	refNodeID uuid.UUID,
	pos tree.Position,
	instance tree.NodeRef,
	defaultSorted bool,
) (tree.NodeRef, error) {
	// When the engine supports transactions, the whole sequence commits or
	// rolls back as one; otherwise the gap is the engine's documented
	// limitation.
	if tx, ok := engine.(tree.Transactional); ok {
		if err := tx.Begin(ctx); err != nil {
			return nil, err
		}
		defer tx.Rollback()
	}

	var err error
	if isNew {
		instance, err = e.create(ctx, engine, fields, refNodeID, pos)
	} else {
		err = e.relocate(ctx, engine, fields, refNodeID, pos, instance, defaultSorted)
	}
	if err != nil {
		return nil, err
	}

	// Reload before commit: the engine may have renumbered ordering
	// metadata of the moved node and its neighbors.
	instance, err = engine.FetchByID(ctx, instance.ID())
	if err != nil {
		return nil, err
	}

	if tx, ok := engine.(tree.Transactional); ok {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (e *moveExecutor) create(
	ctx context.Context,
	engine tree.Engine,
	fields tree.NodeFields,
	refNodeID uuid.UUID,
	pos tree.Position,
) (tree.NodeRef, error) {
	if refNodeID == tree.RootChoiceID {
		// Root creation already places the node, no move needed.
		return engine.AddRoot(ctx, fields)
	}

	refNode, err := e.fetchReference(ctx, engine, refNodeID)
	if err != nil {
		return nil, err
	}
	instance, err := engine.AddChild(ctx, refNode, fields)
	if err != nil {
		return nil, err
	}
	if err := e.move(ctx, engine, instance, refNode, pos); err != nil {
		return nil, err
	}
	return instance, nil
}

func (e *moveExecutor) relocate(
	ctx context.Context,
	engine tree.Engine,
	fields tree.NodeFields,
	refNodeID uuid.UUID,
	pos tree.Position,
	instance tree.NodeRef,
	defaultSorted bool,
) error {
	// Field changes are a plain save, independent of the structural move.
	if err := engine.UpdateFields(ctx, instance, fields); err != nil {
		return err
	}

	if refNodeID != tree.RootChoiceID {
		refNode, err := e.fetchReference(ctx, engine, refNodeID)
		if err != nil {
			return err
		}
		return e.move(ctx, engine, instance, refNode, pos)
	}

	firstRoot, err := engine.FirstRootNode(ctx)
	if err != nil {
		return err
	}
	if firstRoot == nil || firstRoot.ID() == instance.ID() {
		// Nothing to move relative to.
		return nil
	}
	fallback := tree.PositionFirstSibling
	if defaultSorted {
		fallback = tree.PositionSortedSibling
	}
	return e.move(ctx, engine, instance, firstRoot, fallback)
}

func (e *moveExecutor) fetchReference(ctx context.Context, engine tree.Engine, refNodeID uuid.UUID) (tree.NodeRef, error) {
	refNode, err := engine.FetchByID(ctx, refNodeID)
	if err != nil {
		if errors.Is(err, tree.ErrNodeNotFound) {
			return nil, fieldError("ref_node_id", "reference node no longer exists")
		}
		return nil, err
	}
	return refNode, nil
}

func (e *moveExecutor) move(ctx context.Context, engine tree.Engine, instance, refNode tree.NodeRef, pos tree.Position) error {
	err := engine.Move(ctx, instance, refNode, pos)
	switch {
	case errors.Is(err, tree.ErrMoveToDescendant):
		// Unreachable through the pruned choice list, rejected anyway.
		return fieldError("ref_node_id", "cannot move a node into its own subtree")
	case errors.Is(err, tree.ErrInvalidPosition):
		return fieldError("position", "position is not valid for the selected reference node")
	default:
		return err
	}
}
