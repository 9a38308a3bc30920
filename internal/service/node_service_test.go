package service_test

import (
	"context"
	"testing"

	"tree-editor-be/internal/service"
	"tree-editor-be/internal/tree"
	treemem "tree-editor-be/internal/tree/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTreeNesting(t *testing.T) {
	engine := treemem.NewEngine(false)
	publisher := &capturePublisher{}
	svc := service.NewNodeService(treemem.NewFactory(engine), publisher, nopLogger{})
	ctx := context.Background()

	alpha, err := engine.AddRoot(ctx, tree.NodeFields{Name: "alpha"})
	require.NoError(t, err)
	beta, err := engine.AddChild(ctx, alpha, tree.NodeFields{Name: "beta"})
	require.NoError(t, err)
	_, err = engine.AddChild(ctx, beta, tree.NodeFields{Name: "delta"})
	require.NoError(t, err)
	_, err = engine.AddRoot(ctx, tree.NodeFields{Name: "omega"})
	require.NoError(t, err)

	res, err := svc.GetTree(ctx, uuid.New())
	require.NoError(t, err)

	assert.False(t, res.Sorted)
	require.Len(t, res.Roots, 2)
	assert.Equal(t, "alpha", res.Roots[0].Name)
	assert.Equal(t, 1, res.Roots[0].Depth)
	require.Len(t, res.Roots[0].Children, 1)
	assert.Equal(t, "beta", res.Roots[0].Children[0].Name)
	assert.Equal(t, 2, res.Roots[0].Children[0].Depth)
	require.Len(t, res.Roots[0].Children[0].Children, 1)
	assert.Equal(t, "delta", res.Roots[0].Children[0].Children[0].Name)
	assert.Empty(t, res.Roots[1].Children)
}

func TestDeletePublishesChange(t *testing.T) {
	engine := treemem.NewEngine(false)
	publisher := &capturePublisher{}
	svc := service.NewNodeService(treemem.NewFactory(engine), publisher, nopLogger{})
	ctx := context.Background()
	userId := uuid.New()

	alpha, err := engine.AddRoot(ctx, tree.NodeFields{Name: "alpha"})
	require.NoError(t, err)
	beta, err := engine.AddChild(ctx, alpha, tree.NodeFields{Name: "beta"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, userId, alpha.ID()))

	_, err = engine.FetchByID(ctx, alpha.ID())
	assert.ErrorIs(t, err, tree.ErrNodeNotFound)
	_, err = engine.FetchByID(ctx, beta.ID())
	assert.ErrorIs(t, err, tree.ErrNodeNotFound)

	msgs := publisher.messages(t)
	require.Len(t, msgs, 1)
	assert.Equal(t, "deleted", msgs[0].Action)
	assert.Equal(t, alpha.ID(), msgs[0].NodeId)

	err = svc.Delete(ctx, userId, alpha.ID())
	assert.ErrorIs(t, err, tree.ErrNodeNotFound)
}
