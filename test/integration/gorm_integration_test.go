package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"tree-editor-be/internal/repository/specification"
	"tree-editor-be/internal/repository/unitofwork"
	"tree-editor-be/internal/tree"
	"tree-editor-be/internal/tree/gormtree"
	"tree-editor-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())
	assert.NotNil(t, uow.NodeRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Node Repository", func(t *testing.T) {
		count, err := uow.NodeRepository().Count(context.Background(), specification.RootsOnly{})
		assert.NoError(t, err)
		t.Logf("Root node count: %d", count)
	})

	t.Run("Engine Round Trip", func(t *testing.T) {
		ctx := context.Background()
		userId := uuid.New() // isolated tree, nothing else sees this user

		factory := gormtree.NewFactory(uowFactory, false)
		engine := factory.EngineFor(ctx, userId)

		root, err := engine.AddRoot(ctx, tree.NodeFields{Name: "integration-root"})
		require.NoError(t, err)
		child, err := engine.AddChild(ctx, root, tree.NodeFields{Name: "integration-child"})
		require.NoError(t, err)
		sibling, err := engine.AddChild(ctx, root, tree.NodeFields{Name: "integration-sibling"})
		require.NoError(t, err)

		// Move the second child before the first and verify order.
		require.NoError(t, engine.Move(ctx, sibling, child, tree.PositionLeft))
		reloaded, err := engine.FetchByID(ctx, root.ID())
		require.NoError(t, err)
		children, err := reloaded.Children(ctx)
		require.NoError(t, err)
		require.Len(t, children, 2)
		assert.Equal(t, "integration-sibling", children[0].Name())
		assert.Equal(t, "integration-child", children[1].Name())

		// Cleanup: deleting the root takes the whole subtree with it.
		require.NoError(t, engine.Delete(ctx, reloaded))
		_, err = engine.FetchByID(ctx, child.ID())
		assert.ErrorIs(t, err, tree.ErrNodeNotFound)
	})
}
