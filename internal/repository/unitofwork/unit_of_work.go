package unitofwork

import (
	"context"

	"tree-editor-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	NodeRepository() contract.NodeRepository
}
