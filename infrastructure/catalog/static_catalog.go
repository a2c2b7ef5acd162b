package catalog

import (
	"context"

	"jobcore-api/domain/models"
	"jobcore-api/domain/ports"
)

// StaticCatalog fixed in-memory catalog
type StaticCatalog struct {
	snap *snapshot
}

var _ ports.TaskCatalog = (*StaticCatalog)(nil)

func NewStatic(tasks ...models.TaskDefinition) *StaticCatalog {
	return &StaticCatalog{snap: newSnapshot(tasks)}
}

func (c *StaticCatalog) Lookup(_ context.Context, name string) (*models.TaskDefinition, error) {
	return c.snap.lookup(name)
}

func (c *StaticCatalog) List(_ context.Context) ([]models.TaskDefinition, error) {
	return c.snap.list(), nil
}
