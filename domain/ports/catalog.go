package ports

import (
	"context"

	"jobcore-api/domain/models"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Task Catalog Port - task definitions จาก manifest (read-only)
// ═══════════════════════════════════════════════════════════════════════════════

type TaskCatalog interface {
	// Lookup returns a NotFound-marked error for unknown names.
	Lookup(ctx context.Context, name string) (*models.TaskDefinition, error)

	// List every task of the current snapshot, ordered by name.
	List(ctx context.Context) ([]models.TaskDefinition, error)
}
