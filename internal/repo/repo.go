// internal/repo/repo.go
package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/models"
)

// Repo defines the storage methods the rest of the app uses. Updates are
// per-record; bulk writes happen in one transaction where the backend
// supports it. Two implementations exist: Postgres (pgx) and an in-memory
// store used for tests and single-box deployments.
type Repo interface {
	// Work orders
	CreateWorkOrder(ctx context.Context, wo models.WorkOrder) error
	GetWorkOrder(ctx context.Context, id string) (models.WorkOrder, error)
	ListWorkOrders(ctx context.Context, f models.WorkOrderFilter) ([]models.WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, wo models.WorkOrder) error
	UpdateWorkOrders(ctx context.Context, wos []models.WorkOrder) error
	DeleteWorkOrder(ctx context.Context, id string) error

	// Halls
	CreateHall(ctx context.Context, h models.Hall) error
	GetHall(ctx context.Context, id uuid.UUID) (models.Hall, error)
	ListHalls(ctx context.Context) ([]models.Hall, error)
	UpdateHall(ctx context.Context, h models.Hall) error
	DeleteHall(ctx context.Context, id uuid.UUID) error

	// Assets (equipment registries)
	CreateAsset(ctx context.Context, a models.Asset) error
	GetAsset(ctx context.Context, id uuid.UUID) (models.Asset, error)
	ListAssets(ctx context.Context, kind *models.AssetKind) ([]models.Asset, error)
	UpdateAsset(ctx context.Context, a models.Asset) error
	DeleteAsset(ctx context.Context, id uuid.UUID) error
}
