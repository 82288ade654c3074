package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/models"
)

// memRepo keeps everything in process memory behind one lock. It stands in
// for the browser local-storage mode of the original tool and backs the test
// suite.
type memRepo struct {
	mu         sync.RWMutex
	workOrders map[string]models.WorkOrder
	halls      map[uuid.UUID]models.Hall
	assets     map[uuid.UUID]models.Asset
}

// NewMemory returns an empty in-memory store.
func NewMemory() Repo {
	return &memRepo{
		workOrders: make(map[string]models.WorkOrder),
		halls:      make(map[uuid.UUID]models.Hall),
		assets:     make(map[uuid.UUID]models.Asset),
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// cloneWorkOrder deep-copies the record so callers never alias stored
// slices or pointer fields.
func cloneWorkOrder(wo models.WorkOrder) models.WorkOrder {
	out := wo
	out.Amount = copyFloat(wo.Amount)
	out.SignedSentDate = copyTime(wo.SignedSentDate)
	out.CompletionDate = copyTime(wo.CompletionDate)
	out.PaymentDate = copyTime(wo.PaymentDate)
	out.LastExecutedDate = copyTime(wo.LastExecutedDate)
	if wo.PhotoURLs != nil {
		out.PhotoURLs = append([]string(nil), wo.PhotoURLs...)
	}
	if wo.PhotoMetadata != nil {
		out.PhotoMetadata = append([]models.PhotoMeta(nil), wo.PhotoMetadata...)
	}
	return out
}

func (m *memRepo) CreateWorkOrder(_ context.Context, wo models.WorkOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.workOrders[wo.ID]; exists {
		return models.ErrDuplicateID
	}
	m.workOrders[wo.ID] = cloneWorkOrder(wo)
	return nil
}

func (m *memRepo) GetWorkOrder(_ context.Context, id string) (models.WorkOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wo, ok := m.workOrders[id]
	if !ok {
		return models.WorkOrder{}, models.ErrWorkOrderNotFound
	}
	return cloneWorkOrder(wo), nil
}

func matchFilter(wo models.WorkOrder, f models.WorkOrderFilter) bool {
	if f.Status != nil && wo.Status != *f.Status {
		return false
	}
	if f.Category != nil && wo.Category != *f.Category {
		return false
	}
	if f.Urgency != nil && wo.Urgency != *f.Urgency {
		return false
	}
	if f.Type != nil && wo.Type != *f.Type {
		return false
	}
	if f.Verified != nil && wo.IsVerified != *f.Verified {
		return false
	}
	if f.Deleted != nil && wo.IsDeleted != *f.Deleted {
		return false
	}
	if f.HallName != "" && wo.HallName != f.HallName {
		return false
	}
	return true
}

func (m *memRepo) ListWorkOrders(_ context.Context, f models.WorkOrderFilter) ([]models.WorkOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.WorkOrder, 0, len(m.workOrders))
	for _, wo := range m.workOrders {
		if matchFilter(wo, f) {
			out = append(out, cloneWorkOrder(wo))
		}
	}
	// Newest first, id as tiebreak so tests see a stable order.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memRepo) UpdateWorkOrder(_ context.Context, wo models.WorkOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workOrders[wo.ID]; !ok {
		return models.ErrWorkOrderNotFound
	}
	m.workOrders[wo.ID] = cloneWorkOrder(wo)
	return nil
}

func (m *memRepo) UpdateWorkOrders(_ context.Context, wos []models.WorkOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, wo := range wos {
		if _, ok := m.workOrders[wo.ID]; !ok {
			return models.ErrWorkOrderNotFound
		}
	}
	for _, wo := range wos {
		m.workOrders[wo.ID] = cloneWorkOrder(wo)
	}
	return nil
}

func (m *memRepo) DeleteWorkOrder(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workOrders[id]; !ok {
		return models.ErrWorkOrderNotFound
	}
	delete(m.workOrders, id)
	return nil
}

// ---------------- Halls ----------------

func (m *memRepo) CreateHall(_ context.Context, h models.Hall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.halls[h.ID]; exists {
		return models.ErrDuplicateID
	}
	m.halls[h.ID] = h
	return nil
}

func (m *memRepo) GetHall(_ context.Context, id uuid.UUID) (models.Hall, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.halls[id]
	if !ok {
		return models.Hall{}, models.ErrHallNotFound
	}
	return h, nil
}

func (m *memRepo) ListHalls(_ context.Context) ([]models.Hall, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Hall, 0, len(m.halls))
	for _, h := range m.halls {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRepo) UpdateHall(_ context.Context, h models.Hall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.halls[h.ID]; !ok {
		return models.ErrHallNotFound
	}
	m.halls[h.ID] = h
	return nil
}

func (m *memRepo) DeleteHall(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.halls[id]; !ok {
		return models.ErrHallNotFound
	}
	delete(m.halls, id)
	return nil
}

// ---------------- Assets ----------------

func (m *memRepo) CreateAsset(_ context.Context, a models.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.assets[a.ID]; exists {
		return models.ErrDuplicateID
	}
	a.NextInspection = copyTime(a.NextInspection)
	m.assets[a.ID] = a
	return nil
}

func (m *memRepo) GetAsset(_ context.Context, id uuid.UUID) (models.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assets[id]
	if !ok {
		return models.Asset{}, models.ErrAssetNotFound
	}
	a.NextInspection = copyTime(a.NextInspection)
	return a, nil
}

func (m *memRepo) ListAssets(_ context.Context, kind *models.AssetKind) ([]models.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Asset, 0, len(m.assets))
	for _, a := range m.assets {
		if kind != nil && a.Kind != *kind {
			continue
		}
		a.NextInspection = copyTime(a.NextInspection)
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRepo) UpdateAsset(_ context.Context, a models.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[a.ID]; !ok {
		return models.ErrAssetNotFound
	}
	a.NextInspection = copyTime(a.NextInspection)
	m.assets[a.ID] = a
	return nil
}

func (m *memRepo) DeleteAsset(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[id]; !ok {
		return models.ErrAssetNotFound
	}
	delete(m.assets, id)
	return nil
}
