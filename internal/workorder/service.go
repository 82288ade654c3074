package workorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/models"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/repo"
)

// Service owns every work-order mutation. Status never changes except
// through SubmitWorkReport, which runs the state machine over the merged
// record before anything is written.
type Service struct {
	repo repo.Repo
	now  func() time.Time
}

func NewService(r repo.Repo) *Service {
	return &Service{repo: r, now: time.Now}
}

// NewServiceWithClock is used by tests that need a fixed clock.
func NewServiceWithClock(r repo.Repo, now func() time.Time) *Service {
	return &Service{repo: r, now: now}
}

const createAttempts = 5

// Create builds and persists a new work order. The short human-facing id can
// collide, so creation retries with a fresh id on a duplicate.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.WorkOrder, error) {
	if in.Type != models.TypeRoutine && in.Type != models.TypeVolunteer {
		return models.WorkOrder{}, fmt.Errorf("%w: type %q", ErrInvalidValue, in.Type)
	}
	if !models.ValidCategory(in.Category) {
		return models.WorkOrder{}, fmt.Errorf("%w: category %q", ErrInvalidValue, in.Category)
	}
	if !models.ValidUrgency(in.Urgency) {
		return models.WorkOrder{}, fmt.Errorf("%w: urgency %q", ErrInvalidValue, in.Urgency)
	}

	now := s.now()
	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		wo := New(in, now)
		err = s.repo.CreateWorkOrder(ctx, wo)
		if errors.Is(err, models.ErrDuplicateID) {
			continue
		}
		if err != nil {
			return models.WorkOrder{}, err
		}
		slog.InfoContext(ctx, "work order created", "id", wo.ID, "type", wo.Type, "category", wo.Category)
		return wo, nil
	}
	return models.WorkOrder{}, err
}

// Get returns one record by id.
func (s *Service) Get(ctx context.Context, id string) (models.WorkOrder, error) {
	return s.repo.GetWorkOrder(ctx, id)
}

// ListQuery narrows List. Zero value lists the primary view: verified,
// not deleted, all statuses.
type ListQuery struct {
	models.WorkOrderFilter
	OverdueOnly bool
}

// List returns work orders for the primary views. Unverified and soft-deleted
// records are hidden unless the query asks for them explicitly.
func (s *Service) List(ctx context.Context, q ListQuery) ([]models.WorkOrder, error) {
	if q.Verified == nil {
		t := true
		q.Verified = &t
	}
	if q.Deleted == nil {
		f := false
		q.Deleted = &f
	}
	wos, err := s.repo.ListWorkOrders(ctx, q.WorkOrderFilter)
	if err != nil {
		return nil, err
	}
	if !q.OverdueOnly {
		return wos, nil
	}
	now := s.now()
	out := make([]models.WorkOrder, 0, len(wos))
	for _, wo := range wos {
		if wo.Overdue(now) {
			out = append(out, wo)
		}
	}
	return out, nil
}

// PendingVerification returns the queue of volunteer reports awaiting
// promotion.
func (s *Service) PendingVerification(ctx context.Context) ([]models.WorkOrder, error) {
	typ := models.TypeVolunteer
	verified := false
	deleted := false
	return s.repo.ListWorkOrders(ctx, models.WorkOrderFilter{
		Type:     &typ,
		Verified: &verified,
		Deleted:  &deleted,
	})
}

// SubmitWorkReport applies one validated patch to every targeted record and
// advances each record's status per the state machine. Records already
// CLOSED are skipped; if nothing remains eligible, ErrNoEligible is returned
// and no state changes. Any transition refusal aborts the whole batch before
// a single write happens.
func (s *Service) SubmitWorkReport(ctx context.Context, ids []string, patch Patch, shouldClose bool) ([]models.WorkOrder, error) {
	if len(ids) == 0 {
		return nil, ErrNoEligible
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	now := s.now()
	updated := make([]models.WorkOrder, 0, len(ids))
	for _, id := range ids {
		wo, err := s.repo.GetWorkOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		if wo.Status == models.StatusClosed {
			continue
		}
		merged := patch.Apply(wo)
		next, terr := NextStatus(merged, shouldClose)
		if terr != nil {
			return nil, terr
		}
		merged.Status = next
		merged.UpdatedAt = now
		updated = append(updated, merged)
	}
	if len(updated) == 0 {
		return nil, ErrNoEligible
	}
	if err := s.repo.UpdateWorkOrders(ctx, updated); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "work report submitted",
		"targets", len(ids), "updated", len(updated), "close", shouldClose)
	return updated, nil
}

func validatePatch(p Patch) error {
	if p.Category != nil && !models.ValidCategory(*p.Category) {
		return fmt.Errorf("%w: category %q", ErrInvalidValue, *p.Category)
	}
	if p.Urgency != nil && !models.ValidUrgency(*p.Urgency) {
		return fmt.Errorf("%w: urgency %q", ErrInvalidValue, *p.Urgency)
	}
	if p.ProcessingMethod != nil {
		if m := *p.ProcessingMethod; m != models.MethodInternal && m != models.MethodLegal {
			return fmt.Errorf("%w: processing method %q", ErrInvalidValue, m)
		}
	}
	return nil
}

// Confirm records an operator accepting a pending request, moving it into
// IN_PROGRESS through the state machine. The INTERNAL path and records with
// no processing method yet have no other way into that state.
func (s *Service) Confirm(ctx context.Context, id string) (models.WorkOrder, error) {
	wo, err := s.repo.GetWorkOrder(ctx, id)
	if err != nil {
		return models.WorkOrder{}, err
	}
	next, terr := Acknowledge(wo)
	if terr != nil {
		return models.WorkOrder{}, terr
	}
	wo.Status = next
	wo.UpdatedAt = s.now()
	if err := s.repo.UpdateWorkOrder(ctx, wo); err != nil {
		return models.WorkOrder{}, err
	}
	slog.InfoContext(ctx, "work order confirmed", "id", id, "status", next)
	return wo, nil
}

// Verify promotes a volunteer report into the managed work-order set. Only
// the verification flag and timestamp change; verifying twice is a no-op
// beyond the timestamp refresh.
func (s *Service) Verify(ctx context.Context, id string) (models.WorkOrder, error) {
	wo, err := s.repo.GetWorkOrder(ctx, id)
	if err != nil {
		return models.WorkOrder{}, err
	}
	wo.IsVerified = true
	wo.UpdatedAt = s.now()
	if err := s.repo.UpdateWorkOrder(ctx, wo); err != nil {
		return models.WorkOrder{}, err
	}
	slog.InfoContext(ctx, "work order verified", "id", id)
	return wo, nil
}

// Reject removes an unvetted report entirely. Unlike SoftDelete this is a
// hard delete; the confirmation dialog lives with the caller.
func (s *Service) Reject(ctx context.Context, id string) error {
	if err := s.repo.DeleteWorkOrder(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "report rejected", "id", id)
	return nil
}

// SoftDelete hides a record from the primary views. The record stays in
// storage until PermanentDelete.
func (s *Service) SoftDelete(ctx context.Context, id string) (models.WorkOrder, error) {
	return s.setDeleted(ctx, id, true)
}

// Restore brings a soft-deleted record back exactly as it was.
func (s *Service) Restore(ctx context.Context, id string) (models.WorkOrder, error) {
	return s.setDeleted(ctx, id, false)
}

func (s *Service) setDeleted(ctx context.Context, id string, deleted bool) (models.WorkOrder, error) {
	wo, err := s.repo.GetWorkOrder(ctx, id)
	if err != nil {
		return models.WorkOrder{}, err
	}
	wo.IsDeleted = deleted
	wo.UpdatedAt = s.now()
	if err := s.repo.UpdateWorkOrder(ctx, wo); err != nil {
		return models.WorkOrder{}, err
	}
	return wo, nil
}

// PermanentDelete removes a record from storage for good.
func (s *Service) PermanentDelete(ctx context.Context, id string) error {
	if err := s.repo.DeleteWorkOrder(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "work order permanently deleted", "id", id)
	return nil
}

// MarkExecuted records a completed maintenance run on a ROUTINE record,
// resetting its recurrence clock.
func (s *Service) MarkExecuted(ctx context.Context, id string, date time.Time) (models.WorkOrder, error) {
	wo, err := s.repo.GetWorkOrder(ctx, id)
	if err != nil {
		return models.WorkOrder{}, err
	}
	if wo.Type != models.TypeRoutine {
		return models.WorkOrder{}, ErrNotRoutine
	}
	wo.LastExecutedDate = &date
	wo.UpdatedAt = s.now()
	if err := s.repo.UpdateWorkOrder(ctx, wo); err != nil {
		return models.WorkOrder{}, err
	}
	return wo, nil
}

// Stats summarizes the dashboard numbers over the primary (verified, not
// deleted) record set.
type Stats struct {
	Total      int                     `json:"total"`
	ByStatus   map[models.Status]int   `json:"by_status"`
	ByCategory map[models.Category]int `json:"by_category"`
	Overdue    int                     `json:"overdue"`
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	wos, err := s.List(ctx, ListQuery{})
	if err != nil {
		return Stats{}, err
	}
	st := Stats{
		ByStatus:   make(map[models.Status]int),
		ByCategory: make(map[models.Category]int),
	}
	now := s.now()
	for _, wo := range wos {
		st.Total++
		st.ByStatus[wo.Status]++
		st.ByCategory[wo.Category]++
		if wo.Overdue(now) {
			st.Overdue++
		}
	}
	return st, nil
}
