package workorder

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/models"
)

// CreateInput carries the caller-supplied fields for a new work order.
// Everything else is defaulted by New.
type CreateInput struct {
	Type        models.WorkOrderType
	Title       string
	Description string
	Category    models.Category
	Urgency     models.Urgency
	HallName    string
	HallArea    string
	Reporter    string

	// IsVerified, when set, overrides the type-based default
	// (ROUTINE records verified, VOLUNTEER records not).
	IsVerified *bool

	PhotoURLs     []string
	PhotoMetadata []models.PhotoMeta

	LastExecutedDate *time.Time
	MaintenanceCycle int
	StaffInCharge    string
}

// NewID builds a work-order id of the form ORD-<year>-<rand4>. Collisions are
// possible; callers retry on a duplicate-id error from storage.
func NewID(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%04d", now.Year(), rand.Intn(10000))
}

// New constructs a work order with defaults applied: status PENDING, not
// deleted, timestamps set to now, verification defaulted by type unless the
// caller overrides it.
func New(in CreateInput, now time.Time) models.WorkOrder {
	verified := in.Type == models.TypeRoutine
	if in.IsVerified != nil {
		verified = *in.IsVerified
	}
	return models.WorkOrder{
		ID:          NewID(now),
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Urgency:     in.Urgency,
		Status:      models.StatusPending,
		IsVerified:  verified,
		IsDeleted:   false,
		HallName:    in.HallName,
		HallArea:    in.HallArea,
		Reporter:    in.Reporter,

		PhotoURLs:     append([]string(nil), in.PhotoURLs...),
		PhotoMetadata: append([]models.PhotoMeta(nil), in.PhotoMetadata...),

		LastExecutedDate: in.LastExecutedDate,
		MaintenanceCycle: in.MaintenanceCycle,
		StaffInCharge:    in.StaffInCharge,

		CreatedAt: now,
		UpdatedAt: now,
	}
}
