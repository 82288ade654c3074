package workorder

import (
	"regexp"
	"testing"
	"time"

	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/models"
)

var (
	testNow   = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	idPattern = regexp.MustCompile(`^ORD-2024-\d{4}$`)
)

func TestNewID(t *testing.T) {
	for i := 0; i < 50; i++ {
		id := NewID(testNow)
		if !idPattern.MatchString(id) {
			t.Fatalf("NewID() = %q, expected pattern ORD-<year>-<rand4>", id)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	in := CreateInput{
		Type:        models.TypeVolunteer,
		Title:       "2F washroom leak",
		Description: "water pooling near the sinks",
		Category:    models.CategoryPlumbing,
		Urgency:     models.UrgencyEmergency,
		HallName:    "Taichung Hall",
		Reporter:    "Wang",
	}
	wo := New(in, testNow)

	if wo.Status != models.StatusPending {
		t.Errorf("Status = %q, expected PENDING", wo.Status)
	}
	if wo.IsVerified {
		t.Error("volunteer record should default to unverified")
	}
	if wo.IsDeleted {
		t.Error("new record should not be deleted")
	}
	if !wo.CreatedAt.Equal(testNow) || !wo.UpdatedAt.Equal(testNow) {
		t.Errorf("timestamps = %v/%v, expected %v", wo.CreatedAt, wo.UpdatedAt, testNow)
	}
	if !idPattern.MatchString(wo.ID) {
		t.Errorf("ID = %q, expected ORD-2024-xxxx", wo.ID)
	}
}

func TestNewVerificationDefaults(t *testing.T) {
	tests := []struct {
		name     string
		typ      models.WorkOrderType
		override *bool
		expected bool
	}{
		{"routine defaults verified", models.TypeRoutine, nil, true},
		{"volunteer defaults unverified", models.TypeVolunteer, nil, false},
		{"explicit override wins for routine", models.TypeRoutine, boolPtr(false), false},
		{"explicit override wins for volunteer", models.TypeVolunteer, boolPtr(true), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wo := New(CreateInput{
				Type:        tt.typ,
				Title:       "inspection",
				Description: "monthly inspection",
				Category:    models.CategoryFire,
				Urgency:     models.UrgencyLow,
				HallName:    "Main Hall",
				Reporter:    "Lin",
				IsVerified:  tt.override,
			}, testNow)
			if wo.IsVerified != tt.expected {
				t.Errorf("IsVerified = %v, expected %v", wo.IsVerified, tt.expected)
			}
		})
	}
}

func TestOverdue(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	lastRun := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		mutate   func(*models.WorkOrder)
		expected bool
	}{
		{"routine past cycle is overdue", func(wo *models.WorkOrder) {}, true},
		{"within cycle is not overdue", func(wo *models.WorkOrder) {
			recent := now.AddDate(0, 0, -10)
			wo.LastExecutedDate = &recent
		}, false},
		{"closed records are never overdue", func(wo *models.WorkOrder) {
			wo.Status = models.StatusClosed
		}, false},
		{"volunteer records have no recurrence", func(wo *models.WorkOrder) {
			wo.Type = models.TypeVolunteer
		}, false},
		{"no execution date yet", func(wo *models.WorkOrder) {
			wo.LastExecutedDate = nil
		}, false},
		{"zero cycle disables the check", func(wo *models.WorkOrder) {
			wo.MaintenanceCycle = 0
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wo := models.WorkOrder{
				Type:             models.TypeRoutine,
				Status:           models.StatusPending,
				LastExecutedDate: timePtr(lastRun),
				MaintenanceCycle: 30,
			}
			tt.mutate(&wo)
			if got := wo.Overdue(now); got != tt.expected {
				t.Errorf("Overdue() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestPatchApplyLeavesIdentityAlone(t *testing.T) {
	wo := New(CreateInput{
		Type:        models.TypeRoutine,
		Title:       "AC filter swap",
		Description: "quarterly filter replacement",
		Category:    models.CategoryAC,
		Urgency:     models.UrgencyLow,
		HallName:    "Main Hall",
		Reporter:    "Lin",
	}, testNow)

	method := models.MethodInternal
	patch := Patch{
		ProcessingMethod:      &method,
		ProcessingDescription: strPtr("swapped filters"),
		Remarks:               strPtr("next swap in Q3"),
	}
	merged := patch.Apply(wo)

	if merged.ID != wo.ID || merged.Type != wo.Type || !merged.CreatedAt.Equal(wo.CreatedAt) {
		t.Error("Apply must not touch id, type, or created_at")
	}
	if merged.Status != wo.Status {
		t.Error("Apply must not touch status; only the state machine moves it")
	}
	if merged.ProcessingDescription != "swapped filters" || merged.Remarks != "next swap in Q3" {
		t.Error("Apply dropped patched fields")
	}
	// and the original is untouched
	if wo.ProcessingDescription != "" {
		t.Error("Apply mutated its input")
	}
}
