package workorder

import (
	"testing"
	"time"

	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/models"
)

func strPtr(s string) *string        { return &s }
func floatPtr(f float64) *float64    { return &f }
func boolPtr(b bool) *bool           { return &b }
func timePtr(t time.Time) *time.Time { return &t }

func baseOrder(status models.Status, method models.Method) models.WorkOrder {
	return models.WorkOrder{
		ID:               "ORD-2024-0001",
		Type:             models.TypeVolunteer,
		Title:            "2F washroom leak",
		Category:         models.CategoryPlumbing,
		Urgency:          models.UrgencyEmergency,
		Status:           status,
		ProcessingMethod: method,
		Reporter:         "Wang",
	}
}

func TestAcknowledge(t *testing.T) {
	tests := []struct {
		name        string
		status      models.Status
		want        models.Status
		wantErrKind ErrorKind
	}{
		{name: "pending is taken into progress", status: models.StatusPending, want: models.StatusInProgress},
		{name: "in_progress stays put", status: models.StatusInProgress, want: models.StatusInProgress},
		{name: "signed is never pulled back", status: models.StatusSigned, wantErrKind: KindBackward},
		{name: "construction_done is never pulled back", status: models.StatusConstructionDone, wantErrKind: KindBackward},
		{name: "closed is immutable", status: models.StatusClosed, wantErrKind: KindClosed},
		{name: "unknown status is refused", status: models.Status("ARCHIVED"), wantErrKind: KindUnknownStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, terr := Acknowledge(baseOrder(tt.status, ""))
			if tt.wantErrKind != "" {
				if terr == nil || terr.Kind != tt.wantErrKind {
					t.Fatalf("Acknowledge() error = %v, expected kind %q", terr, tt.wantErrKind)
				}
				return
			}
			if terr != nil {
				t.Fatalf("Acknowledge() unexpected error: %v", terr)
			}
			if got != tt.want {
				t.Errorf("Acknowledge() = %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestNextStatusInternal(t *testing.T) {
	done := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	complete := baseOrder(models.StatusPending, models.MethodInternal)
	complete.CompletionDate = &done
	complete.ProcessingDescription = "replaced valve"

	tests := []struct {
		name        string
		wo          func() models.WorkOrder
		shouldClose bool
		want        models.Status
		wantErrKind ErrorKind
		wantField   string
	}{
		{
			name:        "complete batch closes from pending",
			wo:          func() models.WorkOrder { return complete },
			shouldClose: true,
			want:        models.StatusClosed,
		},
		{
			name: "complete batch closes from in_progress",
			wo: func() models.WorkOrder {
				wo := complete
				wo.Status = models.StatusInProgress
				return wo
			},
			shouldClose: true,
			want:        models.StatusClosed,
		},
		{
			name: "complete batch closes even without explicit close flag",
			wo:   func() models.WorkOrder { return complete },
			want: models.StatusClosed,
		},
		{
			name: "missing completion date refuses close",
			wo: func() models.WorkOrder {
				wo := complete
				wo.CompletionDate = nil
				return wo
			},
			shouldClose: true,
			wantErrKind: KindMissingField,
			wantField:   FieldCompletionDate,
		},
		{
			name: "missing description refuses close",
			wo: func() models.WorkOrder {
				wo := complete
				wo.ProcessingDescription = ""
				return wo
			},
			shouldClose: true,
			wantErrKind: KindMissingField,
			wantField:   FieldProcessingDescription,
		},
		{
			name: "incomplete save without close keeps status",
			wo: func() models.WorkOrder {
				wo := complete
				wo.CompletionDate = nil
				return wo
			},
			want: models.StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, terr := NextStatus(tt.wo(), tt.shouldClose)
			if tt.wantErrKind != "" {
				if terr == nil {
					t.Fatalf("NextStatus() error = nil, expected kind %q", tt.wantErrKind)
				}
				if terr.Kind != tt.wantErrKind {
					t.Errorf("error kind = %q, expected %q", terr.Kind, tt.wantErrKind)
				}
				if tt.wantField != "" && terr.Field != tt.wantField {
					t.Errorf("error field = %q, expected %q", terr.Field, tt.wantField)
				}
				return
			}
			if terr != nil {
				t.Fatalf("NextStatus() unexpected error: %v", terr)
			}
			if got != tt.want {
				t.Errorf("NextStatus() = %q, expected %q", got, tt.want)
			}
		})
	}
}

// legalAtStage builds a LEGAL record with the given stages filled in.
func legalAtStage(status models.Status, stages int) models.WorkOrder {
	wo := baseOrder(status, models.MethodLegal)
	if stages >= 1 {
		wo.Vendor = "Chen & Sons Plumbing"
		wo.Amount = floatPtr(12000)
		wo.ProcessingDescription = "replace main valve"
	}
	if stages >= 2 {
		wo.IsSignedSent = true
		wo.SignedSentDate = timePtr(time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC))
	}
	if stages >= 3 {
		wo.PaymentEntity = "Taichung branch"
		wo.IsWorkFinished = true
		wo.CompletionDate = timePtr(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	}
	if stages >= 4 {
		wo.IsInvoiceConfirmed = true
		wo.IsPaymentSent = true
		wo.PaymentDate = timePtr(time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC))
	}
	return wo
}

func TestNextStatusLegal(t *testing.T) {
	tests := []struct {
		name        string
		wo          models.WorkOrder
		shouldClose bool
		want        models.Status
		wantErrKind ErrorKind
		wantField   string
	}{
		{
			name: "stage 1 complete advances to in_progress",
			wo:   legalAtStage(models.StatusPending, 1),
			want: models.StatusInProgress,
		},
		{
			name: "stage 1 without amount stays pending",
			wo: func() models.WorkOrder {
				wo := legalAtStage(models.StatusPending, 1)
				wo.Amount = nil
				return wo
			}(),
			want: models.StatusPending,
		},
		{
			name: "stage 2 complete advances to signed",
			wo:   legalAtStage(models.StatusInProgress, 2),
			want: models.StatusSigned,
		},
		{
			name: "stage 2 fields without stage 1 do not count",
			wo: func() models.WorkOrder {
				wo := baseOrder(models.StatusPending, models.MethodLegal)
				wo.IsSignedSent = true
				wo.SignedSentDate = timePtr(time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC))
				return wo
			}(),
			want: models.StatusPending,
		},
		{
			name: "stage 3 complete advances to construction_done",
			wo:   legalAtStage(models.StatusSigned, 3),
			want: models.StatusConstructionDone,
		},
		{
			name:        "stage 4 complete closes",
			wo:          legalAtStage(models.StatusConstructionDone, 4),
			shouldClose: true,
			want:        models.StatusClosed,
		},
		{
			name:        "close before invoice confirmation refused",
			wo:          legalAtStage(models.StatusConstructionDone, 3),
			shouldClose: true,
			wantErrKind: KindMissingField,
			wantField:   FieldIsInvoiceConfirmed,
		},
		{
			name:        "close at stage 1 names the sign-off gap",
			wo:          legalAtStage(models.StatusInProgress, 1),
			shouldClose: true,
			wantErrKind: KindMissingField,
			wantField:   FieldIsSignedSent,
		},
		{
			name: "later save of earlier fields never moves backwards",
			wo: func() models.WorkOrder {
				// Record already SIGNED, but stage-1 vendor got cleared.
				wo := legalAtStage(models.StatusSigned, 2)
				wo.Vendor = ""
				return wo
			}(),
			want: models.StatusSigned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, terr := NextStatus(tt.wo, tt.shouldClose)
			if tt.wantErrKind != "" {
				if terr == nil {
					t.Fatalf("NextStatus() error = nil, expected kind %q", tt.wantErrKind)
				}
				if terr.Kind != tt.wantErrKind {
					t.Errorf("error kind = %q, expected %q", terr.Kind, tt.wantErrKind)
				}
				if tt.wantField != "" && terr.Field != tt.wantField {
					t.Errorf("error field = %q, expected %q", terr.Field, tt.wantField)
				}
				return
			}
			if terr != nil {
				t.Fatalf("NextStatus() unexpected error: %v", terr)
			}
			if got != tt.want {
				t.Errorf("NextStatus() = %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestNextStatusGuards(t *testing.T) {
	t.Run("closed record refuses any transition", func(t *testing.T) {
		wo := legalAtStage(models.StatusClosed, 4)
		_, terr := NextStatus(wo, false)
		if terr == nil || terr.Kind != KindClosed {
			t.Fatalf("NextStatus() on closed record = %v, expected KindClosed", terr)
		}
	})
	t.Run("close without a method is refused", func(t *testing.T) {
		wo := baseOrder(models.StatusPending, "")
		_, terr := NextStatus(wo, true)
		if terr == nil || terr.Kind != KindNoMethod {
			t.Fatalf("NextStatus() = %v, expected KindNoMethod", terr)
		}
	})
	t.Run("plain save without a method keeps status", func(t *testing.T) {
		wo := baseOrder(models.StatusPending, "")
		got, terr := NextStatus(wo, false)
		if terr != nil {
			t.Fatalf("NextStatus() unexpected error: %v", terr)
		}
		if got != models.StatusPending {
			t.Errorf("NextStatus() = %q, expected PENDING", got)
		}
	})
	t.Run("unknown status on record is refused", func(t *testing.T) {
		wo := baseOrder(models.Status("DRAFT"), models.MethodInternal)
		_, terr := NextStatus(wo, false)
		if terr == nil || terr.Kind != KindUnknownStatus {
			t.Fatalf("NextStatus() = %v, expected KindUnknownStatus", terr)
		}
	})
}

func TestRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		method models.Method
		target models.Status
		want   []string
	}{
		{"internal close checklist", models.MethodInternal, models.StatusClosed,
			[]string{FieldCompletionDate, FieldReporter, FieldProcessingDescription}},
		{"internal has no intermediate stages", models.MethodInternal, models.StatusSigned, nil},
		{"legal stage 1", models.MethodLegal, models.StatusInProgress,
			[]string{FieldVendor, FieldAmount, FieldProcessingDescription, FieldReporter}},
		{"legal stage 2", models.MethodLegal, models.StatusSigned,
			[]string{FieldIsSignedSent, FieldSignedSentDate}},
		{"legal stage 3", models.MethodLegal, models.StatusConstructionDone,
			[]string{FieldPaymentEntity, FieldIsWorkFinished, FieldCompletionDate}},
		{"legal stage 4", models.MethodLegal, models.StatusClosed,
			[]string{FieldIsInvoiceConfirmed, FieldIsPaymentSent, FieldPaymentDate}},
		{"no method no checklist", "", models.StatusClosed, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequiredFields(tt.method, tt.target)
			if len(got) != len(tt.want) {
				t.Fatalf("RequiredFields() = %v, expected %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("RequiredFields()[%d] = %q, expected %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
