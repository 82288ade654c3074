// internal/models/types.go
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// WorkOrderType tells how a record entered the system: scheduled recurring
// maintenance vs. an ad hoc report from the field.
type WorkOrderType string

const (
	TypeRoutine   WorkOrderType = "ROUTINE"
	TypeVolunteer WorkOrderType = "VOLUNTEER"
)

// Category is the maintenance domain a work order belongs to.
type Category string

const (
	CategoryAC          Category = "AC"
	CategoryElectrical  Category = "ELECTRICAL"
	CategoryFire        Category = "FIRE"
	CategoryAED         Category = "AED"
	CategoryWeakCurrent Category = "WEAK_CURRENT"
	CategoryPlumbing    Category = "PLUMBING"
	CategoryWater       Category = "WATER"
	CategoryGardening   Category = "GARDENING"
	CategoryDecor       Category = "DECOR"
	CategoryOther       Category = "OTHER"
)

type Urgency string

const (
	UrgencyLow       Urgency = "LOW"
	UrgencyMedium    Urgency = "MEDIUM"
	UrgencyHigh      Urgency = "HIGH"
	UrgencyEmergency Urgency = "EMERGENCY"
)

// Status is the lifecycle state of a work order. The sequence is strictly
// forward: PENDING, IN_PROGRESS, SIGNED, CONSTRUCTION_DONE, CLOSED.
type Status string

const (
	StatusPending          Status = "PENDING"
	StatusInProgress       Status = "IN_PROGRESS"
	StatusSigned           Status = "SIGNED"
	StatusConstructionDone Status = "CONSTRUCTION_DONE"
	StatusClosed           Status = "CLOSED"
)

// Method is the chosen resolution path. INTERNAL work is handled by staff and
// closed in one step; LEGAL work goes through the vendor/sign-off/payment
// stages.
type Method string

const (
	MethodInternal Method = "INTERNAL"
	MethodLegal    Method = "LEGAL"
)

// PhotoMeta carries the capture context of an attached photo.
type PhotoMeta struct {
	TakenAt   time.Time `json:"taken_at"`
	Latitude  float64   `json:"latitude,omitempty"`
	Longitude float64   `json:"longitude,omitempty"`
}

// WorkOrder is the central maintenance record.
type WorkOrder struct {
	ID          string        `json:"id"`
	Type        WorkOrderType `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Category    Category      `json:"category"`
	Urgency     Urgency       `json:"urgency"`
	Status      Status        `json:"status"`
	IsVerified  bool          `json:"is_verified"`
	IsDeleted   bool          `json:"is_deleted"`

	HallName string `json:"hall_name"`
	HallArea string `json:"hall_area,omitempty"`
	Reporter string `json:"reporter"`

	// Processing metadata, populated progressively as the status advances.
	ProcessingMethod      Method     `json:"processing_method,omitempty"`
	ProcessingDescription string     `json:"processing_description,omitempty"`
	Vendor                string     `json:"vendor,omitempty"`
	Amount                *float64   `json:"amount,omitempty"`
	PaymentEntity         string     `json:"payment_entity,omitempty"`
	IsSignedSent          bool       `json:"is_signed_sent"`
	SignedSentDate        *time.Time `json:"signed_sent_date,omitempty"`
	IsWorkFinished        bool       `json:"is_work_finished"`
	CompletionDate        *time.Time `json:"completion_date,omitempty"`
	IsInvoiceConfirmed    bool       `json:"is_invoice_confirmed"`
	IsPaymentSent         bool       `json:"is_payment_sent"`
	PaymentDate           *time.Time `json:"payment_date,omitempty"`
	Remarks               string     `json:"remarks,omitempty"`

	PhotoURLs     []string    `json:"photo_urls,omitempty"`
	PhotoMetadata []PhotoMeta `json:"photo_metadata,omitempty"`

	// Recurrence, ROUTINE records only.
	LastExecutedDate *time.Time `json:"last_executed_date,omitempty"`
	MaintenanceCycle int        `json:"maintenance_cycle,omitempty"`
	StaffInCharge    string     `json:"staff_in_charge,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Overdue reports whether a ROUTINE record has run past its maintenance
// cycle. Closed records are never overdue.
func (w WorkOrder) Overdue(now time.Time) bool {
	if w.Type != TypeRoutine || w.Status == StatusClosed {
		return false
	}
	if w.LastExecutedDate == nil || w.MaintenanceCycle <= 0 {
		return false
	}
	return w.LastExecutedDate.AddDate(0, 0, w.MaintenanceCycle).Before(now)
}

// PendingVerification reports whether the record belongs in the
// verification queue.
func (w WorkOrder) PendingVerification() bool {
	return w.Type == TypeVolunteer && !w.IsDeleted && !w.IsVerified
}

// WorkOrderFilter narrows ListWorkOrders. Nil pointer fields are ignored.
type WorkOrderFilter struct {
	Status   *Status
	Category *Category
	Urgency  *Urgency
	Type     *WorkOrderType
	Verified *bool
	Deleted  *bool
	HallName string
}

// AssetKind distinguishes the equipment registries.
type AssetKind string

const (
	AssetAED            AssetKind = "AED"
	AssetVehicle        AssetKind = "VEHICLE"
	AssetWaterDispenser AssetKind = "WATER_DISPENSER"
)

// Hall is a managed site.
type Hall struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Area      string    `json:"area,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Asset is a registered piece of equipment tied to a hall.
type Asset struct {
	ID             uuid.UUID  `json:"id"`
	Kind           AssetKind  `json:"kind"`
	Name           string     `json:"name"`
	HallName       string     `json:"hall_name,omitempty"`
	Location       string     `json:"location,omitempty"`
	Model          string     `json:"model,omitempty"`
	SerialNumber   string     `json:"serial_number,omitempty"`
	NextInspection *time.Time `json:"next_inspection,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

var (
	ErrWorkOrderNotFound = errors.New("work order not found")
	ErrHallNotFound      = errors.New("hall not found")
	ErrAssetNotFound     = errors.New("asset not found")
	ErrDuplicateID       = errors.New("duplicate id")
)

// ValidCategory reports whether c is one of the closed category set.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryAC, CategoryElectrical, CategoryFire, CategoryAED,
		CategoryWeakCurrent, CategoryPlumbing, CategoryWater,
		CategoryGardening, CategoryDecor, CategoryOther:
		return true
	}
	return false
}

// ValidUrgency reports whether u is a known urgency level.
func ValidUrgency(u Urgency) bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyEmergency:
		return true
	}
	return false
}

// ValidAssetKind reports whether k names a known equipment registry.
func ValidAssetKind(k AssetKind) bool {
	switch k {
	case AssetAED, AssetVehicle, AssetWaterDispenser:
		return true
	}
	return false
}
