package workorder

import (
	"time"

	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/models"
)

// Patch is the set of field updates a work-report form submits. Nil fields
// are left untouched on the record. Identity fields (id, type, created_at),
// status, verification and deletion flags are deliberately absent: those
// change only through their dedicated service operations.
type Patch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *models.Category `json:"category,omitempty"`
	Urgency     *models.Urgency  `json:"urgency,omitempty"`
	HallName    *string          `json:"hall_name,omitempty"`
	HallArea    *string          `json:"hall_area,omitempty"`
	Reporter    *string          `json:"reporter,omitempty"`

	ProcessingMethod      *models.Method `json:"processing_method,omitempty"`
	ProcessingDescription *string        `json:"processing_description,omitempty"`
	Vendor                *string        `json:"vendor,omitempty"`
	Amount                *float64       `json:"amount,omitempty"`
	PaymentEntity         *string        `json:"payment_entity,omitempty"`
	IsSignedSent          *bool          `json:"is_signed_sent,omitempty"`
	SignedSentDate        *time.Time     `json:"signed_sent_date,omitempty"`
	IsWorkFinished        *bool          `json:"is_work_finished,omitempty"`
	CompletionDate        *time.Time     `json:"completion_date,omitempty"`
	IsInvoiceConfirmed    *bool          `json:"is_invoice_confirmed,omitempty"`
	IsPaymentSent         *bool          `json:"is_payment_sent,omitempty"`
	PaymentDate           *time.Time     `json:"payment_date,omitempty"`
	Remarks               *string        `json:"remarks,omitempty"`

	PhotoURLs     []string           `json:"photo_urls,omitempty"`
	PhotoMetadata []models.PhotoMeta `json:"photo_metadata,omitempty"`

	LastExecutedDate *time.Time `json:"last_executed_date,omitempty"`
	MaintenanceCycle *int       `json:"maintenance_cycle,omitempty"`
	StaffInCharge    *string    `json:"staff_in_charge,omitempty"`
}

// Apply merges the patch onto a copy of the record and returns it. The
// record's id, type, created timestamp, status and flags are never touched
// here.
func (p Patch) Apply(wo models.WorkOrder) models.WorkOrder {
	if p.Title != nil {
		wo.Title = *p.Title
	}
	if p.Description != nil {
		wo.Description = *p.Description
	}
	if p.Category != nil {
		wo.Category = *p.Category
	}
	if p.Urgency != nil {
		wo.Urgency = *p.Urgency
	}
	if p.HallName != nil {
		wo.HallName = *p.HallName
	}
	if p.HallArea != nil {
		wo.HallArea = *p.HallArea
	}
	if p.Reporter != nil {
		wo.Reporter = *p.Reporter
	}
	if p.ProcessingMethod != nil {
		wo.ProcessingMethod = *p.ProcessingMethod
	}
	if p.ProcessingDescription != nil {
		wo.ProcessingDescription = *p.ProcessingDescription
	}
	if p.Vendor != nil {
		wo.Vendor = *p.Vendor
	}
	if p.Amount != nil {
		v := *p.Amount
		wo.Amount = &v
	}
	if p.PaymentEntity != nil {
		wo.PaymentEntity = *p.PaymentEntity
	}
	if p.IsSignedSent != nil {
		wo.IsSignedSent = *p.IsSignedSent
	}
	if p.SignedSentDate != nil {
		t := *p.SignedSentDate
		wo.SignedSentDate = &t
	}
	if p.IsWorkFinished != nil {
		wo.IsWorkFinished = *p.IsWorkFinished
	}
	if p.CompletionDate != nil {
		t := *p.CompletionDate
		wo.CompletionDate = &t
	}
	if p.IsInvoiceConfirmed != nil {
		wo.IsInvoiceConfirmed = *p.IsInvoiceConfirmed
	}
	if p.IsPaymentSent != nil {
		wo.IsPaymentSent = *p.IsPaymentSent
	}
	if p.PaymentDate != nil {
		t := *p.PaymentDate
		wo.PaymentDate = &t
	}
	if p.Remarks != nil {
		wo.Remarks = *p.Remarks
	}
	if p.PhotoURLs != nil {
		wo.PhotoURLs = append([]string(nil), p.PhotoURLs...)
	}
	if p.PhotoMetadata != nil {
		wo.PhotoMetadata = append([]models.PhotoMeta(nil), p.PhotoMetadata...)
	}
	if p.LastExecutedDate != nil {
		t := *p.LastExecutedDate
		wo.LastExecutedDate = &t
	}
	if p.MaintenanceCycle != nil {
		wo.MaintenanceCycle = *p.MaintenanceCycle
	}
	if p.StaffInCharge != nil {
		wo.StaffInCharge = *p.StaffInCharge
	}
	return wo
}
