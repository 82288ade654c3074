// internal/handlers/workorders/workorders.go
package workorders

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	httpserver "github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/http"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/models"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/workorder"
)

var validate = validator.New()

type Handler struct {
	svc *workorder.Service
}

func New(svc *workorder.Service) *Handler { return &Handler{svc: svc} }

// decode reads a JSON body with the usual size cap and trailing-content check.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)) // 1MB
	if err := dec.Decode(dst); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	if dec.More() {
		httpserver.Error(w, http.StatusBadRequest, "invalid JSON (extra content)")
		return false
	}
	return true
}

type createRequest struct {
	Type        models.WorkOrderType `json:"type" validate:"required,oneof=ROUTINE VOLUNTEER"`
	Title       string               `json:"title" validate:"required"`
	Description string               `json:"description" validate:"required"`
	Category    models.Category      `json:"category" validate:"required"`
	Urgency     models.Urgency       `json:"urgency" validate:"required,oneof=LOW MEDIUM HIGH EMERGENCY"`
	HallName    string               `json:"hall_name" validate:"required"`
	HallArea    string               `json:"hall_area"`
	Reporter    string               `json:"reporter" validate:"required"`
	IsVerified  *bool                `json:"is_verified"`

	PhotoURLs     []string           `json:"photo_urls"`
	PhotoMetadata []models.PhotoMeta `json:"photo_metadata"`

	LastExecutedDate *time.Time `json:"last_executed_date"`
	MaintenanceCycle int        `json:"maintenance_cycle" validate:"gte=0"`
	StaffInCharge    string     `json:"staff_in_charge"`
}

// Create handles POST /work-orders, the office-admin "new request" flow.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}
	wo, err := h.svc.Create(r.Context(), workorder.CreateInput{
		Type:             req.Type,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Urgency:          req.Urgency,
		HallName:         req.HallName,
		HallArea:         req.HallArea,
		Reporter:         req.Reporter,
		IsVerified:       req.IsVerified,
		PhotoURLs:        req.PhotoURLs,
		PhotoMetadata:    req.PhotoMetadata,
		LastExecutedDate: req.LastExecutedDate,
		MaintenanceCycle: req.MaintenanceCycle,
		StaffInCharge:    req.StaffInCharge,
	})
	if err != nil {
		status, msg := httpserver.DomainError(err, "failed to create work order")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusCreated, wo)
}

func parseBool(w http.ResponseWriter, raw, name string) (*bool, bool) {
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		httpserver.Error(w, http.StatusBadRequest, "invalid "+name)
		return nil, false
	}
	return &v, true
}

// List handles GET /work-orders with the dashboard filters. Unverified and
// soft-deleted records stay hidden unless explicitly requested.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var query workorder.ListQuery

	if s := q.Get("status"); s != "" {
		st := models.Status(s)
		query.Status = &st
	}
	if s := q.Get("category"); s != "" {
		c := models.Category(s)
		query.Category = &c
	}
	if s := q.Get("urgency"); s != "" {
		u := models.Urgency(s)
		query.Urgency = &u
	}
	if s := q.Get("type"); s != "" {
		t := models.WorkOrderType(s)
		query.Type = &t
	}
	query.HallName = q.Get("hall")

	var ok bool
	if query.Verified, ok = parseBool(w, q.Get("verified"), "verified"); !ok {
		return
	}
	if query.Deleted, ok = parseBool(w, q.Get("deleted"), "deleted"); !ok {
		return
	}
	overdue, ok := parseBool(w, q.Get("overdue"), "overdue")
	if !ok {
		return
	}
	query.OverdueOnly = overdue != nil && *overdue

	wos, err := h.svc.List(r.Context(), query)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to list work orders")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]any{"content": wos})
}

// Stats handles GET /work-orders/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	httpserver.JSON(w, http.StatusOK, st)
}

// Get handles GET /work-orders/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	wo, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status, msg := httpserver.DomainError(err, "failed to load work order")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusOK, wo)
}

type submitRequest struct {
	IDs         []string        `json:"ids" validate:"required,min=1"`
	Updates     workorder.Patch `json:"updates"`
	ShouldClose bool            `json:"should_close"`
}

// Submit handles POST /work-orders/submit: the single mutation entry point
// every status transition funnels through, for one record or many.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}
	updated, err := h.svc.SubmitWorkReport(r.Context(), req.IDs, req.Updates, req.ShouldClose)
	if err != nil {
		status, msg := httpserver.DomainError(err, "failed to submit work report")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]any{"content": updated})
}

type detailsRequest struct {
	Category         *models.Category `json:"category"`
	Urgency          *models.Urgency  `json:"urgency"`
	Remarks          *string          `json:"remarks"`
	StaffInCharge    *string          `json:"staff_in_charge"`
	MaintenanceCycle *int             `json:"maintenance_cycle"`
}

// EditDetails handles PATCH /work-orders/{id}: the operator edits that never
// move status (category, urgency, remarks, staffing, cycle).
func (h *Handler) EditDetails(w http.ResponseWriter, r *http.Request) {
	var req detailsRequest
	if !decode(w, r, &req) {
		return
	}
	patch := workorder.Patch{
		Category:         req.Category,
		Urgency:          req.Urgency,
		Remarks:          req.Remarks,
		StaffInCharge:    req.StaffInCharge,
		MaintenanceCycle: req.MaintenanceCycle,
	}
	updated, err := h.svc.SubmitWorkReport(r.Context(), []string{chi.URLParam(r, "id")}, patch, false)
	if err != nil {
		status, msg := httpserver.DomainError(err, "failed to update work order")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusOK, updated[0])
}

// Confirm handles POST /work-orders/{id}/confirm: the operator acknowledges
// a pending request and takes it into IN_PROGRESS.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	wo, err := h.svc.Confirm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status, msg := httpserver.DomainError(err, "failed to confirm work order")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusOK, wo)
}

// Verify handles POST /work-orders/{id}/verify.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	wo, err := h.svc.Verify(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status, msg := httpserver.DomainError(err, "failed to verify work order")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusOK, wo)
}

// SoftDelete handles DELETE /work-orders/{id}.
func (h *Handler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	wo, err := h.svc.SoftDelete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status, msg := httpserver.DomainError(err, "failed to delete work order")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusOK, wo)
}

// Restore handles POST /work-orders/{id}/restore.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	wo, err := h.svc.Restore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status, msg := httpserver.DomainError(err, "failed to restore work order")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusOK, wo)
}

// PermanentDelete handles DELETE /work-orders/{id}/permanent.
func (h *Handler) PermanentDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.PermanentDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		status, msg := httpserver.DomainError(err, "failed to delete work order")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type executedRequest struct {
	Date time.Time `json:"date" validate:"required"`
}

// MarkExecuted handles POST /work-orders/{id}/executed for ROUTINE records.
func (h *Handler) MarkExecuted(w http.ResponseWriter, r *http.Request) {
	var req executedRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}
	wo, err := h.svc.MarkExecuted(r.Context(), chi.URLParam(r, "id"), req.Date)
	if err != nil {
		status, msg := httpserver.DomainError(err, "failed to record execution")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusOK, wo)
}

// Requirements handles GET /work-orders/transitions: the checklist a form
// renderer needs for a given method + target status.
func (h *Handler) Requirements(w http.ResponseWriter, r *http.Request) {
	method := models.Method(r.URL.Query().Get("method"))
	target := models.Status(r.URL.Query().Get("target"))
	if method != models.MethodInternal && method != models.MethodLegal {
		httpserver.Error(w, http.StatusBadRequest, "unknown processing method")
		return
	}
	if !workorder.KnownStatus(target) {
		httpserver.Error(w, http.StatusBadRequest, "unknown target status")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]any{
		"method":          method,
		"target":          target,
		"required_fields": workorder.RequiredFields(method, target),
	})
}
