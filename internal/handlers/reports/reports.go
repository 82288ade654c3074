// internal/handlers/reports/reports.go
package reports

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	httpserver "github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/http"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/models"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/workorder"
)

var validate = validator.New()

// Handler covers the mobile/volunteer submission flow and the verification
// queue it feeds.
type Handler struct {
	svc *workorder.Service
}

func New(svc *workorder.Service) *Handler { return &Handler{svc: svc} }

type submitReportRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Category    models.Category `json:"category" validate:"required"`
	Urgency     models.Urgency  `json:"urgency" validate:"required,oneof=LOW MEDIUM HIGH EMERGENCY"`
	HallName    string          `json:"hall_name" validate:"required"`
	HallArea    string          `json:"hall_area"`
	Reporter    string          `json:"reporter" validate:"required"`

	PhotoURLs     []string           `json:"photo_urls"`
	PhotoMetadata []models.PhotoMeta `json:"photo_metadata"`
}

// Submit handles POST /reports. Reports always enter unverified as VOLUNTEER
// records and wait in the verification queue.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req submitReportRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)) // 1MB
	if err := dec.Decode(&req); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if dec.More() {
		httpserver.Error(w, http.StatusBadRequest, "invalid JSON (extra content)")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	unverified := false
	wo, err := h.svc.Create(r.Context(), workorder.CreateInput{
		Type:          models.TypeVolunteer,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Urgency:       req.Urgency,
		HallName:      req.HallName,
		HallArea:      req.HallArea,
		Reporter:      req.Reporter,
		IsVerified:    &unverified,
		PhotoURLs:     req.PhotoURLs,
		PhotoMetadata: req.PhotoMetadata,
	})
	if err != nil {
		status, msg := httpserver.DomainError(err, "failed to submit report")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusCreated, wo)
}

// Pending handles GET /reports/pending: the verification queue.
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	wos, err := h.svc.PendingVerification(r.Context())
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to list pending reports")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]any{"content": wos})
}

// Reject handles DELETE /reports/{id}: a hard delete of an unvetted report.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reject(r.Context(), chi.URLParam(r, "id")); err != nil {
		status, msg := httpserver.DomainError(err, "failed to reject report")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}
