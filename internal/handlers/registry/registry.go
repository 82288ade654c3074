// internal/handlers/registry/registry.go
package registry

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	httpserver "github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/http"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/models"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/repo"
)

var validate = validator.New()

// Handler serves the hall and equipment registries.
type Handler struct {
	repo repo.Repo
}

func New(r repo.Repo) *Handler { return &Handler{repo: r} }

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

func urlID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpserver.Error(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// ---------------- Halls ----------------

type hallRequest struct {
	Name    string `json:"name" validate:"required"`
	Area    string `json:"area"`
	Address string `json:"address"`
}

func (h *Handler) CreateHall(w http.ResponseWriter, r *http.Request) {
	var req hallRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}
	now := time.Now()
	hall := models.Hall{
		ID:        uuid.New(),
		Name:      req.Name,
		Area:      req.Area,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.repo.CreateHall(r.Context(), hall); err != nil {
		status, msg := httpserver.DomainError(err, "failed to create hall")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusCreated, hall)
}

func (h *Handler) ListHalls(w http.ResponseWriter, r *http.Request) {
	halls, err := h.repo.ListHalls(r.Context())
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to list halls")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]any{"content": halls})
}

func (h *Handler) GetHall(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	hall, err := h.repo.GetHall(r.Context(), id)
	if err != nil {
		status, msg := httpserver.DomainError(err, "failed to load hall")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusOK, hall)
}

func (h *Handler) UpdateHall(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req hallRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}
	hall, err := h.repo.GetHall(r.Context(), id)
	if err != nil {
		status, msg := httpserver.DomainError(err, "failed to load hall")
		httpserver.Error(w, status, msg)
		return
	}
	hall.Name = req.Name
	hall.Area = req.Area
	hall.Address = req.Address
	hall.UpdatedAt = time.Now()
	if err := h.repo.UpdateHall(r.Context(), hall); err != nil {
		status, msg := httpserver.DomainError(err, "failed to update hall")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusOK, hall)
}

func (h *Handler) DeleteHall(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.repo.DeleteHall(r.Context(), id); err != nil {
		status, msg := httpserver.DomainError(err, "failed to delete hall")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ---------------- Assets ----------------

type assetRequest struct {
	Kind           models.AssetKind `json:"kind" validate:"required,oneof=AED VEHICLE WATER_DISPENSER"`
	Name           string           `json:"name" validate:"required"`
	HallName       string           `json:"hall_name"`
	Location       string           `json:"location"`
	Model          string           `json:"model"`
	SerialNumber   string           `json:"serial_number"`
	NextInspection *time.Time       `json:"next_inspection"`
	Notes          string           `json:"notes"`
}

func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}
	now := time.Now()
	asset := models.Asset{
		ID:             uuid.New(),
		Kind:           req.Kind,
		Name:           req.Name,
		HallName:       req.HallName,
		Location:       req.Location,
		Model:          req.Model,
		SerialNumber:   req.SerialNumber,
		NextInspection: req.NextInspection,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.repo.CreateAsset(r.Context(), asset); err != nil {
		status, msg := httpserver.DomainError(err, "failed to create asset")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusCreated, asset)
}

func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	var kind *models.AssetKind
	if s := r.URL.Query().Get("kind"); s != "" {
		k := models.AssetKind(s)
		if !models.ValidAssetKind(k) {
			httpserver.Error(w, http.StatusBadRequest, "unknown asset kind")
			return
		}
		kind = &k
	}
	assets, err := h.repo.ListAssets(r.Context(), kind)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to list assets")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]any{"content": assets})
}

func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	asset, err := h.repo.GetAsset(r.Context(), id)
	if err != nil {
		status, msg := httpserver.DomainError(err, "failed to load asset")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusOK, asset)
}

func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req assetRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}
	asset, err := h.repo.GetAsset(r.Context(), id)
	if err != nil {
		status, msg := httpserver.DomainError(err, "failed to load asset")
		httpserver.Error(w, status, msg)
		return
	}
	asset.Kind = req.Kind
	asset.Name = req.Name
	asset.HallName = req.HallName
	asset.Location = req.Location
	asset.Model = req.Model
	asset.SerialNumber = req.SerialNumber
	asset.NextInspection = req.NextInspection
	asset.Notes = req.Notes
	asset.UpdatedAt = time.Now()
	if err := h.repo.UpdateAsset(r.Context(), asset); err != nil {
		status, msg := httpserver.DomainError(err, "failed to update asset")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusOK, asset)
}

func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.repo.DeleteAsset(r.Context(), id); err != nil {
		status, msg := httpserver.DomainError(err, "failed to delete asset")
		httpserver.Error(w, status, msg)
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
