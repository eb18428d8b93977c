package referral

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mkamran-dev/storefront-backend/internal/logger"
	"github.com/mkamran-dev/storefront-backend/internal/middleware"
	"github.com/mkamran-dev/storefront-backend/internal/types/referral"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type verifyReq struct {
	Code string `json:"code"`
}

type verifyResp struct {
	Valid              bool    `json:"valid"`
	DiscountPercentage float64 `json:"discountPercentage"`
}

// Verify is the public storefront check; it never consumes a use.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if req.Code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}

	discount, err := h.svc.Verify(r.Context(), req.Code)
	switch err {
	case nil:
	case ErrCodeNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case ErrCodeExpired:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(verifyResp{Valid: true, DiscountPercentage: discount})
}

func (h *Handler) ListCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if codes == nil {
		codes = []referral.Code{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "codes": codes})
}

func (h *Handler) CreateCode(w http.ResponseWriter, r *http.Request) {
	var req referral.CreateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	c, err := h.svc.Create(r.Context(), &req)
	switch err {
	case nil:
	case ErrInvalidCode:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case ErrCodeExists:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Log.Info("referral code created",
		zap.String("code", c.Code),
		zap.String("role", middleware.RoleFromContext(r.Context())),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"success": true, "code": c})
}

func (h *Handler) DeleteCode(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	switch err := h.svc.Delete(r.Context(), id); err {
	case nil:
	case ErrCodeNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Log.Info("referral code deleted",
		zap.Int64("id", id),
		zap.String("role", middleware.RoleFromContext(r.Context())),
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true})
}

type updateCodeReq struct {
	IsActive *bool `json:"isActive"`
}

func (h *Handler) UpdateCode(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var req updateCodeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	switch err := h.svc.SetActive(r.Context(), id, *req.IsActive); err {
	case nil:
	case ErrCodeNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true})
}
