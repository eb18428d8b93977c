package order

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mkamran-dev/storefront-backend/internal/referral"
	"github.com/mkamran-dev/storefront-backend/internal/types/order"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req order.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	o, err := h.svc.Create(r.Context(), &req)
	switch {
	case err == nil:
	case errors.Is(err, ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, referral.ErrCodeNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, referral.ErrCodeExpired):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": o})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": orders})
}

type updateOrderReq struct {
	Status order.Status `json:"status"`
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	o, err := h.svc.UpdateStatus(r.Context(), id, req.Status)
	switch {
	case err == nil:
	case errors.Is(err, ErrOrderNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": o})
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	switch err := h.svc.Delete(r.Context(), id); {
	case err == nil:
	case errors.Is(err, ErrOrderNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{}})
}

// ExportDelivered streams delivered orders as a CSV attachment.
func (h *Handler) ExportDelivered(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListDelivered(r.Context())
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("delivered_orders_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	cw := csv.NewWriter(w)
	cw.Write([]string{"Order ID", "Date", "Customer Name", "Phone", "Email", "Address", "Items", "Total Amount", "Status"})
	for _, o := range orders {
		cw.Write([]string{
			o.ID,
			o.UpdatedAt.Format(time.RFC3339),
			o.Customer.Name,
			o.Customer.Phone,
			o.Customer.Email,
			fmt.Sprintf("%s, %s", o.Customer.Address, o.Customer.City),
			order.ItemSummary(o.Items),
			strconv.FormatFloat(o.TotalAmount, 'f', -1, 64),
			string(o.Status),
		})
	}
	cw.Flush()
}
