package settings

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.All(r.Context())
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

type putContentReq struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func (h *Handler) PutContent(w http.ResponseWriter, r *http.Request) {
	var req putContentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	switch err := h.svc.Put(r.Context(), req.Key, req.Value); err {
	case nil:
	case ErrInvalidKey:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true})
}
