package subscription

import (
	"encoding/json"
	"net/http"
)

type InfoDTO struct {
	Status   string `json:"status"`
	DaysLeft int    `json:"daysLeft"`
	Writable bool   `json:"writable"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	info, err := h.service.Current(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(InfoDTO(info)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
