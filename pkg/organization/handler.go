package organization

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type OrganizationDTO struct {
	ID          int       `json:"id"`
	Uid         string    `json:"uid"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	TrialEndsAt time.Time `json:"trialEndsAt"`
}

type BootstrapRequestDTO struct {
	OrganizationName string `json:"organizationName"`
	AdminName        string `json:"adminName"`
}

type BootstrapResponseDTO struct {
	Organization OrganizationDTO `json:"organization"`
	AdminUid     string          `json:"adminUid"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	log.Debug("Bootstrapping new organization")
	w.Header().Set("Content-Type", "application/json")

	var dto BootstrapRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.OrganizationName == "" || dto.AdminName == "" {
		http.Error(w, "organizationName and adminName are required", http.StatusBadRequest)
		return
	}

	org, admin, err := h.service.Bootstrap(r.Context(), dto.OrganizationName, dto.AdminName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	response := BootstrapResponseDTO{Organization: toDTO(org), AdminUid: admin.Uid}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	org, err := h.service.GetCurrent(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(toDTO(org)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func toDTO(org Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:          org.ID,
		Uid:         org.Uid,
		Name:        org.Name,
		Status:      string(org.Status),
		TrialEndsAt: org.TrialEndsAt,
	}
}
