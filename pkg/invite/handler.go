package invite

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/phk910805/overtime-sub000/pkg/employee"
)

type InviteDTO struct {
	ID          int       `json:"id"`
	Code        string    `json:"code"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	Used        bool      `json:"used"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateInviteDTO struct {
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

type AcceptedDTO struct {
	EmployeeID  int    `json:"employeeId"`
	Uid         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto CreateInviteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.DisplayName == "" {
		http.Error(w, "displayName is required", http.StatusBadRequest)
		return
	}

	invite, err := h.service.Create(r.Context(), dto.DisplayName, employee.Role(dto.Role))
	if err != nil {
		if errors.Is(err, employee.ErrNotAdmin) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(inviteToDTO(invite)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	invites, err := h.service.GetAll(r.Context())
	if err != nil {
		if errors.Is(err, employee.ErrNotAdmin) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]InviteDTO, 0, len(invites))
	for _, invite := range invites {
		dtos = append(dtos, inviteToDTO(invite))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	code := mux.Vars(r)["code"]

	joined, err := h.service.Accept(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrExpired), errors.Is(err, ErrUsed):
			http.Error(w, err.Error(), http.StatusGone)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(AcceptedDTO{
		EmployeeID:  joined.ID,
		Uid:         joined.Uid,
		DisplayName: joined.DisplayName,
		Role:        string(joined.Role),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func inviteToDTO(invite Invite) InviteDTO {
	return InviteDTO{
		ID:          invite.ID,
		Code:        invite.Code,
		DisplayName: invite.DisplayName,
		Role:        string(invite.Role),
		Used:        invite.Used,
		ExpiresAt:   invite.ExpiresAt,
		CreatedAt:   invite.CreatedAt,
	}
}
