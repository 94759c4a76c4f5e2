package timeentry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/employee"
	log "github.com/sirupsen/logrus"
)

type EntryDTO struct {
	ID           int       `json:"id"`
	EmployeeID   int       `json:"employeeId"`
	Date         string    `json:"date"`
	Kind         string    `json:"kind"`
	TotalMinutes int       `json:"totalMinutes"`
	Status       string    `json:"status"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type EntryHandler struct {
	service EntryService
}

func NewEntryHandler(service EntryService) *EntryHandler {
	return &EntryHandler{service}
}

func (h *EntryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	log.Debug("Submitting time entry")
	w.Header().Set("Content-Type", "application/json")

	var dto EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	date, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	entry, err := h.service.Submit(r.Context(), SubmitRequest{
		EmployeeID:   dto.EmployeeID,
		Date:         date,
		Kind:         Kind(dto.Kind),
		TotalMinutes: dto.TotalMinutes,
		Note:         dto.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNegativeMinutes), errors.Is(err, ErrInvalidKind), errors.Is(err, ErrEditWindowClosed):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, employee.ErrNotAdmin):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(entryToDTO(entry)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *EntryHandler) GetMonthLog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	month, err := utils.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	employeeId, err := strconv.Atoi(r.URL.Query().Get("employeeId"))
	if err != nil {
		http.Error(w, "employeeId is required", http.StatusBadRequest)
		return
	}

	entries, err := h.service.GetMonthLog(r.Context(), employeeId, month)
	if err != nil {
		if errors.Is(err, employee.ErrNotAdmin) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, entryToDTO(entry))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *EntryHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	entryId, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var statusDTO struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&statusDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := h.service.SetStatus(r.Context(), entryId, Status(statusDTO.Status))
	if err != nil {
		switch {
		case errors.Is(err, employee.ErrNotAdmin):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(entryToDTO(entry)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func entryToDTO(entry Entry) EntryDTO {
	return EntryDTO{
		ID:           entry.ID,
		EmployeeID:   entry.EmployeeID,
		Date:         entry.Date.Format("2006-01-02"),
		Kind:         string(entry.Kind),
		TotalMinutes: entry.TotalMinutes,
		Status:       string(entry.Status),
		Note:         entry.Note,
		CreatedAt:    entry.CreatedAt,
	}
}
