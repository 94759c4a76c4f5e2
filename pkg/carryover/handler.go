package carryover

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/employee"
	log "github.com/sirupsen/logrus"
)

type RecalculateRequestDTO struct {
	EmployeeID int    `json:"employeeId"`
	Month      string `json:"month"`
}

type ImpactDTO struct {
	EmployeeName            string `json:"employeeName"`
	SourceMonth             string `json:"sourceMonth"`
	TargetMonth             string `json:"targetMonth"`
	OldRemaining            int    `json:"oldRemaining"`
	NewRemaining            int    `json:"newRemaining"`
	OldCarryover            int    `json:"oldCarryover"`
	NewCarryover            int    `json:"newCarryover"`
	TargetMonthOldRemaining int    `json:"targetMonthOldRemaining"`
	TargetMonthNewRemaining int    `json:"targetMonthNewRemaining"`
	HasImpact               bool   `json:"hasImpact"`
}

type Handler struct {
	engine Engine
}

func NewHandler(engine Engine) *Handler {
	return &Handler{engine}
}

// Recalculate is invoked by the UI right after a time-entry write to a past
// month has been persisted. A 204 means converged with nothing to report.
func (h *Handler) Recalculate(w http.ResponseWriter, r *http.Request) {
	log.Debug("Recalculating carryover")
	w.Header().Set("Content-Type", "application/json")

	var dto RecalculateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	month, err := utils.ParseMonth(dto.Month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	current, err := employee.Current(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	if !current.IsAdmin() {
		http.Error(w, employee.ErrNotAdmin.Error(), http.StatusForbidden)
		return
	}

	impact, err := h.engine.RecalculateIfNeeded(r.Context(), dto.EmployeeID, month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if impact == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(impactToDTO(*impact)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetCarryIn(w http.ResponseWriter, r *http.Request) {
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

	carryIn, err := h.engine.CarryInFor(r.Context(), employeeId, month)
	if err != nil {
		if errors.Is(err, employee.ErrNoEmployee) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := struct {
		EmployeeID       int    `json:"employeeId"`
		Month            string `json:"month"`
		CarryoverMinutes int    `json:"carryoverMinutes"`
	}{employeeId, month.String(), carryIn}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func impactToDTO(impact Impact) ImpactDTO {
	return ImpactDTO{
		EmployeeName:            impact.EmployeeName,
		SourceMonth:             impact.SourceMonth.String(),
		TargetMonth:             impact.TargetMonth.String(),
		OldRemaining:            impact.OldRemaining,
		NewRemaining:            impact.NewRemaining,
		OldCarryover:            impact.OldCarryover,
		NewCarryover:            impact.NewCarryover,
		TargetMonthOldRemaining: impact.TargetMonthOldRemaining,
		TargetMonthNewRemaining: impact.TargetMonthNewRemaining,
		HasImpact:               impact.HasImpact,
	}
}
