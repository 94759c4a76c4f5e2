package settings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/employee"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type MonthlySettingsDTO struct {
	Month        string `json:"month"`
	Multiplier   string `json:"multiplier"`
	ApprovalMode string `json:"approvalMode"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	month, err := utils.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s, err := h.service.Get(r.Context(), month)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// No row for this month yet: report the defaults in effect.
			s = MonthlySettings{
				Year:         month.Year,
				Month:        month.Month,
				Multiplier:   DefaultMultiplier,
				ApprovalMode: DefaultApprovalMode,
			}
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	if err := json.NewEncoder(w).Encode(toDTO(s)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating monthly settings")
	w.Header().Set("Content-Type", "application/json")

	var dto MonthlySettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	month, err := utils.ParseMonth(dto.Month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	multiplier, err := decimal.NewFromString(dto.Multiplier)
	if err != nil {
		http.Error(w, "invalid multiplier", http.StatusBadRequest)
		return
	}

	stored, err := h.service.Set(r.Context(), MonthlySettings{
		Year:         month.Year,
		Month:        month.Month,
		Multiplier:   multiplier,
		ApprovalMode: ApprovalMode(dto.ApprovalMode),
	})
	if err != nil {
		switch {
		case errors.Is(err, employee.ErrNotAdmin):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, ErrMultiplierRange), errors.Is(err, ErrInvalidApproval):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toDTO(stored)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func toDTO(s MonthlySettings) MonthlySettingsDTO {
	return MonthlySettingsDTO{
		Month:        utils.Month{Year: s.Year, Month: s.Month}.String(),
		Multiplier:   s.Multiplier.String(),
		ApprovalMode: string(s.ApprovalMode),
	}
}
