package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/phk910805/overtime-sub000/internal/utils"
	log "github.com/sirupsen/logrus"
)

type DaySummaryDTO struct {
	Date            string `json:"date"`
	OvertimeMinutes int    `json:"overtimeMinutes"`
	VacationMinutes int    `json:"vacationMinutes"`
}

type EmployeeSummaryDTO struct {
	EmployeeID     int             `json:"employeeId"`
	EmployeeName   string          `json:"employeeName"`
	Days           []DaySummaryDTO `json:"days"`
	TotalOvertime  int             `json:"totalOvertime"`
	TotalVacation  int             `json:"totalVacation"`
	Remaining      int             `json:"remaining"`
	CarryIn        int             `json:"carryIn"`
	RunningBalance int             `json:"runningBalance"`
}

type MonthSummaryDTO struct {
	Month     string               `json:"month"`
	Employees []EmployeeSummaryDTO `json:"employees"`
}

type Handler struct {
	service  Service
	renderer Renderer
}

func NewHandler(service Service, renderer Renderer) *Handler {
	return &Handler{service, renderer}
}

func (h *Handler) GetMonthSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	summary, ok := h.loadSummary(w, r)
	if !ok {
		return
	}
	if err := json.NewEncoder(w).Encode(summaryToDTO(summary)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetMonthSummaryCsv(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.loadSummary(w, r)
	if !ok {
		return
	}
	rendered, err := h.renderer.RenderSummary(summary)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if _, err := w.Write([]byte(rendered)); err != nil {
		log.Errorf("Error writing csv response: %v", err)
	}
}

func (h *Handler) loadSummary(w http.ResponseWriter, r *http.Request) (MonthSummary, bool) {
	month, err := utils.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return MonthSummary{}, false
	}
	summary, err := h.service.GetMonthSummary(r.Context(), month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return MonthSummary{}, false
	}
	return summary, true
}

func summaryToDTO(summary MonthSummary) MonthSummaryDTO {
	dto := MonthSummaryDTO{
		Month:     summary.Month.String(),
		Employees: make([]EmployeeSummaryDTO, 0, len(summary.Employees)),
	}
	for _, emp := range summary.Employees {
		days := make([]DaySummaryDTO, 0, len(emp.Days))
		for _, day := range emp.Days {
			days = append(days, DaySummaryDTO{
				Date:            day.Date.Format(time.DateOnly),
				OvertimeMinutes: day.OvertimeMinutes,
				VacationMinutes: day.VacationMinutes,
			})
		}
		dto.Employees = append(dto.Employees, EmployeeSummaryDTO{
			EmployeeID:     emp.EmployeeID,
			EmployeeName:   emp.EmployeeName,
			Days:           days,
			TotalOvertime:  emp.Stats.TotalOvertime,
			TotalVacation:  emp.Stats.TotalVacation,
			Remaining:      emp.Stats.Remaining,
			CarryIn:        emp.CarryIn,
			RunningBalance: emp.RunningBalance,
		})
	}
	return dto
}
