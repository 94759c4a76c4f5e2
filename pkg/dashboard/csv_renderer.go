package dashboard

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type Renderer interface {
	RenderSummary(summary MonthSummary) (string, error)
}

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

// RenderSummary renders the month grid as CSV: one header row with day
// numbers, then one row per employee with per-day net minutes
// (overtime − vacation) followed by the totals columns.
func (t *CsvRendererImpl) RenderSummary(summary MonthSummary) (string, error) {
	dayCount := summary.Month.Days()

	header := make([]string, 0, dayCount+6)
	header = append(header, "Employee")
	for day := 1; day <= dayCount; day++ {
		header = append(header, summary.Month.String()+"-"+pad(day))
	}
	header = append(header, "Overtime", "Vacation", "Remaining", "CarryIn", "Balance")

	data := make([][]string, 0, len(summary.Employees)+1)
	data = append(data, header)
	for _, emp := range summary.Employees {
		row := make([]string, 0, dayCount+6)
		row = append(row, emp.EmployeeName)
		for _, day := range emp.Days {
			row = append(row, strconv.Itoa(day.OvertimeMinutes-day.VacationMinutes))
		}
		row = append(row,
			strconv.Itoa(emp.Stats.TotalOvertime),
			strconv.Itoa(emp.Stats.TotalVacation),
			strconv.Itoa(emp.Stats.Remaining),
			strconv.Itoa(emp.CarryIn),
			strconv.Itoa(emp.RunningBalance),
		)
		data = append(data, row)
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func pad(day int) string {
	s := strconv.Itoa(day)
	if len(s) == 1 {
		s = "0" + s
	}
	return s
}
