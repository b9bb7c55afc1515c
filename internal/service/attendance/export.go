package attendance

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/export"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/utils"
)

func (s *AttendanceServiceImpl) ExportRange(ctx context.Context, query attendance.RangeQuery) (*bytes.Buffer, string, error) {
	if err := query.Validate(); err != nil {
		return nil, "", err
	}
	from, _ := utils.ParseDate(query.From)
	to, _ := utils.ParseDate(query.To)

	emps, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list employees: %w", err)
	}

	table := export.Table{
		Sheet: "Attendance",
		Title: fmt.Sprintf("Attendance %s to %s", utils.FormatDate(from), utils.FormatDate(to)),
		Headers: []string{
			"Employee ID", "Name", "Date", "Status", "Check In", "Check Out",
			"Late Minutes", "Break Minutes", "Worked Minutes", "Overtime Minutes",
		},
	}
	for _, emp := range emps {
		days, err := s.EvaluateRange(ctx, emp.ID, from, to)
		if err != nil {
			return nil, "", err
		}
		for _, d := range days {
			row := []interface{}{emp.ID, emp.FullName, utils.FormatDate(d.Date), string(d.Status), "", "", 0, 0, 0, 0}
			if rec := d.Record; rec != nil {
				if rec.CheckIn != nil {
					row[4] = rec.CheckIn.In(s.loc).Format("15:04")
				}
				if rec.CheckOut != nil {
					row[5] = rec.CheckOut.In(s.loc).Format("15:04")
				}
				row[6], row[7], row[8], row[9] = rec.LateMinutes, rec.TotalBreakMinutes, rec.WorkedMinutes, rec.OvertimeMinutes
			}
			table.Rows = append(table.Rows, row)
		}
	}

	buf, err := export.XLSX(table)
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("attendance_%s_%s.xlsx", utils.FormatDate(from), utils.FormatDate(to)), nil
}
