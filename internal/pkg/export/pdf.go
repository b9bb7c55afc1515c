package export

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Line is one labelled amount on a document.
type Line struct {
	Label  string
	Amount decimal.Decimal
}

// PayslipDocument carries everything printed on a payslip.
type PayslipDocument struct {
	Organization string
	Period       string
	EmployeeID   string
	EmployeeName string
	Earnings     []Line
	Deductions   []Line
	GrossSalary  decimal.Decimal
	NetPay       decimal.Decimal
	Attendance   []Line
}

// DetailLines turns a label->amount map into lines sorted by label.
func DetailLines(detail map[string]decimal.Decimal) []Line {
	lines := make([]Line, 0, len(detail))
	for label, amount := range detail {
		lines = append(lines, Line{Label: label, Amount: amount})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Label < lines[j].Label })
	return lines
}

func PayslipPDF(doc PayslipDocument) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, doc.Organization)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Payslip for %s", doc.Period))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", doc.EmployeeName))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Employee ID: %s", doc.EmployeeID))
	pdf.Ln(10)

	section := func(title string, lines []Line) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, l := range lines {
			pdf.CellFormat(120, 7, l.Label, "", 0, "L", false, 0, "")
			pdf.CellFormat(50, 7, l.Amount.StringFixed(2), "", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	section("Earnings", doc.Earnings)
	section("Deductions", doc.Deductions)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 8, "Gross Salary", "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, doc.GrossSalary.StringFixed(2), "T", 1, "R", false, 0, "")
	pdf.CellFormat(120, 8, "Net Pay", "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, doc.NetPay.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	if len(doc.Attendance) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Attendance")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, l := range doc.Attendance {
			pdf.CellFormat(120, 7, l.Label, "", 0, "L", false, 0, "")
			pdf.CellFormat(50, 7, l.Amount.String(), "", 1, "R", false, 0, "")
		}
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip pdf: %w", err)
	}
	return buf, nil
}
