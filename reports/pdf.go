package reports

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ReportFilename follows the HR_Report_<yyyyMMdd>.pdf convention.
func ReportFilename(t time.Time) string {
	return "HR_Report_" + t.Format("20060102") + ".pdf"
}

// Exporter renders aggregated reports with locale-aware currency amounts.
type Exporter struct {
	printer *message.Printer
	unit    currency.Unit
}

func NewExporter(locale, currencyCode string) (*Exporter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse report locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("parse report currency %q: %w", currencyCode, err)
	}
	return &Exporter{printer: message.NewPrinter(tag), unit: unit}, nil
}

// FormatAmount renders v as a currency amount using the locale's grouping
// and decimal separators.
func (e *Exporter) FormatAmount(v float64) string {
	symbol := e.printer.Sprint(currency.Symbol(e.unit))
	return symbol + " " + e.printer.Sprint(number.Decimal(v, number.Scale(2)))
}

func (e *Exporter) formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var columns = []struct {
	title string
	width float64
	align string
}{
	{"Claim ID", 20, "C"},
	{"Module", 35, "L"},
	{"Hours", 20, "R"},
	{"Amount", 40, "R"},
	{"Status", 30, "C"},
	{"Submitted", 35, "C"},
}

// WritePDF writes the tabular report: a title, one section per lecturer with
// its claims and a totals line.
func (e *Exporter) WritePDF(w io.Writer, groups []LecturerReport, f Filter, generated time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("HR Claims Report", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "HR Claims Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(periodLabel(f)+" | Generated "+generated.Format("2006-01-02")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(groups) == 0 {
		pdf.CellFormat(0, 8, "No claims for the selected period.", "", 1, "L", false, 0, "")
		return pdf.Output(w)
	}

	for _, g := range groups {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr(g.Lecturer), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range columns {
			pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		for _, c := range g.Claims {
			cells := []string{
				strconv.FormatUint(uint64(c.ID), 10),
				c.ModuleCode,
				e.formatHours(c.HoursWorked),
				e.FormatAmount(c.Total),
				string(c.Status),
				c.SubmissionDate.Format("2006-01-02"),
			}
			for i, col := range columns {
				pdf.CellFormat(col.width, 6, tr(cells[i]), "1", 0, col.align, false, 0, "")
			}
			pdf.Ln(-1)
		}

		pdf.SetFont("Helvetica", "B", 9)
		totals := fmt.Sprintf("Total hours: %s    Total amount: %s", e.formatHours(g.TotalHours), e.FormatAmount(g.TotalAmount))
		pdf.CellFormat(0, 7, tr(totals), "", 1, "R", false, 0, "")
		pdf.Ln(3)
	}

	hours, amount := Totals(groups)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Grand total: %s hours, %s", e.formatHours(hours), e.FormatAmount(amount))), "T", 1, "R", false, 0, "")

	return pdf.Output(w)
}

func periodLabel(f Filter) string {
	switch {
	case f.Month != 0 && f.Year != 0:
		return time.Month(f.Month).String() + " " + strconv.Itoa(f.Year)
	case f.Month != 0:
		return time.Month(f.Month).String() + ", all years"
	case f.Year != 0:
		return "Year " + strconv.Itoa(f.Year)
	default:
		return "All periods"
	}
}
