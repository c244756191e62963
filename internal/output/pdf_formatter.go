package output

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/rgehrsitz/rpsim/internal/domain"
)

const (
	pdfMarginLeft   = 10.0
	pdfMarginTop    = 12.0
	pdfMarginRight  = 10.0
	pdfMarginBottom = 12.0
)

// PDFFormatter renders a landscape PDF report: a summary page followed by
// the yearly projection table.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

type pdfColumn struct {
	title string
	width float64
	value func(y domain.YearResult) string
}

var pdfColumns = []pdfColumn{
	{"Year", 14, func(y domain.YearResult) string { return strconv.Itoa(y.Year) }},
	{"Filing", 18, func(y domain.YearResult) string { return string(y.FilingStatus) }},
	{"Spend", 26, func(y domain.YearResult) string { return FormatCurrency(y.ActualSpend) }},
	{"Soc. Sec.", 24, func(y domain.YearResult) string { return FormatCurrency(y.SocialSecurity) }},
	{"Pension/Other", 26, func(y domain.YearResult) string { return FormatCurrency(y.PensionAndOther) }},
	{"RMD", 24, func(y domain.YearResult) string { return FormatCurrency(y.RMD) }},
	{"Withdrawals", 26, func(y domain.YearResult) string { return FormatCurrency(y.TotalWithdrawals) }},
	{"Fed. Tax", 24, func(y domain.YearResult) string { return FormatCurrency(y.FederalTax) }},
	{"State Tax", 22, func(y domain.YearResult) string { return FormatCurrency(y.StateTax) }},
	{"Shortfall", 24, func(y domain.YearResult) string { return FormatCurrency(y.Shortfall) }},
	{"Portfolio", 30, func(y domain.YearResult) string { return FormatCurrency(y.TotalPortfolio) }},
}

func (p PDFFormatter) Format(result *domain.PlanResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no result to format")
	}
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	pdf.SetAutoPageBreak(true, pdfMarginBottom)
	pdf.SetTitle("Retirement Plan Projection", false)

	s := Summarize(result)
	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - pdfMarginLeft - pdfMarginRight

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(46, 134, 171)
	pdf.CellFormat(contentWidth, 12, "Retirement Plan Projection: "+s.PlanName, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdfSection(pdf, contentWidth, "Summary")
	lines := [][2]string{
		{"Market mode", string(s.Mode)},
		{"Projection", fmt.Sprintf("%d years (%d-%d)", s.Years, s.FirstYear, s.LastYear)},
		{"Terminal portfolio", FormatCurrency(s.TerminalValue)},
		{"Total withdrawals", FormatCurrency(s.TotalWithdrawn)},
		{"Total taxes", FormatCurrency(s.TotalTaxes)},
		{"Average tax rate", FormatRate(s.AverageTaxRate)},
		{"Shortfall years", strconv.Itoa(s.ShortfallYears)},
		{"Total shortfall", FormatCurrency(s.TotalShortfall)},
	}
	if b := s.Batch; b != nil {
		lines = append(lines,
			[2]string{"Runs", strconv.Itoa(b.Runs)},
			[2]string{"Success probability", FormatRate(b.SuccessProbability)},
			[2]string{"Median terminal value", FormatCurrency(b.MedianTerminalValue)},
			[2]string{"Worst-case shortfall", FormatCurrency(b.WorstCaseShortfall)},
		)
	}
	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(50, 50, 50)
	for _, l := range lines {
		pdf.CellFormat(60, 7, l[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(contentWidth-60, 7, l[1], "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdfSection(pdf, contentWidth, "Assumptions")
	pdf.SetFont("Arial", "", 10)
	for _, a := range s.Assumptions {
		pdf.MultiCell(contentWidth, 6, "- "+a, "", "L", false)
	}
	if len(s.Warnings) > 0 {
		pdf.Ln(4)
		pdfSection(pdf, contentWidth, "Warnings")
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(199, 62, 29)
		for _, w := range s.Warnings {
			pdf.MultiCell(contentWidth, 6, "- "+w, "", "L", false)
		}
	}

	pdf.AddPage()
	pdfSection(pdf, contentWidth, "Year-by-Year Projection")
	pdfTableHeader(pdf)
	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(50, 50, 50)
	for _, y := range result.Yearly {
		fill := y.Shortfall.IsPositive()
		pdf.SetFillColor(253, 232, 228)
		for i, c := range pdfColumns {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(c.width, 6, c.value(y), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to build PDF: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfSection(pdf *fpdf.Fpdf, width float64, title string) {
	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(width, 9, title, "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func pdfTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(240, 244, 248)
	pdf.SetTextColor(0, 51, 102)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}
