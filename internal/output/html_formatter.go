package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/rpsim/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
	"rate": FormatRate,
	"ages": formatAges,
	"yn":   yesNo,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(result *domain.PlanResult) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.PlanResult
		Report ReportSummary
	}{result, Summarize(result)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
