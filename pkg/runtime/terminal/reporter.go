package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/license-atlas/pkg/models/domain"
)

// Reporter outputs audit reports to the console in a formatted text form
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(report *domain.AuditReport) error {
	tmpl := `
License audit for {{.Domain}}
Generated: {{.GeneratedAt.Format "2006-01-02 15:04"}}
Licenses: {{.Summary.TotalLicenses}}, wasted: {{.Summary.TotalWaste}}
Potential monthly savings: {{printf "%.2f" .Summary.TotalSavings}}
Accuracy: {{printf "%.0f%%" (pct .Summary.Accuracy)}}

{{range .Categories}}
=== {{.Description}} ===
Seats: {{.Count}}, savings: {{printf "%.2f" .TotalSavings}}
{{range .Licenses}}
- {{.UserEmail}} ({{.LicenseName}}): {{.WasteReason}}
{{end}}
{{end}}
{{if .Recommendations}}
Recommendations:
{{range .Recommendations}}
[{{.Impact}}] {{.Title}} (saves {{printf "%.2f" .Savings}}/mo)
  {{.Description}}
{{range .ActionItems}}  * {{.}}
{{end}}
{{end}}
{{end}}
`
	funcMap := template.FuncMap{
		"pct": func(v float64) float64 { return v * 100 },
	}

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
