package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/license-atlas/pkg/models/domain"
)

type TableConfig struct {
	EmailWidth   int
	LicenseWidth int
	ReasonWidth  int
	SavingsWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		EmailWidth:   36,
		LicenseWidth: 28,
		ReasonWidth:  40,
		SavingsWidth: 12,
	}
}

// Reporter renders the full per-seat breakdown as aligned tables, one per
// waste category.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *domain.AuditReport) error {
	funcMap := template.FuncMap{
		"formatRow": func(email, license, reason string, savings interface{}) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %*v |",
				c.config.EmailWidth, email,
				c.config.LicenseWidth, license,
				c.config.ReasonWidth, reason,
				c.config.SavingsWidth, savings)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.EmailWidth+2),
				strings.Repeat("-", c.config.LicenseWidth+2),
				strings.Repeat("-", c.config.ReasonWidth+2),
				strings.Repeat("-", c.config.SavingsWidth+2))
		},
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}

	tmpl := `
License audit for {{.Domain}}

Generated: {{.GeneratedAt.Format "2006-01-02 15:04"}}
Licenses: {{.Summary.TotalLicenses}}, wasted: {{.Summary.TotalWaste}}
Potential monthly savings: {{money .Summary.TotalSavings}}

{{range .Categories}}
=== {{.Description}} ({{.Count}} seats, {{money .TotalSavings}}/mo) ===

{{separator}}
{{formatRow "Email" "License" "Reason" "Savings"}}
{{separator}}
{{range .Licenses}}{{formatRow .UserEmail .LicenseName .WasteReason (money .MonthlySavings)}}
{{end}}{{separator}}
{{end}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
