package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/de-tools/license-atlas/pkg/models/domain"
	"github.com/de-tools/license-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/license-atlas/pkg/services/audit"
	"github.com/de-tools/license-atlas/pkg/services/classifier"
	"github.com/de-tools/license-atlas/pkg/services/demo"
	"github.com/de-tools/license-atlas/pkg/services/registry"
	"github.com/de-tools/license-atlas/pkg/services/workspace"
)

// ReportHandler renders a finished audit report.
type ReportHandler interface {
	Handle(report *domain.AuditReport) error
}

type AuditCmd struct {
	registryPath string
	domainName   string
	demoDataset  string
	detailed     bool
	output       io.Writer
	reporter     ReportHandler
}

// NewAuditCmd runs a one-shot audit from the terminal, without a server or a
// session: resolve the snapshot, classify it and print the report.
func NewAuditCmd(registryPath string, reporter ReportHandler, output io.Writer) *cobra.Command {
	ac := &AuditCmd{registryPath: registryPath, reporter: reporter, output: output}
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit a Google Workspace domain for license waste",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.domainName, "domain", "", "Google Workspace domain to audit")
	cmd.Flags().StringVar(&ac.demoDataset, "demo-dataset", "", "Audit a canned demo dataset (techstartup, growthco, scalefast)")
	cmd.Flags().BoolVar(&ac.detailed, "detailed", false, "Print the per-seat breakdown")
	cmd.MarkFlagsOneRequired("domain", "demo-dataset")
	cmd.MarkFlagsMutuallyExclusive("domain", "demo-dataset")

	return cmd
}

func (ac *AuditCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	started := time.Now()
	snapshot, err := ac.resolveSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read workspace data: %w", err)
	}

	cls := classifier.NewHeuristic(classifier.DefaultSettings())
	verdicts, err := cls.Classify(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("failed to classify licenses: %w", err)
	}

	report, err := audit.BuildReport(audit.Input{
		ReportID:       uuid.NewString(),
		Domain:         snapshot.Domain,
		Licenses:       verdicts,
		ProcessingTime: time.Since(started).Seconds(),
		ModelVersion:   cls.ModelVersion(),
	}, audit.DefaultSettings())
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	if ac.detailed {
		return export.NewReporter(ac.output).Handle(&report)
	}
	return ac.reporter.Handle(&report)
}

func (ac *AuditCmd) resolveSnapshot(ctx context.Context) (domain.GoogleWorkspaceData, error) {
	if ac.demoDataset != "" {
		return demo.Snapshot(domain.DemoDataset(ac.demoDataset))
	}

	reg, err := registry.NewRegistry(ac.registryPath)
	if err != nil {
		return domain.GoogleWorkspaceData{}, err
	}
	profile, err := reg.GetProfile(ctx, ac.domainName)
	if err != nil {
		return domain.GoogleWorkspaceData{}, err
	}
	explorer, err := workspace.NewGoogleExplorer(ctx, profile)
	if err != nil {
		return domain.GoogleWorkspaceData{}, err
	}
	return explorer.Snapshot(ctx, ac.domainName)
}
