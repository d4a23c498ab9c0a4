package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/de-tools/license-atlas/pkg/adapters"
	"github.com/de-tools/license-atlas/pkg/models/domain"
	"github.com/de-tools/license-atlas/pkg/services/audit"
	"github.com/de-tools/license-atlas/pkg/services/classifier"
	"github.com/de-tools/license-atlas/pkg/services/session"
	reportstore "github.com/de-tools/license-atlas/pkg/store/duckdb/report"
)

// Pipeline step names, in execution order. A session's totalSteps is the
// length of this list.
const (
	StepFetchingWorkspaceData = "fetching_workspace_data"
	StepClassifyingLicenses   = "classifying_licenses"
	StepGeneratingReport      = "generating_report"
	StepPublishingReport      = "publishing_report"
)

var Steps = []string{
	StepFetchingWorkspaceData,
	StepClassifyingLicenses,
	StepGeneratingReport,
	StepPublishingReport,
}

var stepDescriptions = map[string]string{
	StepFetchingWorkspaceData: "Reading users and license assignments from Google Workspace",
	StepClassifyingLicenses:   "Classifying license assignments for waste",
	StepGeneratingReport:      "Aggregating verdicts into the audit report",
	StepPublishingReport:      "Storing the report and recording its URL",
}

// StepView expands a session's flat progress counters into per-step records:
// steps before CompletedSteps are completed, the current step is processing
// (failed when the session is), the rest are pending.
func StepView(sess *domain.Session) domain.SessionProgress {
	steps := make([]domain.ProcessingStep, 0, len(Steps))
	for i, name := range Steps {
		step := domain.ProcessingStep{
			ID:          name,
			Name:        name,
			Description: stepDescriptions[name],
			Status:      domain.StepStatusPending,
		}
		switch {
		case i < sess.Progress.CompletedSteps:
			step.Status = domain.StepStatusCompleted
		case name == sess.Progress.CurrentStep:
			step.Status = domain.StepStatusProcessing
			if sess.Status == domain.SessionStatusFailed {
				step.Status = domain.StepStatusFailed
				if sess.Error != nil {
					step.Error = sess.Error.Message
				}
			}
		}
		steps = append(steps, step)
	}
	return domain.SessionProgress{
		SessionID:       sess.ID,
		Steps:           steps,
		CurrentStep:     sess.Progress.CurrentStep,
		OverallProgress: domain.ComputeOverallProgress(steps),
	}
}

type Config struct {
	ReportURLBase         string
	MaxLicensesPerRequest int
	AuditSettings         audit.Settings
}

// Controller runs one audit per session. Sessions are independent units of
// work; each run owns its goroutine and mutates only its own session through
// the session manager.
type Controller struct {
	sessions   *session.Manager
	source     SnapshotSource
	classifier classifier.Classifier
	reports    reportstore.Store
	config     Config

	mu      sync.Mutex
	running map[string]chan struct{}
}

func NewController(
	sessions *session.Manager,
	source SnapshotSource,
	cls classifier.Classifier,
	reports reportstore.Store,
	config Config,
) *Controller {
	return &Controller{
		sessions:   sessions,
		source:     source,
		classifier: cls,
		reports:    reports,
		config:     config,
		running:    make(map[string]chan struct{}),
	}
}

// Start launches the audit run for a freshly created session.
func (c *Controller) Start(ctx context.Context, sess *domain.Session) {
	done := make(chan struct{})

	c.mu.Lock()
	c.running[sess.ID] = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		defer func() {
			c.mu.Lock()
			delete(c.running, sess.ID)
			c.mu.Unlock()
		}()
		c.run(ctx, sess)
	}()
}

// Done returns a channel closed when the session's run finishes, or nil if
// no run is active.
func (c *Controller) Done(sessionID string) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running[sessionID]
}

func (c *Controller) run(ctx context.Context, sess *domain.Session) {
	logger := zerolog.Ctx(ctx).With().Str("session", sess.ID).Logger()
	started := time.Now()

	snapshot, err := c.source.Resolve(ctx, sess)
	if err != nil {
		logger.Error().Err(err).Msg("workspace ingest failed")
		c.fail(ctx, sess.ID, "ingest_failed", "could not read workspace data", err)
		return
	}
	if c.config.MaxLicensesPerRequest > 0 && snapshot.TotalLicenses > c.config.MaxLicensesPerRequest {
		c.fail(ctx, sess.ID, "snapshot_too_large",
			fmt.Sprintf("snapshot has %d licenses, limit is %d", snapshot.TotalLicenses, c.config.MaxLicensesPerRequest), nil)
		return
	}

	if !c.advance(ctx, sess.ID, StepClassifyingLicenses, 1) {
		return
	}
	verdicts, err := c.classifier.Classify(ctx, snapshot)
	if err != nil {
		logger.Error().Err(err).Msg("classification failed")
		c.fail(ctx, sess.ID, "classification_failed", "license classification failed", err)
		return
	}
	// A partial verdict set must fail the run, never produce a partial
	// report.
	if len(verdicts) != snapshot.TotalLicenses {
		c.fail(ctx, sess.ID, "classification_failed",
			fmt.Sprintf("classifier returned %d of %d verdicts", len(verdicts), snapshot.TotalLicenses), nil)
		return
	}

	if !c.advance(ctx, sess.ID, StepGeneratingReport, 2) {
		return
	}
	reportID := uuid.NewString()
	report, err := audit.BuildReport(audit.Input{
		ReportID:       reportID,
		SessionID:      sess.ID,
		Domain:         snapshot.Domain,
		Licenses:       verdicts,
		ProcessingTime: time.Since(started).Seconds(),
		ModelVersion:   c.classifier.ModelVersion(),
	}, c.config.AuditSettings)
	if err != nil {
		logger.Error().Err(err).Msg("report aggregation failed")
		c.fail(ctx, sess.ID, aggregationErrorCode(err), "report aggregation failed", err)
		return
	}

	if !c.advance(ctx, sess.ID, StepPublishingReport, 3) {
		return
	}
	record, err := adapters.MapReportDomainToStore(report)
	if err != nil {
		c.fail(ctx, sess.ID, "publish_failed", "could not encode report", err)
		return
	}
	if err := c.reports.Add(ctx, record); err != nil {
		logger.Error().Err(err).Msg("report persistence failed")
		c.fail(ctx, sess.ID, "publish_failed", "could not store report", err)
		return
	}

	reportURL := c.config.ReportURLBase + "/" + reportID
	if _, err := c.sessions.Complete(ctx, sess.ID, reportURL); err != nil {
		logger.Error().Err(err).Msg("session completion failed")
		return
	}

	logger.Info().
		Str("report", reportID).
		Int("licenses", report.Summary.TotalLicenses).
		Int("waste", report.Summary.TotalWaste).
		Float64("savings", report.Summary.TotalSavings).
		Msg("audit completed")
}

func (c *Controller) advance(ctx context.Context, sessionID, step string, completedSteps int) bool {
	sess, err := c.sessions.Advance(ctx, sessionID, step, completedSteps, nil)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("session", sessionID).Str("step", step).Msg("progress update failed")
		return false
	}
	zerolog.Ctx(ctx).Info().
		Str("session", sessionID).
		Str("step", step).
		Int("overall_progress", StepView(sess).OverallProgress).
		Msg("pipeline step started")
	return true
}

func (c *Controller) fail(ctx context.Context, sessionID, code, message string, cause error) {
	sessionErr := domain.SessionError{Message: message, Code: code}
	if cause != nil {
		sessionErr.Details = map[string]any{"cause": cause.Error()}
	}
	if _, err := c.sessions.Fail(ctx, sessionID, sessionErr); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("session", sessionID).Msg("session failure could not be recorded")
	}
}

func aggregationErrorCode(err error) string {
	var emptyErr *domain.EmptyInputError
	if errors.As(err, &emptyErr) {
		return "empty_snapshot"
	}
	var recordErr *domain.InvalidRecordError
	if errors.As(err, &recordErr) {
		return "invalid_verdict"
	}
	return "report_failed"
}
