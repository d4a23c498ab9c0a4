package domain

import "time"

type SessionStatus string

const (
	SessionStatusProcessing SessionStatus = "processing"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusFailed     SessionStatus = "failed"
)

// Terminal reports whether no further transitions are possible from the status.
func (s SessionStatus) Terminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusFailed
}

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusProcessing, SessionStatusCompleted, SessionStatusFailed:
		return true
	}
	return false
}

type DemoDataset string

const (
	DemoDatasetTechStartup DemoDataset = "techstartup"
	DemoDatasetGrowthCo    DemoDataset = "growthco"
	DemoDatasetScaleFast   DemoDataset = "scalefast"
)

func (d DemoDataset) Valid() bool {
	switch d {
	case DemoDatasetTechStartup, DemoDatasetGrowthCo, DemoDatasetScaleFast:
		return true
	}
	return false
}

// Progress tracks how far an audit run has advanced through its pipeline.
// CompletedSteps is monotonic and never exceeds TotalSteps.
type Progress struct {
	CurrentStep            string
	TotalSteps             int
	CompletedSteps         int
	EstimatedTimeRemaining *int // seconds
}

type SessionError struct {
	Message string
	Code    string
	Details map[string]any
}

// Session is one audit run. The session manager is the only writer of its
// progress and error state; Status transitions follow
// processing -> completed | failed and stop there.
type Session struct {
	ID           string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	GoogleDomain string
	Status       SessionStatus
	ReportURL    string // set only when Status == completed
	IsDemo       bool
	DemoDataset  DemoDataset // set only when IsDemo
	Progress     Progress
	Error        *SessionError // set only when Status == failed
}

// Expired reports whether the session is past its TTL at the given instant.
// Expiry is a read-time check, not a stored transition.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type StepStatus string

const (
	StepStatusPending    StepStatus = "pending"
	StepStatusProcessing StepStatus = "processing"
	StepStatusCompleted  StepStatus = "completed"
	StepStatusFailed     StepStatus = "failed"
)

type ProcessingStep struct {
	ID          string
	Name        string
	Description string
	Status      StepStatus
	StartedAt   *time.Time
	CompletedAt *time.Time
	Error       string
	Metadata    map[string]any
}

// SessionProgress is the step-level view of a session. OverallProgress is
// derived from the steps, never set independently.
type SessionProgress struct {
	SessionID               string
	Steps                   []ProcessingStep
	CurrentStep             string
	OverallProgress         int // 0-100
	EstimatedCompletionTime *time.Time
}

// ComputeOverallProgress derives the 0-100 completion percentage from the
// completed step count.
func ComputeOverallProgress(steps []ProcessingStep) int {
	if len(steps) == 0 {
		return 0
	}
	completed := 0
	for _, step := range steps {
		if step.Status == StepStatusCompleted {
			completed++
		}
	}
	return completed * 100 / len(steps)
}
