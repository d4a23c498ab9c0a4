package api

import (
	"fmt"
	"time"
)

var demoDatasets = map[string]struct{}{
	"techstartup": {},
	"growthco":    {},
	"scalefast":   {},
}

// CreateSessionRequest is the inbound schema for starting an audit run.
// Field names are contractual.
type CreateSessionRequest struct {
	GoogleDomain string `json:"googleDomain,omitempty"`
	IsDemo       bool   `json:"isDemo"`
	DemoDataset  string `json:"demoDataset,omitempty"`
}

// Validate checks shape and co-occurrence rules. A demo session must name a
// dataset; a live session must not.
func (r CreateSessionRequest) Validate() error {
	if r.IsDemo {
		if r.DemoDataset == "" {
			return fmt.Errorf("demoDataset is required when isDemo is true")
		}
		if _, ok := demoDatasets[r.DemoDataset]; !ok {
			return fmt.Errorf("unknown demoDataset %q", r.DemoDataset)
		}
		return nil
	}
	if r.DemoDataset != "" {
		return fmt.Errorf("demoDataset is only allowed when isDemo is true")
	}
	if r.GoogleDomain == "" {
		return fmt.Errorf("googleDomain is required for non-demo sessions")
	}
	return nil
}

type SessionProgress struct {
	CurrentStep            string `json:"currentStep"`
	TotalSteps             int    `json:"totalSteps"`
	CompletedSteps         int    `json:"completedSteps"`
	EstimatedTimeRemaining *int   `json:"estimatedTimeRemaining,omitempty"`
}

type SessionError struct {
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

type Session struct {
	ID           string          `json:"id"`
	CreatedAt    time.Time       `json:"createdAt"`
	ExpiresAt    time.Time       `json:"expiresAt"`
	GoogleDomain string          `json:"googleDomain,omitempty"`
	Status       string          `json:"status"`
	ReportURL    string          `json:"reportUrl,omitempty"`
	IsDemo       bool            `json:"isDemo"`
	DemoDataset  string          `json:"demoDataset,omitempty"`
	Progress     SessionProgress `json:"progress"`
	Error        *SessionError   `json:"error,omitempty"`
}

// ProgressUpdate is the poll payload for a processing session.
type ProgressUpdate struct {
	SessionID              string `json:"sessionId"`
	CurrentStep            string `json:"currentStep"`
	CompletedSteps         int    `json:"completedSteps"`
	TotalSteps             int    `json:"totalSteps"`
	EstimatedTimeRemaining *int   `json:"estimatedTimeRemaining,omitempty"`
}
