package adapters

import (
	"github.com/de-tools/license-atlas/pkg/models/api"
	"github.com/de-tools/license-atlas/pkg/models/domain"
)

func MapSessionDomainToApi(s *domain.Session) api.Session {
	res := api.Session{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		ExpiresAt:    s.ExpiresAt,
		GoogleDomain: s.GoogleDomain,
		Status:       string(s.Status),
		ReportURL:    s.ReportURL,
		IsDemo:       s.IsDemo,
		DemoDataset:  string(s.DemoDataset),
		Progress:     MapProgressDomainToApi(s.Progress),
	}
	if s.Error != nil {
		res.Error = &api.SessionError{
			Message: s.Error.Message,
			Code:    s.Error.Code,
			Details: s.Error.Details,
		}
	}
	return res
}

func MapProgressDomainToApi(p domain.Progress) api.SessionProgress {
	return api.SessionProgress{
		CurrentStep:            p.CurrentStep,
		TotalSteps:             p.TotalSteps,
		CompletedSteps:         p.CompletedSteps,
		EstimatedTimeRemaining: p.EstimatedTimeRemaining,
	}
}

func MapSessionDomainToProgressUpdate(s *domain.Session) api.ProgressUpdate {
	return api.ProgressUpdate{
		SessionID:              s.ID,
		CurrentStep:            s.Progress.CurrentStep,
		CompletedSteps:         s.Progress.CompletedSteps,
		TotalSteps:             s.Progress.TotalSteps,
		EstimatedTimeRemaining: s.Progress.EstimatedTimeRemaining,
	}
}

func MapSessionApiToDomain(s api.Session) *domain.Session {
	res := &domain.Session{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		ExpiresAt:    s.ExpiresAt,
		GoogleDomain: s.GoogleDomain,
		Status:       domain.SessionStatus(s.Status),
		ReportURL:    s.ReportURL,
		IsDemo:       s.IsDemo,
		DemoDataset:  domain.DemoDataset(s.DemoDataset),
		Progress: domain.Progress{
			CurrentStep:            s.Progress.CurrentStep,
			TotalSteps:             s.Progress.TotalSteps,
			CompletedSteps:         s.Progress.CompletedSteps,
			EstimatedTimeRemaining: s.Progress.EstimatedTimeRemaining,
		},
	}
	if s.Error != nil {
		res.Error = &domain.SessionError{
			Message: s.Error.Message,
			Code:    s.Error.Code,
			Details: s.Error.Details,
		}
	}
	return res
}
