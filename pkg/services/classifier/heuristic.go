package classifier

import (
	"context"
	"fmt"

	"github.com/de-tools/license-atlas/pkg/models/domain"
)

// Settings contains configurable thresholds for the heuristic classifier
type Settings struct {
	// InactiveDays is the login gap after which a seat counts as inactive
	// (default: 90)
	InactiveDays int
	// StaleDays is the login gap treated as near-certain waste (default: 365)
	StaleDays int
}

func DefaultSettings() Settings {
	return Settings{
		InactiveDays: 90,
		StaleDays:    365,
	}
}

// Heuristic is a rule-based classifier used for demo datasets and offline
// runs. Verdicts are derived from directory state and login recency only,
// anchored on the snapshot's sync time, so identical snapshots classify
// identically.
type Heuristic struct {
	settings Settings
}

func NewHeuristic(settings Settings) *Heuristic {
	return &Heuristic{settings: settings}
}

func (h *Heuristic) ModelVersion() string {
	return "heuristic-v1"
}

func (h *Heuristic) Classify(_ context.Context, snapshot domain.GoogleWorkspaceData) ([]domain.AuditLicense, error) {
	users := make(map[string]domain.GoogleUser, len(snapshot.Users))
	for _, u := range snapshot.Users {
		users[u.ID] = u
	}

	verdicts := make([]domain.AuditLicense, 0, len(snapshot.Licenses))
	for _, lic := range snapshot.Licenses {
		user, ok := users[lic.UserID]
		verdicts = append(verdicts, h.classifyOne(lic, user, ok, snapshot))
	}
	return verdicts, nil
}

func (h *Heuristic) classifyOne(lic domain.GoogleLicense, user domain.GoogleUser, userExists bool, snapshot domain.GoogleWorkspaceData) domain.AuditLicense {
	verdict := domain.AuditLicense{
		ID:             lic.ID,
		UserID:         lic.UserID,
		UserName:       user.Name.FullName,
		UserEmail:      user.PrimaryEmail,
		LicenseName:    lic.SKU.DisplayName,
		Vendor:         "Google",
		TierPlan:       lic.SKU.Name,
		Price:          lic.Cost.Amount,
		Currency:       lic.Cost.Currency,
		LastLogin:      user.LastLoginTime,
		EmployeeStatus: domain.EmployeeStatusActive,
	}

	mark := func(status domain.EmployeeStatus, reason string, confidence float64) {
		verdict.EmployeeStatus = status
		verdict.IsWaste = true
		verdict.WasteReason = reason
		verdict.Confidence = confidence
		verdict.MonthlySavings = lic.Cost.Amount
	}

	switch {
	case lic.State == domain.LicenseStateDeleted:
		// No longer billed; nothing to reclaim.
		verdict.Confidence = 0.9
	case !userExists:
		mark(domain.EmployeeStatusTerminated, "user no longer in directory", 0.95)
	case user.Suspended:
		mark(domain.EmployeeStatusSuspended, "suspended but billed", 0.9)
	case lic.State == domain.LicenseStateSuspended:
		mark(domain.EmployeeStatusActive, "license suspended but billed", 0.8)
	case user.LastLoginTime.IsZero():
		mark(domain.EmployeeStatusInactive, "never logged in", 0.85)
	default:
		days := int(snapshot.LastSyncTime.Sub(user.LastLoginTime).Hours() / 24)
		switch {
		case days >= h.settings.StaleDays:
			mark(domain.EmployeeStatusInactive, fmt.Sprintf("inactive %dd", days), 0.9)
		case days >= h.settings.InactiveDays:
			mark(domain.EmployeeStatusInactive, fmt.Sprintf("inactive %dd", days), 0.7)
		default:
			verdict.Confidence = 0.9
		}
	}

	return verdict
}
