package classifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/license-atlas/pkg/models/domain"
)

var syncTime = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

func testUser(id string, lastLogin time.Time, suspended bool) domain.GoogleUser {
	return domain.GoogleUser{
		ID:            id,
		PrimaryEmail:  id + "@acme.com",
		Name:          domain.UserName{FullName: "User " + id, GivenName: "User", FamilyName: id},
		Suspended:     suspended,
		LastLoginTime: lastLogin,
		CreationTime:  syncTime.AddDate(-2, 0, 0),
	}
}

func testLicense(id, userID string, state domain.LicenseState) domain.GoogleLicense {
	return domain.GoogleLicense{
		ID:     id,
		SKUID:  "1010020028",
		SKU:    domain.SKU{Name: "business_plus", DisplayName: "Workspace Business Plus"},
		UserID: userID,
		State:  state,
		Cost:   domain.Cost{Amount: 18.0, Currency: "USD"},
	}
}

func TestHeuristic_Classify(t *testing.T) {
	h := NewHeuristic(DefaultSettings())
	ctx := context.Background()

	tests := []struct {
		name           string
		users          []domain.GoogleUser
		license        domain.GoogleLicense
		wantWaste      bool
		wantReason     string
		wantStatus     domain.EmployeeStatus
		wantSavings    float64
	}{
		{
			name:        "recently active user keeps the seat",
			users:       []domain.GoogleUser{testUser("u1", syncTime.AddDate(0, 0, -3), false)},
			license:     testLicense("l1", "u1", domain.LicenseStateActive),
			wantWaste:   false,
			wantStatus:  domain.EmployeeStatusActive,
			wantSavings: 0,
		},
		{
			name:        "suspended user is waste",
			users:       []domain.GoogleUser{testUser("u1", syncTime.AddDate(0, 0, -3), true)},
			license:     testLicense("l1", "u1", domain.LicenseStateActive),
			wantWaste:   true,
			wantReason:  "suspended but billed",
			wantStatus:  domain.EmployeeStatusSuspended,
			wantSavings: 18.0,
		},
		{
			name:        "orphaned license is waste",
			users:       nil,
			license:     testLicense("l1", "ghost", domain.LicenseStateActive),
			wantWaste:   true,
			wantReason:  "user no longer in directory",
			wantStatus:  domain.EmployeeStatusTerminated,
			wantSavings: 18.0,
		},
		{
			name:        "never logged in is waste",
			users:       []domain.GoogleUser{testUser("u1", time.Time{}, false)},
			license:     testLicense("l1", "u1", domain.LicenseStateActive),
			wantWaste:   true,
			wantReason:  "never logged in",
			wantStatus:  domain.EmployeeStatusInactive,
			wantSavings: 18.0,
		},
		{
			name:        "inactive past threshold is waste",
			users:       []domain.GoogleUser{testUser("u1", syncTime.AddDate(0, 0, -120), false)},
			license:     testLicense("l1", "u1", domain.LicenseStateActive),
			wantWaste:   true,
			wantReason:  "inactive 120d",
			wantStatus:  domain.EmployeeStatusInactive,
			wantSavings: 18.0,
		},
		{
			name:        "deleted license is not billed",
			users:       []domain.GoogleUser{testUser("u1", syncTime.AddDate(-2, 0, 0), false)},
			license:     testLicense("l1", "u1", domain.LicenseStateDeleted),
			wantWaste:   false,
			wantStatus:  domain.EmployeeStatusActive,
			wantSavings: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := domain.NewWorkspaceSnapshot("acme.com", tt.users, []domain.GoogleLicense{tt.license}, syncTime)

			verdicts, err := h.Classify(ctx, snapshot)
			require.NoError(t, err)
			require.Len(t, verdicts, 1)

			v := verdicts[0]
			assert.Equal(t, tt.wantWaste, v.IsWaste)
			assert.Equal(t, tt.wantReason, v.WasteReason)
			assert.Equal(t, tt.wantStatus, v.EmployeeStatus)
			assert.Equal(t, tt.wantSavings, v.MonthlySavings)
			assert.GreaterOrEqual(t, v.Confidence, 0.0)
			assert.LessOrEqual(t, v.Confidence, 1.0)
			if tt.wantWaste {
				assert.NotEmpty(t, v.WasteReason)
			}
		})
	}
}

func TestHeuristic_OneVerdictPerLicenseInOrder(t *testing.T) {
	h := NewHeuristic(DefaultSettings())

	users := []domain.GoogleUser{
		testUser("u1", syncTime.AddDate(0, 0, -1), false),
		testUser("u2", syncTime.AddDate(0, 0, -200), false),
	}
	licenses := []domain.GoogleLicense{
		testLicense("l1", "u1", domain.LicenseStateActive),
		testLicense("l2", "u2", domain.LicenseStateActive),
		testLicense("l3", "ghost", domain.LicenseStateActive),
	}
	snapshot := domain.NewWorkspaceSnapshot("acme.com", users, licenses, syncTime)

	verdicts, err := h.Classify(context.Background(), snapshot)
	require.NoError(t, err)
	require.Len(t, verdicts, len(licenses))
	for i, v := range verdicts {
		assert.Equal(t, licenses[i].ID, v.ID)
	}
}
