package demo

import (
	"fmt"
	"time"

	"github.com/de-tools/license-atlas/pkg/models/domain"
)

// Snapshots are deterministic: the same dataset name always yields the same
// workspace data, so demo reports are reproducible across runs and nodes.
var demoSyncTime = time.Date(2025, 8, 1, 6, 0, 0, 0, time.UTC)

type profile struct {
	domain        string
	users         int
	skuName       string
	skuDisplay    string
	price         float64
	suspendedMod  int // every Nth user is suspended
	inactiveMod   int // every Nth user stopped logging in months ago
	neverLoginMod int // every Nth user never logged in
	orphaned      int // licenses assigned to users no longer in the directory
}

var profiles = map[domain.DemoDataset]profile{
	domain.DemoDatasetTechStartup: {
		domain:        "techstartup.io",
		users:         24,
		skuName:       "business_starter",
		skuDisplay:    "Workspace Business Starter",
		price:         7.2,
		suspendedMod:  8,
		inactiveMod:   5,
		neverLoginMod: 12,
		orphaned:      2,
	},
	domain.DemoDatasetGrowthCo: {
		domain:        "growthco.com",
		users:         120,
		skuName:       "business_standard",
		skuDisplay:    "Workspace Business Standard",
		price:         14.4,
		suspendedMod:  10,
		inactiveMod:   4,
		neverLoginMod: 15,
		orphaned:      6,
	},
	domain.DemoDatasetScaleFast: {
		domain:        "scalefast.dev",
		users:         400,
		skuName:       "business_plus",
		skuDisplay:    "Workspace Business Plus",
		price:         21.6,
		suspendedMod:  12,
		inactiveMod:   3,
		neverLoginMod: 20,
		orphaned:      15,
	},
}

// Snapshot returns the canned workspace data for a demo dataset.
func Snapshot(dataset domain.DemoDataset) (domain.GoogleWorkspaceData, error) {
	p, ok := profiles[dataset]
	if !ok {
		return domain.GoogleWorkspaceData{}, &domain.ValidationError{Field: "demoDataset", Reason: fmt.Sprintf("unknown dataset %q", dataset)}
	}

	users := make([]domain.GoogleUser, 0, p.users)
	licenses := make([]domain.GoogleLicense, 0, p.users+p.orphaned)

	for i := 1; i <= p.users; i++ {
		id := fmt.Sprintf("user-%03d", i)
		lastLogin := demoSyncTime.AddDate(0, 0, -(i % 21)) // active spread over 3 weeks
		switch {
		case p.neverLoginMod > 0 && i%p.neverLoginMod == 0:
			lastLogin = time.Time{}
		case p.inactiveMod > 0 && i%p.inactiveMod == 0:
			lastLogin = demoSyncTime.AddDate(0, 0, -(90 + i))
		}

		users = append(users, domain.GoogleUser{
			ID:              id,
			PrimaryEmail:    fmt.Sprintf("%s@%s", id, p.domain),
			Name:            domain.UserName{FullName: fmt.Sprintf("Demo User %03d", i), GivenName: "Demo", FamilyName: fmt.Sprintf("User %03d", i)},
			Suspended:       p.suspendedMod > 0 && i%p.suspendedMod == 0,
			LastLoginTime:   lastLogin,
			CreationTime:    demoSyncTime.AddDate(-1, 0, -i),
			IsAdmin:         i == 1,
			IsEnforcedIn2Sv: i%2 == 0,
			IsEnrolledIn2Sv: i%2 == 0,
		})

		licenses = append(licenses, license(p, fmt.Sprintf("lic-%03d", i), id))
	}

	for i := 1; i <= p.orphaned; i++ {
		licenses = append(licenses, license(p, fmt.Sprintf("lic-orphan-%03d", i), fmt.Sprintf("departed-%03d", i)))
	}

	return domain.NewWorkspaceSnapshot(p.domain, users, licenses, demoSyncTime), nil
}

func license(p profile, id, userID string) domain.GoogleLicense {
	return domain.GoogleLicense{
		ID:               id,
		SKUID:            "1010020020",
		SKU:              domain.SKU{Name: p.skuName, DisplayName: p.skuDisplay, Description: "Google Workspace edition"},
		UserID:           userID,
		State:            domain.LicenseStateActive,
		AssignedQuantity: 1,
		MaxQuantity:      1,
		Cost:             domain.Cost{Amount: p.price, Currency: "USD"},
	}
}
