package domain

import "time"

type LicenseState string

const (
	LicenseStateActive    LicenseState = "ACTIVE"
	LicenseStateSuspended LicenseState = "SUSPENDED"
	LicenseStateDeleted   LicenseState = "DELETED"
)

func (s LicenseState) Valid() bool {
	switch s {
	case LicenseStateActive, LicenseStateSuspended, LicenseStateDeleted:
		return true
	}
	return false
}

type UserName struct {
	FullName   string
	GivenName  string
	FamilyName string
}

// GoogleUser is an identity record from the Workspace directory. Immutable
// once ingested.
type GoogleUser struct {
	ID              string
	PrimaryEmail    string
	Name            UserName
	Suspended       bool
	LastLoginTime   time.Time
	CreationTime    time.Time
	IsAdmin         bool
	IsEnforcedIn2Sv bool
	IsEnrolledIn2Sv bool
}

type SKU struct {
	Name        string
	DisplayName string
	Description string
}

type Cost struct {
	Amount   float64
	Currency string // ISO 4217
}

// GoogleLicense is one SKU assignment, the unit the classifier evaluates.
// Immutable once ingested.
type GoogleLicense struct {
	ID               string
	SKUID            string
	SKU              SKU
	UserID           string
	State            LicenseState
	PurchaseOrderID  string
	AssignedQuantity int
	MaxQuantity      int
	Cost             Cost
}

// GoogleWorkspaceData is an immutable snapshot of an organization's users and
// license assignments at a point in time. TotalUsers and TotalLicenses
// describe the snapshot at creation and are never recomputed.
type GoogleWorkspaceData struct {
	Users         []GoogleUser
	Licenses      []GoogleLicense
	Domain        string
	TotalUsers    int
	TotalLicenses int
	LastSyncTime  time.Time
}

// NewWorkspaceSnapshot builds a snapshot with its denormalized counts set
// from the actual sets.
func NewWorkspaceSnapshot(domain string, users []GoogleUser, licenses []GoogleLicense, syncTime time.Time) GoogleWorkspaceData {
	return GoogleWorkspaceData{
		Users:         users,
		Licenses:      licenses,
		Domain:        domain,
		TotalUsers:    len(users),
		TotalLicenses: len(licenses),
		LastSyncTime:  syncTime,
	}
}
