package domain

import "time"

type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "active"
	EmployeeStatusInactive   EmployeeStatus = "inactive"
	EmployeeStatusSuspended  EmployeeStatus = "suspended"
	EmployeeStatusTerminated EmployeeStatus = "terminated"
)

func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeStatusActive, EmployeeStatusInactive, EmployeeStatusSuspended, EmployeeStatusTerminated:
		return true
	}
	return false
}

// AuditLicense joins the classifier's verdict for one license assignment with
// the identity and pricing fields the report displays. WasteReason is
// required whenever IsWaste is true; MonthlySavings is meaningful only when
// IsWaste is true.
type AuditLicense struct {
	ID             string
	UserID         string
	UserName       string
	UserEmail      string
	LicenseName    string
	Vendor         string
	TierPlan       string
	Price          float64
	Currency       string
	LastLogin      time.Time
	EmployeeStatus EmployeeStatus
	IsWaste        bool
	WasteReason    string
	Confidence     float64 // 0-1
	MonthlySavings float64
}

// WasteCategory groups waste licenses sharing a reason pattern. TotalSavings
// equals the sum of member MonthlySavings and Count equals len(Licenses).
type WasteCategory struct {
	Category     string
	Description  string
	Licenses     []AuditLicense
	TotalSavings float64
	Count        int
}

type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

type Recommendation struct {
	ID          string
	Title       string
	Description string
	Impact      Impact
	Savings     float64
	Confidence  float64
	ActionItems []string
}

type ReportSummary struct {
	TotalLicenses int
	TotalWaste    int
	TotalSavings  float64
	Accuracy      float64 // 0-1
}

type ReportMetadata struct {
	ProcessingTime      float64 // seconds
	ModelVersion        string
	ConfidenceThreshold float64
}

// AuditReport is the terminal artifact of a completed session, referenced by
// session ID and fetched separately through the session's report URL.
type AuditReport struct {
	ID              string
	SessionID       string
	GeneratedAt     time.Time
	Domain          string
	Summary         ReportSummary
	Categories      []WasteCategory
	Recommendations []Recommendation
	Metadata        ReportMetadata
}
