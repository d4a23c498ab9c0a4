package api

import "time"

type AuditLicense struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	UserName       string    `json:"userName"`
	UserEmail      string    `json:"userEmail"`
	LicenseName    string    `json:"licenseName"`
	Vendor         string    `json:"vendor"`
	TierPlan       string    `json:"tierPlan"`
	Price          float64   `json:"price"`
	Currency       string    `json:"currency"`
	LastLogin      time.Time `json:"lastLogin"`
	EmployeeStatus string    `json:"employeeStatus"`
	IsWaste        bool      `json:"isWaste"`
	WasteReason    string    `json:"wasteReason,omitempty"`
	Confidence     float64   `json:"confidence"`
	MonthlySavings float64   `json:"monthlySavings"`
}

type WasteCategory struct {
	Category     string         `json:"category"`
	Description  string         `json:"description"`
	Licenses     []AuditLicense `json:"licenses"`
	TotalSavings float64        `json:"totalSavings"`
	Count        int            `json:"count"`
}

type Recommendation struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
	Savings     float64  `json:"savings"`
	Confidence  float64  `json:"confidence"`
	ActionItems []string `json:"actionItems"`
}

type ReportSummary struct {
	TotalLicenses int     `json:"totalLicenses"`
	TotalWaste    int     `json:"totalWaste"`
	TotalSavings  float64 `json:"totalSavings"`
	Accuracy      float64 `json:"accuracy"`
}

type ReportMetadata struct {
	ProcessingTime      float64 `json:"processingTime"`
	ModelVersion        string  `json:"modelVersion"`
	ConfidenceThreshold float64 `json:"confidenceThreshold"`
}

type AuditReport struct {
	ID              string           `json:"id"`
	SessionID       string           `json:"sessionId"`
	GeneratedAt     time.Time        `json:"generatedAt"`
	Domain          string           `json:"domain"`
	Summary         ReportSummary    `json:"summary"`
	Categories      []WasteCategory  `json:"categories"`
	Recommendations []Recommendation `json:"recommendations"`
	Metadata        ReportMetadata   `json:"metadata"`
}
