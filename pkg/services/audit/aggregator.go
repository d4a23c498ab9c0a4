package audit

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/de-tools/license-atlas/pkg/models/domain"
)

// Settings contains configurable thresholds for report aggregation
type Settings struct {
	// ConfidenceThreshold is the minimum classifier confidence counted as
	// accurate in the summary (default: 0.8)
	ConfidenceThreshold float64
	// MinRecommendationSavings is the minimum category savings that warrants
	// a recommendation (default: 10.0)
	MinRecommendationSavings float64
	// HighImpactSavings is the monthly savings above which a recommendation
	// is high impact (default: 500.0)
	HighImpactSavings float64
	// MediumImpactSavings is the monthly savings above which a recommendation
	// is medium impact (default: 100.0)
	MediumImpactSavings float64
	// MaxActionItems caps the action items derived per recommendation
	// (default: 3)
	MaxActionItems int
}

// DefaultSettings returns the default aggregation configuration
func DefaultSettings() Settings {
	return Settings{
		ConfidenceThreshold:      0.8,
		MinRecommendationSavings: 10.0,
		HighImpactSavings:        500.0,
		MediumImpactSavings:      100.0,
		MaxActionItems:           3,
	}
}

// Input identifies the report being built. ReportID is allocated by the
// caller so aggregation itself stays deterministic.
type Input struct {
	ReportID       string
	SessionID      string
	Domain         string
	Licenses       []domain.AuditLicense
	ProcessingTime float64
	ModelVersion   string
}

var categoryDefs = map[string]string{
	"suspended_user":    "Licenses billed to suspended accounts",
	"offboarded_user":   "Licenses still assigned to terminated employees",
	"never_activated":   "Seats that were purchased but never used",
	"inactive_user":     "Licenses held by users who stopped logging in",
	"duplicate_license": "Overlapping license assignments for the same user",
	"oversized_tier":    "Users on a higher tier than their usage warrants",
	"other_waste":       "Wasted licenses without a more specific pattern",
}

// categoryKey assigns a waste license to its category. The assignment is a
// pure function of (employeeStatus, wasteReason); non-waste records are never
// passed here.
func categoryKey(l domain.AuditLicense) string {
	switch l.EmployeeStatus {
	case domain.EmployeeStatusSuspended:
		return "suspended_user"
	case domain.EmployeeStatusTerminated:
		return "offboarded_user"
	}

	reason := strings.ToLower(l.WasteReason)
	switch {
	case strings.Contains(reason, "never"):
		return "never_activated"
	case strings.Contains(reason, "inactive"):
		return "inactive_user"
	case strings.Contains(reason, "duplicate"):
		return "duplicate_license"
	case strings.Contains(reason, "tier"), strings.Contains(reason, "downgrade"):
		return "oversized_tier"
	default:
		return "other_waste"
	}
}

func validateRecord(index int, l domain.AuditLicense) error {
	if l.IsWaste && l.WasteReason == "" {
		return &domain.InvalidRecordError{Index: index, Reason: "isWaste set without wasteReason"}
	}
	if l.Confidence < 0 || l.Confidence > 1 {
		return &domain.InvalidRecordError{Index: index, Reason: fmt.Sprintf("confidence %v outside [0,1]", l.Confidence)}
	}
	if l.MonthlySavings < 0 {
		return &domain.InvalidRecordError{Index: index, Reason: fmt.Sprintf("negative monthlySavings %v", l.MonthlySavings)}
	}
	if !l.EmployeeStatus.Valid() {
		return &domain.InvalidRecordError{Index: index, Reason: fmt.Sprintf("unknown employeeStatus %q", l.EmployeeStatus)}
	}
	return nil
}

// BuildReport turns classified license records into a full audit report:
// waste categories in input order, summary statistics, and recommendations.
// Given identical input and settings the output is identical except for
// GeneratedAt.
func BuildReport(input Input, settings Settings) (domain.AuditReport, error) {
	if len(input.Licenses) == 0 {
		return domain.AuditReport{}, &domain.EmptyInputError{}
	}
	for i, l := range input.Licenses {
		if err := validateRecord(i, l); err != nil {
			return domain.AuditReport{}, err
		}
	}

	// Partition waste records, preserving input order within each category
	// and ordering categories by first appearance.
	byKey := map[string]*domain.WasteCategory{}
	var order []string
	wasteCount := 0
	accurate := 0

	for _, l := range input.Licenses {
		if !l.IsWaste {
			continue
		}
		wasteCount++
		if l.Confidence >= settings.ConfidenceThreshold {
			accurate++
		}

		key := categoryKey(l)
		cat, ok := byKey[key]
		if !ok {
			cat = &domain.WasteCategory{
				Category:    key,
				Description: categoryDefs[key],
			}
			byKey[key] = cat
			order = append(order, key)
		}
		cat.Licenses = append(cat.Licenses, l)
		cat.TotalSavings += l.MonthlySavings
		cat.Count++
	}

	accuracy := 1.0
	if wasteCount > 0 {
		accuracy = float64(accurate) / float64(wasteCount)
	}

	report := domain.AuditReport{
		ID:          input.ReportID,
		SessionID:   input.SessionID,
		GeneratedAt: time.Now().UTC(),
		Domain:      input.Domain,
		Summary: domain.ReportSummary{
			TotalLicenses: len(input.Licenses),
			Accuracy:      accuracy,
		},
		Categories:      make([]domain.WasteCategory, 0, len(order)),
		Recommendations: []domain.Recommendation{},
		Metadata: domain.ReportMetadata{
			ProcessingTime:      input.ProcessingTime,
			ModelVersion:        input.ModelVersion,
			ConfidenceThreshold: settings.ConfidenceThreshold,
		},
	}

	for _, key := range order {
		cat := byKey[key]
		report.Categories = append(report.Categories, *cat)
		report.Summary.TotalWaste += cat.Count
		report.Summary.TotalSavings += cat.TotalSavings

		if rec, ok := buildRecommendation(*cat, settings); ok {
			report.Recommendations = append(report.Recommendations, rec)
		}
	}

	return report, nil
}

func buildRecommendation(cat domain.WasteCategory, settings Settings) (domain.Recommendation, bool) {
	if cat.TotalSavings <= settings.MinRecommendationSavings {
		return domain.Recommendation{}, false
	}

	impact := domain.ImpactLow
	switch {
	case cat.TotalSavings >= settings.HighImpactSavings:
		impact = domain.ImpactHigh
	case cat.TotalSavings >= settings.MediumImpactSavings:
		impact = domain.ImpactMedium
	}

	confidence := 0.0
	for _, l := range cat.Licenses {
		confidence += l.Confidence
	}
	confidence /= float64(len(cat.Licenses))

	return domain.Recommendation{
		ID:          "rec_" + cat.Category,
		Title:       fmt.Sprintf("Reclaim %d %s license(s)", cat.Count, strings.ReplaceAll(cat.Category, "_", " ")),
		Description: cat.Description,
		Impact:      impact,
		Savings:     cat.TotalSavings,
		Confidence:  confidence,
		ActionItems: actionItems(cat, settings.MaxActionItems),
	}, true
}

// actionItems derives concrete follow-ups from the category's dominant waste
// reasons, most frequent first. Ties keep first-appearance order so identical
// input yields identical items.
func actionItems(cat domain.WasteCategory, limit int) []string {
	counts := map[string]int{}
	var reasons []string
	for _, l := range cat.Licenses {
		if _, seen := counts[l.WasteReason]; !seen {
			reasons = append(reasons, l.WasteReason)
		}
		counts[l.WasteReason]++
	}

	sort.SliceStable(reasons, func(i, j int) bool {
		return counts[reasons[i]] > counts[reasons[j]]
	})

	if limit > 0 && len(reasons) > limit {
		reasons = reasons[:limit]
	}

	items := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		items = append(items, fmt.Sprintf("Review %d license(s) flagged %q and reclaim unused seats", counts[reason], reason))
	}
	return items
}
