package adapters

import (
	"github.com/de-tools/license-atlas/pkg/models/api"
	"github.com/de-tools/license-atlas/pkg/models/domain"
)

func MapAuditLicenseDomainToApi(l domain.AuditLicense) api.AuditLicense {
	return api.AuditLicense{
		ID:             l.ID,
		UserID:         l.UserID,
		UserName:       l.UserName,
		UserEmail:      l.UserEmail,
		LicenseName:    l.LicenseName,
		Vendor:         l.Vendor,
		TierPlan:       l.TierPlan,
		Price:          l.Price,
		Currency:       l.Currency,
		LastLogin:      l.LastLogin,
		EmployeeStatus: string(l.EmployeeStatus),
		IsWaste:        l.IsWaste,
		WasteReason:    l.WasteReason,
		Confidence:     l.Confidence,
		MonthlySavings: l.MonthlySavings,
	}
}

func MapWasteCategoryDomainToApi(c domain.WasteCategory) api.WasteCategory {
	res := api.WasteCategory{
		Category:     c.Category,
		Description:  c.Description,
		Licenses:     make([]api.AuditLicense, 0, len(c.Licenses)),
		TotalSavings: c.TotalSavings,
		Count:        c.Count,
	}
	for _, l := range c.Licenses {
		res.Licenses = append(res.Licenses, MapAuditLicenseDomainToApi(l))
	}
	return res
}

func MapRecommendationDomainToApi(r domain.Recommendation) api.Recommendation {
	return api.Recommendation{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Impact:      string(r.Impact),
		Savings:     r.Savings,
		Confidence:  r.Confidence,
		ActionItems: r.ActionItems,
	}
}

func MapAuditReportDomainToApi(r domain.AuditReport) api.AuditReport {
	res := api.AuditReport{
		ID:          r.ID,
		SessionID:   r.SessionID,
		GeneratedAt: r.GeneratedAt,
		Domain:      r.Domain,
		Summary: api.ReportSummary{
			TotalLicenses: r.Summary.TotalLicenses,
			TotalWaste:    r.Summary.TotalWaste,
			TotalSavings:  r.Summary.TotalSavings,
			Accuracy:      r.Summary.Accuracy,
		},
		Categories:      make([]api.WasteCategory, 0, len(r.Categories)),
		Recommendations: make([]api.Recommendation, 0, len(r.Recommendations)),
		Metadata: api.ReportMetadata{
			ProcessingTime:      r.Metadata.ProcessingTime,
			ModelVersion:        r.Metadata.ModelVersion,
			ConfidenceThreshold: r.Metadata.ConfidenceThreshold,
		},
	}
	for _, c := range r.Categories {
		res.Categories = append(res.Categories, MapWasteCategoryDomainToApi(c))
	}
	for _, rec := range r.Recommendations {
		res.Recommendations = append(res.Recommendations, MapRecommendationDomainToApi(rec))
	}
	return res
}
