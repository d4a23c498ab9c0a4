package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/license-atlas/pkg/models/domain"
	"github.com/de-tools/license-atlas/pkg/models/store"
)

func MapReportDomainToStore(r domain.AuditReport) (store.ReportRecord, error) {
	payload, err := json.Marshal(MapAuditReportDomainToApi(r))
	if err != nil {
		return store.ReportRecord{}, fmt.Errorf("marshal report payload: %w", err)
	}
	return store.ReportRecord{
		ID:          r.ID,
		SessionID:   r.SessionID,
		Domain:      r.Domain,
		GeneratedAt: r.GeneratedAt,
		Payload:     payload,
	}, nil
}
