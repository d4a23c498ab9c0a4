package classifier

import (
	"context"

	"github.com/de-tools/license-atlas/pkg/models/domain"
)

// Classifier produces one waste verdict per license assignment in the
// snapshot. Implementations must return exactly len(snapshot.Licenses)
// records in snapshot order; the pipeline fails the whole run on partial
// output rather than aggregating an incomplete report.
type Classifier interface {
	ModelVersion() string
	Classify(ctx context.Context, snapshot domain.GoogleWorkspaceData) ([]domain.AuditLicense, error)
}
