package workspace

import (
	"context"

	"github.com/de-tools/license-atlas/pkg/models/domain"
)

// Explorer produces an immutable snapshot of a Workspace organization's
// users and license assignments.
type Explorer interface {
	Snapshot(ctx context.Context, domainName string) (domain.GoogleWorkspaceData, error)
}
