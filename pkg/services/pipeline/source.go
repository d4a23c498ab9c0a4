package pipeline

import (
	"context"
	"fmt"

	"github.com/de-tools/license-atlas/pkg/models/domain"
	"github.com/de-tools/license-atlas/pkg/services/demo"
	"github.com/de-tools/license-atlas/pkg/services/registry"
	"github.com/de-tools/license-atlas/pkg/services/workspace"
)

// SnapshotSource resolves the workspace data a session will audit.
type SnapshotSource interface {
	Resolve(ctx context.Context, sess *domain.Session) (domain.GoogleWorkspaceData, error)
}

// ExplorerFactory builds a workspace explorer for a domain profile. Injected
// so tests do not need Google credentials.
type ExplorerFactory func(ctx context.Context, profile domain.DomainProfile) (workspace.Explorer, error)

type defaultSource struct {
	registry    registry.Registry
	newExplorer ExplorerFactory
}

// NewSource returns the standard snapshot source: canned data for demo
// sessions, a live directory read through the profile registry otherwise.
func NewSource(reg registry.Registry, newExplorer ExplorerFactory) SnapshotSource {
	return &defaultSource{registry: reg, newExplorer: newExplorer}
}

func (s *defaultSource) Resolve(ctx context.Context, sess *domain.Session) (domain.GoogleWorkspaceData, error) {
	if sess.IsDemo {
		return demo.Snapshot(sess.DemoDataset)
	}

	profile, err := s.registry.GetProfile(ctx, sess.GoogleDomain)
	if err != nil {
		return domain.GoogleWorkspaceData{}, err
	}
	explorer, err := s.newExplorer(ctx, profile)
	if err != nil {
		return domain.GoogleWorkspaceData{}, fmt.Errorf("create explorer for %s: %w", profile.Name, err)
	}
	return explorer.Snapshot(ctx, sess.GoogleDomain)
}
