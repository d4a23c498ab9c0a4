package registry

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/de-tools/license-atlas/pkg/models/domain"
)

// Registry resolves Google Workspace domains to the credentials needed to
// audit them. Profiles live in an ini file (default ~/.licenseatlas), one
// section per domain:
//
//	[acme.com]
//	credentials_file = /etc/license-atlas/acme-sa.json
//	admin_subject = admin@acme.com
type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.DomainProfile, error)
	GetProfile(ctx context.Context, domainName string) (domain.DomainProfile, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load profile registry: %w", err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetProfiles(_ context.Context) ([]domain.DomainProfile, error) {
	var profiles []domain.DomainProfile
	for _, section := range r.cfg.Sections() {
		if section.Name() == ini.DefaultSection || len(section.Keys()) == 0 {
			continue
		}
		profiles = append(profiles, mapSection(section))
	}
	return profiles, nil
}

func (r *iniRegistry) GetProfile(_ context.Context, domainName string) (domain.DomainProfile, error) {
	if !r.cfg.HasSection(domainName) {
		return domain.DomainProfile{}, &domain.NotFoundError{Kind: "domain profile", ID: domainName}
	}
	section := r.cfg.Section(domainName)

	profile := mapSection(section)
	if profile.CredentialsFile == "" {
		return domain.DomainProfile{}, fmt.Errorf("profile %s: credentials_file is required", domainName)
	}
	if profile.AdminSubject == "" {
		return domain.DomainProfile{}, fmt.Errorf("profile %s: admin_subject is required", domainName)
	}
	return profile, nil
}

func mapSection(section *ini.Section) domain.DomainProfile {
	return domain.DomainProfile{
		Name:            section.Name(),
		CredentialsFile: section.Key("credentials_file").String(),
		AdminSubject:    section.Key("admin_subject").String(),
	}
}
