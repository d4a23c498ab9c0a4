package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/license-atlas/pkg/models/domain"
	"github.com/de-tools/license-atlas/pkg/services/workspace"
)

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) GetProfiles(ctx context.Context) ([]domain.DomainProfile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.DomainProfile), args.Error(1)
}

func (m *mockRegistry) GetProfile(ctx context.Context, domainName string) (domain.DomainProfile, error) {
	args := m.Called(ctx, domainName)
	return args.Get(0).(domain.DomainProfile), args.Error(1)
}

type stubExplorer struct {
	snapshot domain.GoogleWorkspaceData
}

func (s *stubExplorer) Snapshot(_ context.Context, _ string) (domain.GoogleWorkspaceData, error) {
	return s.snapshot, nil
}

func TestSource_DemoSessionUsesCannedData(t *testing.T) {
	reg := new(mockRegistry)
	source := NewSource(reg, nil)

	sess := &domain.Session{ID: "s-1", IsDemo: true, DemoDataset: domain.DemoDatasetTechStartup}
	snapshot, err := source.Resolve(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, "techstartup.io", snapshot.Domain)
	assert.NotZero(t, snapshot.TotalLicenses)
	reg.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
}

func TestSource_LiveSessionGoesThroughRegistry(t *testing.T) {
	profile := domain.DomainProfile{
		Name:            "acme.com",
		CredentialsFile: "/etc/license-atlas/acme.json",
		AdminSubject:    "admin@acme.com",
	}
	reg := new(mockRegistry)
	reg.On("GetProfile", mock.Anything, "acme.com").Return(profile, nil)

	want := domain.NewWorkspaceSnapshot("acme.com", nil, []domain.GoogleLicense{{ID: "lic-1"}}, time.Now())
	factory := func(_ context.Context, p domain.DomainProfile) (workspace.Explorer, error) {
		assert.Equal(t, profile, p)
		return &stubExplorer{snapshot: want}, nil
	}

	source := NewSource(reg, factory)
	sess := &domain.Session{ID: "s-2", GoogleDomain: "acme.com"}

	snapshot, err := source.Resolve(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, want, snapshot)
	reg.AssertExpectations(t)
}

func TestSource_UnknownDomainFails(t *testing.T) {
	reg := new(mockRegistry)
	reg.On("GetProfile", mock.Anything, "nope.com").
		Return(domain.DomainProfile{}, &domain.NotFoundError{Kind: "domain profile", ID: "nope.com"})

	source := NewSource(reg, nil)
	sess := &domain.Session{ID: "s-3", GoogleDomain: "nope.com"}

	_, err := source.Resolve(context.Background(), sess)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
