package workspace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	admin "google.golang.org/api/admin/directory/v1"
	licensing "google.golang.org/api/licensing/v1"

	"github.com/de-tools/license-atlas/pkg/models/domain"
)

func TestMapDirectoryUser(t *testing.T) {
	u := &admin.User{
		Id:              "u1",
		PrimaryEmail:    "ada@acme.com",
		Name:            &admin.UserName{FullName: "Ada Lovelace", GivenName: "Ada", FamilyName: "Lovelace"},
		Suspended:       true,
		IsAdmin:         true,
		IsEnforcedIn2Sv: true,
		IsEnrolledIn2Sv: true,
		LastLoginTime:   "2025-07-01T10:00:00.000Z",
		CreationTime:    "2020-01-15T08:00:00.000Z",
	}

	mapped := mapDirectoryUser(u)
	assert.Equal(t, "u1", mapped.ID)
	assert.Equal(t, "ada@acme.com", mapped.PrimaryEmail)
	assert.Equal(t, "Ada Lovelace", mapped.Name.FullName)
	assert.True(t, mapped.Suspended)
	assert.True(t, mapped.IsAdmin)
	assert.Equal(t, time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC), mapped.LastLoginTime)
}

func TestParseDirectoryTime(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{name: "rfc3339", value: "2025-07-01T10:00:00Z", want: time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)},
		{name: "empty means never", value: "", want: time.Time{}},
		{name: "epoch means never", value: "1970-01-01T00:00:00.000Z", want: time.Time{}},
		{name: "garbage means never", value: "yesterday", want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDirectoryTime(tt.value))
		})
	}
}

func TestMapLicenseAssignment(t *testing.T) {
	a := &licensing.LicenseAssignment{
		ProductId:   "Google-Apps",
		ProductName: "Google Workspace",
		SkuId:       "1010020020",
		SkuName:     "Google Workspace Business Plus",
		UserId:      "ada@acme.com",
	}

	mapped := mapLicenseAssignment(a)
	assert.Equal(t, "1010020020:ada@acme.com", mapped.ID)
	assert.Equal(t, "ada@acme.com", mapped.UserID)
	assert.Equal(t, domain.LicenseStateActive, mapped.State)
	assert.Equal(t, 21.6, mapped.Cost.Amount)
	assert.Equal(t, "USD", mapped.Cost.Currency)

	t.Run("unknown sku uses fallback price", func(t *testing.T) {
		a.SkuName = "Some Future Edition"
		assert.Equal(t, fallbackSeatPrice, mapLicenseAssignment(a).Cost.Amount)
	})
}
