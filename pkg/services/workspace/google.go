package workspace

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	admin "google.golang.org/api/admin/directory/v1"
	licensing "google.golang.org/api/licensing/v1"
	"google.golang.org/api/option"

	"github.com/de-tools/license-atlas/pkg/models/domain"
)

// Workspace editions are licensed under the Google-Apps product.
const workspaceProductID = "Google-Apps"

// List prices per SKU name, USD per seat per month. The licensing API does
// not expose billing amounts, so savings estimates use published list
// prices; unknown SKUs fall back to the starter price.
var skuListPrices = map[string]float64{
	"Google Workspace Business Starter":  7.2,
	"Google Workspace Business Standard": 14.4,
	"Google Workspace Business Plus":     21.6,
	"Google Workspace Enterprise":        30.0,
}

const fallbackSeatPrice = 7.2

// GoogleExplorer reads an organization's directory and license assignments
// through a service account with domain-wide delegation.
type GoogleExplorer struct {
	directory *admin.Service
	licensing *licensing.Service
	now       func() time.Time
}

// NewGoogleExplorer authenticates as the profile's service account,
// impersonating its delegated admin subject.
func NewGoogleExplorer(ctx context.Context, profile domain.DomainProfile) (*GoogleExplorer, error) {
	keyData, err := os.ReadFile(profile.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials for %s: %w", profile.Name, err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(keyData,
		admin.AdminDirectoryUserReadonlyScope,
		licensing.AppsLicensingScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	jwtConfig.Subject = profile.AdminSubject

	client := jwtConfig.Client(ctx)

	directorySvc, err := admin.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create directory client: %w", err)
	}
	licensingSvc, err := licensing.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create licensing client: %w", err)
	}

	return &GoogleExplorer{
		directory: directorySvc,
		licensing: licensingSvc,
		now:       time.Now,
	}, nil
}

func (e *GoogleExplorer) Snapshot(ctx context.Context, domainName string) (domain.GoogleWorkspaceData, error) {
	users, err := e.listUsers(ctx, domainName)
	if err != nil {
		return domain.GoogleWorkspaceData{}, fmt.Errorf("list users for %s: %w", domainName, err)
	}
	licenses, err := e.listLicenses(ctx, domainName)
	if err != nil {
		return domain.GoogleWorkspaceData{}, fmt.Errorf("list licenses for %s: %w", domainName, err)
	}
	return domain.NewWorkspaceSnapshot(domainName, users, licenses, e.now().UTC()), nil
}

func (e *GoogleExplorer) listUsers(ctx context.Context, domainName string) ([]domain.GoogleUser, error) {
	var users []domain.GoogleUser

	call := e.directory.Users.List().Domain(domainName).OrderBy("email")
	err := call.Pages(ctx, func(page *admin.Users) error {
		for _, u := range page.Users {
			users = append(users, mapDirectoryUser(u))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (e *GoogleExplorer) listLicenses(ctx context.Context, domainName string) ([]domain.GoogleLicense, error) {
	var licenses []domain.GoogleLicense

	call := e.licensing.LicenseAssignments.ListForProduct(workspaceProductID, domainName)
	err := call.Pages(ctx, func(page *licensing.LicenseAssignmentList) error {
		for _, a := range page.Items {
			licenses = append(licenses, mapLicenseAssignment(a))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return licenses, nil
}

func mapDirectoryUser(u *admin.User) domain.GoogleUser {
	user := domain.GoogleUser{
		ID:              u.Id,
		PrimaryEmail:    u.PrimaryEmail,
		Suspended:       u.Suspended,
		IsAdmin:         u.IsAdmin,
		IsEnforcedIn2Sv: u.IsEnforcedIn2Sv,
		IsEnrolledIn2Sv: u.IsEnrolledIn2Sv,
		LastLoginTime:   parseDirectoryTime(u.LastLoginTime),
		CreationTime:    parseDirectoryTime(u.CreationTime),
	}
	if u.Name != nil {
		user.Name = domain.UserName{
			FullName:   u.Name.FullName,
			GivenName:  u.Name.GivenName,
			FamilyName: u.Name.FamilyName,
		}
	}
	return user
}

func mapLicenseAssignment(a *licensing.LicenseAssignment) domain.GoogleLicense {
	price, ok := skuListPrices[a.SkuName]
	if !ok {
		price = fallbackSeatPrice
	}
	return domain.GoogleLicense{
		ID:               a.SkuId + ":" + a.UserId,
		SKUID:            a.SkuId,
		SKU:              domain.SKU{Name: a.SkuId, DisplayName: a.SkuName, Description: a.ProductName},
		UserID:           a.UserId,
		State:            domain.LicenseStateActive,
		AssignedQuantity: 1,
		MaxQuantity:      1,
		Cost:             domain.Cost{Amount: price, Currency: "USD"},
	}
}

// The directory reports "never logged in" as the epoch; treat anything before
// 1971 as no login at all.
func parseDirectoryTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	if t.Year() <= 1970 {
		return time.Time{}
	}
	return t
}
