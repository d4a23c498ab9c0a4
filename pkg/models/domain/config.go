package domain

import "fmt"

// DomainProfile identifies one Google Workspace organization in the local
// profile registry, with the credentials needed to read its directory and
// license assignments.
type DomainProfile struct {
	Name            string // Workspace primary domain
	CredentialsFile string // service-account JSON key path
	AdminSubject    string // delegated admin the service account impersonates
}

func (p DomainProfile) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.AdminSubject)
}
