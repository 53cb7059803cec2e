package authroles

import (
	"strings"

	domainauth "github.com/predictlab/forecast-ui-api/internal/domain/auth"
)

// AllowlistRoleMapper assigns the initial role at provisioning time: emails
// on the allow-list become admin, everyone else becomes user. The allow-list
// is configuration data supplied at startup, not inherent logic.
type AllowlistRoleMapper struct {
	AdminEmails []string
}

// Assign returns the role for the given email. Matching is case-insensitive;
// an empty email can never be an admin.
func (m AllowlistRoleMapper) Assign(email string) domainauth.Role {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domainauth.RoleUser
	}
	for _, allowed := range m.AdminEmails {
		if strings.EqualFold(allowed, email) {
			return domainauth.RoleAdmin
		}
	}
	return domainauth.RoleUser
}
