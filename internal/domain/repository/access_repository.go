package repository

import (
	"context"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
)

// AffiliationRepository reads the organization-user permission edges.
// The edges are written by organization-membership flows elsewhere; the
// authorization engine only ever reads them.
type AffiliationRepository interface {
	// FindRole returns the role a user holds on an organization. The second
	// return value is false when no edge exists, which is distinct from an
	// explicit low role.
	FindRole(ctx context.Context, orgID, userID string) (entity.Role, bool, error)

	// FindByUser returns every affiliation a user holds.
	FindByUser(ctx context.Context, userID string) ([]entity.Affiliation, error)

	// HasRoleAnywhere reports whether any affiliation of the user carries
	// the given role.
	HasRoleAnywhere(ctx context.Context, userID string, role entity.Role) (bool, error)
}

// ClaimRepository reads the organization-domain ownership edges.
type ClaimRepository interface {
	// OrgOwnsDomain reports whether the organization holds a claim on the domain.
	OrgOwnsDomain(ctx context.Context, orgID, domain string) (bool, error)

	// OrgsOwningDomain returns the ids of every organization claiming the domain.
	OrgsOwningDomain(ctx context.Context, domain string) ([]string, error)
}
