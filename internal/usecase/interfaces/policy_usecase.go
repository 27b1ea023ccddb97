package interfaces

import (
	"context"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
)

// PolicyUseCase is the authorization decision engine. Every predicate is a
// pure yes/no over stored state: no side effects, no logging, no mutation.
type PolicyUseCase interface {
	// UserRequired fails unless a caller is present.
	UserRequired(user *entity.User) error

	// VerifiedRequired fails unless the caller's email is verified.
	VerifiedRequired(user *entity.User) error

	// CheckPermission reports the role the user holds on the organization.
	// ok is false when no edge exists.
	CheckPermission(ctx context.Context, orgID, userID string) (entity.Role, bool, error)

	// RequireRole fails unless the user holds at least the required role on
	// the organization.
	RequireRole(ctx context.Context, orgID, userID string, required entity.Role) error

	// CheckSuperAdmin reports whether the user is a super admin anywhere.
	CheckSuperAdmin(ctx context.Context, userID string) (bool, error)

	// CheckOrgOwner reports whether the user holds the admin role or above
	// on the organization.
	CheckOrgOwner(ctx context.Context, orgID, userID string) (bool, error)

	// CheckUserBelongsToOrg reports whether the user holds any role on the
	// organization.
	CheckUserBelongsToOrg(ctx context.Context, orgID, userID string) (bool, error)

	// CheckDomainOwnership reports whether the user belongs to an
	// organization that claims the domain.
	CheckDomainOwnership(ctx context.Context, userID, domain string) (bool, error)

	// CheckUserIsAdminForUser reports whether actor administers some
	// organization the subject belongs to.
	CheckUserIsAdminForUser(ctx context.Context, actorID, subjectID string) (bool, error)
}
