package usecase

import (
	"context"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
	"github.com/wekeepgrowing/identity-server/internal/domain/repository"
	apperrors "github.com/wekeepgrowing/identity-server/internal/errors"
	"github.com/wekeepgrowing/identity-server/internal/usecase/interfaces"
)

// policyUseCase evaluates authorization predicates over stored affiliation
// and claim edges. It holds no logger on purpose: denials are logged once
// at the call site, never inside the engine.
type policyUseCase struct {
	affiliations repository.AffiliationRepository
	claims       repository.ClaimRepository
}

// NewPolicyUseCase wires the authorization policy engine.
func NewPolicyUseCase(affiliations repository.AffiliationRepository, claims repository.ClaimRepository) interfaces.PolicyUseCase {
	return &policyUseCase{
		affiliations: affiliations,
		claims:       claims,
	}
}

func (p *policyUseCase) UserRequired(user *entity.User) error {
	if user == nil {
		return apperrors.NewAppError(apperrors.ErrUnauthenticated, "authentication required", nil)
	}
	return nil
}

func (p *policyUseCase) VerifiedRequired(user *entity.User) error {
	if err := p.UserRequired(user); err != nil {
		return err
	}
	if !user.EmailVerified {
		return apperrors.NewAppError(apperrors.ErrUnauthenticated, "verified account required", nil)
	}
	return nil
}

func (p *policyUseCase) CheckPermission(ctx context.Context, orgID, userID string) (entity.Role, bool, error) {
	return p.affiliations.FindRole(ctx, orgID, userID)
}

func (p *policyUseCase) RequireRole(ctx context.Context, orgID, userID string, required entity.Role) error {
	role, ok, err := p.affiliations.FindRole(ctx, orgID, userID)
	if err != nil {
		return apperrors.Wrap(err, "permission lookup failed")
	}
	if !ok || !role.MeetsOrExceeds(required) {
		return apperrors.NewAppError(apperrors.ErrUnauthorized, "permission denied", nil)
	}
	return nil
}

func (p *policyUseCase) CheckSuperAdmin(ctx context.Context, userID string) (bool, error) {
	return p.affiliations.HasRoleAnywhere(ctx, userID, entity.RoleSuperAdmin)
}

func (p *policyUseCase) CheckOrgOwner(ctx context.Context, orgID, userID string) (bool, error) {
	role, ok, err := p.affiliations.FindRole(ctx, orgID, userID)
	if err != nil {
		return false, err
	}
	return ok && role.MeetsOrExceeds(entity.RoleAdmin), nil
}

func (p *policyUseCase) CheckUserBelongsToOrg(ctx context.Context, orgID, userID string) (bool, error) {
	_, ok, err := p.affiliations.FindRole(ctx, orgID, userID)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (p *policyUseCase) CheckDomainOwnership(ctx context.Context, userID, domain string) (bool, error) {
	orgs, err := p.claims.OrgsOwningDomain(ctx, domain)
	if err != nil {
		return false, err
	}
	for _, orgID := range orgs {
		_, ok, err := p.affiliations.FindRole(ctx, orgID, userID)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (p *policyUseCase) CheckUserIsAdminForUser(ctx context.Context, actorID, subjectID string) (bool, error) {
	subjectEdges, err := p.affiliations.FindByUser(ctx, subjectID)
	if err != nil {
		return false, err
	}
	for _, edge := range subjectEdges {
		role, ok, err := p.affiliations.FindRole(ctx, edge.OrgID, actorID)
		if err != nil {
			return false, err
		}
		if ok && role.MeetsOrExceeds(entity.RoleAdmin) {
			return true, nil
		}
	}
	return false, nil
}
