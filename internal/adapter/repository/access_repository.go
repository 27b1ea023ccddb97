package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
	"github.com/wekeepgrowing/identity-server/internal/domain/repository"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/db"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/db/model"
)

type AffiliationRepositoryImpl struct {
	col *mongo.Collection
}

func NewAffiliationRepository(database *db.Database) repository.AffiliationRepository {
	return &AffiliationRepositoryImpl{col: database.DB.Collection(db.CollectionAffiliations)}
}

func toAffiliationEntity(m *model.AffiliationModel) entity.Affiliation {
	return entity.Affiliation{
		ID:         m.ID,
		OrgID:      m.OrgID,
		UserID:     m.UserID,
		Permission: entity.Role(m.Permission),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (r *AffiliationRepositoryImpl) FindRole(ctx context.Context, orgID, userID string) (entity.Role, bool, error) {
	var m model.AffiliationModel

	err := r.col.FindOne(ctx, bson.M{"org_id": orgID, "user_id": userID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, err
	}

	return entity.Role(m.Permission), true, nil
}

func (r *AffiliationRepositoryImpl) FindByUser(ctx context.Context, userID string) ([]entity.Affiliation, error) {
	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var models []model.AffiliationModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, err
	}

	affiliations := make([]entity.Affiliation, 0, len(models))
	for i := range models {
		affiliations = append(affiliations, toAffiliationEntity(&models[i]))
	}
	return affiliations, nil
}

func (r *AffiliationRepositoryImpl) HasRoleAnywhere(ctx context.Context, userID string, role entity.Role) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID, "permission": string(role)})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type ClaimRepositoryImpl struct {
	col *mongo.Collection
}

func NewClaimRepository(database *db.Database) repository.ClaimRepository {
	return &ClaimRepositoryImpl{col: database.DB.Collection(db.CollectionClaims)}
}

func (r *ClaimRepositoryImpl) OrgOwnsDomain(ctx context.Context, orgID, domain string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"org_id": orgID, "domain": domain})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ClaimRepositoryImpl) OrgsOwningDomain(ctx context.Context, domain string) ([]string, error) {
	cursor, err := r.col.Find(ctx, bson.M{"domain": domain})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var models []model.ClaimModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, err
	}

	orgs := make([]string, 0, len(models))
	for i := range models {
		orgs = append(orgs, models[i].OrgID)
	}
	return orgs, nil
}
