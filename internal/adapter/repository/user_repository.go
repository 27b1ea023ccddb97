package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
	"github.com/wekeepgrowing/identity-server/internal/domain/repository"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/db"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/db/model"
)

type UserRepositoryImpl struct {
	col *mongo.Collection
}

func NewUserRepository(database *db.Database) repository.UserRepository {
	return &UserRepositoryImpl{col: database.DB.Collection(db.CollectionUsers)}
}

func toUserModel(user *entity.User) *model.UserModel {
	m := &model.UserModel{
		ID:               user.ID,
		Username:         user.Username,
		Name:             user.Name,
		PasswordHash:     user.PasswordHash,
		Language:         user.Language,
		EmailVerified:    user.EmailVerified,
		PhoneVerified:    user.PhoneVerified,
		TFASendMethod:    string(user.TFASendMethod),
		FailedLoginCount: user.FailedLoginCount,
		TFACode:          user.TFACode,
		TFACodeExpiresAt: user.TFACodeExpiresAt,
		RefreshSessionID: user.RefreshSessionID,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	}
	if user.Phone != nil {
		m.PhoneCiphertext = user.Phone.Ciphertext
		m.PhoneNonce = user.Phone.Nonce
	}
	return m
}

func toUserEntity(m *model.UserModel) *entity.User {
	user := &entity.User{
		ID:               m.ID,
		Username:         m.Username,
		Name:             m.Name,
		PasswordHash:     m.PasswordHash,
		Language:         m.Language,
		EmailVerified:    m.EmailVerified,
		PhoneVerified:    m.PhoneVerified,
		TFASendMethod:    entity.SendMethod(m.TFASendMethod),
		FailedLoginCount: m.FailedLoginCount,
		TFACode:          m.TFACode,
		TFACodeExpiresAt: m.TFACodeExpiresAt,
		RefreshSessionID: m.RefreshSessionID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if len(m.PhoneCiphertext) > 0 {
		user.Phone = &entity.EncryptedPhone{
			Ciphertext: m.PhoneCiphertext,
			Nonce:      m.PhoneNonce,
		}
	}
	return user
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var userModel model.UserModel

	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&userModel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return toUserEntity(&userModel), nil
}

func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var userModel model.UserModel

	err := r.col.FindOne(ctx, bson.M{"username": entity.NormalizeUsername(username)}).Decode(&userModel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return toUserEntity(&userModel), nil
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	_, err := r.col.InsertOne(ctx, toUserModel(user))
	return err
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, toUserModel(user))
	return err
}

func (r *UserRepositoryImpl) IncrementFailedLogins(ctx context.Context, id string) (int, error) {
	var userModel model.UserModel

	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"failed_login_count": 1},
			"$set": bson.M{"updated_at": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&userModel)
	if err != nil {
		return 0, err
	}

	return userModel.FailedLoginCount, nil
}
