package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/identity-server/internal/config"
)

// Collection names.
const (
	CollectionUsers        = "users"
	CollectionAffiliations = "affiliations"
	CollectionClaims       = "claims"
	CollectionAuditLogs    = "audit_logs"
)

// Database holds the mongo client and the service database handle.
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewMongoDatabase connects to the document store and verifies the
// connection with a ping.
func NewMongoDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Database, error) {
	timeout := time.Duration(cfg.MongoDB.Timeout) * time.Second
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("connected to mongodb",
		zap.String("database", cfg.MongoDB.Database))

	return &Database{
		Client: client,
		DB:     client.Database(cfg.MongoDB.Database),
	}, nil
}

// EnsureIndexes creates the indexes the repositories rely on. Username
// uniqueness backs the case-insensitive sign-up check; the store is the
// final arbiter under concurrent registration.
func (d *Database) EnsureIndexes(ctx context.Context) error {
	_, err := d.DB.Collection(CollectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = d.DB.Collection(CollectionAffiliations).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "org_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create affiliations index: %w", err)
	}

	_, err = d.DB.Collection(CollectionClaims).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "domain", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create claims index: %w", err)
	}

	_, err = d.DB.Collection(CollectionAuditLogs).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create audit_logs index: %w", err)
	}

	return nil
}

// Close disconnects from the document store.
func (d *Database) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}
