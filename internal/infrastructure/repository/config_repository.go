package repository

import (
	"context"
	"fmt"

	"commerce-klaviyo-layer/internal/domain"
	"commerce-klaviyo-layer/internal/infrastructure/repository/entity"
	"commerce-klaviyo-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoConfigProvider reads the marketing settings the host platform stores
// for this scope. The collection is owned by the host; settings are read on
// every dispatch so admin changes take effect without a restart.
type MongoConfigProvider struct {
	collection *mongo.Collection
	scope      string
}

// NewMongoConfigProvider creates a provider for one store scope.
func NewMongoConfigProvider(db *mongo.Database, scope string) ports.ConfigProvider {
	return &MongoConfigProvider{
		collection: db.Collection("marketing_settings"),
		scope:      scope,
	}
}

// Get retrieves the marketing settings for the scope. A missing document
// means the integration is not configured and is not an error.
func (r *MongoConfigProvider) Get(ctx context.Context) (*domain.Config, error) {
	var doc entity.MongoMarketingConfigDoc
	filter := bson.M{"scope": r.scope}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get marketing settings: %w", err)
	}

	return doc.ToDomain(), nil
}
