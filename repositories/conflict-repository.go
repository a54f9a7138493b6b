package repositories

import (
	"context"
	"fmt"

	"lawbench-project/microservices/tasks-service/models"
	"lawbench-project/microservices/tasks-service/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConflictRepository reads the firm's known-conflicts table from MongoDB.
// Entries are returned in insertion order because the detector reports the
// first match.
type ConflictRepository struct {
	collection *mongo.Collection
}

func NewConflictRepository(collection *mongo.Collection) *ConflictRepository {
	return &ConflictRepository{collection: collection}
}

var _ services.ConflictRegistry = (*ConflictRepository)(nil)

func (r *ConflictRepository) Entries(ctx context.Context) ([]models.ConflictEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load conflict entries: %v", err)
	}
	defer cursor.Close(ctx)

	var entries []models.ConflictEntry
	for cursor.Next(ctx) {
		var entry models.ConflictEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode conflict entry: %v", err)
		}
		entries = append(entries, entry)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return entries, nil
}
