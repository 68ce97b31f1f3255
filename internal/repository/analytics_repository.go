package repository

import (
	"context"
	"time"

	"finquest-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AnalyticsRepository struct {
	Col *mongo.Collection
}

func NewAnalyticsRepository(db *mongo.Database) *AnalyticsRepository {
	return &AnalyticsRepository{Col: db.Collection("learning_events")}
}

func (r *AnalyticsRepository) Insert(ctx context.Context, event *models.LearningEvent) error {
	_, err := r.Col.InsertOne(ctx, event)
	return err
}

func (r *AnalyticsRepository) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]models.LearningEvent, error) {
	filter := bson.M{"user_id": userID, "timestamp": bson.M{"$gte": since}}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.LearningEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// EventTypeCount is one row of the event-type breakdown.
type EventTypeCount struct {
	EventType string `bson:"_id"`
	Count     int    `bson:"count"`
}

func (r *AnalyticsRepository) CountByTypeSince(ctx context.Context, since time.Time) ([]EventTypeCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"timestamp": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{"_id": "$event_type", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	cursor, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []EventTypeCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AnalyticsRepository) CountActiveUsersSince(ctx context.Context, since time.Time) (int, error) {
	ids, err := r.Col.Distinct(ctx, "user_id", bson.M{"timestamp": bson.M{"$gte": since}})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
