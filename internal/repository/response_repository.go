package repository

import (
	"context"
	"time"

	"finquest-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ResponseRepository struct {
	Col *mongo.Collection
}

func NewResponseRepository(db *mongo.Database) *ResponseRepository {
	return &ResponseRepository{Col: db.Collection("question_responses")}
}

func (r *ResponseRepository) Create(ctx context.Context, response *models.QuestionResponse) error {
	res, err := r.Col.InsertOne(ctx, response)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		response.ID = oid.Hex()
	}
	return nil
}

func (r *ResponseRepository) FindBySession(ctx context.Context, sessionID string) ([]models.QuestionResponse, error) {
	opts := options.Find().SetSort(bson.D{{Key: "answered_at", Value: 1}})
	cursor, err := r.Col.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []models.QuestionResponse
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// RecentByUser returns the user's latest responses, newest first.
func (r *ResponseRepository) RecentByUser(ctx context.Context, userID string, limit int) ([]models.QuestionResponse, error) {
	opts := options.Find().SetSort(bson.D{{Key: "answered_at", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.Col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []models.QuestionResponse
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *ResponseRepository) CountCorrectSince(ctx context.Context, userID string, since time.Time) (int, error) {
	filter := bson.M{
		"user_id":     userID,
		"is_correct":  true,
		"answered_at": bson.M{"$gte": since},
	}
	n, err := r.Col.CountDocuments(ctx, filter)
	return int(n), err
}

// CountFastCorrect counts correct answers delivered within the time limit.
func (r *ResponseRepository) CountFastCorrect(ctx context.Context, userID string, timeLimit int) (int, error) {
	filter := bson.M{
		"user_id":    userID,
		"is_correct": true,
		"time_spent": bson.M{"$lte": timeLimit, "$gt": 0},
	}
	n, err := r.Col.CountDocuments(ctx, filter)
	return int(n), err
}

// UserCorrectCount is one leaderboard aggregation row.
type UserCorrectCount struct {
	UserID       string `bson:"_id"`
	CorrectCount int    `bson:"correct_count"`
}

// CorrectCountsSince groups correct answers per user since the cutoff,
// highest first. Used for weekly and timeframe leaderboards.
func (r *ResponseRepository) CorrectCountsSince(ctx context.Context, since time.Time, limit int) ([]UserCorrectCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"is_correct":  true,
			"answered_at": bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$user_id",
			"correct_count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"correct_count": -1}}},
		{{Key: "$limit", Value: limit}},
	}
	cursor, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []UserCorrectCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
