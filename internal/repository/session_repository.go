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

type SessionRepository struct {
	Col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{Col: db.Collection("quiz_sessions")}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.QuizSession) error {
	res, err := r.Col.InsertOne(ctx, session)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid.Hex()
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.QuizSession, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var session models.QuizSession
	if err := r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

// FindByIDForUser enforces session ownership at the query level.
func (r *SessionRepository) FindByIDForUser(ctx context.Context, id, userID string) (*models.QuizSession, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var session models.QuizSession
	err = r.Col.FindOne(ctx, bson.M{"_id": objID, "user_id": userID}).Decode(&session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AddAnswer folds one graded answer into the running session counters.
func (r *SessionRepository) AddAnswer(ctx context.Context, id string, correct bool, timeSpent int) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	inc := bson.M{"total_time": timeSpent}
	if correct {
		inc["correct_answers"] = 1
	}
	_, err = r.Col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": inc})
	return err
}

func (r *SessionRepository) MarkCompleted(ctx context.Context, id string, completionRate float64) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"is_completed":    true,
		"completed_at":    now,
		"completion_rate": completionRate,
	}}
	_, err = r.Col.UpdateOne(ctx, bson.M{"_id": objID}, update)
	return err
}

func (r *SessionRepository) History(ctx context.Context, userID string, limit int) ([]models.QuizSession, error) {
	filter := bson.M{"user_id": userID, "is_completed": true}
	opts := options.Find().SetSort(bson.D{{Key: "completed_at", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []models.QuizSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// RecentCompleted returns the user's latest completed sessions, newest
// first, for engagement estimation.
func (r *SessionRepository) RecentCompleted(ctx context.Context, userID string, limit int) ([]models.QuizSession, error) {
	return r.History(ctx, userID, limit)
}

func (r *SessionRepository) CountCompleted(ctx context.Context, userID string) (int, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{"user_id": userID, "is_completed": true})
	return int(n), err
}

// CountPerfect counts completed sessions where every question was answered
// correctly.
func (r *SessionRepository) CountPerfect(ctx context.Context, userID string) (int, error) {
	filter := bson.M{
		"user_id":      userID,
		"is_completed": true,
		"$expr":        bson.M{"$eq": bson.A{"$correct_answers", "$total_questions"}},
	}
	n, err := r.Col.CountDocuments(ctx, filter)
	return int(n), err
}

func (r *SessionRepository) CountCompletedSince(ctx context.Context, userID string, since time.Time) (int, error) {
	filter := bson.M{
		"user_id":      userID,
		"is_completed": true,
		"completed_at": bson.M{"$gte": since},
	}
	n, err := r.Col.CountDocuments(ctx, filter)
	return int(n), err
}
