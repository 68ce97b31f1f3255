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

type ChallengeRepository struct {
	Col *mongo.Collection
}

func NewChallengeRepository(db *mongo.Database) *ChallengeRepository {
	return &ChallengeRepository{Col: db.Collection("user_challenges")}
}

func (r *ChallengeRepository) Create(ctx context.Context, challenge *models.UserChallenge) error {
	res, err := r.Col.InsertOne(ctx, challenge)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		challenge.ID = oid.Hex()
	}
	return nil
}

// ListActive returns the user's unexpired challenges, newest first.
func (r *ChallengeRepository) ListActive(ctx context.Context, userID string) ([]models.UserChallenge, error) {
	filter := bson.M{"user_id": userID, "expires_at": bson.M{"$gt": time.Now()}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var challenges []models.UserChallenge
	if err := cursor.All(ctx, &challenges); err != nil {
		return nil, err
	}
	return challenges, nil
}
