package repository

import (
	"context"
	"time"

	"finquest-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ArmRepository struct {
	Col *mongo.Collection
}

func NewArmRepository(db *mongo.Database) *ArmRepository {
	return &ArmRepository{Col: db.Collection("bandit_arms")}
}

func (r *ArmRepository) ArmsForUserTopic(ctx context.Context, userID, topicID string) ([]models.BanditArm, error) {
	cursor, err := r.Col.Find(ctx, bson.M{"user_id": userID, "topic_id": topicID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var arms []models.BanditArm
	if err := cursor.All(ctx, &arms); err != nil {
		return nil, err
	}
	return arms, nil
}

func (r *ArmRepository) InitArms(ctx context.Context, userID, topicID string, difficulties []float64) error {
	now := time.Now()
	docs := make([]interface{}, 0, len(difficulties))
	for _, d := range difficulties {
		docs = append(docs, models.BanditArm{
			UserID:          userID,
			TopicID:         topicID,
			DifficultyLevel: d,
			ConfidenceBound: 1.0,
			LastUpdated:     now,
		})
	}
	_, err := r.Col.InsertMany(ctx, docs)
	return err
}

// AddReward records one play atomically. Concurrent updates to the same arm
// must both land, so the counters are $inc'd rather than read back and
// rewritten.
func (r *ArmRepository) AddReward(ctx context.Context, userID, topicID string, difficulty, reward float64) error {
	filter := bson.M{"user_id": userID, "topic_id": topicID, "difficulty_level": difficulty}
	update := bson.M{
		"$inc": bson.M{"reward_sum": reward, "play_count": 1},
		"$set": bson.M{"last_updated": time.Now()},
	}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *ArmRepository) SetConfidenceBounds(ctx context.Context, userID, topicID string, bounds map[float64]float64) error {
	for difficulty, bound := range bounds {
		filter := bson.M{"user_id": userID, "topic_id": topicID, "difficulty_level": difficulty}
		update := bson.M{"$set": bson.M{"confidence_bound": bound}}
		if _, err := r.Col.UpdateOne(ctx, filter, update); err != nil {
			return err
		}
	}
	return nil
}
