package repository

import (
	"context"

	"finquest-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MasteryRepository struct {
	Col *mongo.Collection
}

func NewMasteryRepository(db *mongo.Database) *MasteryRepository {
	return &MasteryRepository{Col: db.Collection("topic_mastery")}
}

// FindByUserTopic returns mongo.ErrNoDocuments when the user has never
// attempted the topic.
func (r *MasteryRepository) FindByUserTopic(ctx context.Context, userID, topicID string) (*models.TopicMastery, error) {
	var mastery models.TopicMastery
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "topic_id": topicID}).Decode(&mastery)
	if err != nil {
		return nil, err
	}
	return &mastery, nil
}

func (r *MasteryRepository) Upsert(ctx context.Context, mastery *models.TopicMastery) error {
	filter := bson.M{"user_id": mastery.UserID, "topic_id": mastery.TopicID}
	update := bson.M{"$set": bson.M{
		"mastery_score":    mastery.MasteryScore,
		"attempts":         mastery.Attempts,
		"correct_answers":  mastery.CorrectAnswers,
		"total_time_spent": mastery.TotalTimeSpent,
		"mastery_level":    mastery.MasteryLevel,
		"is_completed":     mastery.IsCompleted,
		"last_attempted":   mastery.LastAttempted,
		"updated_at":       mastery.UpdatedAt,
	}}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *MasteryRepository) FindByUser(ctx context.Context, userID string) ([]models.TopicMastery, error) {
	cursor, err := r.Col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var masteries []models.TopicMastery
	if err := cursor.All(ctx, &masteries); err != nil {
		return nil, err
	}
	return masteries, nil
}

// FindByUserTopics limits the lookup to a known topic set, e.g. the active
// topics of one subject.
func (r *MasteryRepository) FindByUserTopics(ctx context.Context, userID string, topicIDs []string) ([]models.TopicMastery, error) {
	filter := bson.M{"user_id": userID, "topic_id": bson.M{"$in": topicIDs}}
	cursor, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var masteries []models.TopicMastery
	if err := cursor.All(ctx, &masteries); err != nil {
		return nil, err
	}
	return masteries, nil
}

// CountAttemptedTopics counts distinct topics the user has attempted at
// least once.
func (r *MasteryRepository) CountAttemptedTopics(ctx context.Context, userID string) (int, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{"user_id": userID, "attempts": bson.M{"$gt": 0}})
	return int(n), err
}
