package repository

import (
	"context"

	"finquest-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var question models.Question
	if err := r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&question); err != nil {
		return nil, err
	}
	return &question, nil
}

// FindByTopicInRange returns active questions for the topic whose difficulty
// falls inside [min, max].
func (r *QuestionRepository) FindByTopicInRange(ctx context.Context, topicID string, min, max float64, limit int) ([]models.Question, error) {
	filter := bson.M{
		"topic_id":         topicID,
		"is_active":        true,
		"difficulty_level": bson.M{"$gte": min, "$lte": max},
	}
	opts := options.Find().SetLimit(int64(limit))
	cursor, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []models.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) ListByTopic(ctx context.Context, topicID string) ([]models.Question, error) {
	cursor, err := r.Col.Find(ctx, bson.M{"topic_id": topicID, "is_active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []models.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// SampleByTopic draws n random active questions from the topic.
func (r *QuestionRepository) SampleByTopic(ctx context.Context, topicID string, n int) ([]models.Question, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"topic_id": topicID, "is_active": true}}},
		{{Key: "$sample", Value: bson.M{"size": n}}},
	}
	cursor, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []models.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	res, err := r.Col.InsertOne(ctx, question)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		question.ID = oid.Hex()
	}
	return nil
}
