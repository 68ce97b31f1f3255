package repository

import (
	"context"

	"finquest-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TopicRepository struct {
	Col        *mongo.Collection
	SubjectCol *mongo.Collection
}

func NewTopicRepository(db *mongo.Database) *TopicRepository {
	return &TopicRepository{
		Col:        db.Collection("topics"),
		SubjectCol: db.Collection("subjects"),
	}
}

func (r *TopicRepository) FindByID(ctx context.Context, id string) (*models.Topic, error) {
	var topic models.Topic
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&topic); err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *TopicRepository) ListActiveBySubject(ctx context.Context, subjectID string) ([]models.Topic, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}})
	cursor, err := r.Col.Find(ctx, bson.M{"subject_id": subjectID, "is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var topics []models.Topic
	if err := cursor.All(ctx, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *TopicRepository) ListActiveByGrade(ctx context.Context, gradeLevel int) ([]models.Topic, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}})
	cursor, err := r.Col.Find(ctx, bson.M{"grade_level": gradeLevel, "is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var topics []models.Topic
	if err := cursor.All(ctx, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *TopicRepository) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}})
	cursor, err := r.SubjectCol.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subjects []models.Subject
	if err := cursor.All(ctx, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}
