package repository

import (
	"context"
	"time"

	"finquest-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BadgeRepository struct {
	Col     *mongo.Collection
	UserCol *mongo.Collection
}

func NewBadgeRepository(db *mongo.Database) *BadgeRepository {
	return &BadgeRepository{
		Col:     db.Collection("badges"),
		UserCol: db.Collection("user_badges"),
	}
}

func (r *BadgeRepository) ListActive(ctx context.Context) ([]models.Badge, error) {
	cursor, err := r.Col.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var badges []models.Badge
	if err := cursor.All(ctx, &badges); err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *BadgeRepository) FindByID(ctx context.Context, id string) (*models.Badge, error) {
	var badge models.Badge
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&badge); err != nil {
		return nil, err
	}
	return &badge, nil
}

// AwardOnce records the badge for the user exactly once. Returns true when
// this call was the first award; repeat calls are no-ops.
func (r *BadgeRepository) AwardOnce(ctx context.Context, userID, badgeID string) (bool, error) {
	filter := bson.M{"user_id": userID, "badge_id": badgeID}
	update := bson.M{"$setOnInsert": bson.M{
		"user_id":   userID,
		"badge_id":  badgeID,
		"earned_at": time.Now(),
	}}
	res, err := r.UserCol.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *BadgeRepository) ListUserBadges(ctx context.Context, userID string) ([]models.UserBadge, error) {
	opts := options.Find().SetSort(bson.D{{Key: "earned_at", Value: -1}})
	cursor, err := r.UserCol.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var earned []models.UserBadge
	if err := cursor.All(ctx, &earned); err != nil {
		return nil, err
	}
	return earned, nil
}

func (r *BadgeRepository) HasBadge(ctx context.Context, userID, badgeID string) (bool, error) {
	n, err := r.UserCol.CountDocuments(ctx, bson.M{"user_id": userID, "badge_id": badgeID})
	return n > 0, err
}
