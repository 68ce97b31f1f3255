package repository

import (
	"context"

	"finquest-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	Col        *mongo.Collection
	ProfileCol *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		Col:        db.Collection("users"),
		ProfileCol: db.Collection("user_profiles"),
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// StudentIDs returns the IDs of all students, optionally restricted to one
// grade. Used to scope leaderboards.
func (r *UserRepository) StudentIDs(ctx context.Context, grade int) ([]string, error) {
	filter := bson.M{"role": models.RoleStudent}
	if grade > 0 {
		filter["grade"] = grade
	}
	cursor, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (r *UserRepository) FindProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.ProfileCol.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// EnsureProfile creates the default profile if the user has none yet.
func (r *UserRepository) EnsureProfile(ctx context.Context, userID string) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{"$setOnInsert": bson.M{
		"user_id":                   userID,
		"learning_style":            "visual",
		"preferred_difficulty":      "medium",
		"session_length_preference": 15,
	}}
	_, err := r.ProfileCol.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	objFilter := bson.M{"_id": bson.M{"$in": ids}}
	cursor, err := r.Col.Find(ctx, objFilter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}
