package repository

import (
	"context"
	"time"

	"finquest-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StatsRepository struct {
	Col *mongo.Collection
}

func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{Col: db.Collection("user_stats")}
}

func (r *StatsRepository) FindByUser(ctx context.Context, userID string) (*models.UserStats, error) {
	var stats models.UserStats
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Init creates the zeroed stats row if none exists yet.
func (r *StatsRepository) Init(ctx context.Context, userID string) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{"$setOnInsert": bson.M{
		"user_id":                        userID,
		"total_xp":                       0,
		"level":                          1,
		"current_streak":                 0,
		"longest_streak":                 0,
		"perfect_session_streak":         0,
		"longest_perfect_session_streak": 0,
		"total_questions_answered":       0,
		"total_correct_answers":          0,
		"total_time_spent":               0,
		"badges_earned":                  0,
	}}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// AddXP applies an XP delta atomically and sets the level that follows from
// the new total. Two concurrent awards must both count, so the total is
// $inc'd rather than read back and rewritten.
func (r *StatsRepository) AddXP(ctx context.Context, userID string, xp, newLevel int) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$inc": bson.M{"total_xp": xp},
		"$set": bson.M{"level": newLevel, "last_activity": time.Now()},
	}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *StatsRepository) SetStreak(ctx context.Context, userID string, current, longest int) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{"$set": bson.M{
		"current_streak": current,
		"longest_streak": longest,
		"last_activity":  time.Now(),
	}}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// AddSessionTotals folds one completed session into the cumulative counters.
// The daily streak fields are owned by SetStreak and left untouched here.
func (r *StatsRepository) AddSessionTotals(ctx context.Context, userID string, answered, correct, timeSpent, perfectStreak, longestPerfect int) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$inc": bson.M{
			"total_questions_answered": answered,
			"total_correct_answers":    correct,
			"total_time_spent":         timeSpent,
		},
		"$set": bson.M{
			"perfect_session_streak":         perfectStreak,
			"longest_perfect_session_streak": longestPerfect,
			"last_activity":                  time.Now(),
		},
	}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *StatsRepository) IncBadgesEarned(ctx context.Context, userID string) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$inc": bson.M{"badges_earned": 1}},
	)
	return err
}

// TopBy returns the highest-ranked stats rows by the given field, optionally
// restricted to a user set (e.g. students of one grade).
func (r *StatsRepository) TopBy(ctx context.Context, field string, userIDs []string, limit int) ([]models.UserStats, error) {
	filter := bson.M{}
	if userIDs != nil {
		filter["user_id"] = bson.M{"$in": userIDs}
	}
	opts := options.Find().SetSort(bson.D{{Key: field, Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.UserStats
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CountHigher counts rows with a strictly higher value of the field, again
// optionally restricted to a user set. Rank is that count plus one.
func (r *StatsRepository) CountHigher(ctx context.Context, field string, value int, userIDs []string) (int, error) {
	filter := bson.M{field: bson.M{"$gt": value}}
	if userIDs != nil {
		filter["user_id"] = bson.M{"$in": userIDs}
	}
	n, err := r.Col.CountDocuments(ctx, filter)
	return int(n), err
}

func (r *StatsRepository) CountAll(ctx context.Context, userIDs []string) (int, error) {
	filter := bson.M{}
	if userIDs != nil {
		filter["user_id"] = bson.M{"$in": userIDs}
	}
	n, err := r.Col.CountDocuments(ctx, filter)
	return int(n), err
}
