package models

import "time"

// BanditArm tracks cumulative reward for one difficulty bucket of a
// (user, topic) pair. Five arms exist per pair, created together on first
// selection and never deleted.
type BanditArm struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	UserID          string    `bson:"user_id" json:"user_id"`
	TopicID         string    `bson:"topic_id" json:"topic_id"`
	DifficultyLevel float64   `bson:"difficulty_level" json:"difficulty_level"`
	RewardSum       float64   `bson:"reward_sum" json:"reward_sum"`
	PlayCount       int       `bson:"play_count" json:"play_count"`
	ConfidenceBound float64   `bson:"confidence_bound" json:"confidence_bound"`
	LastUpdated     time.Time `bson:"last_updated" json:"last_updated"`
}

// AverageReward is the empirical mean reward, 0 for an unplayed arm.
func (a *BanditArm) AverageReward() float64 {
	if a.PlayCount == 0 {
		return 0
	}
	return a.RewardSum / float64(a.PlayCount)
}
