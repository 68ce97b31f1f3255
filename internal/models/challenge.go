package models

import "time"

type ChallengeReward struct {
	XP    int    `bson:"xp" json:"xp"`
	Badge string `bson:"badge,omitempty" json:"badge,omitempty"`
}

type ChallengeData struct {
	Title       string          `bson:"title" json:"title"`
	Description string          `bson:"description" json:"description"`
	Target      float64         `bson:"target" json:"target"`
	Progress    float64         `bson:"progress" json:"progress"`
	Reward      ChallengeReward `bson:"reward" json:"reward"`
	TopicID     string          `bson:"topic_id,omitempty" json:"topic_id,omitempty"`
}

type UserChallenge struct {
	ID            string        `bson:"_id,omitempty" json:"id"`
	UserID        string        `bson:"user_id" json:"user_id"`
	ChallengeType string        `bson:"challenge_type" json:"challenge_type"`
	Challenge     ChallengeData `bson:"challenge_data" json:"challenge_data"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
	ExpiresAt     time.Time     `bson:"expires_at" json:"expires_at"`
}
