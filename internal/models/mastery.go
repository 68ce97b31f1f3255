package models

import "time"

const (
	MasteryLevelNovice     = "novice"
	MasteryLevelDeveloping = "developing"
	MasteryLevelProficient = "proficient"
	MasteryLevelAdvanced   = "advanced"

	MasteryDevelopingThreshold = 0.4
	MasteryProficientThreshold = 0.6
	MasteryAdvancedThreshold   = 0.8
)

type TopicMastery struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	TopicID        string    `bson:"topic_id" json:"topic_id"`
	MasteryScore   float64   `bson:"mastery_score" json:"mastery_score"`
	Attempts       int       `bson:"attempts" json:"attempts"`
	CorrectAnswers int       `bson:"correct_answers" json:"correct_answers"`
	TotalTimeSpent int       `bson:"total_time_spent" json:"total_time_spent"`
	MasteryLevel   string    `bson:"mastery_level" json:"mastery_level"`
	IsCompleted    bool      `bson:"is_completed" json:"is_completed"`
	LastAttempted  time.Time `bson:"last_attempted" json:"last_attempted"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// MasteryLevelFor maps a mastery score to its named level.
func MasteryLevelFor(score float64) string {
	switch {
	case score >= MasteryAdvancedThreshold:
		return MasteryLevelAdvanced
	case score >= MasteryProficientThreshold:
		return MasteryLevelProficient
	case score >= MasteryDevelopingThreshold:
		return MasteryLevelDeveloping
	default:
		return MasteryLevelNovice
	}
}
