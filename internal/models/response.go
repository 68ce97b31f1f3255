package models

import "time"

// QuestionResponse is an append-only record of one graded answer.
type QuestionResponse struct {
	ID                  string    `bson:"_id,omitempty" json:"id"`
	SessionID           string    `bson:"session_id" json:"session_id"`
	QuestionID          string    `bson:"question_id" json:"question_id"`
	UserID              string    `bson:"user_id" json:"user_id"`
	UserAnswer          Answer    `bson:"user_answer" json:"user_answer"`
	IsCorrect           bool      `bson:"is_correct" json:"is_correct"`
	TimeSpent           int       `bson:"time_spent" json:"time_spent"`
	HintsUsed           int       `bson:"hints_used" json:"hints_used"`
	ConfidenceLevel     int       `bson:"confidence_level,omitempty" json:"confidence_level,omitempty"`
	DifficultyAtAttempt float64   `bson:"difficulty_at_attempt" json:"difficulty_at_attempt"`
	AnsweredAt          time.Time `bson:"answered_at" json:"answered_at"`
}
