package models

import "time"

type QuizSession struct {
	ID             string     `bson:"_id,omitempty" json:"id"`
	UserID         string     `bson:"user_id" json:"user_id"`
	TopicID        string     `bson:"topic_id" json:"topic_id"`
	SessionType    string     `bson:"session_type" json:"session_type"`
	SessionToken   string     `bson:"session_token" json:"session_token"`
	TotalQuestions int        `bson:"total_questions" json:"total_questions"`
	CorrectAnswers int        `bson:"correct_answers" json:"correct_answers"`
	TotalTime      int        `bson:"total_time" json:"total_time"`
	CompletionRate float64    `bson:"completion_rate" json:"completion_rate"`
	StartedAt      time.Time  `bson:"started_at" json:"started_at"`
	CompletedAt    *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	IsCompleted    bool       `bson:"is_completed" json:"is_completed"`
}
