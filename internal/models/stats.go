package models

import "time"

// UserStats is the single per-user gamification row.
//
// Two distinct streak counters live here on purpose: CurrentStreak counts
// consecutive calendar days with activity (the daily login streak), while
// PerfectSessionStreak counts consecutive correct answers across fully
// correct sessions. They are separate product concepts and must not be
// merged: LongestStreak records the daily streak's high-water mark only,
// LongestPerfectSessionStreak the perfect-session streak's.
type UserStats struct {
	ID                          string    `bson:"_id,omitempty" json:"id"`
	UserID                      string    `bson:"user_id" json:"user_id"`
	TotalXP                     int       `bson:"total_xp" json:"total_xp"`
	Level                       int       `bson:"level" json:"level"`
	CurrentStreak               int       `bson:"current_streak" json:"current_streak"`
	LongestStreak               int       `bson:"longest_streak" json:"longest_streak"`
	PerfectSessionStreak        int       `bson:"perfect_session_streak" json:"perfect_session_streak"`
	LongestPerfectSessionStreak int       `bson:"longest_perfect_session_streak" json:"longest_perfect_session_streak"`
	TotalQuestionsAnswered      int       `bson:"total_questions_answered" json:"total_questions_answered"`
	TotalCorrectAnswers         int       `bson:"total_correct_answers" json:"total_correct_answers"`
	TotalTimeSpent              int       `bson:"total_time_spent" json:"total_time_spent"`
	BadgesEarned                int       `bson:"badges_earned" json:"badges_earned"`
	LastActivity                time.Time `bson:"last_activity" json:"last_activity"`
}
