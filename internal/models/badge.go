package models

import "time"

// Badge criteria types evaluated by the badge service.
const (
	CriteriaQuizCompleted  = "quiz_completed"
	CriteriaCorrectStreak  = "correct_streak"
	CriteriaSubjectMastery = "subject_mastery"
	CriteriaSpeedChallenge = "speed_challenge"
	CriteriaDailyLogin     = "daily_login"
	CriteriaPerfectScores  = "perfect_scores"
	CriteriaTotalXP        = "total_xp"
	CriteriaTopicExplorer  = "topic_explorer"
)

// BadgeCriteria is the threshold descriptor for a badge. Only the fields
// relevant to the criteria type are set.
type BadgeCriteria struct {
	Type        string `bson:"type" json:"type"`
	Count       int    `bson:"count,omitempty" json:"count,omitempty"`
	Amount      int    `bson:"amount,omitempty" json:"amount,omitempty"`
	Days        int    `bson:"days,omitempty" json:"days,omitempty"`
	TimeLimit   int    `bson:"time_limit,omitempty" json:"time_limit,omitempty"`
	Questions   int    `bson:"questions,omitempty" json:"questions,omitempty"`
	SubjectID   string `bson:"subject_id,omitempty" json:"subject_id,omitempty"`
	TopicsCount int    `bson:"topics_count,omitempty" json:"topics_count,omitempty"`
}

type Badge struct {
	ID          string        `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description" json:"description"`
	Icon        string        `bson:"icon" json:"icon"`
	Category    string        `bson:"category" json:"category"`
	Rarity      string        `bson:"rarity" json:"rarity"`
	Criteria    BadgeCriteria `bson:"criteria" json:"criteria"`
	XPReward    int           `bson:"xp_reward" json:"xp_reward"`
	IsActive    bool          `bson:"is_active" json:"is_active"`
}

// UserBadge is append-only; a badge is earned once and never revoked.
type UserBadge struct {
	ID       string    `bson:"_id,omitempty" json:"id"`
	UserID   string    `bson:"user_id" json:"user_id"`
	BadgeID  string    `bson:"badge_id" json:"badge_id"`
	EarnedAt time.Time `bson:"earned_at" json:"earned_at"`
}
