// Package gamification holds the pure XP, level and streak arithmetic shared
// by the gamification services.
package gamification

import "math"

// XP event types.
const (
	EventQuestionCorrect = "question_correct"
	EventQuizComplete    = "quiz_complete"
	EventStreakMilestone = "streak_milestone"
	EventDailyLogin      = "daily_login"
	EventTopicMastery    = "topic_mastery"
)

const (
	// XPPerLevel is how much total XP one level spans.
	XPPerLevel = 1000

	difficultyXPScale     = 20
	speedBonusXP          = 5
	speedBonusCutoff      = 30
	noHintBonusXP         = 3
	quizCompleteBonusXP   = 10
	streakMilestoneCapXP  = 50
	streakMilestoneXPStep = 2
	topicMasteryBonusXP   = 25
)

// EventContext carries the per-event details used for bonus calculation.
type EventContext struct {
	QuestionDifficulty float64 `json:"question_difficulty,omitempty"`
	TimeSpent          int     `json:"time_spent,omitempty"`
	HintsUsed          int     `json:"hints_used,omitempty"`
	Streak             int     `json:"streak,omitempty"`
	TopicID            string  `json:"topic_id,omitempty"`
}

// BonusXP computes the event-type specific XP bonus on top of base points.
func BonusXP(eventType string, ctx EventContext) int {
	bonus := 0

	switch eventType {
	case EventQuestionCorrect:
		bonus += int(math.Round(ctx.QuestionDifficulty * difficultyXPScale))
		if ctx.TimeSpent > 0 && ctx.TimeSpent < speedBonusCutoff {
			bonus += speedBonusXP
		}
		if ctx.HintsUsed == 0 {
			bonus += noHintBonusXP
		}
	case EventQuizComplete:
		bonus += quizCompleteBonusXP
	case EventStreakMilestone:
		if ctx.Streak > 0 {
			bonus += min(streakMilestoneCapXP, ctx.Streak*streakMilestoneXPStep)
		}
	case EventTopicMastery:
		bonus += topicMasteryBonusXP
	}

	return bonus
}

// TotalXP is the XP granted for one event: the caller-supplied base points
// plus the event-type bonus.
func TotalXP(points int, eventType string, ctx EventContext) int {
	if points < 0 {
		points = 0
	}
	return points + BonusXP(eventType, ctx)
}

// LevelForXP derives the level from total XP: 1000 XP per level, starting at
// level 1.
func LevelForXP(totalXP int) int {
	return totalXP/XPPerLevel + 1
}

// NextLevelProgress is the percentage of the way to the next level.
func NextLevelProgress(totalXP int) int {
	return int(math.Round(float64(totalXP%XPPerLevel) / XPPerLevel * 100))
}
