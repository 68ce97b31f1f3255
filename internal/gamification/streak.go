package gamification

import "time"

// StreakMilestoneInterval is the cadence of daily-streak milestones.
const StreakMilestoneInterval = 5

// StreakUpdate is the result of applying one day of activity to the daily
// activity streak. This streak counts consecutive calendar days and is
// unrelated to the perfect-session streak tracked on session completion.
type StreakUpdate struct {
	CurrentStreak    int  `json:"current_streak"`
	LongestStreak    int  `json:"longest_streak"`
	MilestoneReached bool `json:"milestone_reached"`
	Changed          bool `json:"changed"`
}

// ApplyDailyStreak advances the daily streak given the last recorded
// activity. Activity on the same calendar day is a no-op; yesterday extends
// the streak; anything older (or no prior activity) restarts it at 1.
func ApplyDailyStreak(current, longest int, lastActivity, now time.Time) StreakUpdate {
	if !lastActivity.IsZero() && sameDay(lastActivity, now) {
		return StreakUpdate{
			CurrentStreak: current,
			LongestStreak: max(longest, current),
		}
	}

	newStreak := 1
	if !lastActivity.IsZero() && sameDay(lastActivity, now.AddDate(0, 0, -1)) {
		newStreak = current + 1
	}

	return StreakUpdate{
		CurrentStreak:    newStreak,
		LongestStreak:    max(longest, newStreak),
		MilestoneReached: newStreak > 0 && newStreak%StreakMilestoneInterval == 0,
		Changed:          true,
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
