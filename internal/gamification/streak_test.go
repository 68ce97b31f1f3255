package gamification

import (
	"testing"
	"time"
)

var now = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func TestApplyDailyStreak_SameDayIsNoOp(t *testing.T) {
	lastActivity := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	update := ApplyDailyStreak(4, 6, lastActivity, now)

	if update.Changed {
		t.Error("Activity on the same day must not change the streak")
	}
	if update.CurrentStreak != 4 {
		t.Errorf("Expected streak to stay at 4, got %d", update.CurrentStreak)
	}
	if update.MilestoneReached {
		t.Error("No-op update must not report a milestone")
	}
}

func TestApplyDailyStreak_ConsecutiveDayIncrements(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)

	update := ApplyDailyStreak(3, 6, yesterday, now)

	if update.CurrentStreak != 4 {
		t.Errorf("Expected streak 4, got %d", update.CurrentStreak)
	}
	if update.MilestoneReached {
		t.Error("4 days is not a milestone")
	}
	if !update.Changed {
		t.Error("Expected a persisted change")
	}
}

func TestApplyDailyStreak_MilestoneEveryFifthDay(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)

	update := ApplyDailyStreak(4, 6, yesterday, now)

	if update.CurrentStreak != 5 {
		t.Errorf("Expected streak 5, got %d", update.CurrentStreak)
	}
	if !update.MilestoneReached {
		t.Error("Expected the 5-day milestone")
	}
}

func TestApplyDailyStreak_GapResetsToOne(t *testing.T) {
	threeDaysAgo := now.AddDate(0, 0, -3)

	update := ApplyDailyStreak(12, 12, threeDaysAgo, now)

	if update.CurrentStreak != 1 {
		t.Errorf("Expected reset to 1, got %d", update.CurrentStreak)
	}
	if update.LongestStreak != 12 {
		t.Errorf("Longest streak must survive the reset, got %d", update.LongestStreak)
	}
}

func TestApplyDailyStreak_FirstActivityStartsAtOne(t *testing.T) {
	update := ApplyDailyStreak(0, 0, time.Time{}, now)

	if update.CurrentStreak != 1 {
		t.Errorf("Expected first-activity streak 1, got %d", update.CurrentStreak)
	}
	if update.LongestStreak != 1 {
		t.Errorf("Expected longest streak 1, got %d", update.LongestStreak)
	}
}

func TestApplyDailyStreak_LongestStreakTracksNewHigh(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)

	update := ApplyDailyStreak(6, 6, yesterday, now)

	if update.LongestStreak != 7 {
		t.Errorf("Expected new longest streak 7, got %d", update.LongestStreak)
	}
}
