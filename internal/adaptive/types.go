package adaptive

// DifficultyBuckets are the five arm difficulties tracked per (user, topic).
var DifficultyBuckets = []float64{0.2, 0.4, 0.6, 0.8, 1.0}

// Selection reasoning tags returned to callers.
const (
	ReasonDefaultInit  = "default_initialization"
	ReasonExploration  = "exploration"
	ReasonExploitation = "exploitation"
)

// UserContext is computed per request from recent activity. It is never
// persisted on its own.
type UserContext struct {
	UserID          string  `json:"user_id"`
	GradeLevel      int     `json:"grade_level"`
	CurrentMastery  float64 `json:"current_mastery"`
	RecentAccuracy  float64 `json:"recent_accuracy"`
	EngagementLevel float64 `json:"engagement_level"`
	TimeOfDay       string  `json:"time_of_day"`
	SessionLength   int     `json:"session_length"`
	StreakCount     int     `json:"streak_count"`
}

// DifficultyResult is the outcome of one difficulty selection.
type DifficultyResult struct {
	SelectedDifficulty float64 `json:"selected_difficulty"`
	Confidence         float64 `json:"confidence"`
	Reasoning          string  `json:"reasoning"`
	ExpectedReward     float64 `json:"expected_reward"`
}

// DifficultyRange bounds question selection around a target difficulty.
type DifficultyRange struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Target float64 `json:"target"`
}

// Config holds the bandit tuning knobs.
type Config struct {
	// ExplorationRate is the probability of picking a uniformly random arm
	// instead of the max-score arm.
	ExplorationRate float64
	// ConfidenceConstant is the UCB confidence parameter.
	ConfidenceConstant float64
}

func DefaultConfig() *Config {
	return &Config{
		ExplorationRate:    0.1,
		ConfidenceConstant: 2.0,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
