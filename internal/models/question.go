package models

import (
	"encoding/json"
	"strings"
)

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeFillBlank      = "fill_blank"
	QuestionTypeDragDrop       = "drag_drop"
)

// Answer is the payload for both correct answers and user submissions.
// Single-answer types use Answer; drag_drop uses Order.
type Answer struct {
	Answer string   `bson:"answer,omitempty" json:"answer,omitempty"`
	Order  []string `bson:"order,omitempty" json:"order,omitempty"`
}

type Question struct {
	ID              string            `bson:"_id,omitempty" json:"id"`
	TopicID         string            `bson:"topic_id" json:"topic_id"`
	QuestionText    string            `bson:"question_text" json:"question_text"`
	QuestionType    string            `bson:"question_type" json:"question_type"`
	Options         map[string]string `bson:"options,omitempty" json:"options,omitempty"`
	CorrectAnswer   Answer            `bson:"correct_answer" json:"correct_answer"`
	Explanation     string            `bson:"explanation" json:"explanation"`
	DifficultyLevel float64           `bson:"difficulty_level" json:"difficulty_level"`
	Hints           []string          `bson:"hints" json:"hints"`
	EstimatedTime   int               `bson:"estimated_time" json:"estimated_time"`
	IsActive        bool              `bson:"is_active" json:"is_active"`
	AIGenerated     bool              `bson:"ai_generated,omitempty" json:"ai_generated,omitempty"`
}

// Grade checks a user answer against the question's correct answer.
// Unknown question types always grade incorrect.
func (q *Question) Grade(user Answer) bool {
	switch q.QuestionType {
	case QuestionTypeMultipleChoice, QuestionTypeTrueFalse:
		return user.Answer == q.CorrectAnswer.Answer
	case QuestionTypeFillBlank:
		return strings.EqualFold(
			strings.TrimSpace(user.Answer),
			strings.TrimSpace(q.CorrectAnswer.Answer),
		)
	case QuestionTypeDragDrop:
		// Ordered sequence equality on the serialized form.
		got, _ := json.Marshal(user.Order)
		want, _ := json.Marshal(q.CorrectAnswer.Order)
		return string(got) == string(want)
	default:
		return false
	}
}
