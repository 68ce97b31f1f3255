package models

import "testing"

func TestGrade_MultipleChoice(t *testing.T) {
	q := Question{
		QuestionType:  QuestionTypeMultipleChoice,
		CorrectAnswer: Answer{Answer: "b"},
	}

	if !q.Grade(Answer{Answer: "b"}) {
		t.Error("Exact option match must grade correct")
	}
	if q.Grade(Answer{Answer: "B"}) {
		t.Error("Option keys are case sensitive")
	}
	if q.Grade(Answer{Answer: "c"}) {
		t.Error("Wrong option must grade incorrect")
	}
}

func TestGrade_TrueFalse(t *testing.T) {
	q := Question{
		QuestionType:  QuestionTypeTrueFalse,
		CorrectAnswer: Answer{Answer: "true"},
	}

	if !q.Grade(Answer{Answer: "true"}) {
		t.Error("Matching answer must grade correct")
	}
	if q.Grade(Answer{Answer: "false"}) {
		t.Error("Opposite answer must grade incorrect")
	}
}

func TestGrade_FillBlank_IsForgiving(t *testing.T) {
	q := Question{
		QuestionType:  QuestionTypeFillBlank,
		CorrectAnswer: Answer{Answer: "savings account"},
	}

	testCases := []struct {
		answer   string
		expected bool
	}{
		{"savings account", true},
		{"Savings Account", true},
		{"  savings account  ", true},
		{"checking account", false},
		{"", false},
	}

	for _, tc := range testCases {
		if got := q.Grade(Answer{Answer: tc.answer}); got != tc.expected {
			t.Errorf("Grade(%q): expected %v, got %v", tc.answer, tc.expected, got)
		}
	}
}

func TestGrade_DragDrop_RequiresExactOrder(t *testing.T) {
	q := Question{
		QuestionType:  QuestionTypeDragDrop,
		CorrectAnswer: Answer{Order: []string{"earn", "save", "spend"}},
	}

	if !q.Grade(Answer{Order: []string{"earn", "save", "spend"}}) {
		t.Error("Matching order must grade correct")
	}
	if q.Grade(Answer{Order: []string{"save", "earn", "spend"}}) {
		t.Error("Reordered sequence must grade incorrect")
	}
	if q.Grade(Answer{Order: []string{"earn", "save"}}) {
		t.Error("Shorter sequence must grade incorrect")
	}
}

func TestGrade_UnknownType(t *testing.T) {
	q := Question{QuestionType: "essay", CorrectAnswer: Answer{Answer: "x"}}
	if q.Grade(Answer{Answer: "x"}) {
		t.Error("Unknown question types must never grade correct")
	}
}
