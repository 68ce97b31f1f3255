package service

import "errors"

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrSessionNotFound  = errors.New("quiz session not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrTopicNotFound    = errors.New("topic not found")
	ErrNoQuestions      = errors.New("no questions available for the requested difficulty")
	ErrSessionCompleted = errors.New("quiz session is already completed")
	ErrInvalidInput     = errors.New("invalid input")
)
