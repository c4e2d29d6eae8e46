package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a questionnaire session does not exist or was already handed off.
	ErrSessionNotFound = errors.New("questionnaire session not found")
	// ErrQuestionnaireNotFound indicates the question graph could not be loaded.
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
	// ErrQuestionNotFound indicates a question id that is not part of the graph.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrUnknownAxis indicates a radar score key outside the supported axis set.
	ErrUnknownAxis = errors.New("unknown radar axis")
	// ErrInvalidGraph wraps every structural problem found while validating a graph.
	ErrInvalidGraph = errors.New("invalid question graph")
	// ErrAlreadyStarted is returned when a traversal is asked to begin twice.
	ErrAlreadyStarted = errors.New("traversal already started")
	// ErrNoAnswers indicates classification was requested without any recorded answer.
	ErrNoAnswers = errors.New("no answers to diagnose")
)
