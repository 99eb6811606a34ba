// Package services: services/errors.go
package services

import (
	"errors"
	"fmt"
)

// Expected, caller-facing conditions. Every one is returned synchronously as
// the action's result; none aborts the process or leaves partial state behind.
var (
	ErrNameTaken       = errors.New("name already taken")
	ErrPollInProgress  = errors.New("a poll is already active")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrPollNotActive   = errors.New("no active poll")
	ErrDuplicateAnswer = errors.New("already answered")
	ErrInvalidState    = errors.New("cannot start next question")
	ErrNotAllAnswered  = errors.New("not all students have answered yet")
	ErrNoMoreQuestions = errors.New("no more questions")
)

// InvalidQuestionError reports which question of a create request failed
// validation.
type InvalidQuestionError struct {
	Index  int
	Reason string
}

func (e *InvalidQuestionError) Error() string {
	return fmt.Sprintf("invalid question %d: %s", e.Index, e.Reason)
}
