// Package models defines data structures used across the application.
// File: models/poll.go
package models

import "time"

// ----------------------- poll status -----------------------

// PollStatus is the lifecycle state of the current poll.
type PollStatus string

const (
	// StatusActive means the countdown is running and answers are accepted.
	StatusActive PollStatus = "active"
	// StatusWaiting means the current question closed and the session awaits
	// the teacher advancing to the next question.
	StatusWaiting PollStatus = "waiting"
	// StatusEnded means the last question's window closed; the poll is final.
	StatusEnded PollStatus = "ended"
)

// ----------------------- participant model -----------------------

// Participant is a connected student, keyed by its connection ID.
type Participant struct {
	ID       string    `json:"id"` // connection ID
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joinedAt"`
}

// StudentStatus is a roster row with the per-question answered flag.
type StudentStatus struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	HasAnswered bool   `json:"hasAnswered"`
}

// ------------------------ poll model -----------------------

// Option is one answer choice of a question. Its ID is the ordinal index
// within the question's option list.
type Option struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Question is immutable once its poll has been created.
type Question struct {
	Text            string   `json:"text"`
	Options         []Option `json:"options"`
	CorrectOptionID int      `json:"correctOptionId"`
	DurationSeconds int      `json:"duration"`
}

// Poll is one complete sequence of questions posed in a single session.
// At most one Poll is current process-wide.
type Poll struct {
	ID                   string     `json:"id"`
	Questions            []Question `json:"questions"`
	CurrentQuestionIndex int        `json:"currentQuestionIndex"`
	Status               PollStatus `json:"status"`
	CreatedAt            time.Time  `json:"createdAt"` // start time of the current question
}

// CurrentQuestion returns the question at the current index.
func (p *Poll) CurrentQuestion() Question {
	return p.Questions[p.CurrentQuestionIndex]
}

// OnLastQuestion reports whether the current index is the final one.
func (p *Poll) OnLastQuestion() bool {
	return p.CurrentQuestionIndex >= len(p.Questions)-1
}

// ----------------------- answer model -----------------------

// Answer is an append-only fact; at most one exists per
// (poll, question, participant).
type Answer struct {
	PollID        string    `json:"pollId"`
	QuestionIndex int       `json:"questionIndex"`
	ParticipantID string    `json:"participantId"`
	OptionID      int       `json:"optionId"`
	Timestamp     time.Time `json:"timestamp"`
}

// ----------------------- derived views -----------------------

// OptionTally is an option together with its derived vote count.
type OptionTally struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	VoteCount int    `json:"votes"`
}

// Results is the aggregated tally snapshot for the current question.
// CorrectOptionID is nil while the question is still active.
type Results struct {
	QuestionText         string        `json:"question"`
	Options              []OptionTally `json:"options"`
	CorrectOptionID      *int          `json:"correctOptionId,omitempty"`
	TotalVotes           int           `json:"totalVotes"`
	CurrentQuestionIndex int           `json:"currentQuestionIndex"`
	TotalQuestions       int           `json:"totalQuestions"`
}

// PollSnapshot is the public view of the current question, suitable for
// broadcast. The correct option is withheld while the poll is active.
type PollSnapshot struct {
	ID                   string     `json:"id"`
	QuestionText         string     `json:"question"`
	Options              []Option   `json:"options"`
	DurationSeconds      int        `json:"duration"`
	CurrentQuestionIndex int        `json:"currentQuestionIndex"`
	TotalQuestions       int        `json:"totalQuestions"`
	Status               PollStatus `json:"status"`
	CorrectOptionID      *int       `json:"correctOptionId,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// ArchivedPoll is a completed poll retained for historical queries,
// together with the answers recorded against it.
type ArchivedPoll struct {
	Poll    Poll     `json:"poll"`
	Answers []Answer `json:"answers"`
}
