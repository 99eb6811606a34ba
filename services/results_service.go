// Package services: services/results_service.go
package services

import "go-class-pulse/models"

// BuildResults derives the aggregated tally for the poll's current question
// from the ledger. Vote counts are always recomputed from recorded answers,
// never read from counters that could drift. The correct option is included
// only once the question is no longer active.
func BuildResults(poll *models.Poll, ledger LedgerServiceInterface) *models.Results {
	if poll == nil {
		return nil
	}

	qIdx := poll.CurrentQuestionIndex
	q := poll.Questions[qIdx]
	votes := ledger.VotesByOption(poll.ID, qIdx)

	options := make([]models.OptionTally, len(q.Options))
	total := 0
	for i, opt := range q.Options {
		options[i] = models.OptionTally{ID: opt.ID, Text: opt.Text, VoteCount: votes[opt.ID]}
		total += votes[opt.ID]
	}

	res := &models.Results{
		QuestionText:         q.Text,
		Options:              options,
		TotalVotes:           total,
		CurrentQuestionIndex: qIdx,
		TotalQuestions:       len(poll.Questions),
	}
	if poll.Status != models.StatusActive {
		correct := q.CorrectOptionID
		res.CorrectOptionID = &correct
	}
	return res
}

// BuildSnapshot derives the public view of the poll's current question.
// While the poll is active the correct option is withheld.
func BuildSnapshot(poll *models.Poll) *models.PollSnapshot {
	if poll == nil {
		return nil
	}

	q := poll.CurrentQuestion()
	snap := &models.PollSnapshot{
		ID:                   poll.ID,
		QuestionText:         q.Text,
		Options:              q.Options,
		DurationSeconds:      q.DurationSeconds,
		CurrentQuestionIndex: poll.CurrentQuestionIndex,
		TotalQuestions:       len(poll.Questions),
		Status:               poll.Status,
		CreatedAt:            poll.CreatedAt,
	}
	if poll.Status != models.StatusActive {
		correct := q.CorrectOptionID
		snap.CorrectOptionID = &correct
	}
	return snap
}
