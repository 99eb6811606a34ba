// services/results_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-class-pulse/models"
)

func twoOptionPoll(status models.PollStatus) *models.Poll {
	return &models.Poll{
		ID: "poll-1",
		Questions: []models.Question{
			{
				Text: "2 + 2 = ?",
				Options: []models.Option{
					{ID: 0, Text: "4"},
					{ID: 1, Text: "5"},
				},
				CorrectOptionID: 0,
				DurationSeconds: 30,
			},
		},
		Status: status,
	}
}

func TestBuildResults_NilWithoutPoll(t *testing.T) {
	assert.Nil(t, BuildResults(nil, NewLedgerService()))
	assert.Nil(t, BuildSnapshot(nil))
}

func TestBuildResults_TalliesFromLedger(t *testing.T) {
	ledger := NewLedgerService()
	_ = ledger.Record("poll-1", 0, "amy", 0)
	_ = ledger.Record("poll-1", 0, "bob", 0)
	_ = ledger.Record("poll-1", 0, "cleo", 1)

	res := BuildResults(twoOptionPoll(models.StatusActive), ledger)
	assert.Equal(t, "2 + 2 = ?", res.QuestionText)
	assert.Equal(t, 3, res.TotalVotes)
	assert.Equal(t, 2, res.Options[0].VoteCount)
	assert.Equal(t, 1, res.Options[1].VoteCount)
	assert.Equal(t, 1, res.TotalQuestions)
}

func TestBuildResults_RedactsCorrectOptionWhileActive(t *testing.T) {
	ledger := NewLedgerService()

	res := BuildResults(twoOptionPoll(models.StatusActive), ledger)
	assert.Nil(t, res.CorrectOptionID, "correct option must be withheld while active")

	res = BuildResults(twoOptionPoll(models.StatusWaiting), ledger)
	if assert.NotNil(t, res.CorrectOptionID) {
		assert.Equal(t, 0, *res.CorrectOptionID)
	}

	res = BuildResults(twoOptionPoll(models.StatusEnded), ledger)
	assert.NotNil(t, res.CorrectOptionID)
}

func TestBuildSnapshot_RedactsCorrectOptionWhileActive(t *testing.T) {
	snap := BuildSnapshot(twoOptionPoll(models.StatusActive))
	assert.Nil(t, snap.CorrectOptionID)
	assert.Equal(t, models.StatusActive, snap.Status)
	assert.Equal(t, 30, snap.DurationSeconds)

	snap = BuildSnapshot(twoOptionPoll(models.StatusEnded))
	if assert.NotNil(t, snap.CorrectOptionID) {
		assert.Equal(t, 0, *snap.CorrectOptionID)
	}
}
