// Package services: services/ledger_service.go
package services

import (
	"sync"
	"time"

	"go-class-pulse/logger"
	"go-class-pulse/models"
)

// historyLimit caps how many completed polls the ledger keeps around.
const historyLimit = 10

// LedgerServiceInterface is the append-only record of answers. It is the
// single source of truth for vote counts and duplicate-answer detection.
type LedgerServiceInterface interface {
	Record(pollID string, questionIndex int, participantID string, optionID int) error
	HasAnswered(pollID string, questionIndex int, participantID string) bool
	CountFor(pollID string, questionIndex int) int
	VotesByOption(pollID string, questionIndex int) map[int]int
	AllAnswered(pollID string, questionIndex int, connectedIDs []string) bool
	Archive(poll models.Poll)
	History() []models.ArchivedPoll
}

// LedgerService stores answers in memory. Answers are never mutated or
// deleted, only filtered for derived views; replacing a poll archives them.
type LedgerService struct {
	mu      sync.Mutex
	answers []models.Answer
	history []models.ArchivedPoll
	nowFunc func() time.Time
}

// NewLedgerService creates an empty ledger.
func NewLedgerService() *LedgerService {
	return &LedgerService{nowFunc: time.Now}
}

// Record appends an answer fact. The orchestrator validates poll state and
// duplicates before calling, but the ledger re-checks duplication as the
// final authority.
func (s *LedgerService) Record(pollID string, questionIndex int, participantID string, optionID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasAnsweredLocked(pollID, questionIndex, participantID) {
		logger.Warn.Printf("Duplicate answer from %s for poll=%s q=%d", participantID, pollID, questionIndex)
		return ErrDuplicateAnswer
	}

	s.answers = append(s.answers, models.Answer{
		PollID:        pollID,
		QuestionIndex: questionIndex,
		ParticipantID: participantID,
		OptionID:      optionID,
		Timestamp:     s.nowFunc(),
	})
	logger.Debug.Printf("Recorded answer poll=%s q=%d student=%s option=%d", pollID, questionIndex, participantID, optionID)
	return nil
}

// HasAnswered reports whether the participant already answered the question.
func (s *LedgerService) HasAnswered(pollID string, questionIndex int, participantID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasAnsweredLocked(pollID, questionIndex, participantID)
}

func (s *LedgerService) hasAnsweredLocked(pollID string, questionIndex int, participantID string) bool {
	for _, a := range s.answers {
		if a.PollID == pollID && a.QuestionIndex == questionIndex && a.ParticipantID == participantID {
			return true
		}
	}
	return false
}

// CountFor returns the total number of answers for a question.
func (s *LedgerService) CountFor(pollID string, questionIndex int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, a := range s.answers {
		if a.PollID == pollID && a.QuestionIndex == questionIndex {
			count++
		}
	}
	return count
}

// VotesByOption returns optionID -> vote count for a question.
func (s *LedgerService) VotesByOption(pollID string, questionIndex int) map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	votes := make(map[int]int)
	for _, a := range s.answers {
		if a.PollID == pollID && a.QuestionIndex == questionIndex {
			votes[a.OptionID]++
		}
	}
	return votes
}

// AllAnswered reports whether every connected participant has answered the
// question. Zero connected participants is never "all answered", so an empty
// classroom cannot satisfy the advance gate.
func (s *LedgerService) AllAnswered(pollID string, questionIndex int, connectedIDs []string) bool {
	if len(connectedIDs) == 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range connectedIDs {
		if !s.hasAnsweredLocked(pollID, questionIndex, id) {
			return false
		}
	}
	return true
}

// Archive moves the given poll's answers into history and clears the live
// answer list. History is capped; the oldest archived poll is evicted first.
func (s *LedgerService) Archive(poll models.Poll) {
	s.mu.Lock()
	defer s.mu.Unlock()

	archived := models.ArchivedPoll{Poll: poll}
	for _, a := range s.answers {
		if a.PollID == poll.ID {
			archived.Answers = append(archived.Answers, a)
		}
	}
	s.history = append(s.history, archived)
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}
	s.answers = nil
	logger.Info.Printf("Archived poll %s with %d answers (history size=%d)", poll.ID, len(archived.Answers), len(s.history))
}

// History returns the archived polls, oldest first.
func (s *LedgerService) History() []models.ArchivedPoll {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ArchivedPoll, len(s.history))
	copy(out, s.history)
	return out
}
