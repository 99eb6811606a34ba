// Package services manages the live polling session: poll lifecycle,
// answer intake, and the per-question countdown.
// File: services/session_service.go
package services

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-class-pulse/logger"
	"go-class-pulse/models"
)

// defaultQuestionDuration is used when a created question carries no duration.
const defaultQuestionDuration = 60

// Messenger is the outbound side of the session: it delivers messages to all
// connected observers or to a single one. Implementations must not block the
// caller (fan-out is best-effort, at-most-once per observer).
type Messenger interface {
	Broadcast(msg map[string]interface{})
	SendTo(connID string, msg map[string]interface{})
}

// QuestionInput is one question of a create-poll request.
type QuestionInput struct {
	Text               string   `json:"question"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionId"`
	DurationSeconds    int      `json:"duration"`
}

// SessionService is the facade every external action goes through. It owns
// the current poll, the roster, and the ledger; one mutex serializes every
// read-validate-write sequence across all of them.
type SessionService struct {
	mu        sync.Mutex
	roster    RosterServiceInterface
	ledger    LedgerServiceInterface
	messenger Messenger

	poll *models.Poll

	// timerGeneration invalidates pending countdown ticks: each started
	// question bumps it, so a superseded timer sees a stale generation and
	// exits without acting.
	timerGeneration int

	// TickerInterval is the countdown wake-up interval (1s unless overridden
	// by tests).
	TickerInterval time.Duration

	nowFunc func() time.Time
}

// NewSessionService wires the orchestrator to its collaborators.
func NewSessionService(roster RosterServiceInterface, ledger LedgerServiceInterface, messenger Messenger) *SessionService {
	return &SessionService{
		roster:         roster,
		ledger:         ledger,
		messenger:      messenger,
		TickerInterval: time.Second,
		nowFunc:        time.Now,
	}
}

// ---------------------------- participant actions ----------------------------

// Join admits a student regardless of poll state. On success the updated
// roster is broadcast and, if a poll is current, the joiner privately
// receives the current snapshot so a late arrival sees the question in
// progress rather than a blank state.
func (s *SessionService) Join(connID, name string) (models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.roster.Join(connID, name)
	if err != nil {
		return models.Participant{}, err
	}

	s.broadcastRosterLocked()

	if s.poll != nil {
		s.messenger.SendTo(connID, map[string]interface{}{
			"action": "poll_state",
			"poll":   BuildSnapshot(s.poll),
		})
		if s.poll.Status != models.StatusActive {
			s.messenger.SendTo(connID, map[string]interface{}{
				"action":  "results_update",
				"results": BuildResults(s.poll, s.ledger),
			})
		}
	}
	return p, nil
}

// SubmitAnswer records one answer for the caller against the current
// question. All validations happen before any mutation.
func (s *SessionService) SubmitAnswer(connID string, optionID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.roster.Lookup(connID)
	if !ok {
		return ErrUnauthenticated
	}
	if s.poll == nil || s.poll.Status != models.StatusActive {
		return ErrPollNotActive
	}

	qIdx := s.poll.CurrentQuestionIndex
	if s.ledger.HasAnswered(s.poll.ID, qIdx, student.ID) {
		return ErrDuplicateAnswer
	}
	if err := s.ledger.Record(s.poll.ID, qIdx, student.ID, optionID); err != nil {
		return err
	}

	s.messenger.Broadcast(map[string]interface{}{
		"action":  "results_update",
		"results": BuildResults(s.poll, s.ledger),
	})
	s.broadcastRosterLocked()
	return nil
}

// RemoveParticipant is the teacher kicking a student: the removed party gets
// a dedicated signal so its client can tear down, then everyone else sees the
// updated roster.
func (s *SessionService) RemoveParticipant(targetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messenger.SendTo(targetID, map[string]interface{}{"action": "removed"})
	s.roster.Remove(targetID)
	s.broadcastRosterLocked()
}

// Disconnect is like RemoveParticipant without the "removed" signal; the
// departing connection is already gone.
func (s *SessionService) Disconnect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roster.Remove(connID)
	s.broadcastRosterLocked()
}

// ---------------------------- teacher actions ----------------------------

// CreatePoll validates the question set, archives any finished poll, and
// starts question 0 with its countdown.
func (s *SessionService) CreatePoll(questions []QuestionInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poll != nil && s.poll.Status == models.StatusActive {
		return ErrPollInProgress
	}
	if len(questions) == 0 {
		return &InvalidQuestionError{Index: 0, Reason: "poll has no questions"}
	}

	built := make([]models.Question, len(questions))
	for i, in := range questions {
		q, err := buildQuestion(i, in)
		if err != nil {
			return err
		}
		built[i] = q
	}

	// a finished (waiting/ended) poll is retired into history
	if s.poll != nil {
		s.ledger.Archive(*s.poll)
	}

	s.poll = &models.Poll{
		ID:        uuid.NewString(),
		Questions: built,
		Status:    models.StatusActive,
		CreatedAt: s.nowFunc(),
	}
	logger.Info.Printf("Poll %s created with %d questions", s.poll.ID, len(built))

	s.startQuestionLocked()
	return nil
}

// NextQuestion advances a waiting poll to its next question. It is gated on
// every connected student having answered the question that just closed.
func (s *SessionService) NextQuestion() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poll == nil || s.poll.Status != models.StatusWaiting {
		return ErrInvalidState
	}
	if !s.ledger.AllAnswered(s.poll.ID, s.poll.CurrentQuestionIndex, s.roster.ConnectedIDs()) {
		return ErrNotAllAnswered
	}
	if s.poll.OnLastQuestion() {
		return ErrNoMoreQuestions
	}

	s.poll.CurrentQuestionIndex++
	s.poll.Status = models.StatusActive
	s.poll.CreatedAt = s.nowFunc()
	logger.Info.Printf("Poll %s advanced to question %d", s.poll.ID, s.poll.CurrentQuestionIndex)

	s.startQuestionLocked()
	return nil
}

// EndQuestionEarly closes the current question immediately, with the same
// effect as the countdown expiring. It is not reachable from any wire action
// yet; the transition exists so wiring it up is a one-line dispatch change.
func (s *SessionService) EndQuestionEarly() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poll == nil || s.poll.Status != models.StatusActive {
		return ErrPollNotActive
	}
	s.closeQuestionLocked()
	return nil
}

// ---------------------------- derived views ----------------------------

// Snapshot returns the public view of the current question, or nil if no
// poll is current.
func (s *SessionService) Snapshot() *models.PollSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildSnapshot(s.poll)
}

// Results returns the aggregated tally for the current question, or nil if
// no poll is current.
func (s *SessionService) Results() *models.Results {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildResults(s.poll, s.ledger)
}

// StudentList returns the roster with per-question answered flags.
func (s *SessionService) StudentList() []models.StudentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.studentListLocked()
}

// History returns archived polls, oldest first.
func (s *SessionService) History() []models.ArchivedPoll {
	return s.ledger.History()
}

// ---------------------------- countdown ----------------------------

// startQuestionLocked broadcasts the new question state and starts its
// countdown. Callers hold s.mu. Bumping the generation first guarantees any
// previous question's pending timer can no longer act.
func (s *SessionService) startQuestionLocked() {
	s.timerGeneration++
	gen := s.timerGeneration

	q := s.poll.CurrentQuestion()
	deadline := s.poll.CreatedAt.Add(time.Duration(q.DurationSeconds) * time.Second)

	s.messenger.Broadcast(map[string]interface{}{
		"action": "poll_state",
		"poll":   BuildSnapshot(s.poll),
	})
	s.messenger.Broadcast(map[string]interface{}{
		"action":  "results_update",
		"results": BuildResults(s.poll, s.ledger),
	})
	s.broadcastRosterLocked()

	go s.runCountdown(gen, s.poll.ID, deadline)
}

// runCountdown wakes every TickerInterval, rechecks that it still belongs to
// the current question, and either broadcasts the remaining time or performs
// the expiry transition. No lock is held between ticks.
func (s *SessionService) runCountdown(gen int, pollID string, deadline time.Time) {
	ticker := time.NewTicker(s.TickerInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()

		// a stale timer (new question, new poll, or early close) is a no-op
		if s.poll == nil || s.poll.ID != pollID ||
			s.timerGeneration != gen || s.poll.Status != models.StatusActive {
			s.mu.Unlock()
			return
		}

		now := s.nowFunc()
		if !now.Before(deadline) {
			s.closeQuestionLocked()
			s.mu.Unlock()
			return
		}

		timeLeft := int(deadline.Sub(now).Seconds())
		s.messenger.Broadcast(map[string]interface{}{
			"action":        "timer_update",
			"timeLeft":      timeLeft,
			"questionIndex": s.poll.CurrentQuestionIndex,
		})
		s.mu.Unlock()
	}
}

// closeQuestionLocked performs active->waiting (more questions remain) or
// active->ended (last question), then broadcasts results and the new state.
// Callers hold s.mu.
func (s *SessionService) closeQuestionLocked() {
	s.timerGeneration++ // disable any pending countdown

	if s.poll.OnLastQuestion() {
		s.poll.Status = models.StatusEnded
		logger.Info.Printf("Poll %s ended after question %d", s.poll.ID, s.poll.CurrentQuestionIndex)
	} else {
		s.poll.Status = models.StatusWaiting
		logger.Info.Printf("Poll %s question %d closed, waiting for teacher", s.poll.ID, s.poll.CurrentQuestionIndex)
	}

	s.messenger.Broadcast(map[string]interface{}{
		"action":  "results_update",
		"results": BuildResults(s.poll, s.ledger),
	})
	s.messenger.Broadcast(map[string]interface{}{
		"action": "poll_state",
		"poll":   BuildSnapshot(s.poll),
	})
}

// ---------------------------- helpers ----------------------------

func (s *SessionService) studentListLocked() []models.StudentStatus {
	pollID := ""
	qIdx := 0
	if s.poll != nil {
		pollID = s.poll.ID
		qIdx = s.poll.CurrentQuestionIndex
	}
	return s.roster.ListWithAnswerStatus(pollID, qIdx, s.ledger)
}

func (s *SessionService) broadcastRosterLocked() {
	s.messenger.Broadcast(map[string]interface{}{
		"action":   "roster_update",
		"students": s.studentListLocked(),
	})
}

// buildQuestion validates one QuestionInput and converts it to the immutable
// model form. Option IDs are ordinal indices.
func buildQuestion(index int, in QuestionInput) (models.Question, error) {
	if strings.TrimSpace(in.Text) == "" {
		return models.Question{}, &InvalidQuestionError{Index: index, Reason: "question text is empty"}
	}

	options := make([]models.Option, 0, len(in.Options))
	for _, text := range in.Options {
		if strings.TrimSpace(text) == "" {
			return models.Question{}, &InvalidQuestionError{Index: index, Reason: "option text is empty"}
		}
		options = append(options, models.Option{ID: len(options), Text: text})
	}
	if len(options) < 2 {
		return models.Question{}, &InvalidQuestionError{Index: index, Reason: "question needs at least 2 options"}
	}
	if in.CorrectOptionIndex < 0 || in.CorrectOptionIndex >= len(options) {
		return models.Question{}, &InvalidQuestionError{Index: index, Reason: "no valid correct option designated"}
	}

	duration := in.DurationSeconds
	if duration <= 0 {
		duration = defaultQuestionDuration
	}

	return models.Question{
		Text:            in.Text,
		Options:         options,
		CorrectOptionID: in.CorrectOptionIndex,
		DurationSeconds: duration,
	}, nil
}
