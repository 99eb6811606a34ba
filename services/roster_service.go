// Package services: services/roster_service.go
package services

import (
	"strings"
	"sync"
	"time"

	"go-class-pulse/logger"
	"go-class-pulse/models"
)

// AnsweredChecker is the slice of the ledger the roster needs to decorate its
// listing with per-question answered flags.
type AnsweredChecker interface {
	HasAnswered(pollID string, questionIndex int, participantID string) bool
}

// RosterServiceInterface tracks connected participants keyed by connection ID.
type RosterServiceInterface interface {
	Join(connID, name string) (models.Participant, error)
	Remove(connID string)
	Lookup(connID string) (models.Participant, bool)
	ConnectedIDs() []string
	Count() int
	ListWithAnswerStatus(pollID string, questionIndex int, ledger AnsweredChecker) []models.StudentStatus
}

// RosterService is the in-memory roster. Join order is preserved so that
// roster broadcasts list students in the order they arrived.
type RosterService struct {
	mu      sync.Mutex
	byID    map[string]models.Participant
	order   []string
	nowFunc func() time.Time
}

// NewRosterService creates an empty roster.
func NewRosterService() *RosterService {
	return &RosterService{
		byID:    make(map[string]models.Participant),
		nowFunc: time.Now,
	}
}

// Join admits a participant. Display names must be unique case-insensitively
// among currently-connected participants; a name freed by a disconnect may be
// reused immediately.
func (s *RosterService) Join(connID, name string) (models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lower := strings.ToLower(name)
	for _, id := range s.order {
		if strings.ToLower(s.byID[id].Name) == lower {
			logger.Warn.Printf("Join rejected for %q: name already connected", name)
			return models.Participant{}, ErrNameTaken
		}
	}

	p := models.Participant{ID: connID, Name: name, JoinedAt: s.nowFunc()}
	s.byID[connID] = p
	s.order = append(s.order, connID)
	logger.Info.Printf("Student %q joined (conn=%s), roster size=%d", name, connID, len(s.order))
	return p, nil
}

// Remove drops a participant. Idempotent; unknown IDs are a no-op.
func (s *RosterService) Remove(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[connID]; !ok {
		return
	}
	delete(s.byID, connID)
	for i, id := range s.order {
		if id == connID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	logger.Info.Printf("Student conn=%s removed, roster size=%d", connID, len(s.order))
}

// Lookup returns the participant for a connection ID.
func (s *RosterService) Lookup(connID string) (models.Participant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[connID]
	return p, ok
}

// ConnectedIDs returns the connected participant IDs in join order.
func (s *RosterService) ConnectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// Count returns the number of connected participants.
func (s *RosterService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// ListWithAnswerStatus returns the roster in join order, with each student's
// answered flag for the given question computed from the ledger.
func (s *RosterService) ListWithAnswerStatus(pollID string, questionIndex int, ledger AnsweredChecker) []models.StudentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]models.StudentStatus, 0, len(s.order))
	for _, id := range s.order {
		p := s.byID[id]
		answered := false
		if ledger != nil && pollID != "" {
			answered = ledger.HasAnswered(pollID, questionIndex, id)
		}
		list = append(list, models.StudentStatus{ID: p.ID, Name: p.Name, HasAnswered: answered})
	}
	return list
}
