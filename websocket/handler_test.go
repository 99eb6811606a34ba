// websocket/handler_test.go
package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-class-pulse/models"
	"go-class-pulse/services"
)

// --- Mock session using testify/mock ---

type MockSession struct {
	mock.Mock
}

func (m *MockSession) Join(connID, name string) (models.Participant, error) {
	args := m.Called(connID, name)
	return args.Get(0).(models.Participant), args.Error(1)
}

func (m *MockSession) CreatePoll(questions []services.QuestionInput) error {
	args := m.Called(questions)
	return args.Error(0)
}

func (m *MockSession) SubmitAnswer(connID string, optionID int) error {
	args := m.Called(connID, optionID)
	return args.Error(0)
}

func (m *MockSession) NextQuestion() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSession) RemoveParticipant(targetID string) {
	m.Called(targetID)
}

func (m *MockSession) Disconnect(connID string) {
	m.Called(connID)
}

func (m *MockSession) Snapshot() *models.PollSnapshot {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.PollSnapshot)
}

func (m *MockSession) StudentList() []models.StudentStatus {
	args := m.Called()
	return args.Get(0).([]models.StudentStatus)
}

func newTestConnection(s *Server) *Connection {
	return &Connection{id: "conn-test", send: make(chan []byte, 8), server: s}
}

func readReply(t *testing.T, c *Connection) map[string]interface{} {
	t.Helper()
	select {
	case raw := <-c.send:
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &decoded))
		return decoded
	case <-time.After(time.Second):
		t.Fatal("no reply queued")
		return nil
	}
}

func TestHandleIncoming_JoinSuccessEchoesRequestID(t *testing.T) {
	InitTest()
	session := new(MockSession)
	session.On("Join", "conn-test", "Amy").
		Return(models.Participant{ID: "conn-test", Name: "Amy"}, nil).
		Once()

	srv := NewServer(session)
	c := newTestConnection(srv)

	srv.handleIncoming(c, ActionMessage{Action: "join_session", RequestID: "req-7", Name: "Amy"})

	reply := readReply(t, c)
	assert.Equal(t, "ack", reply["action"])
	assert.Equal(t, "req-7", reply["requestId"])
	assert.Equal(t, true, reply["success"])
	session.AssertExpectations(t)
}

func TestHandleIncoming_JoinFailureMapsError(t *testing.T) {
	InitTest()
	session := new(MockSession)
	session.On("Join", "conn-test", "Amy").
		Return(models.Participant{}, services.ErrNameTaken).
		Once()

	srv := NewServer(session)
	c := newTestConnection(srv)

	srv.handleIncoming(c, ActionMessage{Action: "join_session", RequestID: "req-1", Name: "Amy"})

	reply := readReply(t, c)
	assert.Equal(t, services.ErrNameTaken.Error(), reply["error"])
	assert.Nil(t, reply["success"])
	session.AssertExpectations(t)
}

func TestHandleIncoming_SubmitAnswerRequiresOption(t *testing.T) {
	InitTest()
	session := new(MockSession)
	srv := NewServer(session)
	c := newTestConnection(srv)

	srv.handleIncoming(c, ActionMessage{Action: "submit_answer", RequestID: "req-2"})

	reply := readReply(t, c)
	assert.Equal(t, "missing optionId", reply["error"])
	session.AssertNotCalled(t, "SubmitAnswer", mock.Anything, mock.Anything)
}

func TestHandleIncoming_SubmitAnswerDispatches(t *testing.T) {
	InitTest()
	session := new(MockSession)
	session.On("Snapshot").Return(&models.PollSnapshot{CreatedAt: time.Now()}).Once()
	session.On("SubmitAnswer", "conn-test", 2).Return(nil).Once()

	srv := NewServer(session)
	c := newTestConnection(srv)

	option := 2
	srv.handleIncoming(c, ActionMessage{Action: "submit_answer", OptionID: &option})

	reply := readReply(t, c)
	assert.Equal(t, true, reply["success"])
	session.AssertExpectations(t)
}

func TestHandleIncoming_NextQuestionError(t *testing.T) {
	InitTest()
	session := new(MockSession)
	session.On("NextQuestion").Return(services.ErrNotAllAnswered).Once()

	srv := NewServer(session)
	c := newTestConnection(srv)

	srv.handleIncoming(c, ActionMessage{Action: "next_question"})

	reply := readReply(t, c)
	assert.Equal(t, services.ErrNotAllAnswered.Error(), reply["error"])
	session.AssertExpectations(t)
}

func TestHandleIncoming_RemoveStudent(t *testing.T) {
	InitTest()
	session := new(MockSession)
	session.On("RemoveParticipant", "conn-victim").Once()

	srv := NewServer(session)
	c := newTestConnection(srv)

	srv.handleIncoming(c, ActionMessage{Action: "remove_student", StudentID: "conn-victim"})

	reply := readReply(t, c)
	assert.Equal(t, true, reply["success"])
	session.AssertExpectations(t)
}

func TestHandleIncoming_GetStudents(t *testing.T) {
	InitTest()
	session := new(MockSession)
	session.On("StudentList").
		Return([]models.StudentStatus{{ID: "c1", Name: "Amy", HasAnswered: true}}).
		Once()

	srv := NewServer(session)
	c := newTestConnection(srv)

	srv.handleIncoming(c, ActionMessage{Action: "get_students"})

	reply := readReply(t, c)
	students := reply["students"].([]interface{})
	require.Len(t, students, 1)
	first := students[0].(map[string]interface{})
	assert.Equal(t, "Amy", first["name"])
	assert.Equal(t, true, first["hasAnswered"])
	session.AssertExpectations(t)
}

func TestHandleIncoming_UnknownActionIsIgnored(t *testing.T) {
	InitTest()
	session := new(MockSession)
	srv := NewServer(session)
	c := newTestConnection(srv)

	srv.handleIncoming(c, ActionMessage{Action: "dance"})

	assert.Equal(t, 0, len(c.send), "unknown actions get no reply")
}
