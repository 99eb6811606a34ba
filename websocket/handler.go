// Package websocket: contains the inbound action dispatch.
// file: websocket/handler.go
package websocket

import (
	"encoding/json"
	"time"

	"go-class-pulse/logger"
	"go-class-pulse/services"
)

// ActionMessage represents the JSON structure of messages from clients.
// RequestID, when present, is echoed in the reply so the caller can match
// request and response.
type ActionMessage struct {
	Action    string                   `json:"action"`
	RequestID string                   `json:"requestId,omitempty"`
	Name      string                   `json:"name,omitempty"`
	OptionID  *int                     `json:"optionId,omitempty"`
	StudentID string                   `json:"studentId,omitempty"`
	Questions []services.QuestionInput `json:"questions,omitempty"`
}

// handleIncoming processes an inbound action and replies to the caller.
func (s *Server) handleIncoming(c *Connection, am ActionMessage) {
	logger.Debug.Printf("[handleIncoming] Action=%s conn=%s", am.Action, c.id)

	switch am.Action {
	case "join_session":
		student, err := s.session.Join(c.id, am.Name)
		if err != nil {
			c.reply(am.RequestID, errorReply(err))
			return
		}
		c.reply(am.RequestID, map[string]interface{}{"success": true, "student": student})

	case "create_poll":
		if err := s.session.CreatePoll(am.Questions); err != nil {
			c.reply(am.RequestID, errorReply(err))
			return
		}
		c.reply(am.RequestID, map[string]interface{}{"success": true})

	case "submit_answer":
		if am.OptionID == nil {
			c.reply(am.RequestID, map[string]interface{}{"error": "missing optionId"})
			return
		}
		snap := s.session.Snapshot()
		if err := s.session.SubmitAnswer(c.id, *am.OptionID); err != nil {
			c.reply(am.RequestID, errorReply(err))
			return
		}
		if snap != nil {
			PublishAnswerLatency(float64(time.Since(snap.CreatedAt).Milliseconds()))
		}
		c.reply(am.RequestID, map[string]interface{}{"success": true})

	case "next_question":
		if err := s.session.NextQuestion(); err != nil {
			c.reply(am.RequestID, errorReply(err))
			return
		}
		c.reply(am.RequestID, map[string]interface{}{"success": true})

	case "remove_student":
		s.session.RemoveParticipant(am.StudentID)
		c.reply(am.RequestID, map[string]interface{}{"success": true})

	case "get_students":
		c.reply(am.RequestID, map[string]interface{}{"students": s.session.StudentList()})

	default:
		logger.Debug.Printf("Unhandled action: %s", am.Action)
	}
}

// reply sends a direct response to the issuing connection.
func (c *Connection) reply(requestID string, payload map[string]interface{}) {
	msg := map[string]interface{}{"action": "ack"}
	if requestID != "" {
		msg["requestId"] = requestID
	}
	for k, v := range payload {
		msg[k] = v
	}
	out, err := json.Marshal(msg)
	if err != nil {
		logger.Error.Printf("[reply] Error marshalling reply: %v", err)
		return
	}
	c.enqueue(out)
}

// errorReply converts an expected session error into the reply payload.
func errorReply(err error) map[string]interface{} {
	return map[string]interface{}{"error": err.Error()}
}
