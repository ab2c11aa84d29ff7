package http

import (
	"encoding/json"
	"time"
)

// Message type tags. Request tags mirror the legacy client protocol; every
// response is either SUCCESS or ERROR and carries a timestamp.
const (
	msgConnect      = "CONNECT"
	msgGetQuestions = "GET_QUESTIONS"
	msgSubmitAnswer = "SUBMIT_ANSWER"
	msgGetResult    = "GET_RESULT"
	msgDisconnect   = "DISCONNECT"

	msgSuccess = "SUCCESS"
	msgError   = "ERROR"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outboundMessage struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func successMessage(payload any, text string) outboundMessage {
	return outboundMessage{
		Type:      msgSuccess,
		Payload:   payload,
		Message:   text,
		Timestamp: time.Now(),
	}
}

func errorMessage(reason string) outboundMessage {
	return outboundMessage{
		Type:      msgError,
		Message:   reason,
		Timestamp: time.Now(),
	}
}

type connectPayload struct {
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
}

type answerPayload struct {
	QuestionID    int `json:"questionId"`
	SelectedIndex int `json:"selectedIndex"`
}

type welcomePayload struct {
	Welcome string `json:"welcome"`
}
