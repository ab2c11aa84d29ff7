package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
	"quizmaster-service/internal/logging"
)

// connState is the protocol phase of one connection.
type connState int

const (
	awaitingConnect connState = iota
	active
	closing
)

// WSHandler upgrades HTTP requests to websockets and drives one protocol
// state machine per connection.
type WSHandler struct {
	service  *app.QuizService
	registry *Registry
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, registry *Registry, log logrus.FieldLogger) *WSHandler {
	if log == nil {
		log = logging.NewNop()
	}
	return &WSHandler{
		service:  service,
		registry: registry,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// connection owns exactly one websocket end-to-end. All writes happen from
// the read loop goroutine; the registry only ever calls Close, which
// unblocks the read so cleanup runs in the owning goroutine.
type connection struct {
	id            string
	sock          *websocket.Conn
	state         connState
	participantID string
	finalized     bool
	closeOnce     sync.Once
}

func (c *connection) Close() {
	c.closeOnce.Do(func() {
		_ = c.sock.Close()
	})
}

func (c *connection) send(msg outboundMessage) bool {
	return c.sock.WriteJSON(msg) == nil
}

// ServeWS handles one participant connection for its whole lifetime.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}

	conn := &connection{
		id:   uuid.NewString(),
		sock: sock,
	}
	log := h.log.WithFields(logrus.Fields{
		"conn":   conn.id,
		"remote": r.RemoteAddr,
	})
	log.Info("connection accepted")

	defer h.cleanup(conn, log)

	for conn.state != closing {
		var inbound inboundMessage
		if err := sock.ReadJSON(&inbound); err != nil {
			// Peer gone without DISCONNECT; treated identically.
			log.WithError(err).Debug("read ended")
			return
		}

		switch conn.state {
		case awaitingConnect:
			h.handleAwaitingConnect(conn, inbound, log)
		case active:
			h.handleActive(conn, r, inbound, log)
		}
	}
}

// handleAwaitingConnect accepts only CONNECT; anything else is fatal to the
// connection.
func (h *WSHandler) handleAwaitingConnect(conn *connection, inbound inboundMessage, log logrus.FieldLogger) {
	if inbound.Type != msgConnect {
		conn.send(errorMessage(reasonFor(domain.ErrProtocolViolation) + ": expected CONNECT"))
		conn.state = closing
		return
	}

	var payload connectPayload
	if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.ParticipantID == "" || payload.DisplayName == "" {
		conn.send(errorMessage(reasonFor(domain.ErrProtocolViolation) + ": CONNECT requires participantId and displayName"))
		conn.state = closing
		return
	}

	welcome, err := h.service.Connect(payload.ParticipantID, payload.DisplayName)
	if err != nil {
		conn.send(errorMessage(reasonFor(err)))
		conn.state = closing
		return
	}

	conn.participantID = payload.ParticipantID
	conn.state = active
	h.registry.Register(conn.id, conn.participantID, conn)
	log.WithField("participant", conn.participantID).Info("participant connected")

	conn.send(successMessage(welcomePayload{Welcome: welcome}, welcome))
}

func (h *WSHandler) handleActive(conn *connection, r *http.Request, inbound inboundMessage, log logrus.FieldLogger) {
	switch inbound.Type {
	case msgGetQuestions:
		conn.send(successMessage(h.service.Questions(), "Questions retrieved successfully"))

	case msgSubmitAnswer:
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			conn.send(errorMessage("invalid SUBMIT_ANSWER payload"))
			return
		}
		result, err := h.service.SubmitAnswer(conn.participantID, payload.QuestionID, payload.SelectedIndex)
		if err != nil {
			conn.send(errorMessage(reasonFor(err)))
			return
		}
		text := "Incorrect answer."
		if result.Correct {
			text = "Correct answer!"
		}
		conn.send(successMessage(result, text))

	case msgGetResult:
		result, err := h.service.Finalize(r.Context(), conn.participantID)
		if err != nil {
			conn.send(errorMessage(reasonFor(err)))
			conn.state = closing
			return
		}
		conn.finalized = true
		conn.state = closing
		conn.send(successMessage(result, "Quiz completed"))
		log.WithField("participant", conn.participantID).Info("result delivered")

	case msgDisconnect:
		// Explicit abandonment; no reply required.
		conn.state = closing

	case msgConnect:
		conn.send(errorMessage(reasonFor(domain.ErrProtocolViolation) + ": already connected"))
		conn.state = closing

	default:
		conn.send(errorMessage("Unknown message type: " + inbound.Type))
	}
}

// cleanup runs the CLOSING phase: unregister, drop any still-active session,
// release the socket.
func (h *WSHandler) cleanup(conn *connection, log logrus.FieldLogger) {
	h.registry.Unregister(conn.id)
	if conn.participantID != "" && !conn.finalized {
		h.service.Abandon(conn.participantID)
	}
	conn.Close()
	log.Info("connection closed")
}

// reasonFor maps domain errors to the human-readable reason strings sent on
// the wire.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateSession):
		return "participant already has an active session"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "no active session for participant"
	case errors.Is(err, domain.ErrSessionExpired):
		return "session expired"
	case errors.Is(err, domain.ErrUnknownQuestion):
		return "unknown question id"
	case errors.Is(err, domain.ErrProtocolViolation):
		return "protocol violation"
	default:
		return err.Error()
	}
}
