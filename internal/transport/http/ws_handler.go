package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"party-quiz/internal/app"
	"party-quiz/internal/domain"
	"party-quiz/internal/round"
)

// WSHandler connects a presentation surface (host screen, remote) to a quiz session.
type WSHandler struct {
	service  *app.QuizService
	log      *log.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger *log.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type jokerPayload struct {
	Choice string `json:"choice"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
	QuizID    string `json:"quizId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and binds the connection to a session.
// With quizId the session is opened (a new id is issued when session is empty); with only
// session an existing or checkpointed session is reattached.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	quizID := r.URL.Query().Get("quizId")
	if sessionID == "" && quizID == "" {
		http.Error(w, "missing session or quizId", http.StatusBadRequest)
		return
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	controller, err := h.attach(r, sessionID, quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	events, cancel := controller.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	// Single writer: gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write error", "session", sessionID, "err", err)
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "session", Payload: sessionPayload{SessionID: sessionID, QuizID: controller.QuizID()}}

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: string(ev.Type), Payload: ev.Payload}:
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if msg, ok := h.dispatch(r, sessionID, controller, inbound); ok {
			select {
			case send <- msg:
			case <-writerDone:
			}
		}
		if inbound.Type == "close" {
			break
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

func (h *WSHandler) attach(r *http.Request, sessionID, quizID string) (*app.QuizController, error) {
	if quizID != "" {
		return h.service.Open(r.Context(), sessionID, quizID)
	}
	c, err := h.service.Get(sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return h.service.Resume(r.Context(), sessionID)
	}
	return c, err
}

// dispatch runs one inbound command. Controller rejections reach the client as error events
// through the subscription; only malformed messages are answered directly.
func (h *WSHandler) dispatch(r *http.Request, sessionID string, c *app.QuizController, in inboundMessage) (outboundMessage[any], bool) {
	var err error
	switch in.Type {
	case "start":
		err = c.Start()
	case "joker":
		var payload jokerPayload
		if json.Unmarshal(in.Payload, &payload) != nil || payload.Choice == "" {
			return invalid("invalid joker payload")
		}
		err = c.SelectJoker(payload.Choice)
	case "action":
		var action round.Action
		if json.Unmarshal(in.Payload, &action) != nil || action.Kind == "" {
			return invalid("invalid action payload")
		}
		err = c.Act(action)
	case "retry":
		err = c.Retry()
	case "cleanup":
		c.Cleanup()
	case "close":
		h.service.Close(r.Context(), sessionID)
	default:
		return invalid("unsupported message type")
	}
	if err != nil {
		h.log.Debug("command rejected", "session", sessionID, "type", in.Type, "err", err)
	}
	return outboundMessage[any]{}, false
}

func invalid(message string) (outboundMessage[any], bool) {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}, true
}
