package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"eitango-quiz-service/internal/app"
)

// SessionRegistry tracks live connections for operational visibility.
type SessionRegistry interface {
	Register(sessionID string)
	Unregister(sessionID string)
}

type WSHandler struct {
	service  *app.QuizService
	registry SessionRegistry
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, registry SessionRegistry) *WSHandler {
	return &WSHandler{
		service:  service,
		registry: registry,
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

type authPayload struct {
	LearnerID string `json:"learnerId"`
}

type startPayload struct {
	Name       string `json:"name"`
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives one quiz session
// per connection. Engine events stream out; learner actions come in as
// {type, payload} envelopes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session, err := h.service.NewSession(r.Context(), r.UserAgent())
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer session.Close()

	connID := uuid.NewString()
	if h.registry != nil {
		h.registry.Register(connID)
		defer h.registry.Unregister(connID)
	}

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-session.Events():
				if !ok {
					return
				}
				select {
				case send <- outboundMessage{Type: string(ev.Type), Payload: ev.Payload}:
				case <-closeSignals:
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
		if err := h.dispatch(session, inbound); err != nil {
			select {
			case send <- outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}}:
			case <-closeSignals:
			}
		}
	}

	close(closeSignals)
	session.Close()
	<-eventsDone
	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(session *app.Session, inbound inboundMessage) error {
	switch inbound.Type {
	case "auth":
		var payload authPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		return session.Authenticate(payload.LearnerID)
	case "start":
		var payload startPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		return session.Start(payload.Name, payload.Mode, payload.Difficulty)
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		return session.Submit(payload.Answer)
	case "retry":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		return session.Retry(payload.Answer)
	case "availability":
		return session.RefreshAvailability()
	case "next":
		return session.Next()
	case "stop":
		return session.Stop()
	case "retryWrong":
		return session.RetryWrong()
	case "restart":
		return session.Restart()
	case "report":
		return session.Report()
	default:
		return errUnsupportedType
	}
}

type wsError string

func (e wsError) Error() string { return string(e) }

const (
	errInvalidPayload  = wsError("invalid payload")
	errUnsupportedType = wsError("unsupported message type")
)
