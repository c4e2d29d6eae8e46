package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"risk-profile-service/internal/app"
	"risk-profile-service/internal/domain"
)

// WSHandler lets a remote presenter drive one questionnaire session per connection.
type WSHandler struct {
	service   *app.QuestionnaireService
	defaultID string
	log       *zap.Logger
	upgrader  websocket.Upgrader
}

func NewWSHandler(service *app.QuestionnaireService, defaultQuestionnaire string, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service:   service,
		defaultID: defaultQuestionnaire,
		log:       log,
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

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Option     string `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the questionnaire use cases.
//
// Client messages: answer {questionId, option}, next, back, restart.
// Server messages: question (app.View), result (domain.Diagnosis), error.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	questionnaireID := r.URL.Query().Get("questionnaireId")
	if questionnaireID == "" {
		questionnaireID = h.defaultID
	}
	if questionnaireID == "" {
		http.Error(w, "missing questionnaireId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	ctx := r.Context()
	sessionID := ""
	start := func() {
		view, err := h.service.Start(ctx, questionnaireID)
		if err != nil {
			send <- errorMessage(err)
			return
		}
		sessionID = view.SessionID
		send <- outboundMessage[any]{Type: "question", Payload: view}
	}
	start()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if inbound.Type == "restart" {
			if sessionID != "" {
				h.service.Abandon(ctx, sessionID)
			}
			sessionID = ""
			start()
			continue
		}
		if sessionID == "" {
			send <- errorMessage(domain.ErrSessionNotFound)
			continue
		}

		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			view, err := h.service.Answer(ctx, sessionID, payload.QuestionID, payload.Option)
			if err != nil {
				send <- errorMessage(err)
				continue
			}
			send <- outboundMessage[any]{Type: "question", Payload: view}
		case "next":
			view, diagnosis, err := h.service.Next(ctx, sessionID)
			if err != nil {
				send <- errorMessage(err)
				continue
			}
			if diagnosis != nil {
				sessionID = ""
				send <- outboundMessage[any]{Type: "result", Payload: diagnosis}
				continue
			}
			send <- outboundMessage[any]{Type: "question", Payload: view}
		case "back":
			view, err := h.service.Back(ctx, sessionID)
			if err != nil {
				send <- errorMessage(err)
				continue
			}
			send <- outboundMessage[any]{Type: "question", Payload: view}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	if sessionID != "" {
		h.service.Abandon(ctx, sessionID)
	}
	close(send)
	<-writerDone
}

func errorMessage(err error) outboundMessage[any] {
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrNoAnswers):
		msg = "no diagnosis data"
	case errors.Is(err, domain.ErrQuestionnaireNotFound):
		msg = "questionnaire not found"
	}
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}
