package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/nifty-network/nifty-daemon/internal/core/ports"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// EventsHandler streams marketplace events to websocket clients.
type EventsHandler struct {
	pubsub ports.SecurePubSub
}

func NewEventsHandler(pubsub ports.SecurePubSub) *EventsHandler {
	return &EventsHandler{pubsub: pubsub}
}

type eventMessage struct {
	Event   string `json:"event"`
	Payload string `json:"payload"`
}

// Stream upgrades the connection and forwards every message published
// for the requested topic until the client disconnects.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	topic := ports.AnyTopic
	if event := r.URL.Query().Get("event"); len(event) > 0 {
		var err error
		if topic, err = topicFromRequest(event); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("failed to upgrade events connection")
		return
	}

	id, messages := h.pubsub.ListenForTopic(topic)
	defer h.pubsub.StopListening(id)

	// drain control frames so close messages from the client are seen
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			conn.Close()
			return
		case msg, ok := <-messages:
			if !ok {
				conn.Close()
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(eventMessage{
				Event:   msg.Topic,
				Payload: msg.Payload,
			}); err != nil {
				conn.Close()
				return
			}
		}
	}
}
