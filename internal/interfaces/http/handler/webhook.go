package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nifty-network/nifty-daemon/internal/core/application"
	"github.com/nifty-network/nifty-daemon/internal/core/ports"
	"github.com/nifty-network/nifty-daemon/internal/interfaces/http/metrics"
)

// WebhookHandler manages webhook subscriptions for marketplace events.
type WebhookHandler struct {
	pubsub ports.SecurePubSub
}

func NewWebhookHandler(pubsub ports.SecurePubSub) *WebhookHandler {
	return &WebhookHandler{pubsub: pubsub}
}

type subscribeRequest struct {
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret,omitempty"`
}

type subscribeResponse struct {
	ID string `json:"id"`
}

type subscriptionInfo struct {
	ID       string `json:"id"`
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secured  bool   `json:"secured"`
}

func (h *WebhookHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	req := &subscribeRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	topic, err := topicFromRequest(req.Event)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id, err := h.pubsub.Subscribe(topic, req.Endpoint, req.Secret)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	metrics.WebhookSubscriptionsTotal.WithLabelValues("subscribe").Inc()
	writeJSON(w, http.StatusCreated, subscribeResponse{ID: id})
}

func (h *WebhookHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.pubsub.Unsubscribe(ports.UnspecifiedTopic, id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	metrics.WebhookSubscriptionsTotal.WithLabelValues("unsubscribe").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (h *WebhookHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	topic := ports.UnspecifiedTopic
	if event := r.URL.Query().Get("event"); len(event) > 0 {
		var err error
		if topic, err = topicFromRequest(event); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	subs := h.pubsub.ListSubscriptionsForTopic(topic)
	infos := make([]subscriptionInfo, 0, len(subs))
	for _, sub := range subs {
		infos = append(infos, subscriptionInfo{
			ID:       sub.Id(),
			Event:    sub.Topic(),
			Endpoint: sub.NotifyAt(),
			Secured:  sub.IsSecured(),
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

func topicFromRequest(event string) (string, error) {
	if event == ports.AnyTopic {
		return ports.AnyTopic, nil
	}
	topic, ok := application.TopicFromLabel(event)
	if !ok {
		return "", errors.New("unknown event")
	}
	return topic.Label(), nil
}
