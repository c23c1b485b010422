package pubsub

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/sony/gobreaker"
	"github.com/thanhpk/randstr"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"

	"github.com/nifty-network/nifty-daemon/internal/core/ports"
	"github.com/nifty-network/nifty-daemon/pkg/circuitbreaker"
)

// deliveriesPerSecond paces the webhook fan-out so that a burst of
// marketplace activity does not flood the subscriber endpoints.
const deliveriesPerSecond = 50

type service struct {
	store      SubscriptionStore
	httpClient *client
	cb         *gobreaker.CircuitBreaker
	limiter    ratelimit.Limiter
	broker     *broker
}

// NewService returns a SecurePubSub notifying subscriber endpoints via
// webhooks and in-process listeners via channels. Subscriptions are kept
// in the given store.
func NewService(store SubscriptionStore) (ports.SecurePubSub, error) {
	if store == nil {
		return nil, fmt.Errorf("missing subscription store")
	}

	return &service{
		store:      store,
		httpClient: newHTTPClient(15 * time.Second),
		cb:         circuitbreaker.NewCircuitBreaker(),
		limiter:    ratelimit.New(deliveriesPerSecond),
		broker:     newBroker(),
	}, nil
}

func (ws *service) Subscribe(topic, endpoint, secret string) (string, error) {
	if len(secret) <= 0 {
		secret = randstr.Hex(16)
	}
	sub, err := NewSubscription(topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	if err := ws.store.AddSubscription(sub); err != nil {
		return "", err
	}
	return sub.ID, nil
}

func (ws *service) Unsubscribe(_, id string) error {
	sub, err := ws.store.GetSubscription(id)
	if err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("subscription not found")
	}
	return ws.store.RemoveSubscription(id)
}

func (ws *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	return ws.listSubscriptionsForTopic(topic).toPortable()
}

func (ws *service) Publish(topic string, message string) error {
	ws.broker.broadcast(topic, message)

	subs := ws.listSubscriptionsForTopic(topic)

	eg := &errgroup.Group{}
	for i := range subs {
		sub := subs[i]
		eg.Go(func() error {
			ws.limiter.Take()
			return ws.doRequest(sub, message)
		})
	}
	return eg.Wait()
}

func (ws *service) ListenForTopic(topic string) (string, <-chan ports.TopicMessage) {
	return ws.broker.listen(topic)
}

func (ws *service) StopListening(id string) {
	ws.broker.stopListening(id)
}

func (ws *service) Close() error {
	return ws.store.Close()
}

func (ws *service) listSubscriptionsForTopic(topic string) subscriptions {
	subs, _ := ws.store.ListSubscriptions(topic)
	if topic != ports.AnyTopic && topic != ports.UnspecifiedTopic {
		subsForAnyTopic, _ := ws.store.ListSubscriptions(ports.AnyTopic)
		subs = append(subs, subsForAnyTopic...)
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].ID < subs[j].ID
	})
	return subs
}

func (ws *service) doRequest(sub Subscription, payload string) error {
	_, err := ws.cb.Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
		}
		if sub.IsSecured() {
			digest := sha256.Sum256([]byte(payload))
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"payload_hash": hex.EncodeToString(digest[:]),
				"nonce":        randstr.Hex(8),
			})
			secret := []byte(sub.Secret)
			tokenString, _ := token.SignedString(secret)
			headers["Authorization"] = fmt.Sprintf("Bearer %s", tokenString)
		}

		status, resp, err := ws.httpClient.post(sub.Endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf(resp)
		}
		return nil, nil
	})

	return err
}
