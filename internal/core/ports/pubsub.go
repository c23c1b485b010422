package ports

// AnyTopic matches every topic of the pubsub service.
const AnyTopic = "*"

// UnspecifiedTopic matches no topic in particular, used to list every
// subscription regardless of its topic.
const UnspecifiedTopic = ""

// Subscription holds the info of a client subscribed for some topic.
type Subscription interface {
	Topic() string
	Id() string
	IsSecured() bool
	NotifyAt() string
}

// TopicMessage is a message published for a topic, as delivered to
// in-process listeners.
type TopicMessage struct {
	Topic   string
	Payload string
}

// SecurePubSub defines the methods of the notification service consumed
// by the marketplace engine. Subscribers are notified at their endpoint
// for every message published for their topic; in-process listeners
// receive the same messages over a channel.
type SecurePubSub interface {
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes some client defined by its id for a topic.
	Unsubscribe(topic, id string) error
	// ListSubscriptionsForTopic returns the info of all clients subscribed
	// for a certain topic.
	ListSubscriptionsForTopic(topic string) []Subscription
	// Publish publishes a message for a certain topic. All clients
	// subscribed for such topic will receive the message.
	Publish(topic string, message string) error
	// ListenForTopic registers an in-process listener for a topic and
	// returns its id along with the delivery channel.
	ListenForTopic(topic string) (string, <-chan TopicMessage)
	// StopListening removes an in-process listener by its id.
	StopListening(id string)
	// Close should be used to gracefully close the connection with the
	// internal store.
	Close() error
}
