package pubsub

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nifty-network/nifty-daemon/internal/core/ports"
)

const listenerBufferSize = 32

type listener struct {
	topic string
	ch    chan ports.TopicMessage
}

// broker fans published messages out to in-process listeners, typically
// websocket streams. Deliveries are non-blocking, a listener too slow to
// drain its channel misses messages instead of stalling the publisher.
type broker struct {
	lock      *sync.RWMutex
	listeners map[string]listener
}

func newBroker() *broker {
	return &broker{
		lock:      &sync.RWMutex{},
		listeners: map[string]listener{},
	}
}

func (b *broker) listen(topic string) (string, <-chan ports.TopicMessage) {
	b.lock.Lock()
	defer b.lock.Unlock()

	id := uuid.New().String()
	l := listener{topic: topic, ch: make(chan ports.TopicMessage, listenerBufferSize)}
	b.listeners[id] = l
	return id, l.ch
}

func (b *broker) stopListening(id string) {
	b.lock.Lock()
	defer b.lock.Unlock()

	l, ok := b.listeners[id]
	if !ok {
		return
	}
	delete(b.listeners, id)
	close(l.ch)
}

func (b *broker) broadcast(topic, message string) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	for id, l := range b.listeners {
		if l.topic != ports.AnyTopic && l.topic != topic {
			continue
		}
		select {
		case l.ch <- ports.TopicMessage{Topic: topic, Payload: message}:
		default:
			log.Warnf("listener %s is lagging, message dropped", id)
		}
	}
}
