package application

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/nifty-network/nifty-daemon/internal/core/ports"
)

// marketplace topics
const (
	ListingCreated MarketplaceTopic = iota
	ListingCanceled
	ListingUpdated
	ListingPurchased
	AllTopics
)

var (
	topicToLabel = map[MarketplaceTopic]string{
		ListingCreated:   "LISTING_CREATED",
		ListingCanceled:  "LISTING_CANCELED",
		ListingUpdated:   "LISTING_UPDATED",
		ListingPurchased: "LISTING_PURCHASED",
		AllTopics:        "*",
	}
	labelToTopic = map[string]MarketplaceTopic{
		"LISTING_CREATED":   ListingCreated,
		"LISTING_CANCELED":  ListingCanceled,
		"LISTING_UPDATED":   ListingUpdated,
		"LISTING_PURCHASED": ListingPurchased,
		"*":                 AllTopics,
	}
)

// MarketplaceTopic identifies a state transition notified to the
// subscribers of the pubsub service.
type MarketplaceTopic int

func TopicFromLabel(label string) (MarketplaceTopic, bool) {
	topic, ok := labelToTopic[label]
	return topic, ok
}

func (t MarketplaceTopic) String() string {
	label, ok := topicToLabel[t]
	if !ok {
		label = "UNKNOWN"
	}
	return label
}

func (t MarketplaceTopic) Code() int {
	return int(t)
}

func (t MarketplaceTopic) Label() string {
	return t.String()
}

// publishTopic helper to publish a message for the given topic on the
// given pubsub service. Publishing is best-effort, a failed delivery
// never undoes the operation that triggered it.
func publishTopic(
	pubsub ports.SecurePubSub, topic MarketplaceTopic,
	payload map[string]interface{},
) error {
	if pubsub == nil {
		return nil
	}

	message, _ := json.Marshal(payload)
	if err := pubsub.Publish(topic.Label(), string(message)); err != nil {
		return fmt.Errorf(
			"an error occured while publishing message for topic %s: %s",
			topic.Label(), err,
		)
	}
	return nil
}

func publishListingCreatedTopic(
	pubsub ports.SecurePubSub,
	assetContract string, tokenID, price uint64, seller string,
) {
	payload := map[string]interface{}{
		"asset_contract": assetContract,
		"token_id":       tokenID,
		"price":          price,
		"seller":         seller,
	}
	if err := publishTopic(pubsub, ListingCreated, payload); err != nil {
		log.Warn(err)
	}
}

func publishListingCanceledTopic(
	pubsub ports.SecurePubSub,
	assetContract string, tokenID uint64, seller string,
) {
	payload := map[string]interface{}{
		"asset_contract": assetContract,
		"token_id":       tokenID,
		"seller":         seller,
	}
	if err := publishTopic(pubsub, ListingCanceled, payload); err != nil {
		log.Warn(err)
	}
}

func publishListingUpdatedTopic(
	pubsub ports.SecurePubSub,
	assetContract string, tokenID, newPrice uint64, seller string,
) {
	payload := map[string]interface{}{
		"asset_contract": assetContract,
		"token_id":       tokenID,
		"new_price":      newPrice,
		"seller":         seller,
	}
	if err := publishTopic(pubsub, ListingUpdated, payload); err != nil {
		log.Warn(err)
	}
}

func publishListingPurchasedTopic(
	pubsub ports.SecurePubSub,
	assetContract string, tokenID uint64, seller, buyer string,
) {
	payload := map[string]interface{}{
		"asset_contract": assetContract,
		"token_id":       tokenID,
		"seller":         seller,
		"buyer":          buyer,
	}
	if err := publishTopic(pubsub, ListingPurchased, payload); err != nil {
		log.Warn(err)
	}
}
