package application_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nifty-network/nifty-daemon/internal/core/ports"
)

// **** AssetRegistry ****

type mockAssetRegistry struct {
	mock.Mock
}

func (m *mockAssetRegistry) OwnerOf(
	ctx context.Context, assetContract string, tokenID uint64,
) (string, error) {
	args := m.Called(ctx, assetContract, tokenID)

	var res string
	if a := args.Get(0); a != nil {
		res = a.(string)
	}
	return res, args.Error(1)
}

func (m *mockAssetRegistry) IsApprovedOperator(
	ctx context.Context, assetContract, owner, operator string,
) (bool, error) {
	args := m.Called(ctx, assetContract, owner, operator)

	var res bool
	if a := args.Get(0); a != nil {
		res = a.(bool)
	}
	return res, args.Error(1)
}

func (m *mockAssetRegistry) IsApprovedForToken(
	ctx context.Context, assetContract string, tokenID uint64, operator string,
) (bool, error) {
	args := m.Called(ctx, assetContract, tokenID, operator)

	var res bool
	if a := args.Get(0); a != nil {
		res = a.(bool)
	}
	return res, args.Error(1)
}

func (m *mockAssetRegistry) TransferToken(
	ctx context.Context, assetContract, from, to string, tokenID uint64,
) error {
	args := m.Called(ctx, assetContract, from, to, tokenID)
	return args.Error(0)
}

// **** PaymentService ****

type mockPaymentService struct {
	mock.Mock
}

func (m *mockPaymentService) TransferFunds(
	ctx context.Context, from, to string, amount uint64,
) error {
	args := m.Called(ctx, from, to, amount)
	return args.Error(0)
}

// **** SecurePubSub ****

type mockPubSubService struct {
	mock.Mock
}

func (m *mockPubSubService) Subscribe(topic, endpoint, secret string) (string, error) {
	args := m.Called(topic, endpoint, secret)

	var res string
	if a := args.Get(0); a != nil {
		res = a.(string)
	}
	return res, args.Error(1)
}

func (m *mockPubSubService) Unsubscribe(topic, id string) error {
	args := m.Called(topic, id)
	return args.Error(0)
}

func (m *mockPubSubService) ListSubscriptionsForTopic(
	topic string,
) []ports.Subscription {
	args := m.Called(topic)

	var res []ports.Subscription
	if a := args.Get(0); a != nil {
		res = a.([]ports.Subscription)
	}
	return res
}

func (m *mockPubSubService) Publish(topic string, message string) error {
	args := m.Called(topic, message)
	return args.Error(0)
}

func (m *mockPubSubService) ListenForTopic(
	topic string,
) (string, <-chan ports.TopicMessage) {
	args := m.Called(topic)

	var id string
	if a := args.Get(0); a != nil {
		id = a.(string)
	}
	var ch <-chan ports.TopicMessage
	if a := args.Get(1); a != nil {
		ch = a.(<-chan ports.TopicMessage)
	}
	return id, ch
}

func (m *mockPubSubService) StopListening(id string) {
	m.Called(id)
}

func (m *mockPubSubService) Close() error {
	args := m.Called()
	return args.Error(0)
}
