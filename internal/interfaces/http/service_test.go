package httpinterface

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nifty-network/nifty-daemon/internal/core/application"
	"github.com/nifty-network/nifty-daemon/internal/infrastructure/pubsub"
	registryinmemory "github.com/nifty-network/nifty-daemon/internal/infrastructure/registry/inmemory"
	dbinmemory "github.com/nifty-network/nifty-daemon/internal/infrastructure/storage/db/inmemory"
)

const (
	testAsset    = "0x8a90cab2b38dba80c64b7734e58ee1db38b8992e"
	testSeller   = "0x0ac1df02185025f65202660f8167210a80dd5086"
	testBuyer    = "0x39ee2c7b3cb80254225884ca001f57118c8f21b6"
	testOperator = "0x5409ed021d9299bf6814279a6a1411a7e866a631"
)

type testServer struct {
	*httptest.Server
	registry *registryinmemory.Registry
}

func newTestServer(t *testing.T) *testServer {
	registry := registryinmemory.NewRegistry(testOperator)
	repoManager := dbinmemory.NewRepoManager()
	pubsubSvc, err := pubsub.NewService(pubsub.NewInMemorySubscriptionStore())
	require.NoError(t, err)
	t.Cleanup(func() { pubsubSvc.Close() })

	marketplaceSvc := application.NewMarketplaceService(
		repoManager, registry, registry, pubsubSvc, testOperator, time.Second,
	)

	svc, err := NewService(ServiceOpts{
		Port:               9945,
		MarketplaceService: marketplaceSvc,
		PubSub:             pubsubSvc,
	})
	require.NoError(t, err)

	server := httptest.NewServer(svc.router())
	t.Cleanup(server.Close)

	return &testServer{Server: server, registry: registry}
}

func (s *testServer) do(
	t *testing.T, method, path string, body interface{},
) *http.Response {
	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(buf)
	}
	req, err := http.NewRequest(method, s.URL+path, reqBody)
	require.NoError(t, err)

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func (s *testServer) createListing(
	t *testing.T, tokenID, price uint64,
) *http.Response {
	require.NoError(t, s.registry.MintToken(testAsset, tokenID, testSeller))
	s.registry.ApproveOperator(testAsset, testSeller, testOperator, true)

	return s.do(t, http.MethodPost, "/v1/listings", map[string]interface{}{
		"asset_contract": testAsset,
		"token_id":       tokenID,
		"price":          price,
		"caller":         testSeller,
	})
}

func listingPath(tokenID uint64) string {
	return fmt.Sprintf("/v1/listings/%s/%d", testAsset, tokenID)
}

func TestListingRoutes(t *testing.T) {
	server := newTestServer(t)

	resp := server.createListing(t, 1, 1000)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = server.do(t, http.MethodGet, listingPath(1), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listing := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	require.Equal(t, testAsset, listing["asset_contract"])
	require.Equal(t, float64(1000), listing["price"])
	require.Equal(t, testSeller, listing["seller"])

	resp = server.do(t, http.MethodPut, listingPath(1), map[string]interface{}{
		"new_price": 1500,
		"caller":    testSeller,
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = server.do(t, http.MethodGet, "/v1/listings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listings := []map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listings))
	require.Len(t, listings, 1)
	require.Equal(t, float64(1500), listings[0]["price"])

	resp = server.do(
		t, http.MethodDelete, listingPath(1)+"?caller="+testSeller, nil,
	)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = server.do(t, http.MethodGet, listingPath(1), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListingRoutesErrors(t *testing.T) {
	server := newTestServer(t)

	resp := server.createListing(t, 1, 1000)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// relisting the same token
	resp = server.do(t, http.MethodPost, "/v1/listings", map[string]interface{}{
		"asset_contract": testAsset,
		"token_id":       1,
		"price":          1000,
		"caller":         testSeller,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// zero price
	resp = server.do(t, http.MethodPut, listingPath(1), map[string]interface{}{
		"new_price": 0,
		"caller":    testSeller,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// caller is not the seller
	resp = server.do(
		t, http.MethodDelete, listingPath(1)+"?caller="+testBuyer, nil,
	)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// malformed token id
	resp = server.do(
		t, http.MethodGet, "/v1/listings/"+testAsset+"/notanumber", nil,
	)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPurchaseRoutes(t *testing.T) {
	server := newTestServer(t)

	resp := server.createListing(t, 1, 1000)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	server.registry.CreditFunds(testBuyer, 2000)

	// underpayment is rejected and the listing survives
	resp = server.do(
		t, http.MethodPost, listingPath(1)+"/purchase", map[string]interface{}{
			"payment": 500,
			"buyer":   testBuyer,
		},
	)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = server.do(
		t, http.MethodPost, listingPath(1)+"/purchase", map[string]interface{}{
			"payment": 1000,
			"buyer":   testBuyer,
		},
	)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	owner, err := server.registry.OwnerOf(nil, testAsset, 1)
	require.NoError(t, err)
	require.Equal(t, testBuyer, owner)
	require.Equal(t, uint64(1000), server.registry.BalanceOf(testSeller))

	resp = server.do(t, http.MethodGet, "/v1/purchases", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	purchases := []map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&purchases))
	require.Len(t, purchases, 1)
	require.Equal(t, testBuyer, purchases[0]["buyer"])

	resp = server.do(t, http.MethodGet, "/v1/purchases?seller="+testSeller, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	purchases = []map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&purchases))
	require.Len(t, purchases, 1)

	resp = server.do(t, http.MethodGet, "/v1/purchases?seller="+testBuyer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	purchases = []map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&purchases))
	require.Empty(t, purchases)

	resp = server.do(t, http.MethodGet, "/v1/report", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	require.Equal(t, float64(1), report["sales_count"])
}

func TestWebhookRoutes(t *testing.T) {
	server := newTestServer(t)

	resp := server.do(t, http.MethodPost, "/v1/webhooks", map[string]interface{}{
		"event":    "LISTING_CREATED",
		"endpoint": "http://localhost:8888/hook",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := map[string]string{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created["id"])

	resp = server.do(t, http.MethodGet, "/v1/webhooks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	subs := []map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&subs))
	require.Len(t, subs, 1)
	require.Equal(t, "LISTING_CREATED", subs[0]["event"])

	resp = server.do(t, http.MethodPost, "/v1/webhooks", map[string]interface{}{
		"event":    "NOT_AN_EVENT",
		"endpoint": "http://localhost:8888/hook",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = server.do(t, http.MethodDelete, "/v1/webhooks/"+created["id"], nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = server.do(t, http.MethodGet, "/v1/webhooks", nil)
	subs = []map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&subs))
	require.Empty(t, subs)
}
