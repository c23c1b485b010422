package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/nifty-network/nifty-daemon/internal/core/application"
	"github.com/nifty-network/nifty-daemon/internal/core/domain"
	"github.com/nifty-network/nifty-daemon/internal/interfaces/http/metrics"
)

// MarketplaceHandler exposes the marketplace operations over JSON/HTTP.
type MarketplaceHandler struct {
	svc application.MarketplaceService
}

func NewMarketplaceHandler(
	svc application.MarketplaceService,
) *MarketplaceHandler {
	return &MarketplaceHandler{svc: svc}
}

type createListingRequest struct {
	AssetContract string `json:"asset_contract"`
	TokenID       uint64 `json:"token_id"`
	Price         uint64 `json:"price"`
	Caller        string `json:"caller"`
}

type updateListingRequest struct {
	NewPrice uint64 `json:"new_price"`
	Caller   string `json:"caller"`
}

type purchaseListingRequest struct {
	Payment uint64 `json:"payment"`
	Buyer   string `json:"buyer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *MarketplaceHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	req := &createListingRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.svc.CreateListing(
		r.Context(), req.AssetContract, req.TokenID, req.Price, req.Caller,
	); err != nil {
		writeOperationError(w, "create_listing", err)
		return
	}

	metrics.OperationsTotal.WithLabelValues("create_listing", metrics.OutcomeOK).Inc()
	w.WriteHeader(http.StatusCreated)
}

func (h *MarketplaceHandler) CancelListing(w http.ResponseWriter, r *http.Request) {
	assetContract, tokenID, ok := listingKeyFromURL(w, r)
	if !ok {
		return
	}
	caller := r.URL.Query().Get("caller")

	if err := h.svc.CancelListing(
		r.Context(), assetContract, tokenID, caller,
	); err != nil {
		writeOperationError(w, "cancel_listing", err)
		return
	}

	metrics.OperationsTotal.WithLabelValues("cancel_listing", metrics.OutcomeOK).Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (h *MarketplaceHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	assetContract, tokenID, ok := listingKeyFromURL(w, r)
	if !ok {
		return
	}
	req := &updateListingRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.svc.UpdateListing(
		r.Context(), assetContract, tokenID, req.NewPrice, req.Caller,
	); err != nil {
		writeOperationError(w, "update_listing", err)
		return
	}

	metrics.OperationsTotal.WithLabelValues("update_listing", metrics.OutcomeOK).Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (h *MarketplaceHandler) PurchaseListing(w http.ResponseWriter, r *http.Request) {
	assetContract, tokenID, ok := listingKeyFromURL(w, r)
	if !ok {
		return
	}
	req := &purchaseListingRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.svc.PurchaseListing(
		r.Context(), assetContract, tokenID, req.Payment, req.Buyer,
	); err != nil {
		writeOperationError(w, "purchase_listing", err)
		return
	}

	metrics.OperationsTotal.WithLabelValues("purchase_listing", metrics.OutcomeOK).Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (h *MarketplaceHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	assetContract, tokenID, ok := listingKeyFromURL(w, r)
	if !ok {
		return
	}

	info, err := h.svc.GetListing(r.Context(), assetContract, tokenID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if info == nil {
		writeError(w, http.StatusNotFound, domain.ErrListingNotFound)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *MarketplaceHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	var listings interface{}
	var err error
	if seller := r.URL.Query().Get("seller"); len(seller) > 0 {
		listings, err = h.svc.ListListingsBySeller(r.Context(), seller)
	} else {
		listings, err = h.svc.ListListings(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *MarketplaceHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	var purchases interface{}
	var err error
	switch {
	case len(r.URL.Query().Get("asset")) > 0:
		purchases, err = h.svc.ListPurchasesByAsset(
			r.Context(), r.URL.Query().Get("asset"),
		)
	case len(r.URL.Query().Get("seller")) > 0:
		purchases, err = h.svc.ListPurchasesBySeller(
			r.Context(), r.URL.Query().Get("seller"),
		)
	default:
		purchases, err = h.svc.ListPurchases(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}

func (h *MarketplaceHandler) GetMarketReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GetMarketReport(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func listingKeyFromURL(
	w http.ResponseWriter, r *http.Request,
) (string, uint64, bool) {
	assetContract := chi.URLParam(r, "asset")
	tokenID, err := strconv.ParseUint(chi.URLParam(r, "tokenID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid token id"))
		return "", 0, false
	}
	return assetContract, tokenID, true
}

func writeOperationError(w http.ResponseWriter, operation string, err error) {
	status := statusFromError(err)
	outcome := metrics.OutcomeRejected
	if status >= http.StatusInternalServerError ||
		status == http.StatusUnprocessableEntity {
		outcome = metrics.OutcomeError
	}
	metrics.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	writeError(w, status, err)
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, application.ErrInvalidPrice),
		errors.Is(err, application.ErrInvalidPayment),
		errors.Is(err, domain.ErrListingInvalidAsset),
		errors.Is(err, domain.ErrListingInvalidPrice),
		errors.Is(err, domain.ErrListingInvalidSeller),
		errors.Is(err, domain.ErrPurchaseInvalidBuyer):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrCallerNotOwner),
		errors.Is(err, application.ErrMarketplaceNotApproved):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrListingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrListingAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, application.ErrTransferFailed),
		errors.Is(err, application.ErrPaymentFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, application.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
