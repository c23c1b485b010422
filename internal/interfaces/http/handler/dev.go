package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// DevRegistry is the management surface of the development token
// registry, mounted only when the daemon runs without a chain backend.
type DevRegistry interface {
	MintToken(assetContract string, tokenID uint64, owner string) error
	ApproveOperator(assetContract, owner, operator string, approved bool)
	ApproveToken(assetContract string, tokenID uint64, operator string)
	CreditFunds(account string, amount uint64)
	BalanceOf(account string) uint64
}

type DevRegistryHandler struct {
	registry DevRegistry
}

func NewDevRegistryHandler(registry DevRegistry) *DevRegistryHandler {
	return &DevRegistryHandler{registry: registry}
}

type mintTokenRequest struct {
	AssetContract string `json:"asset_contract"`
	TokenID       uint64 `json:"token_id"`
	Owner         string `json:"owner"`
}

type approveRequest struct {
	AssetContract string `json:"asset_contract"`
	TokenID       uint64 `json:"token_id"`
	Owner         string `json:"owner"`
	Operator      string `json:"operator"`
	Approved      bool   `json:"approved"`
	AllTokens     bool   `json:"all_tokens"`
}

type creditFundsRequest struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

type balanceResponse struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}

func (h *DevRegistryHandler) MintToken(w http.ResponseWriter, r *http.Request) {
	req := &mintTokenRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.registry.MintToken(
		req.AssetContract, req.TokenID, req.Owner,
	); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *DevRegistryHandler) Approve(w http.ResponseWriter, r *http.Request) {
	req := &approveRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if req.AllTokens {
		h.registry.ApproveOperator(
			req.AssetContract, req.Owner, req.Operator, req.Approved,
		)
	} else {
		h.registry.ApproveToken(req.AssetContract, req.TokenID, req.Operator)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DevRegistryHandler) CreditFunds(w http.ResponseWriter, r *http.Request) {
	req := &creditFundsRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	h.registry.CreditFunds(req.Account, req.Amount)
	w.WriteHeader(http.StatusNoContent)
}

func (h *DevRegistryHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	writeJSON(w, http.StatusOK, balanceResponse{
		Account: account,
		Balance: h.registry.BalanceOf(account),
	})
}
