package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/youvandra/aegis-protocol/internal/service"
)

type createRelayRequest struct {
	ReceiverAddress string          `json:"receiver_address"`
	Amount          decimal.Decimal `json:"amount"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty"`
}

func (h *Handler) createRelay(w http.ResponseWriter, r *http.Request) {
	var req createRelayRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.services.Relays.Create(r.Context(), walletFrom(r), service.CreateRelayParams{
		ReceiverAddress: req.ReceiverAddress,
		Amount:          req.Amount,
		ExpiresAt:       req.ExpiresAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listRelays(w http.ResponseWriter, r *http.Request) {
	relays, err := h.services.Relays.List(r.Context(), walletFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, relays)
}

func (h *Handler) getRelay(w http.ResponseWriter, r *http.Request) {
	view, err := h.services.Relays.Get(r.Context(), walletFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type approveRelayRequest struct {
	Signature string `json:"signature"`
}

func (h *Handler) approveRelay(w http.ResponseWriter, r *http.Request) {
	var req approveRelayRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.services.Relays.Approve(r.Context(), walletFrom(r), chi.URLParam(r, "id"), req.Signature)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) rejectRelay(w http.ResponseWriter, r *http.Request) {
	updated, err := h.services.Relays.Reject(r.Context(), walletFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) cancelRelay(w http.ResponseWriter, r *http.Request) {
	updated, err := h.services.Relays.Cancel(r.Context(), walletFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type executeRelayRequest struct {
	TransactionHash string `json:"transaction_hash"`
}

func (h *Handler) executeRelay(w http.ResponseWriter, r *http.Request) {
	var req executeRelayRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.services.Relays.Execute(r.Context(), walletFrom(r), chi.URLParam(r, "id"), req.TransactionHash)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
