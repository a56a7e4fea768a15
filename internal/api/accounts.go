package api

import (
	"net/http"
)

type connectAccountRequest struct {
	ChainId int64 `json:"chain_id"`
}

func (h *Handler) connectAccount(w http.ResponseWriter, r *http.Request) {
	var req connectAccountRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	account, err := h.services.Accounts.Connect(r.Context(), walletFrom(r), req.ChainId)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *Handler) disconnectAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Accounts.Disconnect(r.Context(), walletFrom(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.services.Accounts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.services.Accounts.Get(r.Context(), walletFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}
