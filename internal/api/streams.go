package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/youvandra/aegis-protocol/internal/service"
)

type createGroupRequest struct {
	GroupName   string     `json:"group_name"`
	ReleaseType string     `json:"release_type"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.services.Streams.CreateGroup(r.Context(), walletFrom(r), service.CreateGroupParams{
		GroupName:   req.GroupName,
		ReleaseType: req.ReleaseType,
		ReleaseDate: req.ReleaseDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.services.Streams.ListGroups(r.Context(), walletFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	view, err := h.services.Streams.GetGroup(r.Context(), walletFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type addMemberRequest struct {
	Name          string          `json:"name"`
	WalletAddress string          `json:"wallet_address"`
	Amount        decimal.Decimal `json:"amount"`
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	member, err := h.services.Streams.AddMember(r.Context(), walletFrom(r), service.AddMemberParams{
		GroupId:       chi.URLParam(r, "id"),
		Name:          req.Name,
		WalletAddress: req.WalletAddress,
		Amount:        req.Amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}
