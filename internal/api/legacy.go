package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/youvandra/aegis-protocol/internal/service"
)

type setMomentRequest struct {
	MomentType  string `json:"moment_type"`
	MomentValue string `json:"moment_value"`
}

func (h *Handler) setMoment(w http.ResponseWriter, r *http.Request) {
	var req setMomentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	plan, err := h.services.Legacy.SetMoment(r.Context(), walletFrom(r), req.MomentType, req.MomentValue)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *Handler) getPlan(w http.ResponseWriter, r *http.Request) {
	view, err := h.services.Legacy.GetPlan(r.Context(), walletFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type beneficiaryRequest struct {
	Name       string          `json:"name"`
	Address    string          `json:"address"`
	Percentage decimal.Decimal `json:"percentage"`
}

func (h *Handler) addBeneficiary(w http.ResponseWriter, r *http.Request) {
	var req beneficiaryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.services.Legacy.AddBeneficiary(r.Context(), walletFrom(r), service.BeneficiaryParams{
		Name:       req.Name,
		Address:    req.Address,
		Percentage: req.Percentage,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateBeneficiary(w http.ResponseWriter, r *http.Request) {
	var req beneficiaryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.services.Legacy.UpdateBeneficiary(r.Context(), walletFrom(r), chi.URLParam(r, "id"), service.BeneficiaryParams{
		Name:       req.Name,
		Address:    req.Address,
		Percentage: req.Percentage,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteBeneficiary(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Legacy.RemoveBeneficiary(r.Context(), walletFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
