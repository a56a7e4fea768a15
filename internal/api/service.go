// Package api exposes the REST surface. Identity is the X-Wallet-Address
// header; every domain handler receives the acting wallet explicitly and
// never reads ambient session state.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/youvandra/aegis-protocol/internal/guard"
	"github.com/youvandra/aegis-protocol/internal/relay"
	"github.com/youvandra/aegis-protocol/internal/service"
	"github.com/youvandra/aegis-protocol/internal/store"
)

const walletHeader = "X-Wallet-Address"

type contextKey string

const walletKey contextKey = "wallet"

// Handler routes HTTP requests to the domain services.
type Handler struct {
	services *service.Services
}

func NewHandler(services *service.Services) *Handler {
	return &Handler{services: services}
}

// Router builds the chi mux with all routes registered.
func (h *Handler) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", h.healthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(requireWallet)

		r.Route("/relays", func(r chi.Router) {
			r.Post("/", h.createRelay)
			r.Get("/", h.listRelays)
			r.Get("/{id}", h.getRelay)
			r.Post("/{id}/approve", h.approveRelay)
			r.Post("/{id}/reject", h.rejectRelay)
			r.Post("/{id}/cancel", h.cancelRelay)
			r.Post("/{id}/execute", h.executeRelay)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Post("/", h.createGroup)
			r.Get("/", h.listGroups)
			r.Get("/{id}", h.getGroup)
			r.Post("/{id}/members", h.addMember)
		})

		r.Route("/legacy", func(r chi.Router) {
			r.Get("/", h.getPlan)
			r.Put("/moment", h.setMoment)
			r.Post("/beneficiaries", h.addBeneficiary)
			r.Put("/beneficiaries/{id}", h.updateBeneficiary)
			r.Delete("/beneficiaries/{id}", h.deleteBeneficiary)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/connect", h.connectAccount)
			r.Post("/disconnect", h.disconnectAccount)
			r.Get("/", h.listAccounts)
			r.Get("/me", h.getAccount)
		})
	})

	return r
}

// requireWallet rejects requests without a wallet identity header and stores
// the normalized address on the request context.
func requireWallet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wallet := guard.NormalizeAddress(r.Header.Get(walletHeader))
		if wallet == "" {
			writeErrorMessage(w, http.StatusUnauthorized, "missing "+walletHeader+" header")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), walletKey, wallet)))
	})
}

func walletFrom(r *http.Request) string {
	wallet, _ := r.Context().Value(walletKey).(string)
	return wallet
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("Failed to encode response body", zap.Error(err))
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps domain errors onto HTTP statuses. Validation problems are
// 400 with the offending field; workflow refusals are 403 or 409 depending
// on whether the relay was in a terminal state.
func writeError(w http.ResponseWriter, err error) {
	var validation *guard.ValidationError
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validation.Message, Field: validation.Field})
	case errors.Is(err, relay.ErrTerminal), errors.Is(err, relay.ErrExpired):
		writeErrorMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, relay.ErrNotAllowed), errors.Is(err, store.ErrPermissionDenied):
		writeErrorMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrConflict):
		writeErrorMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrUnavailable):
		writeErrorMessage(w, http.StatusBadGateway, err.Error())
	default:
		zap.L().Error("Unhandled request error", zap.Error(err))
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &guard.ValidationError{Field: "body", Message: "invalid JSON payload"}
	}
	return nil
}
