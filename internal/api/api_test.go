package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/youvandra/aegis-protocol/internal/common"
	"github.com/youvandra/aegis-protocol/internal/database"
	"github.com/youvandra/aegis-protocol/internal/ledger"
	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := database.NewService(context.Background(), models.StoreConfig{
		DatabasePath: ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(st.Close)

	services := &service.Services{
		Store:    st,
		Ledger:   ledger.Disabled{},
		Relays:   service.NewRelayService(st, ledger.Disabled{}),
		Streams:  service.NewStreamService(st, ledger.Disabled{}),
		Legacy:   service.NewLegacyService(st),
		Accounts: service.NewAccountService(st, common.NewNetworkRegistry(nil)),
	}

	server := httptest.NewServer(NewHandler(services).Router())
	t.Cleanup(server.Close)
	return server
}

func doRequest(t *testing.T, server *httptest.Server, method, path, wallet string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, server.URL+path, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if wallet != "" {
		req.Header.Set(walletHeader, wallet)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestMissingWalletHeader(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, server, http.MethodGet, "/api/v1/relays/", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, server, http.MethodGet, "/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRelayWorkflowOverHTTP(t *testing.T) {
	server := newTestServer(t)

	sender := "0xsender"
	receiver := "0xreceiver"

	resp := doRequest(t, server, http.MethodPost, "/api/v1/relays/", sender, map[string]any{
		"receiver_address": receiver,
		"amount":           "25",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created models.Relay
	decodeResponse(t, resp, &created)

	// Sender cannot approve: 403.
	resp = doRequest(t, server, http.MethodPost, "/api/v1/relays/"+created.Id+"/approve", sender, map[string]any{})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("sender approve status = %d, want 403", resp.StatusCode)
	}

	resp = doRequest(t, server, http.MethodPost, "/api/v1/relays/"+created.Id+"/approve", receiver, map[string]any{
		"signature": "0xsig",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("receiver approve status = %d, want 200", resp.StatusCode)
	}

	resp = doRequest(t, server, http.MethodPost, "/api/v1/relays/"+created.Id+"/execute", sender, map[string]any{
		"transaction_hash": "0xtx",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("execute status = %d, want 200", resp.StatusCode)
	}
	var executed models.Relay
	decodeResponse(t, resp, &executed)
	if executed.Status != "Complete" {
		t.Errorf("final status = %q, want Complete", executed.Status)
	}

	// Acting on a completed relay: 409.
	resp = doRequest(t, server, http.MethodPost, "/api/v1/relays/"+created.Id+"/cancel", sender, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("cancel of completed relay status = %d, want 409", resp.StatusCode)
	}

	// A stranger reading the relay: 403.
	resp = doRequest(t, server, http.MethodGet, "/api/v1/relays/"+created.Id, "0xstranger", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("stranger get status = %d, want 403", resp.StatusCode)
	}
}

func TestValidationErrorsOverHTTP(t *testing.T) {
	server := newTestServer(t)

	// Self transfer: 400 with the offending field.
	resp := doRequest(t, server, http.MethodPost, "/api/v1/relays/", "0xme", map[string]any{
		"receiver_address": "0xME",
		"amount":           "5",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("self-transfer status = %d, want 400", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	decodeResponse(t, resp, &body)
	if body.Field != "address" {
		t.Errorf("field = %q, want address", body.Field)
	}

	// Unknown relay: 404.
	resp = doRequest(t, server, http.MethodGet, "/api/v1/relays/nope", "0xme", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown relay status = %d, want 404", resp.StatusCode)
	}
}

func TestLegacyEndpoints(t *testing.T) {
	server := newTestServer(t)
	owner := "0xowner"

	resp := doRequest(t, server, http.MethodPut, "/api/v1/legacy/moment", owner, map[string]any{
		"moment_type":  "if_im_gone",
		"moment_value": "1year",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set moment status = %d, want 200", resp.StatusCode)
	}

	resp = doRequest(t, server, http.MethodPost, "/api/v1/legacy/beneficiaries", owner, map[string]any{
		"name":       "Alice",
		"address":    "0xalice",
		"percentage": "60",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add beneficiary status = %d, want 201", resp.StatusCode)
	}

	// Over-allocation: 400.
	resp = doRequest(t, server, http.MethodPost, "/api/v1/legacy/beneficiaries", owner, map[string]any{
		"name":       "Bob",
		"address":    "0xbob",
		"percentage": "50",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("over-allocation status = %d, want 400", resp.StatusCode)
	}

	resp = doRequest(t, server, http.MethodGet, "/api/v1/legacy/", owner, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get plan status = %d, want 200", resp.StatusCode)
	}
	var view struct {
		MomentLabel string `json:"moment_label"`
		Headroom    string `json:"headroom"`
	}
	decodeResponse(t, resp, &view)
	if view.MomentLabel != "1 year" {
		t.Errorf("moment label = %q, want 1 year", view.MomentLabel)
	}
}

func TestAccountEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, server, http.MethodPost, "/api/v1/accounts/connect", "0xWallet", map[string]any{
		"chain_id": 296,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("connect status = %d, want 200", resp.StatusCode)
	}
	var account models.WalletAccount
	decodeResponse(t, resp, &account)
	if account.WalletAddress != "0xwallet" {
		t.Errorf("wallet = %q, want lower-cased", account.WalletAddress)
	}

	resp = doRequest(t, server, http.MethodPost, "/api/v1/accounts/disconnect", "0xwallet", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("disconnect status = %d, want 204", resp.StatusCode)
	}
}
