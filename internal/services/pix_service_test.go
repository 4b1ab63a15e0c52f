// internal/services/pix_service_test.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanz/sabores-backend/internal/config"
	"github.com/urbanz/sabores-backend/internal/i18n"
)

type fakeGateway struct {
	mux           *http.ServeMux
	tokenCalls    int32
	chargeCalls   int32
	qrCalls       int32
	statusCalls   int32
	chargeFails   int32 // first N charge calls answer 500
	qrStatusCode  int
	chargeStatus  string
	lastChargeReq map[string]interface{}
}

func newFakeGateway() *fakeGateway {
	g := &fakeGateway{
		mux:          http.NewServeMux(),
		qrStatusCode: http.StatusOK,
		chargeStatus: ChargeStatusActive,
	}

	g.mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&g.tokenCalls, 1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})

	g.mux.HandleFunc("/v2/cob", func(w http.ResponseWriter, r *http.Request) {
		calls := atomic.AddInt32(&g.chargeCalls, 1)
		if calls <= atomic.LoadInt32(&g.chargeFails) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewDecoder(r.Body).Decode(&g.lastChargeReq)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"txid":   "tx-42",
			"status": ChargeStatusActive,
			"loc":    map[string]interface{}{"id": 777},
		})
	})

	g.mux.HandleFunc("/v2/loc/777/qrcode", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&g.qrCalls, 1)
		if g.qrStatusCode != http.StatusOK {
			w.WriteHeader(g.qrStatusCode)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"qrcode":       "000201copy-paste-payload",
			"imagemQrcode": "data:image/png;base64,abc",
		})
	})

	g.mux.HandleFunc("/v2/cob/tx-42", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&g.statusCalls, 1)
		json.NewEncoder(w).Encode(map[string]string{
			"txid":   "tx-42",
			"status": g.chargeStatus,
		})
	})

	return g
}

func newTestPixService(t *testing.T, g *fakeGateway) *PixService {
	t.Helper()
	srv := httptest.NewServer(g.mux)
	t.Cleanup(srv.Close)

	return NewPixService(config.PixConfig{
		BaseURL:        srv.URL,
		ClientID:       "client-id",
		ClientSecret:   "client-secret",
		PixKey:         "chave@urbanz.com.br",
		TimeoutSeconds: 2,
		MaxAttempts:    3,
		RetryBaseMs:    1,
	})
}

func TestCreateChargeReturnsQRPayload(t *testing.T) {
	g := newFakeGateway()
	svc := newTestPixService(t, g)

	charge, err := svc.CreateCharge(context.Background(), 49.9, "Maria")
	require.NoError(t, err)

	assert.Equal(t, "tx-42", charge.TxID)
	assert.Equal(t, int64(777), charge.LocationID)
	assert.Equal(t, "000201copy-paste-payload", charge.QRCode)
	assert.Equal(t, "data:image/png;base64,abc", charge.QRCodeImage)

	valor := g.lastChargeReq["valor"].(map[string]interface{})
	assert.Equal(t, "49.90", valor["original"])
	assert.Equal(t, "chave@urbanz.com.br", g.lastChargeReq["chave"])
	assert.Equal(t, "Pedido de Maria", g.lastChargeReq["solicitacaoPagador"])
}

func TestCreateChargeRetriesTransientFailures(t *testing.T) {
	g := newFakeGateway()
	g.chargeFails = 2
	svc := newTestPixService(t, g)

	charge, err := svc.CreateCharge(context.Background(), 10, "")
	require.NoError(t, err)

	assert.Equal(t, "tx-42", charge.TxID)
	assert.Equal(t, int32(3), atomic.LoadInt32(&g.chargeCalls))
}

func TestCreateChargeSurvivesQRCodeFailure(t *testing.T) {
	g := newFakeGateway()
	g.qrStatusCode = http.StatusBadGateway
	svc := newTestPixService(t, g)

	charge, err := svc.CreateCharge(context.Background(), 10, "")
	require.NoError(t, err)

	// QR fetch is single-attempt and its failure does not lose the txid.
	assert.Equal(t, "tx-42", charge.TxID)
	assert.Empty(t, charge.QRCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&g.qrCalls))
}

func TestTokenIsCachedAcrossCalls(t *testing.T) {
	g := newFakeGateway()
	svc := newTestPixService(t, g)

	_, err := svc.CreateCharge(context.Background(), 10, "")
	require.NoError(t, err)

	status, err := svc.GetChargeStatus(context.Background(), "tx-42")
	require.NoError(t, err)
	assert.Equal(t, ChargeStatusActive, status)

	assert.Equal(t, int32(1), atomic.LoadInt32(&g.tokenCalls))
}

func TestTokenIsRenewedNearExpiry(t *testing.T) {
	g := newFakeGateway()
	svc := newTestPixService(t, g)

	_, err := svc.GetChargeStatus(context.Background(), "tx-42")
	require.NoError(t, err)

	// Jump past the renew-early window.
	expiry := svc.tokenExpiry
	svc.now = func() time.Time { return expiry.Add(time.Second) }

	_, err = svc.GetChargeStatus(context.Background(), "tx-42")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&g.tokenCalls))
}

func TestGetChargeStatusConcluded(t *testing.T) {
	g := newFakeGateway()
	g.chargeStatus = ChargeStatusConcluded
	svc := newTestPixService(t, g)

	status, err := svc.GetChargeStatus(context.Background(), "tx-42")
	require.NoError(t, err)

	assert.True(t, IsPaid(status))
	assert.Equal(t, int32(1), atomic.LoadInt32(&g.statusCalls))
}

func TestIsPaid(t *testing.T) {
	assert.True(t, IsPaid(ChargeStatusConcluded))
	assert.False(t, IsPaid(ChargeStatusActive))
	assert.False(t, IsPaid(""))
}

func TestGatewayErrorCarriesUnreachableKey(t *testing.T) {
	svc := NewPixService(config.PixConfig{
		// Nothing listens here; the dial is refused immediately.
		BaseURL:        "http://127.0.0.1:1",
		TimeoutSeconds: 1,
		MaxAttempts:    2,
		RetryBaseMs:    1,
	})

	_, err := svc.CreateCharge(context.Background(), 10, "")
	require.Error(t, err)

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, i18n.KeyPaymentUnreachable, gwErr.MessageKey)
}

func TestGatewayErrorFallsBackToGenericKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":"invalid_client"}`)
	}))
	defer srv.Close()

	svc := NewPixService(config.PixConfig{
		BaseURL:        srv.URL,
		TimeoutSeconds: 1,
		MaxAttempts:    2,
		RetryBaseMs:    1,
	})

	_, err := svc.GetChargeStatus(context.Background(), "tx-42")
	require.Error(t, err)

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, i18n.KeyPaymentGatewayFail, gwErr.MessageKey)
}
