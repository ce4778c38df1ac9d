package mpesa

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sokofiti/internal/application/payment/paymentgateway"
	"sokofiti/internal/domain/payment"
	"sokofiti/internal/shared/biztime"
	sharedConfig "sokofiti/internal/shared/config"
	"sokofiti/internal/shared/logger"
)

func init() {
	biztime.MustInit("Africa/Nairobi")
}

func testConfig() *sharedConfig.MpesaConfig {
	return &sharedConfig.MpesaConfig{
		Environment:    "sandbox",
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		Passkey:        "passkey",
		CallbackURL:    "https://example.com/api/v1/payments/mpesa/callback",
		TimeoutSeconds: 5,
	}
}

func testGateway(t *testing.T, handler http.Handler) *DarajaGateway {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := logger.NewLoggerWithSlog(slog.New(slog.DiscardHandler))
	return newGateway(testConfig(), nil, log, srv.URL)
}

func authHandler(authCalls *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"access_token":"test-token","expires_in":"3599"}`)
	}
}

func TestDarajaGateway_RequestSTKPush(t *testing.T) {
	var authCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", authHandler(&authCalls))
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "174379", payload["BusinessShortCode"])
		assert.Equal(t, "254712345678", payload["PhoneNumber"])
		assert.Equal(t, "CustomerPayBillOnline", payload["TransactionType"])
		assert.NotEmpty(t, payload["Password"])

		fmt.Fprint(w, `{
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_191220191020363925",
			"ResponseCode": "0",
			"ResponseDescription": "Success. Request accepted for processing",
			"CustomerMessage": "Success. Request accepted for processing"
		}`)
	})

	g := testGateway(t, mux)
	resp, err := g.RequestSTKPush(context.Background(), paymentgateway.STKPushRequest{
		PhoneNumber:      "254712345678",
		Amount:           2500,
		AccountReference: "premium",
		Description:      "Premium plan",
	})
	require.NoError(t, err)
	assert.Equal(t, "ws_CO_191220191020363925", resp.CheckoutRequestID)
	assert.Equal(t, "29115-34620561-1", resp.MerchantRequestID)

	// Second push reuses the cached token.
	_, err = g.RequestSTKPush(context.Background(), paymentgateway.STKPushRequest{
		PhoneNumber:      "254712345678",
		Amount:           250,
		AccountReference: "small",
		Description:      "Credit top up",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), authCalls.Load())
}

func TestDarajaGateway_RequestSTKPush_GatewayError(t *testing.T) {
	var authCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", authHandler(&authCalls))
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"requestId":"1","errorCode":"400.002.02","errorMessage":"Bad Request - Invalid Amount"}`)
	})

	g := testGateway(t, mux)
	_, err := g.RequestSTKPush(context.Background(), paymentgateway.STKPushRequest{
		PhoneNumber:      "254712345678",
		Amount:           2500,
		AccountReference: "premium",
		Description:      "Premium plan",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, payment.ErrGatewayUnavailable)
	assert.Contains(t, err.Error(), "Invalid Amount")
}

func TestDarajaGateway_RequestSTKPush_AuthFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	g := testGateway(t, mux)
	_, err := g.RequestSTKPush(context.Background(), paymentgateway.STKPushRequest{
		PhoneNumber:      "254712345678",
		Amount:           2500,
		AccountReference: "premium",
		Description:      "Premium plan",
	})
	assert.ErrorIs(t, err, payment.ErrGatewayUnavailable)
}

func TestDarajaGateway_QueryStatus(t *testing.T) {
	var authCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", authHandler(&authCalls))
	mux.HandleFunc("/mpesa/stkpushquery/v1/query", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ws_CO_191220191020363925", payload["CheckoutRequestID"])

		fmt.Fprint(w, `{
			"ResponseCode": "0",
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_191220191020363925",
			"ResultCode": "1032",
			"ResultDesc": "Request cancelled by user"
		}`)
	})

	g := testGateway(t, mux)
	resp, err := g.QueryStatus(context.Background(), "ws_CO_191220191020363925")
	require.NoError(t, err)
	assert.Equal(t, 1032, resp.ResultCode)
	assert.Equal(t, "Request cancelled by user", resp.ResultDesc)
}

func TestDarajaGateway_QueryStatus_StillProcessing(t *testing.T) {
	var authCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", authHandler(&authCalls))
	mux.HandleFunc("/mpesa/stkpushquery/v1/query", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"requestId":"1","errorCode":"500.001.1001","errorMessage":"The transaction is being processed"}`)
	})

	g := testGateway(t, mux)
	resp, err := g.QueryStatus(context.Background(), "ws_CO_191220191020363925")
	require.NoError(t, err)
	assert.Equal(t, 1037, resp.ResultCode)
}
