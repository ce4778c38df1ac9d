package mpesa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	billingUsecases "sokofiti/internal/application/billing/usecases"
	"sokofiti/internal/application/payment/paymentgateway"
	paymentUsecases "sokofiti/internal/application/payment/usecases"
	"sokofiti/internal/domain/billing"
	billingvo "sokofiti/internal/domain/billing/valueobjects"
	"sokofiti/internal/domain/payment"
	"sokofiti/internal/infrastructure/migration"
	"sokofiti/internal/infrastructure/repository"
	"sokofiti/internal/shared/biztime"
	"sokofiti/internal/shared/db"
	"sokofiti/internal/shared/logger"
)

func init() {
	biztime.MustInit("Africa/Nairobi")
}

type fakeGateway struct {
	pushResp  *paymentgateway.STKPushResponse
	pushErr   error
	queryResp *paymentgateway.StatusQueryResponse
	queryErr  error
	queries   int
}

func (g *fakeGateway) RequestSTKPush(ctx context.Context, req paymentgateway.STKPushRequest) (*paymentgateway.STKPushResponse, error) {
	return g.pushResp, g.pushErr
}

func (g *fakeGateway) QueryStatus(ctx context.Context, checkoutRequestID string) (*paymentgateway.StatusQueryResponse, error) {
	g.queries++
	return g.queryResp, g.queryErr
}

// The fixture runs the full payment path over sqlite: handler, use cases,
// fulfillment into billing, with only the Daraja gateway faked.
type fixture struct {
	engine   *gin.Engine
	gateway  *fakeGateway
	planRepo billing.PlanRepository
	subRepo  billing.SubscriptionRepository
}

func setupFixture(t *testing.T) *fixture {
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	log := logger.NewLoggerWithSlog(slog.New(slog.DiscardHandler))
	require.NoError(t, migration.NewGormAutoMigrateStrategy(log).Migrate(gdb))

	planRepo := repository.NewPlanRepository(gdb, log)
	subscriptionRepo := repository.NewSubscriptionRepository(gdb, log)
	ledgerRepo := repository.NewCreditHistoryRepository(gdb, log)
	paymentRecordRepo := repository.NewPaymentTransactionRepository(gdb, log)
	transactionRepo := repository.NewMpesaTransactionRepository(gdb, log)
	txMgr := db.NewTransactionManager(gdb)

	activatePaidUC := billingUsecases.NewActivatePaidPlanUseCase(
		planRepo, subscriptionRepo, ledgerRepo, txMgr, false, log)
	renewUC := billingUsecases.NewRenewSubscriptionUseCase(
		planRepo, subscriptionRepo, ledgerRepo, paymentRecordRepo, txMgr, log)
	purchaseUC := billingUsecases.NewPurchaseCreditsUseCase(
		subscriptionRepo, ledgerRepo, paymentRecordRepo, txMgr, log)

	gateway := &fakeGateway{}
	fulfiller := paymentUsecases.NewFulfiller(activatePaidUC, renewUC, purchaseUC, log)

	initiateUC := paymentUsecases.NewInitiateSTKPushUseCase(gateway, transactionRepo, log)
	callbackUC := paymentUsecases.NewHandleMpesaCallbackUseCase(transactionRepo, fulfiller, log)
	queryUC := paymentUsecases.NewQueryPaymentStatusUseCase(
		transactionRepo, gateway, fulfiller, time.Hour, log)
	historyUC := paymentUsecases.NewListTransactionsUseCase(transactionRepo, log)

	handler := NewMpesaHandler(initiateUC, callbackUC, queryUC, historyUC, log)

	engine := gin.New()
	engine.POST("/payments/mpesa/stk-push", handler.STKPush)
	engine.POST("/payments/mpesa/callback", handler.Callback)
	engine.POST("/payments/mpesa/query-status", handler.QueryStatus)
	engine.GET("/payments/mpesa/history", handler.History)

	return &fixture{
		engine:   engine,
		gateway:  gateway,
		planRepo: planRepo,
		subRepo:  subscriptionRepo,
	}
}

func (f *fixture) seedPlan(t *testing.T, id string, price int64, credits int) {
	plan, err := billing.NewPlan(id, id, price, billingvo.PeriodMonth, []string{"listing credits"}, credits, 1)
	require.NoError(t, err)
	require.NoError(t, f.planRepo.Create(context.Background(), plan))
}

func (f *fixture) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (f *fixture) initiatePush(t *testing.T, userID uint, planID string, amount int64, checkoutRequestID string) {
	f.gateway.pushResp = &paymentgateway.STKPushResponse{
		MerchantRequestID:   "29115-34620561-1",
		CheckoutRequestID:   checkoutRequestID,
		ResponseCode:        "0",
		ResponseDescription: "Success. Request accepted for processing",
		CustomerMessage:     "Success. Request accepted for processing",
	}
	w := f.postJSON(t, "/payments/mpesa/stk-push", gin.H{
		"user_id":           userID,
		"plan_id":           planID,
		"phone_number":      "0712345678",
		"amount":            amount,
		"account_reference": planID,
		"purpose":           "plan_activation",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func successCallbackBody(checkoutRequestID string, amount int64) gin.H {
	return gin.H{
		"Body": gin.H{
			"stkCallback": gin.H{
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": checkoutRequestID,
				"ResultCode":        0,
				"ResultDesc":        "The service request is processed successfully.",
				"CallbackMetadata": gin.H{
					"Item": []gin.H{
						{"Name": "Amount", "Value": amount},
						{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
						{"Name": "TransactionDate", "Value": 20260828143000},
						{"Name": "PhoneNumber", "Value": 254712345678},
					},
				},
			},
		},
	}
}

func TestMpesaHandler_STKPush(t *testing.T) {
	f := setupFixture(t)

	t.Run("push accepted", func(t *testing.T) {
		f.initiatePush(t, 10, "starter", 3000, "ws_CO_push_ok")
	})

	t.Run("invalid phone number is rejected", func(t *testing.T) {
		w := f.postJSON(t, "/payments/mpesa/stk-push", gin.H{
			"user_id":           10,
			"phone_number":      "12345",
			"amount":            3000,
			"account_reference": "starter",
			"purpose":           "plan_activation",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("gateway failure is a bad gateway", func(t *testing.T) {
		f.gateway.pushResp = nil
		f.gateway.pushErr = fmt.Errorf("daraja auth failed: %w", payment.ErrGatewayUnavailable)
		w := f.postJSON(t, "/payments/mpesa/stk-push", gin.H{
			"user_id":           10,
			"phone_number":      "0712345678",
			"amount":            3000,
			"account_reference": "starter",
			"purpose":           "plan_activation",
		})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestMpesaHandler_Callback(t *testing.T) {
	f := setupFixture(t)
	f.seedPlan(t, "starter", 3000, 10)
	f.initiatePush(t, 21, "starter", 3000, "ws_CO_cb")

	w := f.postJSON(t, "/payments/mpesa/callback", successCallbackBody("ws_CO_cb", 3000))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, float64(0), resp["ResultCode"])

	// The completed payment must have activated the plan.
	sub, err := f.subRepo.FindActiveByUserID(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, "starter", sub.PlanID())
	assert.Equal(t, 10, sub.CreditsRemaining())

	t.Run("replayed callback is acked without double fulfillment", func(t *testing.T) {
		w := f.postJSON(t, "/payments/mpesa/callback", successCallbackBody("ws_CO_cb", 3000))
		require.Equal(t, http.StatusOK, w.Code)

		sub, err := f.subRepo.FindActiveByUserID(context.Background(), 21)
		require.NoError(t, err)
		assert.Equal(t, 10, sub.CreditsRemaining())
	})

	t.Run("unknown transaction is still acked", func(t *testing.T) {
		w := f.postJSON(t, "/payments/mpesa/callback", successCallbackBody("ws_CO_ghost", 3000))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed body is still acked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/payments/mpesa/callback", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		f.engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(0), decodeResponse(t, w)["ResultCode"])
	})
}

func TestMpesaHandler_QueryStatus(t *testing.T) {
	f := setupFixture(t)
	f.seedPlan(t, "starter", 3000, 10)
	f.initiatePush(t, 31, "starter", 3000, "ws_CO_query")

	t.Run("pending transaction", func(t *testing.T) {
		w := f.postJSON(t, "/payments/mpesa/query-status", gin.H{
			"checkout_request_id": "ws_CO_query",
		})
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "pending", data["Status"])
		// Fresh transactions never hit the gateway.
		assert.Equal(t, 0, f.gateway.queries)
	})

	t.Run("completed after callback", func(t *testing.T) {
		w := f.postJSON(t, "/payments/mpesa/callback", successCallbackBody("ws_CO_query", 3000))
		require.Equal(t, http.StatusOK, w.Code)

		w = f.postJSON(t, "/payments/mpesa/query-status", gin.H{
			"checkout_request_id": "ws_CO_query",
		})
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "completed", data["Status"])
		assert.Equal(t, "NLJ7RT61SV", data["ReceiptNumber"])
	})

	t.Run("unknown transaction", func(t *testing.T) {
		w := f.postJSON(t, "/payments/mpesa/query-status", gin.H{
			"checkout_request_id": "ws_CO_missing",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMpesaHandler_History(t *testing.T) {
	f := setupFixture(t)
	f.initiatePush(t, 41, "starter", 3000, "ws_CO_hist_1")
	f.initiatePush(t, 41, "starter", 3000, "ws_CO_hist_2")

	t.Run("missing user id is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/payments/mpesa/history", nil)
		w := httptest.NewRecorder()
		f.engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("lists the user's transactions", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/payments/mpesa/history?user_id=41", nil)
		w := httptest.NewRecorder()
		f.engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Len(t, data["transactions"].([]any), 2)
	})
}
