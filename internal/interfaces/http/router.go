package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	billingUsecases "sokofiti/internal/application/billing/usecases"
	paymentUsecases "sokofiti/internal/application/payment/usecases"
	"sokofiti/internal/infrastructure/cache"
	"sokofiti/internal/infrastructure/config"
	"sokofiti/internal/infrastructure/mpesa"
	"sokofiti/internal/infrastructure/notification"
	"sokofiti/internal/infrastructure/repository"
	billingHandlers "sokofiti/internal/interfaces/http/handlers/billing"
	mpesaHandlers "sokofiti/internal/interfaces/http/handlers/mpesa"
	"sokofiti/internal/interfaces/http/middleware"
	"sokofiti/internal/shared/db"
	"sokofiti/internal/shared/logger"
	"sokofiti/internal/shared/utils"

	_ "sokofiti/docs"
)

// Router wires repositories, use cases, and handlers onto a gin engine.
type Router struct {
	engine              *gin.Engine
	planHandler         *billingHandlers.PlanHandler
	subscriptionHandler *billingHandlers.SubscriptionHandler
	mpesaHandler        *mpesaHandlers.MpesaHandler
	rateLimiter         *middleware.RateLimiter
	expireUC            *billingUsecases.ExpireSubscriptionsUseCase
	reconcileUC         *paymentUsecases.ReconcilePendingPaymentsUseCase
	cfg                 *config.Config
	logger              logger.Interface
}

// NewRouter creates the HTTP router with all dependencies.
func NewRouter(gormDB *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	planRepo := repository.NewPlanRepository(gormDB, log)
	subscriptionRepo := repository.NewSubscriptionRepository(gormDB, log)
	ledgerRepo := repository.NewCreditHistoryRepository(gormDB, log)
	transactionRepo := repository.NewMpesaTransactionRepository(gormDB, log)
	paymentRecordRepo := repository.NewPaymentTransactionRepository(gormDB, log)

	txMgr := db.NewTransactionManager(gormDB)

	listPlansUC := billingUsecases.NewListPlansUseCase(planRepo, log)
	activateFreeUC := billingUsecases.NewActivateFreePlanUseCase(
		planRepo, subscriptionRepo, ledgerRepo, txMgr, cfg.Billing.DefaultFreeCredits, log)
	activatePaidUC := billingUsecases.NewActivatePaidPlanUseCase(
		planRepo, subscriptionRepo, ledgerRepo, txMgr, cfg.Billing.StrictAmountCheck, log)
	renewUC := billingUsecases.NewRenewSubscriptionUseCase(
		planRepo, subscriptionRepo, ledgerRepo, paymentRecordRepo, txMgr, log)
	consumeCreditUC := billingUsecases.NewConsumeCreditUseCase(
		subscriptionRepo, ledgerRepo, txMgr, log)
	purchaseCreditsUC := billingUsecases.NewPurchaseCreditsUseCase(
		subscriptionRepo, ledgerRepo, paymentRecordRepo, txMgr, log)
	eligibilityUC := billingUsecases.NewCheckEligibilityUseCase(subscriptionRepo, planRepo, log)
	expireUC := billingUsecases.NewExpireSubscriptionsUseCase(subscriptionRepo, log)

	var tokenStore mpesa.TokenStore
	if redisClient != nil {
		tokenStore = cache.NewDarajaTokenStore(redisClient)
	}
	gateway := mpesa.NewDarajaGateway(&cfg.Mpesa, tokenStore, log)

	fulfiller := paymentUsecases.NewFulfiller(activatePaidUC, renewUC, purchaseCreditsUC, log)
	reconcileAfter := time.Duration(cfg.Billing.ReconcileAfterMinutes) * time.Minute

	initiateUC := paymentUsecases.NewInitiateSTKPushUseCase(gateway, transactionRepo, log)
	callbackUC := paymentUsecases.NewHandleMpesaCallbackUseCase(transactionRepo, fulfiller, log)
	queryUC := paymentUsecases.NewQueryPaymentStatusUseCase(
		transactionRepo, gateway, fulfiller, reconcileAfter, log)
	reconcileUC := paymentUsecases.NewReconcilePendingPaymentsUseCase(
		transactionRepo, gateway, fulfiller, reconcileAfter, log)
	historyUC := paymentUsecases.NewListTransactionsUseCase(transactionRepo, log)

	if cfg.Email.Enabled {
		callbackUC.SetNotifier(notification.NewEmailNotifier(&cfg.Email, log))
	}

	planHandler := billingHandlers.NewPlanHandler(listPlansUC, log)
	subscriptionHandler := billingHandlers.NewSubscriptionHandler(
		activateFreeUC, activatePaidUC, renewUC, consumeCreditUC,
		purchaseCreditsUC, eligibilityUC, log,
	)
	mpesaHandler := mpesaHandlers.NewMpesaHandler(initiateUC, callbackUC, queryUC, historyUC, log)

	rateLimiter := middleware.NewRateLimiter(redisClient, 30, 1*time.Minute)

	return &Router{
		engine:              engine,
		planHandler:         planHandler,
		subscriptionHandler: subscriptionHandler,
		mpesaHandler:        mpesaHandler,
		rateLimiter:         rateLimiter,
		expireUC:            expireUC,
		reconcileUC:         reconcileUC,
		cfg:                 cfg,
		logger:              log,
	}
}

// SetupRoutes configures all HTTP routes.
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, http.StatusOK, "ok", gin.H{"status": "healthy"})
	})

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/plans", r.planHandler.ListPlans)

		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.POST("/activate-free", r.subscriptionHandler.ActivateFreePlan)
			subscriptions.POST("/activate", r.subscriptionHandler.ActivateSubscription)
			subscriptions.POST("/renew", r.subscriptionHandler.RenewSubscription)
			subscriptions.POST("/credits/consume", r.subscriptionHandler.ConsumeCredit)
			subscriptions.POST("/credits/purchase", r.subscriptionHandler.PurchaseCredits)
			subscriptions.GET("/eligibility", r.subscriptionHandler.CheckEligibility)
		}

		payments := v1.Group("/payments/mpesa")
		{
			payments.POST("/stk-push", r.rateLimiter.Limit(), r.mpesaHandler.STKPush)
			payments.POST("/callback", r.mpesaHandler.Callback)
			payments.POST("/query-status", r.mpesaHandler.QueryStatus)
			payments.GET("/history", r.mpesaHandler.History)
		}
	}
}

// GetEngine returns the gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// ExpireSubscriptionsUseCase exposes the expiry sweep for the scheduler.
func (r *Router) ExpireSubscriptionsUseCase() *billingUsecases.ExpireSubscriptionsUseCase {
	return r.expireUC
}

// ReconcilePendingPaymentsUseCase exposes the reconciliation sweep for the
// scheduler.
func (r *Router) ReconcilePendingPaymentsUseCase() *paymentUsecases.ReconcilePendingPaymentsUseCase {
	return r.reconcileUC
}
