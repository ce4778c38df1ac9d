package billing

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	billingUsecases "sokofiti/internal/application/billing/usecases"
	sharederrors "sokofiti/internal/shared/errors"
	"sokofiti/internal/shared/logger"
	"sokofiti/internal/shared/utils"
)

// SubscriptionHandler exposes subscription lifecycle and credit operations.
type SubscriptionHandler struct {
	activateFreeUC    *billingUsecases.ActivateFreePlanUseCase
	activatePaidUC    *billingUsecases.ActivatePaidPlanUseCase
	renewUC           *billingUsecases.RenewSubscriptionUseCase
	consumeCreditUC   *billingUsecases.ConsumeCreditUseCase
	purchaseCreditsUC *billingUsecases.PurchaseCreditsUseCase
	eligibilityUC     *billingUsecases.CheckEligibilityUseCase
	logger            logger.Interface
}

func NewSubscriptionHandler(
	activateFreeUC *billingUsecases.ActivateFreePlanUseCase,
	activatePaidUC *billingUsecases.ActivatePaidPlanUseCase,
	renewUC *billingUsecases.RenewSubscriptionUseCase,
	consumeCreditUC *billingUsecases.ConsumeCreditUseCase,
	purchaseCreditsUC *billingUsecases.PurchaseCreditsUseCase,
	eligibilityUC *billingUsecases.CheckEligibilityUseCase,
	log logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		activateFreeUC:    activateFreeUC,
		activatePaidUC:    activatePaidUC,
		renewUC:           renewUC,
		consumeCreditUC:   consumeCreditUC,
		purchaseCreditsUC: purchaseCreditsUC,
		eligibilityUC:     eligibilityUC,
		logger:            log,
	}
}

// ActivateFreePlan handles POST /subscriptions/activate-free
//
//	@Summary	Activate the free plan
//	@Tags		subscriptions
//	@Accept		json
//	@Produce	json
//	@Param		request	body		ActivateFreePlanRequest	true	"request"
//	@Success	201		{object}	utils.APIResponse
//	@Failure	409		{object}	utils.APIResponse
//	@Router		/subscriptions/activate-free [post]
func (h *SubscriptionHandler) ActivateFreePlan(c *gin.Context) {
	var req ActivateFreePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for free plan activation", "error", err)
		utils.ErrorResponseWithError(c, sharederrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.activateFreeUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, mapDomainError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Free plan activated successfully", result)
}

// ActivateSubscription handles POST /subscriptions/activate
//
//	@Summary	Activate a paid plan after an M-Pesa payment
//	@Tags		subscriptions
//	@Accept		json
//	@Produce	json
//	@Param		request	body		ActivateSubscriptionRequest	true	"request"
//	@Success	201		{object}	utils.APIResponse
//	@Failure	404		{object}	utils.APIResponse
//	@Router		/subscriptions/activate [post]
func (h *SubscriptionHandler) ActivateSubscription(c *gin.Context) {
	var req ActivateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for subscription activation", "error", err)
		utils.ErrorResponseWithError(c, sharederrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.activatePaidUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, mapDomainError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Subscription activated successfully", result)
}

// RenewSubscription handles POST /subscriptions/renew
//
//	@Summary	Renew a paid subscription
//	@Tags		subscriptions
//	@Accept		json
//	@Produce	json
//	@Param		request	body		RenewSubscriptionRequest	true	"request"
//	@Success	200		{object}	utils.APIResponse
//	@Router		/subscriptions/renew [post]
func (h *SubscriptionHandler) RenewSubscription(c *gin.Context) {
	var req RenewSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for subscription renewal", "error", err)
		utils.ErrorResponseWithError(c, sharederrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.renewUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, mapDomainError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription renewed successfully", result)
}

// ConsumeCredit handles POST /subscriptions/credits/consume
//
//	@Summary	Consume one listing credit
//	@Tags		credits
//	@Accept		json
//	@Produce	json
//	@Param		request	body		ConsumeCreditRequest	true	"request"
//	@Success	200		{object}	utils.APIResponse
//	@Failure	409		{object}	utils.APIResponse
//	@Failure	422		{object}	utils.APIResponse
//	@Router		/subscriptions/credits/consume [post]
func (h *SubscriptionHandler) ConsumeCredit(c *gin.Context) {
	var req ConsumeCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for credit consumption", "error", err)
		utils.ErrorResponseWithError(c, sharederrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.consumeCreditUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, mapDomainError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Credit consumed successfully", result)
}

// PurchaseCredits handles POST /subscriptions/credits/purchase
//
//	@Summary	Apply a paid credit package to the active subscription
//	@Tags		credits
//	@Accept		json
//	@Produce	json
//	@Param		request	body		PurchaseCreditsRequest	true	"request"
//	@Success	200		{object}	utils.APIResponse
//	@Router		/subscriptions/credits/purchase [post]
func (h *SubscriptionHandler) PurchaseCredits(c *gin.Context) {
	var req PurchaseCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for credit purchase", "error", err)
		utils.ErrorResponseWithError(c, sharederrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.purchaseCreditsUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, mapDomainError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Credits purchased successfully", result)
}

// CheckEligibility handles GET /subscriptions/eligibility
//
//	@Summary	Check whether a user may create a listing
//	@Tags		credits
//	@Produce	json
//	@Param		user_id	query		int	true	"user id"
//	@Success	200		{object}	utils.APIResponse
//	@Router		/subscriptions/eligibility [get]
func (h *SubscriptionHandler) CheckEligibility(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 32)
	if err != nil || userID == 0 {
		utils.ErrorResponseWithError(c, sharederrors.NewValidationError("user_id query parameter is required"))
		return
	}

	result, err := h.eligibilityUC.Execute(c.Request.Context(), billingUsecases.CheckEligibilityCommand{
		UserID: uint(userID),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, mapDomainError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
