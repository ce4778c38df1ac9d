package mpesa

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sokofiti/internal/application/payment/paymentgateway"
	paymentUsecases "sokofiti/internal/application/payment/usecases"
	"sokofiti/internal/domain/payment"
	sharederrors "sokofiti/internal/shared/errors"
	"sokofiti/internal/shared/logger"
	"sokofiti/internal/shared/utils"
)

// MpesaHandler exposes the M-Pesa payment endpoints.
type MpesaHandler struct {
	initiateUC *paymentUsecases.InitiateSTKPushUseCase
	callbackUC *paymentUsecases.HandleMpesaCallbackUseCase
	queryUC    *paymentUsecases.QueryPaymentStatusUseCase
	historyUC  *paymentUsecases.ListTransactionsUseCase
	logger     logger.Interface
}

func NewMpesaHandler(
	initiateUC *paymentUsecases.InitiateSTKPushUseCase,
	callbackUC *paymentUsecases.HandleMpesaCallbackUseCase,
	queryUC *paymentUsecases.QueryPaymentStatusUseCase,
	historyUC *paymentUsecases.ListTransactionsUseCase,
	log logger.Interface,
) *MpesaHandler {
	return &MpesaHandler{
		initiateUC: initiateUC,
		callbackUC: callbackUC,
		queryUC:    queryUC,
		historyUC:  historyUC,
		logger:     log,
	}
}

// STKPush handles POST /payments/mpesa/stk-push
//
//	@Summary	Initiate an M-Pesa STK push payment
//	@Tags		payments
//	@Accept		json
//	@Produce	json
//	@Param		request	body		STKPushRequest	true	"request"
//	@Success	200		{object}	utils.APIResponse
//	@Failure	400		{object}	utils.APIResponse
//	@Failure	502		{object}	utils.APIResponse
//	@Router		/payments/mpesa/stk-push [post]
func (h *MpesaHandler) STKPush(c *gin.Context) {
	var req STKPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for stk push", "error", err)
		utils.ErrorResponseWithError(c, sharederrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.initiateUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, mapPaymentError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "STK push sent. Check your phone to complete payment.", result)
}

// Callback handles POST /payments/mpesa/callback
//
// The gateway retries callbacks that do not get its ack envelope back, so
// this endpoint always answers HTTP 200 with the fixed ack regardless of
// what processing did.
//
//	@Summary	Daraja payment result callback
//	@Tags		payments
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	paymentgateway.AckResponse
//	@Router		/payments/mpesa/callback [post]
func (h *MpesaHandler) Callback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Errorw("failed to read mpesa callback body", "error", err)
		c.JSON(http.StatusOK, paymentgateway.Ack())
		return
	}

	envelope, err := paymentgateway.ParseCallback(body)
	if err != nil {
		h.logger.Warnw("malformed mpesa callback", "error", err)
		c.JSON(http.StatusOK, paymentgateway.Ack())
		return
	}

	if err := h.callbackUC.Execute(c.Request.Context(), envelope.Result()); err != nil {
		// Logged and acked anyway; the reconciliation sweep converges
		// anything the callback failed to apply.
		h.logger.Errorw("mpesa callback processing failed", "error", err)
	}

	c.JSON(http.StatusOK, paymentgateway.Ack())
}

// QueryStatus handles POST /payments/mpesa/query-status
//
//	@Summary	Query the status of an STK push payment
//	@Tags		payments
//	@Accept		json
//	@Produce	json
//	@Param		request	body		QueryStatusRequest	true	"request"
//	@Success	200		{object}	utils.APIResponse
//	@Failure	404		{object}	utils.APIResponse
//	@Router		/payments/mpesa/query-status [post]
func (h *MpesaHandler) QueryStatus(c *gin.Context) {
	var req QueryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for status query", "error", err)
		utils.ErrorResponseWithError(c, sharederrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.queryUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, mapPaymentError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// History handles GET /payments/mpesa/history
//
//	@Summary	List a user's M-Pesa transactions
//	@Tags		payments
//	@Produce	json
//	@Param		user_id	query		int	true	"user id"
//	@Param		limit	query		int	false	"page size"
//	@Param		offset	query		int	false	"page offset"
//	@Success	200		{object}	utils.APIResponse
//	@Router		/payments/mpesa/history [get]
func (h *MpesaHandler) History(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 32)
	if err != nil || userID == 0 {
		utils.ErrorResponseWithError(c, sharederrors.NewValidationError("user_id query parameter is required"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	result, err := h.historyUC.Execute(c.Request.Context(), paymentUsecases.ListTransactionsCommand{
		UserID: uint(userID),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, mapPaymentError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// mapPaymentError translates payment domain failures into AppErrors.
func mapPaymentError(err error) error {
	switch {
	case errors.Is(err, payment.ErrTransactionNotFound):
		return sharederrors.NewNotFoundError("transaction not found")
	case errors.Is(err, payment.ErrGatewayUnavailable):
		return &sharederrors.AppError{
			Type:    sharederrors.ErrorTypeInternal,
			Message: "payment gateway is unavailable, please try again",
			Code:    http.StatusBadGateway,
		}
	case errors.Is(err, payment.ErrInvalidAmount):
		return sharederrors.NewValidationError("invalid payment amount")
	default:
		return err
	}
}
