package mpesa

import (
	paymentUsecases "sokofiti/internal/application/payment/usecases"
)

type STKPushRequest struct {
	UserID           uint    `json:"user_id" binding:"required"`
	PlanID           *string `json:"plan_id" binding:"omitempty,max=50"`
	PhoneNumber      string  `json:"phone_number" binding:"required,msisdn"`
	Amount           int64   `json:"amount" binding:"required,gt=0"`
	AccountReference string  `json:"account_reference" binding:"required,max=100"`
	TransactionDesc  string  `json:"transaction_desc" binding:"omitempty,max=255"`
	Purpose          string  `json:"purpose" binding:"required,oneof=plan_activation subscription_renewal credit_purchase"`
}

func (r *STKPushRequest) ToCommand() paymentUsecases.InitiateSTKPushCommand {
	desc := r.TransactionDesc
	if desc == "" {
		desc = "Payment for plan"
	}
	return paymentUsecases.InitiateSTKPushCommand{
		UserID:           r.UserID,
		PlanID:           r.PlanID,
		PhoneNumber:      r.PhoneNumber,
		Amount:           r.Amount,
		AccountReference: r.AccountReference,
		Description:      desc,
		Purpose:          r.Purpose,
	}
}

type QueryStatusRequest struct {
	CheckoutRequestID string `json:"checkout_request_id" binding:"required,max=100"`
}

func (r *QueryStatusRequest) ToCommand() paymentUsecases.QueryPaymentStatusCommand {
	return paymentUsecases.QueryPaymentStatusCommand{
		CheckoutRequestID: r.CheckoutRequestID,
	}
}
