package billing

import (
	billingUsecases "sokofiti/internal/application/billing/usecases"
)

type ActivateFreePlanRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

func (r *ActivateFreePlanRequest) ToCommand() billingUsecases.ActivateFreePlanCommand {
	return billingUsecases.ActivateFreePlanCommand{UserID: r.UserID}
}

type ActivateSubscriptionRequest struct {
	UserID        uint   `json:"user_id" binding:"required"`
	PlanID        string `json:"plan_id" binding:"required,max=50"`
	TransactionID string `json:"transaction_id" binding:"required,max=100"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
}

func (r *ActivateSubscriptionRequest) ToCommand() billingUsecases.ActivatePaidPlanCommand {
	return billingUsecases.ActivatePaidPlanCommand{
		UserID:        r.UserID,
		PlanID:        r.PlanID,
		TransactionID: r.TransactionID,
		Amount:        r.Amount,
	}
}

type RenewSubscriptionRequest struct {
	UserID        uint   `json:"user_id" binding:"required"`
	PlanID        string `json:"plan_id" binding:"required,max=50"`
	TransactionID string `json:"transaction_id" binding:"required,max=100"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	PhoneNumber   string `json:"phone_number" binding:"omitempty,msisdn"`
	MpesaReceipt  string `json:"mpesa_receipt" binding:"omitempty,max=50"`
}

func (r *RenewSubscriptionRequest) ToCommand() billingUsecases.RenewSubscriptionCommand {
	return billingUsecases.RenewSubscriptionCommand{
		UserID:        r.UserID,
		PlanID:        r.PlanID,
		TransactionID: r.TransactionID,
		Amount:        r.Amount,
		PhoneNumber:   r.PhoneNumber,
		ReceiptNumber: r.MpesaReceipt,
	}
}

type ConsumeCreditRequest struct {
	UserID    uint `json:"user_id" binding:"required"`
	ListingID uint `json:"listing_id" binding:"required"`
}

func (r *ConsumeCreditRequest) ToCommand() billingUsecases.ConsumeCreditCommand {
	return billingUsecases.ConsumeCreditCommand{
		UserID:    r.UserID,
		ListingID: r.ListingID,
	}
}

type PurchaseCreditsRequest struct {
	UserID        uint   `json:"user_id" binding:"required"`
	CreditPackage string `json:"credit_package" binding:"required,max=30"`
	TransactionID string `json:"transaction_id" binding:"required,max=100"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	PhoneNumber   string `json:"phone_number" binding:"omitempty,msisdn"`
	MpesaReceipt  string `json:"mpesa_receipt" binding:"omitempty,max=50"`
}

func (r *PurchaseCreditsRequest) ToCommand() billingUsecases.PurchaseCreditsCommand {
	return billingUsecases.PurchaseCreditsCommand{
		UserID:        r.UserID,
		PackageKey:    r.CreditPackage,
		TransactionID: r.TransactionID,
		Amount:        r.Amount,
		PhoneNumber:   r.PhoneNumber,
		ReceiptNumber: r.MpesaReceipt,
	}
}
