package usecases

import (
	"context"
	"fmt"

	"sokofiti/internal/application/payment/paymentgateway"
	"sokofiti/internal/domain/payment"
	vo "sokofiti/internal/domain/payment/valueobjects"
	sharederrors "sokofiti/internal/shared/errors"
	"sokofiti/internal/shared/logger"
)

type InitiateSTKPushCommand struct {
	UserID           uint
	PlanID           *string
	PhoneNumber      string
	Amount           int64
	AccountReference string
	Description      string
	Purpose          string
}

type InitiateSTKPushResult struct {
	TransactionID     uint
	MerchantRequestID string
	CheckoutRequestID string
	CustomerMessage   string
}

// InitiateSTKPushUseCase sends the payment prompt to the payer's phone and
// records the pending transaction. The gateway call happens before, and
// outside of, any database transaction: a prompt the user never sees is
// cheaper than a dangling row for a request the gateway rejected.
type InitiateSTKPushUseCase struct {
	gateway         paymentgateway.STKGateway
	transactionRepo payment.TransactionRepository
	logger          logger.Interface
}

func NewInitiateSTKPushUseCase(
	gateway paymentgateway.STKGateway,
	transactionRepo payment.TransactionRepository,
	logger logger.Interface,
) *InitiateSTKPushUseCase {
	return &InitiateSTKPushUseCase{
		gateway:         gateway,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

func (uc *InitiateSTKPushUseCase) Execute(ctx context.Context, cmd InitiateSTKPushCommand) (*InitiateSTKPushResult, error) {
	if cmd.UserID == 0 {
		return nil, sharederrors.NewValidationError("user ID is required")
	}
	if cmd.Amount <= 0 {
		return nil, sharederrors.NewValidationError("amount must be positive")
	}

	phone, err := vo.NewPhoneNumber(cmd.PhoneNumber)
	if err != nil {
		return nil, sharederrors.NewValidationError(err.Error())
	}

	resp, err := uc.gateway.RequestSTKPush(ctx, paymentgateway.STKPushRequest{
		PhoneNumber:      phone.String(),
		Amount:           cmd.Amount,
		AccountReference: cmd.AccountReference,
		Description:      cmd.Description,
	})
	if err != nil {
		uc.logger.Errorw("stk push request failed",
			"user_id", cmd.UserID,
			"phone", phone.Masked(),
			"error", err,
		)
		return nil, payment.ErrGatewayUnavailable
	}

	tx, err := payment.NewTransaction(payment.CreateTransactionParams{
		UserID:            cmd.UserID,
		PlanID:            cmd.PlanID,
		MerchantRequestID: resp.MerchantRequestID,
		CheckoutRequestID: resp.CheckoutRequestID,
		PhoneNumber:       phone,
		Amount:            cmd.Amount,
		AccountReference:  cmd.AccountReference,
		Description:       cmd.Description,
		Purpose:           cmd.Purpose,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.Create(ctx, tx); err != nil {
		// The prompt is already on the payer's phone; reconciliation
		// cannot recover a transaction we never stored.
		uc.logger.Errorw("failed to persist pending transaction",
			"checkout_request_id", resp.CheckoutRequestID,
			"user_id", cmd.UserID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	uc.logger.Infow("stk push initiated",
		"user_id", cmd.UserID,
		"checkout_request_id", resp.CheckoutRequestID,
		"amount", cmd.Amount,
		"purpose", cmd.Purpose,
		"phone", phone.Masked(),
	)

	return &InitiateSTKPushResult{
		TransactionID:     tx.ID(),
		MerchantRequestID: resp.MerchantRequestID,
		CheckoutRequestID: resp.CheckoutRequestID,
		CustomerMessage:   resp.CustomerMessage,
	}, nil
}
