package usecases

import (
	"context"
	"fmt"
	"time"

	"sokofiti/internal/application/payment/paymentgateway"
	"sokofiti/internal/domain/payment"
	vo "sokofiti/internal/domain/payment/valueobjects"
	"sokofiti/internal/shared/logger"
)

type QueryPaymentStatusCommand struct {
	CheckoutRequestID string
}

type QueryPaymentStatusResult struct {
	CheckoutRequestID string
	Status            string
	Amount            int64
	ReceiptNumber     string
	ResultDesc        string
	Purpose           string
	CreatedAt         time.Time
}

// QueryPaymentStatusUseCase reports the state of a transaction. When the
// callback has gone missing and the transaction has been pending past the
// reconciliation threshold, it polls the gateway and converges the state the
// same way the callback would have.
type QueryPaymentStatusUseCase struct {
	transactionRepo payment.TransactionRepository
	gateway         paymentgateway.STKGateway
	fulfiller       *Fulfiller
	reconcileAfter  time.Duration
	logger          logger.Interface
}

func NewQueryPaymentStatusUseCase(
	transactionRepo payment.TransactionRepository,
	gateway paymentgateway.STKGateway,
	fulfiller *Fulfiller,
	reconcileAfter time.Duration,
	logger logger.Interface,
) *QueryPaymentStatusUseCase {
	return &QueryPaymentStatusUseCase{
		transactionRepo: transactionRepo,
		gateway:         gateway,
		fulfiller:       fulfiller,
		reconcileAfter:  reconcileAfter,
		logger:          logger,
	}
}

func (uc *QueryPaymentStatusUseCase) Execute(ctx context.Context, cmd QueryPaymentStatusCommand) (*QueryPaymentStatusResult, error) {
	if cmd.CheckoutRequestID == "" {
		return nil, fmt.Errorf("checkout request ID is required")
	}

	tx, err := uc.transactionRepo.FindByCheckoutRequestID(ctx, cmd.CheckoutRequestID)
	if err != nil {
		return nil, err
	}

	if tx.PendingLongerThan(uc.reconcileAfter, time.Now().UTC()) {
		if err := uc.reconcile(ctx, tx); err != nil {
			// Stale answer beats no answer; the sweep will retry.
			uc.logger.Warnw("on-demand reconciliation failed",
				"checkout_request_id", tx.CheckoutRequestID(),
				"error", err,
			)
		}
	}

	return &QueryPaymentStatusResult{
		CheckoutRequestID: tx.CheckoutRequestID(),
		Status:            string(tx.Status()),
		Amount:            tx.Amount(),
		ReceiptNumber:     tx.ReceiptNumber(),
		ResultDesc:        tx.ResultDesc(),
		Purpose:           tx.Purpose(),
		CreatedAt:         tx.CreatedAt(),
	}, nil
}

// reconcile polls the gateway for the transaction's outcome and applies it.
// A 1037 result keeps the transaction pending for the next attempt.
func (uc *QueryPaymentStatusUseCase) reconcile(ctx context.Context, tx *payment.Transaction) error {
	resp, err := uc.gateway.QueryStatus(ctx, tx.CheckoutRequestID())
	if err != nil {
		return fmt.Errorf("status query failed: %w", err)
	}

	if vo.StatusFromResultCode(resp.ResultCode) == vo.StatusPending {
		uc.logger.Debugw("transaction still pending at gateway",
			"checkout_request_id", tx.CheckoutRequestID(),
			"result_code", resp.ResultCode,
		)
		return nil
	}

	if err := tx.ApplyResult(resp.ResultCode, resp.ResultDesc, "", nil); err != nil {
		return err
	}
	claimed, err := uc.transactionRepo.FinalizeFromPending(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to finalize transaction: %w", err)
	}
	if !claimed {
		// The callback landed between our read and the update and has
		// already fulfilled.
		return nil
	}

	uc.logger.Infow("transaction reconciled via status query",
		"checkout_request_id", tx.CheckoutRequestID(),
		"result_code", resp.ResultCode,
		"status", tx.Status(),
	)

	if tx.Status() == vo.StatusCompleted {
		if err := uc.fulfiller.Fulfill(ctx, tx); err != nil {
			uc.logger.Errorw("failed to fulfill reconciled payment",
				"checkout_request_id", tx.CheckoutRequestID(),
				"error", err,
			)
			return err
		}
	}
	return nil
}
