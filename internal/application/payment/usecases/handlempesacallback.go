package usecases

import (
	"context"
	"errors"
	"fmt"

	"sokofiti/internal/application/payment/paymentgateway"
	"sokofiti/internal/domain/payment"
	vo "sokofiti/internal/domain/payment/valueobjects"
	"sokofiti/internal/shared/goroutine"
	"sokofiti/internal/shared/logger"
)

// HandleMpesaCallbackUseCase finalizes a transaction from the asynchronous
// gateway callback and drives the billing side effect of a successful
// payment. It must be idempotent: Daraja retries callbacks, and the
// reconciliation sweep may have resolved the transaction first.
type HandleMpesaCallbackUseCase struct {
	transactionRepo payment.TransactionRepository
	fulfiller       *Fulfiller
	notifier        PaymentNotifier
	logger          logger.Interface
}

func NewHandleMpesaCallbackUseCase(
	transactionRepo payment.TransactionRepository,
	fulfiller *Fulfiller,
	logger logger.Interface,
) *HandleMpesaCallbackUseCase {
	return &HandleMpesaCallbackUseCase{
		transactionRepo: transactionRepo,
		fulfiller:       fulfiller,
		logger:          logger,
	}
}

// SetNotifier sets the payment notifier (optional).
func (uc *HandleMpesaCallbackUseCase) SetNotifier(notifier PaymentNotifier) {
	uc.notifier = notifier
}

// Execute processes a parsed callback. Errors are returned for logging only;
// the HTTP handler acknowledges the gateway regardless, since Daraja retries
// on anything but the ack envelope and retries cannot fix a bad payload.
func (uc *HandleMpesaCallbackUseCase) Execute(ctx context.Context, result paymentgateway.CallbackResult) error {
	tx, err := uc.findTransaction(ctx, result)
	if err != nil {
		uc.logger.Warnw("callback for unknown transaction",
			"checkout_request_id", result.CheckoutRequestID,
			"merchant_request_id", result.MerchantRequestID,
			"result_code", result.ResultCode,
		)
		return err
	}

	if tx.IsFinal() {
		uc.logger.Infow("duplicate callback ignored",
			"checkout_request_id", tx.CheckoutRequestID(),
			"status", tx.Status(),
		)
		return nil
	}

	if err := tx.ApplyResult(result.ResultCode, result.ResultDesc, result.ReceiptNumber, result.TransactionDate); err != nil {
		return err
	}
	if tx.IsFinal() {
		claimed, err := uc.transactionRepo.FinalizeFromPending(ctx, tx)
		if err != nil {
			return fmt.Errorf("failed to finalize transaction: %w", err)
		}
		if !claimed {
			// A concurrent delivery of the same result finalized the row
			// after our read. That delivery fulfills; this one must not.
			uc.logger.Infow("concurrent duplicate callback lost finalize race",
				"checkout_request_id", tx.CheckoutRequestID(),
				"status", tx.Status(),
			)
			return nil
		}
	} else if err := uc.transactionRepo.Update(ctx, tx); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	uc.logger.Infow("mpesa callback processed",
		"checkout_request_id", tx.CheckoutRequestID(),
		"result_code", result.ResultCode,
		"status", tx.Status(),
		"receipt", tx.ReceiptNumber(),
	)

	if tx.Status() == vo.StatusCompleted {
		if err := uc.fulfiller.Fulfill(ctx, tx); err != nil {
			// The money is in; fulfillment failures need an operator,
			// not a gateway retry.
			uc.logger.Errorw("failed to fulfill completed payment",
				"checkout_request_id", tx.CheckoutRequestID(),
				"purpose", tx.Purpose(),
				"error", err,
			)
			return err
		}
	}

	uc.notify(tx)
	return nil
}

func (uc *HandleMpesaCallbackUseCase) findTransaction(ctx context.Context, result paymentgateway.CallbackResult) (*payment.Transaction, error) {
	tx, err := uc.transactionRepo.FindByCheckoutRequestID(ctx, result.CheckoutRequestID)
	if err == nil {
		return tx, nil
	}
	if !errors.Is(err, payment.ErrTransactionNotFound) {
		return nil, err
	}
	if result.MerchantRequestID == "" {
		return nil, payment.ErrTransactionNotFound
	}
	return uc.transactionRepo.FindByMerchantRequestID(ctx, result.MerchantRequestID)
}

func (uc *HandleMpesaCallbackUseCase) notify(tx *payment.Transaction) {
	if uc.notifier == nil {
		return
	}
	n := PaymentNotification{
		UserID:        tx.UserID(),
		Amount:        tx.Amount(),
		ReceiptNumber: tx.ReceiptNumber(),
		PhoneNumber:   tx.PhoneNumber().String(),
		Purpose:       tx.Purpose(),
		Succeeded:     tx.Status() == vo.StatusCompleted,
	}
	goroutine.SafeGo(uc.logger, "payment-notification", func() {
		if err := uc.notifier.NotifyPaymentResult(context.Background(), n); err != nil {
			uc.logger.Warnw("payment notification failed",
				"user_id", n.UserID,
				"error", err,
			)
		}
	})
}
