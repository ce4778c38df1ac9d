package usecases

import (
	"context"
	"time"

	"sokofiti/internal/application/payment/paymentgateway"
	"sokofiti/internal/domain/payment"
	vo "sokofiti/internal/domain/payment/valueobjects"
	"sokofiti/internal/shared/logger"
)

const reconcileBatchSize = 50

// ReconcilePendingPaymentsUseCase is the background sweep over stale pending
// transactions. It exists so convergence never depends on the client polling
// the status endpoint: lost callbacks are resolved server-side.
type ReconcilePendingPaymentsUseCase struct {
	transactionRepo payment.TransactionRepository
	gateway         paymentgateway.STKGateway
	fulfiller       *Fulfiller
	reconcileAfter  time.Duration
	logger          logger.Interface
}

func NewReconcilePendingPaymentsUseCase(
	transactionRepo payment.TransactionRepository,
	gateway paymentgateway.STKGateway,
	fulfiller *Fulfiller,
	reconcileAfter time.Duration,
	logger logger.Interface,
) *ReconcilePendingPaymentsUseCase {
	return &ReconcilePendingPaymentsUseCase{
		transactionRepo: transactionRepo,
		gateway:         gateway,
		fulfiller:       fulfiller,
		reconcileAfter:  reconcileAfter,
		logger:          logger,
	}
}

// Execute sweeps one batch and returns how many transactions reached a final
// state. Per-transaction failures are logged and skipped.
func (uc *ReconcilePendingPaymentsUseCase) Execute(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-uc.reconcileAfter)

	stale, err := uc.transactionRepo.FindPendingOlderThan(ctx, cutoff, reconcileBatchSize)
	if err != nil {
		uc.logger.Errorw("failed to list stale pending transactions", "error", err)
		return 0, err
	}

	finalized := 0
	for _, tx := range stale {
		if err := uc.reconcileOne(ctx, tx); err != nil {
			uc.logger.Warnw("failed to reconcile transaction",
				"checkout_request_id", tx.CheckoutRequestID(),
				"error", err,
			)
			continue
		}
		if tx.IsFinal() {
			finalized++
		}
	}

	if finalized > 0 {
		uc.logger.Infow("reconciled stale transactions",
			"swept", len(stale),
			"finalized", finalized,
		)
	}
	return finalized, nil
}

func (uc *ReconcilePendingPaymentsUseCase) reconcileOne(ctx context.Context, tx *payment.Transaction) error {
	resp, err := uc.gateway.QueryStatus(ctx, tx.CheckoutRequestID())
	if err != nil {
		return err
	}

	if vo.StatusFromResultCode(resp.ResultCode) == vo.StatusPending {
		return nil
	}

	if err := tx.ApplyResult(resp.ResultCode, resp.ResultDesc, "", nil); err != nil {
		return err
	}
	claimed, err := uc.transactionRepo.FinalizeFromPending(ctx, tx)
	if err != nil {
		return err
	}
	if !claimed {
		// Lost the finalize race to a late callback; that path fulfills.
		return nil
	}

	if tx.Status() == vo.StatusCompleted {
		return uc.fulfiller.Fulfill(ctx, tx)
	}
	return nil
}
