package usecases

import (
	"context"
	"fmt"
	"time"

	"sokofiti/internal/domain/payment"
	"sokofiti/internal/shared/logger"
)

type ListTransactionsCommand struct {
	UserID uint
	Limit  int
	Offset int
}

type TransactionView struct {
	ID                uint       `json:"id"`
	CheckoutRequestID string     `json:"checkout_request_id"`
	Amount            int64      `json:"amount"`
	Status            string     `json:"status"`
	Purpose           string     `json:"purpose"`
	ReceiptNumber     string     `json:"receipt_number,omitempty"`
	ResultDesc        string     `json:"result_desc,omitempty"`
	TransactionDate   *time.Time `json:"transaction_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

type ListTransactionsResult struct {
	Transactions []TransactionView `json:"transactions"`
}

const defaultHistoryLimit = 20

// ListTransactionsUseCase serves a user's payment history.
type ListTransactionsUseCase struct {
	transactionRepo payment.TransactionRepository
	logger          logger.Interface
}

func NewListTransactionsUseCase(transactionRepo payment.TransactionRepository, logger logger.Interface) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

func (uc *ListTransactionsUseCase) Execute(ctx context.Context, cmd ListTransactionsCommand) (*ListTransactionsResult, error) {
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	limit := cmd.Limit
	if limit <= 0 || limit > 100 {
		limit = defaultHistoryLimit
	}

	txs, err := uc.transactionRepo.FindByUserID(ctx, cmd.UserID, limit, cmd.Offset)
	if err != nil {
		uc.logger.Errorw("failed to list transactions", "user_id", cmd.UserID, "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	result := &ListTransactionsResult{Transactions: make([]TransactionView, 0, len(txs))}
	for _, tx := range txs {
		result.Transactions = append(result.Transactions, TransactionView{
			ID:                tx.ID(),
			CheckoutRequestID: tx.CheckoutRequestID(),
			Amount:            tx.Amount(),
			Status:            string(tx.Status()),
			Purpose:           tx.Purpose(),
			ReceiptNumber:     tx.ReceiptNumber(),
			ResultDesc:        tx.ResultDesc(),
			TransactionDate:   tx.TransactionDate(),
			CreatedAt:         tx.CreatedAt(),
		})
	}
	return result, nil
}
