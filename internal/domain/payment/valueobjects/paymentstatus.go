package valueobjects

// PaymentStatus is the lifecycle state of an M-Pesa transaction.
type PaymentStatus string

const (
	// StatusPending means the STK push was sent and no final result has
	// been received yet.
	StatusPending PaymentStatus = "pending"
	// StatusCompleted means the payer approved and funds were received.
	StatusCompleted PaymentStatus = "completed"
	// StatusCancelled means the payer declined the prompt.
	StatusCancelled PaymentStatus = "cancelled"
	// StatusFailed covers every other gateway failure.
	StatusFailed PaymentStatus = "failed"
)

// ValidPaymentStatuses enumerates accepted statuses.
var ValidPaymentStatuses = map[PaymentStatus]bool{
	StatusPending:   true,
	StatusCompleted: true,
	StatusCancelled: true,
	StatusFailed:    true,
}

// IsFinal reports whether the status is terminal.
func (s PaymentStatus) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusFailed
}

// StatusFromResultCode maps a Daraja result code to a payment status.
// 0 is success, 1032 is "request cancelled by user", 1037 is a timeout
// waiting for the prompt which Daraja may still resolve later.
func StatusFromResultCode(code int) PaymentStatus {
	switch code {
	case 0:
		return StatusCompleted
	case 1032:
		return StatusCancelled
	case 1037:
		return StatusPending
	default:
		return StatusFailed
	}
}
