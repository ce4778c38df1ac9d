package notification

import (
	"context"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/gomail.v2"

	paymentUsecases "sokofiti/internal/application/payment/usecases"
	sharedConfig "sokofiti/internal/shared/config"
	"sokofiti/internal/shared/logger"
)

// EmailNotifier mails payment result summaries to the operations mailbox.
// It implements paymentUsecases.PaymentNotifier. Delivery is best effort;
// callers ignore the returned error beyond logging.
type EmailNotifier struct {
	cfg     *sharedConfig.EmailConfig
	dialer  *gomail.Dialer
	printer *message.Printer
	logger  logger.Interface
}

// NewEmailNotifier creates a new EmailNotifier.
func NewEmailNotifier(cfg *sharedConfig.EmailConfig, log logger.Interface) *EmailNotifier {
	return &EmailNotifier{
		cfg:     cfg,
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		printer: message.NewPrinter(language.English),
		logger:  log,
	}
}

func (n *EmailNotifier) NotifyPaymentResult(ctx context.Context, notif paymentUsecases.PaymentNotification) error {
	if !n.cfg.Enabled || n.cfg.NotifyAddress == "" {
		return nil
	}

	outcome := "FAILED"
	if notif.Succeeded {
		outcome = "RECEIVED"
	}
	subject := fmt.Sprintf("M-Pesa payment %s: %s", outcome, notif.Purpose)

	amount := n.printer.Sprintf("KES %d", notif.Amount)
	plainBody := fmt.Sprintf(
		"Payment %s\n\nUser ID: %d\nPurpose: %s\nAmount: %s\nReceipt: %s\nPhone: %s\n",
		outcome, notif.UserID, notif.Purpose, amount, notif.ReceiptNumber, notif.PhoneNumber,
	)

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(n.cfg.FromAddress, n.cfg.FromName))
	m.SetHeader("To", n.cfg.NotifyAddress)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send payment notification: %w", err)
	}

	n.logger.Debugw("payment notification sent",
		"user_id", notif.UserID, "purpose", notif.Purpose)
	return nil
}
