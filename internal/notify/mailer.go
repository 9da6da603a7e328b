package notify

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/config"
	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Mailer sends reminder emails via SMTP
type Mailer struct {
	cfg config.ReminderConfig
}

// NewMailer creates a new Mailer
func NewMailer(cfg config.ReminderConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendPaymentReminder mails the user about an installment payment coming due
func (m *Mailer) SendPaymentReminder(to, installmentName string, paymentDate time.Time, amount decimal.Decimal, remaining int) error {
	e := email.NewEmail()
	e.From = m.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Upcoming installment payment: %s", installmentName)

	body := fmt.Sprintf(
		"A payment of %s for %q is due on %s.\n"+
			"After this payment, %d installment(s) will remain.\n"+
			"\nCentavo",
		amount.StringFixed(2), installmentName, paymentDate.Format("2006-01-02"), remaining-1,
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	auth := smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		log.Error().Err(err).Str("to", to).Msg("Failed to send reminder email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info().Str("to", to).Str("subject", e.Subject).Msg("Reminder email sent")
	return nil
}
