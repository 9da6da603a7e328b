package notify

import (
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReminderMailer is the part of Mailer the reminder job needs
type ReminderMailer interface {
	SendPaymentReminder(to, installmentName string, paymentDate time.Time, amount decimal.Decimal, remaining int) error
}

// Reminder runs the scheduled payment-due reminder job. Each run scans every
// user's pending installments and mails about payments falling inside the
// lookahead window.
type Reminder struct {
	userRepo           domain.UserRepository
	installmentService *service.InstallmentService
	mailer             ReminderMailer
	lookaheadDays      int
	cron               *cron.Cron
}

// NewReminder creates a new Reminder
func NewReminder(userRepo domain.UserRepository, installmentService *service.InstallmentService, mailer ReminderMailer, lookaheadDays int) *Reminder {
	if lookaheadDays < 1 {
		lookaheadDays = 3
	}
	return &Reminder{
		userRepo:           userRepo,
		installmentService: installmentService,
		mailer:             mailer,
		lookaheadDays:      lookaheadDays,
	}
}

// Start schedules the job with the given cron expression
func (r *Reminder) Start(schedule string) error {
	r.cron = cron.New()
	if _, err := r.cron.AddFunc(schedule, func() {
		r.Run(time.Now().UTC())
	}); err != nil {
		return err
	}
	r.cron.Start()
	log.Info().Str("schedule", schedule).Int("lookahead_days", r.lookaheadDays).Msg("Payment reminder job scheduled")
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish
func (r *Reminder) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}

// Run executes one reminder pass. Failures are logged per user so one broken
// mailbox does not halt the sweep.
func (r *Reminder) Run(now time.Time) {
	users, err := r.userRepo.GetAll()
	if err != nil {
		log.Error().Err(err).Msg("Reminder pass aborted: failed to list users")
		return
	}

	windowEnd := now.AddDate(0, 0, r.lookaheadDays)
	sent := 0
	for _, user := range users {
		upcoming, err := r.installmentService.Upcoming(user.ID, now, 0)
		if err != nil {
			log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("Skipping user in reminder pass")
			continue
		}

		for _, item := range upcoming {
			next := item.Status.NextPaymentDate
			if next == nil || next.After(windowEnd) {
				continue
			}
			err := r.mailer.SendPaymentReminder(
				user.Email,
				item.Installment.Name,
				*next,
				item.Installment.MonthlyAmount,
				item.Status.Remaining,
			)
			if err != nil {
				log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("Failed to send payment reminder")
				continue
			}
			sent++
		}
	}
	log.Info().Int("sent", sent).Int("users", len(users)).Msg("Reminder pass finished")
}
