package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"paydirect/internal/config"
	"paydirect/internal/payment"
	"paydirect/internal/repository"
)

// Scheduler runs the recurring reconciliation jobs: polling Worldline for
// open payments and expiring checkouts nobody ever finished. Retry of
// failed status updates happens implicitly on the next tick.
type Scheduler struct {
	cron     *cron.Cron
	cfg      *config.Config
	payments *repository.PaymentRepository
	gateway  *payment.Gateway
	logger   *zap.Logger
}

func New(cfg *config.Config, payments *repository.PaymentRepository, gateway *payment.Gateway, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		cfg:      cfg,
		payments: payments,
		gateway:  gateway,
		logger:   logger,
	}
}

// Start registers and starts all cron jobs.
func (s *Scheduler) Start() {
	s.logger.Info("Starting cron scheduler...")

	pollSpec := fmt.Sprintf("0 */%d * * * *", intervalMinutes(s.cfg.Poll.Interval))

	// Poll open payments against Worldline.
	s.cron.AddFunc(pollSpec, func() {
		s.logger.Debug("Running: hosted checkout status poll")
		s.pollOpenPayments()
	})

	// Expire stale open payments - every hour.
	s.cron.AddFunc("0 0 * * * *", func() {
		s.logger.Debug("Running: payment expire")
		s.expireStalePayments()
	})

	s.cron.Start()
}

// Stop stops the scheduler and returns a context that is done once all
// running jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// pollOpenPayments re-invokes UpdateStatus for every open payment that
// carries a hosted checkout ID. Failures are logged and retried on the
// next tick; one broken payment must not starve the rest.
func (s *Scheduler) pollOpenPayments() {
	rows, err := s.payments.ListPollable(string(payment.StatusOpen), payment.MetaHostedCheckoutID, 200)
	if err != nil {
		s.logger.Error("failed to list pollable payments", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	for i := range rows {
		rec := repository.NewPaymentRecord(&rows[i], s.payments)
		if err := s.gateway.UpdateStatus(ctx, rec); err != nil {
			s.logger.Warn("status poll failed",
				zap.String("payment_id", rows[i].PublicID),
				zap.Error(err))
		}
	}
}

// expireStalePayments marks open payments that have not moved within the
// configured window as expired.
func (s *Scheduler) expireStalePayments() {
	cutoff := time.Now().Add(-s.cfg.Poll.ExpireAfter)

	rows, err := s.payments.ListStaleOpen(string(payment.StatusOpen), cutoff, 200)
	if err != nil {
		s.logger.Error("failed to list stale payments", zap.Error(err))
		return
	}

	for i := range rows {
		rows[i].Status = string(payment.StatusExpired)
		if err := s.payments.Save(&rows[i]); err != nil {
			s.logger.Warn("failed to expire payment",
				zap.String("payment_id", rows[i].PublicID),
				zap.Error(err))
			continue
		}
		s.logger.Info("payment expired", zap.String("payment_id", rows[i].PublicID))
	}
}

func intervalMinutes(d time.Duration) int {
	m := int(d / time.Minute)
	if m < 1 {
		m = 1
	}
	if m > 59 {
		m = 59
	}
	return m
}
