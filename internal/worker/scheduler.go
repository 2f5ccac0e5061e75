// Package worker runs the periodic subscription sweeps next to the HTTP server.
package worker

import (
	"context"
	"sync"
	"time"

	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/service"
)

type Result struct {
	Expired       int
	RemindersSent int
}

// Scheduler expires finished subscriptions on every tick and sends renewal reminders
// at most once per calendar day (UTC).
type Scheduler struct {
	subscriptions service.ISubscriptionService
	reminders     service.IReminderService
	interval      time.Duration
	windowDays    int
	logger        logger.ILogger

	mu           sync.Mutex
	lastReminder string
}

func NewScheduler(subscriptions service.ISubscriptionService, reminders service.IReminderService, interval time.Duration, windowDays int, logger logger.ILogger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		subscriptions: subscriptions,
		reminders:     reminders,
		interval:      interval,
		windowDays:    windowDays,
		logger:        logger,
	}
}

// Start runs one sweep immediately, then one per interval until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("WORKER", "Scheduler started", map[string]interface{}{
		"interval":   s.interval.String(),
		"windowDays": s.windowDays,
	})

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("WORKER", "Scheduler stopped", nil)
			return
		case now := <-ticker.C:
			s.RunOnce(ctx, now)
		}
	}
}

// RunOnce never returns an error; failures are logged and retried on the next tick.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) Result {
	var res Result

	expired, err := s.subscriptions.ExpireDue(ctx, now)
	res.Expired = expired
	if err != nil {
		s.logger.Error("WORKER", "Expiry sweep failed", map[string]interface{}{"error": err.Error()})
	}

	if s.reminders != nil && s.windowDays > 0 && s.claimReminderDay(now) {
		sent, err := s.reminders.SendRenewalReminders(ctx, now, s.windowDays)
		res.RemindersSent = sent
		if err != nil {
			s.logger.Error("WORKER", "Reminder run failed", map[string]interface{}{"error": err.Error()})
			s.releaseReminderDay()
		}
	}

	s.logger.Debug("WORKER", "Sweep complete", map[string]interface{}{
		"expired":       res.Expired,
		"remindersSent": res.RemindersSent,
	})
	return res
}

func (s *Scheduler) claimReminderDay(now time.Time) bool {
	day := now.UTC().Format("2006-01-02")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastReminder == day {
		return false
	}
	s.lastReminder = day
	return true
}

func (s *Scheduler) releaseReminderDay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReminder = ""
}
