package service

import (
	"context"
	"time"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/apperror"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/pkg/mailer"
	"subtracker-be/internal/repository/specification"
	"subtracker-be/internal/repository/unitofwork"
	"subtracker-be/pkg/spending"

	"github.com/google/uuid"
)

type IReminderService interface {
	// SendRenewalReminders mails each user one digest of the active subscriptions billing
	// between now and now+windowDays. It returns the number of digests sent.
	SendRenewalReminders(ctx context.Context, now time.Time, windowDays int) (int, error)
}

type reminderService struct {
	uowFactory unitofwork.RepositoryFactory
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewReminderService(uowFactory unitofwork.RepositoryFactory, mailer mailer.IEmailService, logger logger.ILogger) IReminderService {
	return &reminderService{
		uowFactory: uowFactory,
		mailer:     mailer,
		logger:     logger,
	}
}

func (s *reminderService) SendRenewalReminders(ctx context.Context, now time.Time, windowDays int) (int, error) {
	if windowDays <= 0 {
		return 0, apperror.NewValidation("days", "must be a positive number of days")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	subs, err := uow.SubscriptionRepository().FindAllDetailed(ctx,
		specification.ByStatus{Status: entity.SubscriptionStatusActive},
		specification.NextBillingUntil{Until: now.AddDate(0, 0, windowDays)},
	)
	if err != nil {
		return 0, apperror.Store("find renewing subscriptions", err)
	}

	byUser := make(map[uuid.UUID][]*entity.Subscription)
	var order []uuid.UUID
	for _, sub := range subs {
		// already billed; the reminder would arrive after the charge
		if sub.NextBillingDate.Before(now) {
			continue
		}
		if _, ok := byUser[sub.UserId]; !ok {
			order = append(order, sub.UserId)
		}
		byUser[sub.UserId] = append(byUser[sub.UserId], sub)
	}

	sent := 0
	for _, userId := range order {
		user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
		if err != nil {
			return sent, apperror.Store("find user", err)
		}
		if user == nil || user.Email == "" || user.Status == entity.UserStatusBlocked {
			continue
		}

		lines, err := reminderLines(byUser[userId], now, windowDays)
		if err != nil {
			return sent, err
		}
		if err := s.mailer.SendRenewalReminder(user.Email, lines); err != nil {
			s.logger.Error("REMINDER", "Failed to send renewal reminder", map[string]interface{}{
				"userId": userId.String(),
				"error":  err.Error(),
			})
			continue
		}
		sent++
	}

	s.logger.Info("REMINDER", "Renewal reminders sent", map[string]interface{}{
		"sent":  sent,
		"users": len(order),
	})
	return sent, nil
}

func reminderLines(subs []*entity.Subscription, now time.Time, windowDays int) ([]mailer.RenewalLine, error) {
	byId := make(map[uuid.UUID]*entity.Subscription, len(subs))
	renewals := make([]spending.Renewal, 0, len(subs))
	for _, sub := range subs {
		amount, currency, ok := sub.EffectiveAmount()
		if !ok || sub.Price == nil {
			continue
		}
		byId[sub.Id] = sub
		renewals = append(renewals, spending.Renewal{
			SubscriptionId:  sub.Id,
			Status:          sub.Status,
			NextBillingDate: sub.NextBillingDate,
			Item:            spending.Item{Interval: sub.Price.Interval, Amount: amount, Currency: currency},
		})
	}

	upcoming, err := spending.ComputeUpcomingRenewals(renewals, now, windowDays)
	if err != nil {
		return nil, err
	}

	lines := make([]mailer.RenewalLine, 0, len(upcoming))
	for _, r := range upcoming {
		sub := byId[r.SubscriptionId]
		line := mailer.RenewalLine{
			Amount:   r.Amount,
			Currency: r.Currency,
			Date:     *r.NextBillingDate,
		}
		if sub.Product != nil {
			line.ProductName = sub.Product.Name
		}
		if sub.Plan != nil {
			line.PlanName = sub.Plan.Name
		}
		lines = append(lines, line)
	}
	return lines, nil
}
