// Package lifecycle owns the subscription status machine and the validated
// create/update/delete flows built on it.
package lifecycle

import (
	"time"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/apperror"
)

var allowed = map[entity.SubscriptionStatus][]entity.SubscriptionStatus{
	entity.SubscriptionStatusActive: {
		entity.SubscriptionStatusPaused,
		entity.SubscriptionStatusCancelled,
		entity.SubscriptionStatusExpired,
	},
	entity.SubscriptionStatusPaused: {
		entity.SubscriptionStatusActive,
		entity.SubscriptionStatusCancelled,
		entity.SubscriptionStatusExpired,
	},
}

// CanTransition reports whether from -> to is an edge of the status machine.
// Staying in the same status is always allowed. Expiry also needs ShouldExpire to hold.
func CanTransition(from, to entity.SubscriptionStatus) bool {
	if from == to {
		return true
	}
	for _, next := range allowed[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves sub to the target status in place and fills the dated fields the
// target implies. effective only matters for cancellation; nil means now.
func Transition(sub *entity.Subscription, to entity.SubscriptionStatus, now time.Time, effective *time.Time) error {
	if !to.IsValid() {
		return apperror.NewValidation("status", "unknown status "+string(to))
	}
	from := sub.Status
	if from == to {
		return nil
	}
	if !CanTransition(from, to) {
		return apperror.NewInvalidTransition(string(from), string(to))
	}

	switch to {
	case entity.SubscriptionStatusPaused, entity.SubscriptionStatusActive:
		// next billing date is kept across pause/resume
	case entity.SubscriptionStatusCancelled:
		at := now
		if effective != nil {
			at = *effective
		}
		if at.Before(sub.StartDate) {
			return apperror.NewValidation("cancellationDate", "must not be before startDate")
		}
		sub.CancellationDate = &at
		end := at.AddDate(0, 0, sub.CancellationNoticePeriod)
		if sub.EndDate == nil || sub.EndDate.Before(end) {
			sub.EndDate = &end
		}
		sub.NextBillingDate = nil
	case entity.SubscriptionStatusExpired:
		if !ShouldExpire(sub, now) {
			return apperror.NewInvalidTransition(string(from), string(to))
		}
		sub.NextBillingDate = nil
	}

	sub.Status = to
	return nil
}

// ShouldExpire is true for a non-terminal subscription whose end date has passed.
func ShouldExpire(sub *entity.Subscription, now time.Time) bool {
	if sub.Status.IsTerminal() || sub.EndDate == nil {
		return false
	}
	return !sub.EndDate.After(now)
}
