package payments

import (
	"fmt"

	"github.com/mihretab/staybook/internal/models"
)

// Event is a resolution signal for a pending payment. Two independent paths
// can resolve the same payment: an explicit verify call against the provider,
// and the provider's own webhook. Whichever lands last wins, but a payment
// never moves back to pending.
type Event string

const (
	EventVerifySucceeded  Event = "verify_succeeded"
	EventVerifyFailed     Event = "verify_failed"
	EventWebhookSucceeded Event = "webhook_succeeded"
	EventWebhookFailed    Event = "webhook_failed"
)

var eventTargets = map[Event]models.PaymentStatus{
	EventVerifySucceeded:  models.PaymentStatusVerified,
	EventVerifyFailed:     models.PaymentStatusFailed,
	EventWebhookSucceeded: models.PaymentStatusCompleted,
	EventWebhookFailed:    models.PaymentStatusFailed,
}

// Transition computes the status a payment moves to when event arrives.
// Terminal statuses only accept transitions to terminal statuses, which makes
// webhook re-delivery idempotent while still rejecting anything that would
// reopen a resolved payment.
func Transition(current models.PaymentStatus, event Event) (models.PaymentStatus, error) {
	target, ok := eventTargets[event]
	if !ok {
		return current, fmt.Errorf("unknown payment event %q", event)
	}
	if current.Terminal() && !target.Terminal() {
		return current, fmt.Errorf("illegal transition from %s on %s", current, event)
	}
	return target, nil
}
