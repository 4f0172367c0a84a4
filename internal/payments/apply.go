package payments

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mihretab/staybook/internal/models"
	"gorm.io/gorm"
)

// ErrConflict is returned when concurrent resolvers kept invalidating the
// version check for every attempt.
var ErrConflict = errors.New("payment was modified concurrently")

const applyAttempts = 3

// Apply transitions a payment in response to event and persists the result.
// transactionID, when non-empty, is stored alongside the status (webhooks
// carry the provider's own reference). The update is guarded by a
// compare-and-swap on the version column so racing verify/webhook handlers
// serialize instead of silently clobbering each other.
//
// When the new status is completed or verified the owning booking is marked
// confirmed as part of the same call.
func Apply(db *gorm.DB, paymentID uuid.UUID, event Event, transactionID string) (*models.Payment, error) {
	var payment models.Payment

	for attempt := 0; attempt < applyAttempts; attempt++ {
		if err := db.First(&payment, "id = ?", paymentID).Error; err != nil {
			return nil, err
		}

		next, err := Transition(payment.Status, event)
		if err != nil {
			return nil, err
		}

		updates := map[string]interface{}{
			"status":  next,
			"version": payment.Version + 1,
		}
		if transactionID != "" {
			updates["transaction_id"] = transactionID
		}

		result := db.Model(&models.Payment{}).
			Where("id = ? AND version = ?", payment.ID, payment.Version).
			Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			// Lost the race, reload and retry against the fresh row.
			continue
		}

		payment.Status = next
		payment.Version++
		if transactionID != "" {
			payment.TransactionID = &transactionID
		}

		if next == models.PaymentStatusCompleted || next == models.PaymentStatusVerified {
			if err := confirmBooking(db, payment.BookingID); err != nil {
				return nil, fmt.Errorf("payment %s resolved but booking update failed: %v", payment.ID, err)
			}
		}
		return &payment, nil
	}

	return nil, ErrConflict
}

func confirmBooking(db *gorm.DB, bookingID uuid.UUID) error {
	return db.Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("status", models.BookingStatusConfirmed).Error
}
