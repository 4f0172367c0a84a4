package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus is the lifecycle state of one payment attempt. A payment
// leaves "pending" through either an explicit verify call or a provider
// webhook and never returns to it.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusVerified  PaymentStatus = "verified"
)

// Terminal reports whether no further transition away from s is modeled.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusVerified:
		return true
	}
	return false
}

type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Reference     string          `gorm:"uniqueIndex;not null" json:"reference"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency      string          `gorm:"size:3;not null;default:'ETB'" json:"currency"`
	Status        PaymentStatus   `gorm:"size:20;not null;default:'pending';index" json:"status"`
	TransactionID *string         `gorm:"size:255" json:"transaction_id"`
	PaymentURL    *string         `gorm:"size:500" json:"payment_url"`
	Version       int             `gorm:"not null;default:0" json:"-"`
	BookingID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"booking_id"`
	Booking       *Booking        `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (payment *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.Reference == "" {
		payment.Reference = uuid.New().String()
	}
	return
}

// NewPayment builds a pending payment for a booking's total. The reference is
// assigned on create and used as the provider transaction reference.
func NewPayment(bookingID uuid.UUID, amount decimal.Decimal, currency string) *Payment {
	return &Payment{
		ID:        uuid.New(),
		Reference: uuid.New().String(),
		Amount:    amount,
		Currency:  currency,
		Status:    PaymentStatusPending,
		BookingID: bookingID,
	}
}
