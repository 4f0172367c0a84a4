package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	gorm.Model
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ListingID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"listing_id"`
	Listing      *Listing        `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CheckInDate  time.Time       `gorm:"not null" json:"check_in_date"`
	CheckOutDate time.Time       `gorm:"not null" json:"check_out_date"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Status       string          `gorm:"not null;default:'pending'" json:"status"`
	Payments     []Payment       `gorm:"foreignKey:BookingID" json:"payments,omitempty"`
}

func (booking *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	return
}
