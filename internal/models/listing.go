package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Listing struct {
	gorm.Model
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Title         string          `gorm:"not null" json:"title"`
	Description   string          `gorm:"not null" json:"description"`
	PropertyType  string          `gorm:"not null" json:"property_type"`
	Location      string          `gorm:"not null" json:"location"`
	PricePerNight decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_per_night"`
	Bedrooms      int             `gorm:"not null" json:"bedrooms"`
	Bathrooms     int             `gorm:"not null" json:"bathrooms"`
	MaxGuests     int             `gorm:"not null" json:"max_guests"`
	HostID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"host_id"`
	Host          *User           `gorm:"foreignKey:HostID" json:"host,omitempty"`
	Reviews       []Review        `gorm:"foreignKey:ListingID" json:"reviews,omitempty"`
}

func (listing *Listing) BeforeCreate(tx *gorm.DB) (err error) {
	if listing.ID == uuid.Nil {
		listing.ID = uuid.New()
	}
	return
}
