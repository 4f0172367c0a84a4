package config

import (
	"time"

	"github.com/mihretab/staybook/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedDatabase fills an empty database with sample users, listings, bookings
// and reviews. Existing rows are kept, so running it twice is harmless.
func SeedDatabase(db *gorm.DB) error {
	users, err := seedUsers(db)
	if err != nil {
		return err
	}

	listings, err := seedListings(db, users[0])
	if err != nil {
		return err
	}

	return seedBookingsAndReviews(db, users, listings)
}

func seedUsers(db *gorm.DB) ([]models.User, error) {
	samples := []models.User{
		{FirstName: "Abel", LastName: "Tesfaye", Email: "user1@example.com", PhoneNumber: "+251911000001"},
		{FirstName: "Sara", LastName: "Bekele", Email: "user2@example.com", PhoneNumber: "+251911000002"},
	}

	users := make([]models.User, 0, len(samples))
	for _, sample := range samples {
		var user models.User
		result := db.Where("email = ?", sample.Email).First(&user)
		if result.Error == nil {
			users = append(users, user)
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		sample.Password = string(hashed)
		if err := db.Create(&sample).Error; err != nil {
			return nil, err
		}
		users = append(users, sample)
	}
	return users, nil
}

func seedListings(db *gorm.DB, host models.User) ([]models.Listing, error) {
	samples := []models.Listing{
		{
			Title:         "Luxury Beach Villa",
			Description:   "Beautiful villa with ocean view",
			PropertyType:  "villa",
			Location:      "Miami Beach",
			PricePerNight: decimal.NewFromFloat(299.99),
			Bedrooms:      3,
			Bathrooms:     2,
			MaxGuests:     6,
		},
		{
			Title:         "Mountain Cottage",
			Description:   "Cozy cottage in the mountains",
			PropertyType:  "cottage",
			Location:      "Aspen",
			PricePerNight: decimal.NewFromFloat(199.99),
			Bedrooms:      2,
			Bathrooms:     1,
			MaxGuests:     4,
		},
	}

	listings := make([]models.Listing, 0, len(samples))
	for _, sample := range samples {
		var listing models.Listing
		result := db.Where("title = ?", sample.Title).First(&listing)
		if result.Error == nil {
			listings = append(listings, listing)
			continue
		}

		sample.HostID = host.ID
		if err := db.Create(&sample).Error; err != nil {
			return nil, err
		}
		listings = append(listings, sample)
	}
	return listings, nil
}

func seedBookingsAndReviews(db *gorm.DB, users []models.User, listings []models.Listing) error {
	var count int64
	db.Model(&models.Booking{}).Count(&count)
	if count > 0 {
		return nil
	}

	checkIn := time.Now().AddDate(0, 0, 7)
	for i, listing := range listings {
		user := users[i%len(users)]
		nights := int64(3 + i)

		booking := models.Booking{
			ListingID:    listing.ID,
			UserID:       user.ID,
			CheckInDate:  checkIn,
			CheckOutDate: checkIn.AddDate(0, 0, int(nights)),
			TotalPrice:   listing.PricePerNight.Mul(decimal.NewFromInt(nights)),
			Status:       models.BookingStatusPending,
		}
		if err := db.Create(&booking).Error; err != nil {
			return err
		}

		review := models.Review{
			ListingID: listing.ID,
			UserID:    user.ID,
			Rating:    4 + i%2,
			Comment:   "Great stay, would book again.",
		}
		if err := db.Create(&review).Error; err != nil {
			return err
		}
	}
	return nil
}
