package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mihretab/staybook/internal/helpers"
	"github.com/mihretab/staybook/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingRequest struct {
	ListingID    uuid.UUID `json:"listing_id" binding:"required"`
	UserID       uuid.UUID `json:"user_id" binding:"required"`
	CheckInDate  string    `json:"check_in_date" binding:"required"`
	CheckOutDate string    `json:"check_out_date" binding:"required"`
}

// CreateBooking creates a booking and a pending payment for its total in one
// step, so an initiate call always has a payment record to work with.
func CreateBooking(c *gin.Context) {
	var bookingReq BookingRequest
	if err := c.ShouldBindJSON(&bookingReq); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	checkIn, err := helpers.ParseDate(bookingReq.CheckInDate)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid check-in date format.")
		return
	}
	checkOut, err := helpers.ParseDate(bookingReq.CheckOutDate)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid check-out date format.")
		return
	}
	if !checkOut.After(checkIn) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Check-out date must be after check-in date.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var listing models.Listing
	if err := gormDB.First(&listing, "id = ?", bookingReq.ListingID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Listing not found.")
		return
	}

	var user models.User
	if err := gormDB.First(&user, "id = ?", bookingReq.UserID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	nights := int64(checkOut.Sub(checkIn).Hours() / 24)
	booking := models.Booking{
		ID:           uuid.New(),
		ListingID:    listing.ID,
		UserID:       user.ID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		TotalPrice:   listing.PricePerNight.Mul(decimal.NewFromInt(nights)),
		Status:       models.BookingStatusPending,
	}

	if err := gormDB.Create(&booking).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create booking.")
		return
	}

	payment := models.NewPayment(booking.ID, booking.TotalPrice, "ETB")
	if err := gormDB.Create(payment).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create payment record.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Booking created successfully.",
		"booking_id": booking.ID,
		"payment_id": payment.ID,
	})
}

func GetBooking(c *gin.Context) {
	bookingID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var booking models.Booking
	if err := gormDB.Preload("Listing").Preload("User").Preload("Payments").Where("id = ?", bookingID).First(&booking).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving booking.")
		return
	}

	c.JSON(http.StatusOK, booking)
}

func ListBookings(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")

	pageNum, err := helpers.StringToInt(page)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}
	limitNum, err := helpers.StringToInt(limit)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	query := gormDB.Model(&models.Booking{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var totalCount int64
	query.Count(&totalCount)

	var bookings []models.Booking
	offset := (pageNum - 1) * limitNum
	err = query.Preload("Listing").Preload("User").Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&bookings).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving bookings.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings":    bookings,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

// InitiateBookingPayment finds the booking's pending payment, creating one if
// none exists, and delegates to the payment initiation flow. Routing creation
// through here keeps at most one pending payment per booking.
func InitiateBookingPayment(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var booking models.Booking
	if err := gormDB.First(&booking, "id = ?", bookingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving booking.")
		return
	}

	var payment models.Payment
	err = gormDB.Where("booking_id = ? AND status = ?", booking.ID, models.PaymentStatusPending).First(&payment).Error
	if err == gorm.ErrRecordNotFound {
		payment = *models.NewPayment(booking.ID, booking.TotalPrice, "ETB")
		if err := gormDB.Create(&payment).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create payment record.")
			return
		}
	} else if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payment.")
		return
	}

	if err := gormDB.Preload("Booking.User").Preload("Booking.Listing").First(&payment, "id = ?", payment.ID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payment.")
		return
	}

	initiatePayment(c, gormDB, &payment)
}
