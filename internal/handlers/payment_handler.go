package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mihretab/staybook/internal/chapa"
	"github.com/mihretab/staybook/internal/helpers"
	"github.com/mihretab/staybook/internal/middleware"
	"github.com/mihretab/staybook/internal/models"
	"github.com/mihretab/staybook/internal/payments"
	"gorm.io/gorm"
)

// placeholderEmail stands in when the booking's user has no address; the
// provider rejects payloads without one.
const placeholderEmail = "test@gmail.com"

func GetPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid payment ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var payment models.Payment
	if err := gormDB.Preload("Booking").First(&payment, "id = ?", paymentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Payment not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payment.")
		return
	}

	c.JSON(http.StatusOK, payment)
}

func InitiatePayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid payment ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var payment models.Payment
	if err := gormDB.Preload("Booking.User").Preload("Booking.Listing").First(&payment, "id = ?", paymentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Payment not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payment.")
		return
	}

	initiatePayment(c, gormDB, &payment)
}

// initiatePayment registers payment with the provider and stores the returned
// checkout details. Shared by the payment and booking initiate endpoints.
func initiatePayment(c *gin.Context, gormDB *gorm.DB, payment *models.Payment) {
	booking := payment.Booking
	if booking == nil || booking.User == nil || booking.Listing == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment is missing its booking details.")
		return
	}

	chapaClient := middleware.GetChapaClient(c)
	if chapaClient == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment gateway not configured.")
		return
	}

	email := booking.User.Email
	if email == "" {
		email = placeholderEmail
	}

	baseURL := requestBaseURL(c)
	initReq := &chapa.InitializeRequest{
		TxRef:       payment.Reference,
		Amount:      payment.Amount.StringFixed(2),
		Currency:    payment.Currency,
		Email:       email,
		FirstName:   booking.User.FirstName,
		LastName:    booking.User.LastName,
		CallbackURL: fmt.Sprintf("%s/api/payments/%s/verify_payment", baseURL, payment.ID),
		ReturnURL:   fmt.Sprintf("%s/api/bookings/%s", baseURL, booking.ID),
		Customization: chapa.Customization{
			Title: helpers.TruncateString(fmt.Sprintf("BkngPay-%s", booking.ID), 16),
			Description: fmt.Sprintf(
				"Payment for booking from %s to %s",
				helpers.FormatDate(booking.CheckInDate),
				helpers.FormatDate(booking.CheckOutDate),
			),
		},
	}

	data, err := chapaClient.Initialize(initReq)
	if err != nil {
		respondGatewayError(c, err, "Failed to initiate payment")
		return
	}

	updates := map[string]interface{}{}
	if data.TransactionID != "" {
		payment.TransactionID = &data.TransactionID
		updates["transaction_id"] = data.TransactionID
	}
	if data.CheckoutURL != "" {
		payment.PaymentURL = &data.CheckoutURL
		updates["payment_url"] = data.CheckoutURL
	}
	if len(updates) > 0 {
		if err := gormDB.Model(payment).Updates(updates).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to store payment details.")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"message":     "Payment initiated successfully",
		"payment_url": payment.PaymentURL,
	})
}

func VerifyPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid payment ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var payment models.Payment
	if err := gormDB.Preload("Booking.User").Preload("Booking.Listing").First(&payment, "id = ?", paymentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Payment not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payment.")
		return
	}

	if payment.Reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "No reference found for this payment",
		})
		return
	}

	chapaClient := middleware.GetChapaClient(c)
	if chapaClient == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment gateway not configured.")
		return
	}

	if _, err := chapaClient.Verify(payment.Reference); err != nil {
		if chapa.IsRejected(err) {
			// The provider answered and said no: record the failure.
			if _, applyErr := payments.Apply(gormDB, payment.ID, payments.EventVerifyFailed, ""); applyErr != nil {
				helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment failure.")
				return
			}
		}
		respondGatewayError(c, err, "Payment verification failed")
		return
	}

	updated, err := payments.Apply(gormDB, payment.ID, payments.EventVerifySucceeded, "")
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment verification.")
		return
	}

	if updated.Status == models.PaymentStatusVerified {
		notifyBookingConfirmed(c, payment.Booking)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Payment verified successfully",
	})
}

// respondGatewayError maps gateway error kinds to the API's status codes:
// provider rejection 400, transport failure 503.
func respondGatewayError(c *gin.Context, err error, message string) {
	var gwErr *chapa.Error
	details := interface{}(err.Error())
	code := http.StatusBadRequest
	if errors.As(err, &gwErr) {
		details = gwErr.Details
		if gwErr.Kind == chapa.ErrKindUnavailable {
			code = http.StatusServiceUnavailable
			message = "Failed to connect to payment service"
		}
	}

	c.JSON(code, gin.H{
		"status":  "error",
		"message": message,
		"details": details,
	})
}

// notifyBookingConfirmed queues the confirmation email. Enqueue failures are
// logged and swallowed; the payment resolution already happened.
func notifyBookingConfirmed(c *gin.Context, booking *models.Booking) {
	if booking == nil || booking.User == nil || booking.Listing == nil {
		return
	}

	n := middleware.GetNotifier(c)
	if n == nil {
		return
	}

	if err := n.NotifyBookingConfirmed(booking.ID, booking.User.Email, booking.Listing.Title); err != nil {
		if helpers.ErrorLogger != nil {
			helpers.ErrorLogger.Errorf("failed to queue confirmation email for booking %s: %v", booking.ID, err)
		}
	}
}

func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.Request.Host)
}
