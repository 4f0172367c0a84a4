package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mihretab/staybook/internal/helpers"
	"github.com/mihretab/staybook/internal/middleware"
	"github.com/mihretab/staybook/internal/models"
	"github.com/mihretab/staybook/internal/payments"
	"gorm.io/gorm"
)

type webhookPayload struct {
	TxRef     string `json:"tx_ref"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// ChapaWebhook handles the provider's payment callback. The signature covers
// the raw body, so it is checked before any parsing.
func ChapaWebhook(c *gin.Context) {
	verifier := middleware.GetWebhookVerifier(c)
	if verifier == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Webhook verifier not configured.")
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to read request body"})
		return
	}

	receivedSignature := c.GetHeader("x-chapa-signature")
	if receivedSignature == "" {
		receivedSignature = c.GetHeader("Chapa-Signature")
	}

	if !verifier.Verify(body, receivedSignature) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or missing signature"})
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.TxRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing tx_ref"})
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var payment models.Payment
	if err := gormDB.Preload("Booking.User").Preload("Booking.Listing").First(&payment, "reference = ?", payload.TxRef).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Payment not found"})
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payment.")
		return
	}

	event := payments.EventWebhookFailed
	if payload.Status == "success" {
		event = payments.EventWebhookSucceeded
	}

	if helpers.InfoLogger != nil {
		helpers.InfoLogger.Infof("webhook for tx_ref %s: provider status %q", payload.TxRef, payload.Status)
	}

	updated, err := payments.Apply(gormDB, payment.ID, event, payload.Reference)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to process webhook.")
		return
	}

	if updated.Status == models.PaymentStatusCompleted {
		notifyBookingConfirmed(c, payment.Booking)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Webhook processed successfully",
		"status":  updated.Status,
	})
}
