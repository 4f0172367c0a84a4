package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mihretab/staybook/internal/helpers"
	"github.com/mihretab/staybook/internal/models"
	"gorm.io/gorm"
)

type ReviewRequest struct {
	UserID  uuid.UUID `json:"user_id" binding:"required"`
	Rating  int       `json:"rating" binding:"required,min=1,max=5"`
	Comment string    `json:"comment"`
}

func CreateReview(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid listing ID.")
		return
	}

	var reviewReq ReviewRequest
	if err := c.ShouldBindJSON(&reviewReq); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var listing models.Listing
	if err := gormDB.First(&listing, "id = ?", listingID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Listing not found.")
		return
	}

	var user models.User
	if err := gormDB.First(&user, "id = ?", reviewReq.UserID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	review := models.Review{
		ID:        uuid.New(),
		ListingID: listing.ID,
		UserID:    user.ID,
		Rating:    reviewReq.Rating,
		Comment:   reviewReq.Comment,
	}

	if err := gormDB.Create(&review).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create review.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Review created successfully.",
		"review_id": review.ID,
	})
}

func ListReviews(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid listing ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var reviews []models.Review
	if err := gormDB.Preload("User").Where("listing_id = ?", listingID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving reviews.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
	})
}
