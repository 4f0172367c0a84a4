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

type ListingRequest struct {
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	PropertyType  string          `json:"property_type" binding:"required"`
	Location      string          `json:"location" binding:"required"`
	PricePerNight decimal.Decimal `json:"price_per_night" binding:"required"`
	Bedrooms      int             `json:"bedrooms" binding:"required,min=1"`
	Bathrooms     int             `json:"bathrooms" binding:"required,min=1"`
	MaxGuests     int             `json:"max_guests" binding:"required,min=1"`
	HostID        uuid.UUID       `json:"host_id" binding:"required"`
}

func CreateListing(c *gin.Context) {
	var listingReq ListingRequest
	if err := c.ShouldBindJSON(&listingReq); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var host models.User
	if err := gormDB.First(&host, "id = ?", listingReq.HostID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Host not found.")
		return
	}

	listing := models.Listing{
		ID:            uuid.New(),
		Title:         listingReq.Title,
		Description:   listingReq.Description,
		PropertyType:  listingReq.PropertyType,
		Location:      listingReq.Location,
		PricePerNight: listingReq.PricePerNight,
		Bedrooms:      listingReq.Bedrooms,
		Bathrooms:     listingReq.Bathrooms,
		MaxGuests:     listingReq.MaxGuests,
		HostID:        host.ID,
	}

	if err := gormDB.Create(&listing).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create listing.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Listing created successfully.",
		"listing_id": listing.ID,
	})
}

func GetListing(c *gin.Context) {
	listingID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var listing models.Listing
	if err := gormDB.Preload("Host").Preload("Reviews.User").Where("id = ?", listingID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Listing not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving listing.")
		return
	}

	c.JSON(http.StatusOK, listing)
}

func ListListings(c *gin.Context) {
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

	query := gormDB.Model(&models.Listing{})
	if location := c.Query("location"); location != "" {
		query = query.Where("location = ?", location)
	}
	if propertyType := c.Query("property_type"); propertyType != "" {
		query = query.Where("property_type = ?", propertyType)
	}

	var totalCount int64
	query.Count(&totalCount)

	var listings []models.Listing
	offset := (pageNum - 1) * limitNum
	err = query.Preload("Host").Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&listings).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving listings.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings":    listings,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func UpdateListing(c *gin.Context) {
	listingID := c.Param("id")

	var listingReq ListingRequest
	if err := c.ShouldBindJSON(&listingReq); err != nil {
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
	if err := gormDB.Where("id = ?", listingID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Listing not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding listing.")
		return
	}

	listing.Title = listingReq.Title
	listing.Description = listingReq.Description
	listing.PropertyType = listingReq.PropertyType
	listing.Location = listingReq.Location
	listing.PricePerNight = listingReq.PricePerNight
	listing.Bedrooms = listingReq.Bedrooms
	listing.Bathrooms = listingReq.Bathrooms
	listing.MaxGuests = listingReq.MaxGuests

	if err := gormDB.Save(&listing).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update listing.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Listing updated successfully.",
		"listing": listing,
	})
}

func DeleteListing(c *gin.Context) {
	listingID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	result := gormDB.Where("id = ?", listingID).Delete(&models.Listing{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete listing.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Listing not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Listing deleted successfully.",
	})
}
