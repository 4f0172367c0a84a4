package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mihretab/staybook/config"
	"github.com/mihretab/staybook/internal/chapa"
	"github.com/mihretab/staybook/internal/handlers"
	"github.com/mihretab/staybook/internal/helpers"
	"github.com/mihretab/staybook/internal/middleware"
	"github.com/mihretab/staybook/internal/notifier"
	"gorm.io/gorm"
)

func Start() error {
	helpers.InitLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	if os.Getenv("SEED_DB") == "true" {
		if err := config.SeedDatabase(db); err != nil {
			return fmt.Errorf("failed to seed database: %v", err)
		}
	}

	chapaCfg, err := config.LoadChapaConfig()
	if err != nil {
		return fmt.Errorf("failed to load payment config: %v", err)
	}
	chapaClient := chapa.NewClient(chapaCfg)
	verifier := helpers.NewWebhookVerifier(chapaCfg.WebhookSecret)

	mailCfg, err := config.LoadMailConfig()
	if err != nil {
		return fmt.Errorf("failed to load mail config: %v", err)
	}
	mailer := notifier.NewSMTPMailer(mailCfg.Host, mailCfg.Port, mailCfg.Username, mailCfg.Password, mailCfg.From)
	bookingNotifier := notifier.New(mailer, 64, 2)
	bookingNotifier.Start()
	defer bookingNotifier.Stop()

	r := gin.Default()

	setupRoutes(r, db, chapaClient, verifier, bookingNotifier)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, chapaClient *chapa.Client, verifier *helpers.WebhookVerifier, bookingNotifier *notifier.Notifier) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.ChapaMiddleware(chapaClient, verifier))
	r.Use(middleware.NotifierMiddleware(bookingNotifier))

	api := r.Group("/api")
	{
		listings := api.Group("/listings")
		{
			listings.GET("", handlers.ListListings)
			listings.POST("", handlers.CreateListing)
			listings.GET("/:id", handlers.GetListing)
			listings.PUT("/:id", handlers.UpdateListing)
			listings.DELETE("/:id", handlers.DeleteListing)
			listings.GET("/:id/reviews", handlers.ListReviews)
			listings.POST("/:id/reviews", handlers.CreateReview)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", handlers.ListBookings)
			bookings.POST("", handlers.CreateBooking)
			bookings.GET("/:id", handlers.GetBooking)
			bookings.POST("/:id/initiate_payment", handlers.InitiateBookingPayment)
		}

		payments := api.Group("/payments")
		{
			payments.GET("/:id", handlers.GetPayment)
			payments.POST("/:id/initiate_payment", handlers.InitiatePayment)
			payments.POST("/:id/verify_payment", handlers.VerifyPayment)
		}
	}

	r.POST("/webhook/chapa", handlers.ChapaWebhook)
}
