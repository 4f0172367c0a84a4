package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mihretab/staybook/internal/chapa"
	"github.com/mihretab/staybook/internal/handlers"
	"github.com/mihretab/staybook/internal/helpers"
	"github.com/mihretab/staybook/internal/middleware"
	"github.com/mihretab/staybook/internal/models"
	"github.com/mihretab/staybook/internal/notifier"
)

const testWebhookSecret = "whsec_test"

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	mailer   *fakeMailer
	notifier *notifier.Notifier
	verifier *helpers.WebhookVerifier
}

func newTestEnv(t *testing.T, chapaClient *chapa.Client) *testEnv {
	helpers.InitLogger()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Listing{}, &models.Booking{}, &models.Review{}, &models.Payment{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	if chapaClient == nil {
		chapaClient = chapa.NewClient(&chapa.Config{SecretKey: "sk_test", BaseURL: "http://127.0.0.1:1"})
	}
	verifier := helpers.NewWebhookVerifier(testWebhookSecret)

	mailer := &fakeMailer{}
	bookingNotifier := notifier.New(mailer, 8, 1)
	bookingNotifier.Start()

	router := gin.New()
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.ChapaMiddleware(chapaClient, verifier))
	router.Use(middleware.NotifierMiddleware(bookingNotifier))

	api := router.Group("/api")
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
	router.POST("/webhook/chapa", handlers.ChapaWebhook)

	return &testEnv{
		db:       db,
		router:   router,
		mailer:   mailer,
		notifier: bookingNotifier,
		verifier: verifier,
	}
}

func (env *testEnv) seedUser(t *testing.T, email string) *models.User {
	user := models.User{FirstName: "Abel", LastName: "Tesfaye", Email: email, Password: "x", PhoneNumber: "+251911000001"}
	assert.NoError(t, env.db.Create(&user).Error)
	return &user
}

func (env *testEnv) seedListing(t *testing.T, host *models.User) *models.Listing {
	listing := models.Listing{
		Title:         "Luxury Beach Villa",
		Description:   "Beautiful villa with ocean view",
		PropertyType:  "villa",
		Location:      "Miami Beach",
		PricePerNight: decimal.NewFromFloat(299.00),
		Bedrooms:      3,
		Bathrooms:     2,
		MaxGuests:     6,
		HostID:        host.ID,
	}
	assert.NoError(t, env.db.Create(&listing).Error)
	return &listing
}

// seedBooking creates a three-night stay at 299.00/night: total 897.00 ETB.
func (env *testEnv) seedBooking(t *testing.T, user *models.User, listing *models.Listing) *models.Booking {
	checkIn := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	booking := models.Booking{
		ListingID:    listing.ID,
		UserID:       user.ID,
		CheckInDate:  checkIn,
		CheckOutDate: checkIn.AddDate(0, 0, 3),
		TotalPrice:   decimal.NewFromFloat(897.00),
		Status:       models.BookingStatusPending,
	}
	assert.NoError(t, env.db.Create(&booking).Error)
	return &booking
}

func (env *testEnv) seedPayment(t *testing.T, booking *models.Booking) *models.Payment {
	payment := models.NewPayment(booking.ID, booking.TotalPrice, "ETB")
	assert.NoError(t, env.db.Create(payment).Error)
	return payment
}

func (env *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}
