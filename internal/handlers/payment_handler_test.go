package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mihretab/staybook/internal/chapa"
	"github.com/mihretab/staybook/internal/models"
)

func TestInitiatePayment_Success(t *testing.T) {
	var gotPayload map[string]interface{}
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`{"status":"success","message":"Hosted Link","data":{"checkout_url":"https://pay.example/abc"}}`))
	}))
	defer provider.Close()

	env := newTestEnv(t, chapa.NewClient(&chapa.Config{SecretKey: "sk_test", BaseURL: provider.URL}))
	defer env.notifier.Stop()

	user := env.seedUser(t, "guest@example.com")
	listing := env.seedListing(t, user)
	booking := env.seedBooking(t, user, listing)
	payment := env.seedPayment(t, booking)

	req, _ := http.NewRequest("POST", "/api/payments/"+payment.ID.String()+"/initiate_payment", nil)
	w := env.serve(req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "https://pay.example/abc", resp["payment_url"])

	// Provider payload carries the reference, formatted amount and a capped title.
	assert.Equal(t, payment.Reference, gotPayload["tx_ref"])
	assert.Equal(t, "897.00", gotPayload["amount"])
	assert.Equal(t, "ETB", gotPayload["currency"])
	assert.Equal(t, "guest@example.com", gotPayload["email"])
	customization := gotPayload["customization"].(map[string]interface{})
	assert.LessOrEqual(t, len(customization["title"].(string)), 16)
	assert.Contains(t, customization["description"].(string), "2026-09-01")

	var stored models.Payment
	assert.NoError(t, env.db.First(&stored, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)
	assert.NotNil(t, stored.PaymentURL)
	assert.Equal(t, "https://pay.example/abc", *stored.PaymentURL)
	assert.Nil(t, stored.TransactionID)
}

func TestInitiatePayment_EmailFallback(t *testing.T) {
	var gotPayload map[string]interface{}
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`{"status":"success","data":{"checkout_url":"https://pay.example/abc"}}`))
	}))
	defer provider.Close()

	env := newTestEnv(t, chapa.NewClient(&chapa.Config{SecretKey: "sk_test", BaseURL: provider.URL}))
	defer env.notifier.Stop()

	user := env.seedUser(t, "")
	listing := env.seedListing(t, user)
	booking := env.seedBooking(t, user, listing)
	payment := env.seedPayment(t, booking)

	req, _ := http.NewRequest("POST", "/api/payments/"+payment.ID.String()+"/initiate_payment", nil)
	w := env.serve(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test@gmail.com", gotPayload["email"])
}

func TestInitiatePayment_ProviderRejected(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"failed","message":"Invalid currency"}`))
	}))
	defer provider.Close()

	env := newTestEnv(t, chapa.NewClient(&chapa.Config{SecretKey: "sk_test", BaseURL: provider.URL}))
	defer env.notifier.Stop()

	user := env.seedUser(t, "guest@example.com")
	listing := env.seedListing(t, user)
	booking := env.seedBooking(t, user, listing)
	payment := env.seedPayment(t, booking)

	req, _ := http.NewRequest("POST", "/api/payments/"+payment.ID.String()+"/initiate_payment", nil)
	w := env.serve(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
	assert.NotNil(t, resp["details"])

	var stored models.Payment
	assert.NoError(t, env.db.First(&stored, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)
}

func TestInitiatePayment_ProviderUnreachable(t *testing.T) {
	env := newTestEnv(t, nil)
	defer env.notifier.Stop()

	user := env.seedUser(t, "guest@example.com")
	listing := env.seedListing(t, user)
	booking := env.seedBooking(t, user, listing)
	payment := env.seedPayment(t, booking)

	req, _ := http.NewRequest("POST", "/api/payments/"+payment.ID.String()+"/initiate_payment", nil)
	w := env.serve(req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var stored models.Payment
	assert.NoError(t, env.db.First(&stored, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)
}

func TestVerifyPayment_Success(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":{"status":"success","reference":"trx_123"}}`))
	}))
	defer provider.Close()

	env := newTestEnv(t, chapa.NewClient(&chapa.Config{SecretKey: "sk_test", BaseURL: provider.URL}))

	user := env.seedUser(t, "guest@example.com")
	listing := env.seedListing(t, user)
	booking := env.seedBooking(t, user, listing)
	payment := env.seedPayment(t, booking)

	req, _ := http.NewRequest("POST", "/api/payments/"+payment.ID.String()+"/verify_payment", nil)
	w := env.serve(req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "Payment verified successfully", resp["message"])

	var stored models.Payment
	assert.NoError(t, env.db.First(&stored, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentStatusVerified, stored.Status)

	var storedBooking models.Booking
	assert.NoError(t, env.db.First(&storedBooking, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingStatusConfirmed, storedBooking.Status)

	env.notifier.Stop()
	assert.Equal(t, 1, env.mailer.count())
}

func TestVerifyPayment_ProviderDeclaredFailure(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"failed","message":"Transaction not settled"}`))
	}))
	defer provider.Close()

	env := newTestEnv(t, chapa.NewClient(&chapa.Config{SecretKey: "sk_test", BaseURL: provider.URL}))
	defer env.notifier.Stop()

	user := env.seedUser(t, "guest@example.com")
	listing := env.seedListing(t, user)
	booking := env.seedBooking(t, user, listing)
	payment := env.seedPayment(t, booking)

	req, _ := http.NewRequest("POST", "/api/payments/"+payment.ID.String()+"/verify_payment", nil)
	w := env.serve(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A provider-declared failure is a genuine transition, not just a report.
	var stored models.Payment
	assert.NoError(t, env.db.First(&stored, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentStatusFailed, stored.Status)

	var storedBooking models.Booking
	assert.NoError(t, env.db.First(&storedBooking, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingStatusPending, storedBooking.Status)
}

func TestVerifyPayment_ProviderUnreachable(t *testing.T) {
	env := newTestEnv(t, nil)
	defer env.notifier.Stop()

	user := env.seedUser(t, "guest@example.com")
	listing := env.seedListing(t, user)
	booking := env.seedBooking(t, user, listing)
	payment := env.seedPayment(t, booking)

	req, _ := http.NewRequest("POST", "/api/payments/"+payment.ID.String()+"/verify_payment", nil)
	w := env.serve(req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// Transport failure is not a payment failure.
	var stored models.Payment
	assert.NoError(t, env.db.First(&stored, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)
}

func TestVerifyPayment_MissingReference(t *testing.T) {
	var calls int64
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer provider.Close()

	env := newTestEnv(t, chapa.NewClient(&chapa.Config{SecretKey: "sk_test", BaseURL: provider.URL}))
	defer env.notifier.Stop()

	user := env.seedUser(t, "guest@example.com")
	listing := env.seedListing(t, user)
	booking := env.seedBooking(t, user, listing)
	payment := env.seedPayment(t, booking)
	assert.NoError(t, env.db.Model(&models.Payment{}).Where("id = ?", payment.ID).Update("reference", "").Error)

	req, _ := http.NewRequest("POST", "/api/payments/"+payment.ID.String()+"/verify_payment", nil)
	w := env.serve(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "No reference found for this payment", resp["message"])
	assert.Equal(t, int64(0), atomic.LoadInt64(&calls))
}

func TestGetPayment_NotFound(t *testing.T) {
	env := newTestEnv(t, nil)
	defer env.notifier.Stop()

	req, _ := http.NewRequest("GET", "/api/payments/00000000-0000-0000-0000-000000000000", nil)
	w := env.serve(req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPayment(t *testing.T) {
	env := newTestEnv(t, nil)
	defer env.notifier.Stop()

	user := env.seedUser(t, "guest@example.com")
	listing := env.seedListing(t, user)
	booking := env.seedBooking(t, user, listing)
	payment := env.seedPayment(t, booking)

	req, _ := http.NewRequest("GET", "/api/payments/"+payment.ID.String(), nil)
	w := env.serve(req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, payment.Reference, resp["reference"])
	assert.Equal(t, "pending", resp["status"])
}

func postJSON(env *testEnv, url string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return env.serve(req)
}

func postPut(env *testEnv, url string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("PUT", url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return env.serve(req)
}
