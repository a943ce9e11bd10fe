package handler

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
	"github.com/wandertours/backend/internal/middleware"
	"github.com/wandertours/backend/internal/models"
	"github.com/wandertours/backend/internal/service"
	"github.com/wandertours/backend/pkg/jwt"
	"github.com/wandertours/backend/pkg/payment"
	"github.com/wandertours/backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testWebhookSecret = "whsec_test_secret"

// stub stores implementing the service interfaces

type stubTourStore struct {
	tours map[uint]*models.Tour
}

func (s *stubTourStore) GetByID(id uint) (*models.Tour, error) {
	tour, ok := s.tours[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tour, nil
}

type stubUserStore struct {
	users map[string]*models.User
}

func (s *stubUserStore) GetByEmail(email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type stubBookingStore struct {
	bookings []*models.Booking
}

func (s *stubBookingStore) Create(b *models.Booking) error {
	for _, existing := range s.bookings {
		if existing.TourID == b.TourID && existing.UserID == b.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	s.bookings = append(s.bookings, b)
	return nil
}

func (s *stubBookingStore) GetByID(id uint) (*models.Booking, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubBookingStore) GetByTourAndUser(tourID, userID uint) (*models.Booking, error) {
	for _, b := range s.bookings {
		if b.TourID == tourID && b.UserID == userID {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubBookingStore) GetUserBookings(userID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *stubBookingStore) GetAll() ([]models.Booking, error) { return nil, nil }
func (s *stubBookingStore) Update(*models.Booking) error      { return nil }
func (s *stubBookingStore) Delete(uint) error                 { return nil }

// stubGateway lets the fallback tests control session retrieval without
// touching the network
type stubGateway struct {
	session     *stripe.CheckoutSession
	retrieveErr error
}

func (g *stubGateway) Configured() bool        { return true }
func (g *stubGateway) WebhookConfigured() bool { return true }
func (g *stubGateway) CreateCheckoutSession(*models.Tour, string) (*stripe.CheckoutSession, error) {
	return nil, nil
}
func (g *stubGateway) RetrieveCheckoutSession(string) (*stripe.CheckoutSession, error) {
	if g.retrieveErr != nil {
		return nil, g.retrieveErr
	}
	return g.session, nil
}
func (g *stubGateway) VerifyWebhook([]byte, string) (stripe.Event, error) {
	return stripe.Event{}, nil
}

func fixtureStores() (*stubTourStore, *stubUserStore, *stubBookingStore) {
	tours := &stubTourStore{tours: map[uint]*models.Tour{
		1: {ID: 1, Name: "The Forest Hiker", Slug: "the-forest-hiker", Price: 49.99},
	}}
	users := &stubUserStore{users: map[string]*models.User{
		"u1@example.com": {ID: 7, Email: "u1@example.com", Role: models.RoleUser},
	}}
	return tours, users, &stubBookingStore{}
}

func newTestApp(svc *service.BookingService) *fiber.App {
	h := NewBookingHandler(svc, utils.NewValidator())

	app := fiber.New()
	api := app.Group("/api")
	api.Post("/bookings/webhook", h.HandleStripeWebhook)
	api.Use(middleware.AuthMiddleware())
	api.Get("/bookings/checkout-session/:tourId", h.CreateCheckoutSession)
	api.Get("/my-bookings", middleware.CheckoutFallback(svc), h.GetMyBookings)
	return app
}

func completedEventPayload(t *testing.T) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"id":   "evt_test_1",
		"type": "checkout.session.completed",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":                  "cs_test_123",
				"client_reference_id": "1",
				"customer_email":      "u1@example.com",
				"amount_total":        4999,
				"payment_status":      "paid",
			},
		},
	})
	require.NoError(t, err)
	return payload
}

func webhookRequest(payload []byte, secret string) *http.Request {
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, secret)
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig)))
	return req
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.GenerateToken("u1@example.com", 7, models.RoleUser)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHandleStripeWebhook_CompletedSessionCreatesBooking(t *testing.T) {
	tours, users, bookings := fixtureStores()
	gateway := payment.NewStripeGateway("sk_test_key", testWebhookSecret, "http://localhost:3000")
	svc := service.NewBookingService(tours, users, bookings, gateway, nil, zap.NewNop())
	app := newTestApp(svc)

	resp, err := app.Test(webhookRequest(completedEventPayload(t), testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"received":true}`, string(body))

	require.Len(t, bookings.bookings, 1)
	assert.Equal(t, uint(1), bookings.bookings[0].TourID)
	assert.Equal(t, uint(7), bookings.bookings[0].UserID)
	assert.Equal(t, 49.99, bookings.bookings[0].Price)
}

func TestHandleStripeWebhook_BadSignature(t *testing.T) {
	tours, users, bookings := fixtureStores()
	gateway := payment.NewStripeGateway("sk_test_key", testWebhookSecret, "http://localhost:3000")
	svc := service.NewBookingService(tours, users, bookings, gateway, nil, zap.NewNop())
	app := newTestApp(svc)

	// signed with the wrong secret
	resp, err := app.Test(webhookRequest(completedEventPayload(t), "whsec_wrong"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Webhook Error")
	assert.Empty(t, bookings.bookings)
}

func TestHandleStripeWebhook_IgnoredEventStillAcknowledged(t *testing.T) {
	tours, users, bookings := fixtureStores()
	gateway := payment.NewStripeGateway("sk_test_key", testWebhookSecret, "http://localhost:3000")
	svc := service.NewBookingService(tours, users, bookings, gateway, nil, zap.NewNop())
	app := newTestApp(svc)

	payload, err := json.Marshal(map[string]interface{}{
		"id":   "evt_test_2",
		"type": "invoice.paid",
		"data": map[string]interface{}{"object": map[string]interface{}{"id": "in_123"}},
	})
	require.NoError(t, err)

	resp, err := app.Test(webhookRequest(payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, bookings.bookings)
}

func TestHandleStripeWebhook_NotConfigured(t *testing.T) {
	tours, users, bookings := fixtureStores()
	gateway := payment.NewStripeGateway("", "", "http://localhost:3000")
	svc := service.NewBookingService(tours, users, bookings, gateway, nil, zap.NewNop())
	app := newTestApp(svc)

	resp, err := app.Test(webhookRequest(completedEventPayload(t), testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHandleStripeWebhook_MissingSecret(t *testing.T) {
	tours, users, bookings := fixtureStores()
	gateway := payment.NewStripeGateway("sk_test_key", "", "http://localhost:3000")
	svc := service.NewBookingService(tours, users, bookings, gateway, nil, zap.NewNop())
	app := newTestApp(svc)

	resp, err := app.Test(webhookRequest(completedEventPayload(t), testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, bookings.bookings)
}

func TestCreateCheckoutSession_TourNotFound(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	tours, users, bookings := fixtureStores()
	gateway := payment.NewStripeGateway("sk_test_key", testWebhookSecret, "http://localhost:3000")
	svc := service.NewBookingService(tours, users, bookings, gateway, nil, zap.NewNop())
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/checkout-session/99", nil)
	req.Header.Set("Authorization", bearerToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateCheckoutSession_PaymentNotConfigured(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	tours, users, bookings := fixtureStores()
	gateway := payment.NewStripeGateway("<your stripe key here>", "", "http://localhost:3000")
	svc := service.NewBookingService(tours, users, bookings, gateway, nil, zap.NewNop())
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/checkout-session/1", nil)
	req.Header.Set("Authorization", bearerToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestGetMyBookings_FallbackErrorStillResponds(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	tours, users, bookings := fixtureStores()
	bookings.bookings = append(bookings.bookings, &models.Booking{ID: 1, TourID: 1, UserID: 7, Price: 49.99})
	gateway := &stubGateway{retrieveErr: fmt.Errorf("network timeout")}
	svc := service.NewBookingService(tours, users, bookings, gateway, nil, zap.NewNop())
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/my-bookings?session_id=cs_test_123", nil)
	req.Header.Set("Authorization", bearerToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope models.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
}

func TestGetMyBookings_FallbackCreatesBooking(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	tours, users, bookings := fixtureStores()
	gateway := &stubGateway{session: &stripe.CheckoutSession{
		ID:                "cs_test_123",
		ClientReferenceID: "1",
		CustomerEmail:     "u1@example.com",
		AmountTotal:       4999,
		PaymentStatus:     stripe.CheckoutSessionPaymentStatusPaid,
	}}
	svc := service.NewBookingService(tours, users, bookings, gateway, nil, zap.NewNop())
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/my-bookings?session_id=cs_test_123", nil)
	req.Header.Set("Authorization", bearerToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, bookings.bookings, 1)
	assert.Equal(t, 49.99, bookings.bookings[0].Price)
}
