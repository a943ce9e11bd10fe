package service

import (
	"github.com/stripe/stripe-go/v74"
	"github.com/wandertours/backend/internal/models"
	"gorm.io/gorm"
)

// mockTourStore implements TourStore for testing
type mockTourStore struct {
	tours map[uint]*models.Tour
	err   error
}

func (m *mockTourStore) GetByID(id uint) (*models.Tour, error) {
	if m.err != nil {
		return nil, m.err
	}
	tour, ok := m.tours[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tour, nil
}

// mockUserStore implements UserStore for testing
type mockUserStore struct {
	users map[string]*models.User
	err   error
}

func (m *mockUserStore) GetByEmail(email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

// mockBookingStore implements BookingStore for testing
type mockBookingStore struct {
	bookings  []*models.Booking
	lookupErr error // overrides GetByTourAndUser when set
	createErr error // overrides Create when set
	created   []*models.Booking
}

func (m *mockBookingStore) Create(booking *models.Booking) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, b := range m.bookings {
		if b.TourID == booking.TourID && b.UserID == booking.UserID {
			// what the composite unique index would do
			return gorm.ErrDuplicatedKey
		}
	}
	m.bookings = append(m.bookings, booking)
	m.created = append(m.created, booking)
	return nil
}

func (m *mockBookingStore) GetByID(id uint) (*models.Booking, error) {
	for _, b := range m.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookingStore) GetByTourAndUser(tourID, userID uint) (*models.Booking, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	for _, b := range m.bookings {
		if b.TourID == tourID && b.UserID == userID {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookingStore) GetUserBookings(userID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBookingStore) GetAll() ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockBookingStore) Update(booking *models.Booking) error {
	return nil
}

func (m *mockBookingStore) Delete(id uint) error {
	kept := m.bookings[:0]
	for _, b := range m.bookings {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	m.bookings = kept
	return nil
}

// mockGateway implements PaymentGateway for testing
type mockGateway struct {
	configured        bool
	webhookConfigured bool
	session           *stripe.CheckoutSession
	createErr         error
	retrieveErr       error
	verifyEvent       stripe.Event
	verifyErr         error
	createdForTour    *models.Tour
	retrievedID       string
}

func (m *mockGateway) Configured() bool {
	return m.configured
}

func (m *mockGateway) WebhookConfigured() bool {
	return m.webhookConfigured
}

func (m *mockGateway) CreateCheckoutSession(tour *models.Tour, customerEmail string) (*stripe.CheckoutSession, error) {
	m.createdForTour = tour
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.session, nil
}

func (m *mockGateway) RetrieveCheckoutSession(sessionID string) (*stripe.CheckoutSession, error) {
	m.retrievedID = sessionID
	if m.retrieveErr != nil {
		return nil, m.retrieveErr
	}
	return m.session, nil
}

func (m *mockGateway) VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error) {
	return m.verifyEvent, m.verifyErr
}

// mockConfirmationSender implements ConfirmationSender for testing
type mockConfirmationSender struct {
	sentTo []string
	err    error
}

func (m *mockConfirmationSender) SendBookingConfirmation(to, tourName string, price float64) error {
	m.sentTo = append(m.sentTo, to)
	return m.err
}
