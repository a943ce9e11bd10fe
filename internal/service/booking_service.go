package service

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/stripe/stripe-go/v74"
	"github.com/wandertours/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Stores and the gateway are consumed through interfaces so the booking flow
// can be exercised without Postgres or Stripe behind it.

type TourStore interface {
	GetByID(id uint) (*models.Tour, error)
}

type UserStore interface {
	GetByEmail(email string) (*models.User, error)
}

type BookingStore interface {
	Create(booking *models.Booking) error
	GetByID(id uint) (*models.Booking, error)
	GetByTourAndUser(tourID, userID uint) (*models.Booking, error)
	GetUserBookings(userID uint) ([]models.Booking, error)
	GetAll() ([]models.Booking, error)
	Update(booking *models.Booking) error
	Delete(id uint) error
}

type PaymentGateway interface {
	Configured() bool
	WebhookConfigured() bool
	CreateCheckoutSession(tour *models.Tour, customerEmail string) (*stripe.CheckoutSession, error)
	RetrieveCheckoutSession(sessionID string) (*stripe.CheckoutSession, error)
	VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error)
}

type ConfirmationSender interface {
	SendBookingConfirmation(to, tourName string, price float64) error
}

type BookingService struct {
	tours    TourStore
	users    UserStore
	bookings BookingStore
	gateway  PaymentGateway
	email    ConfirmationSender
	logger   *zap.Logger
}

func NewBookingService(
	tours TourStore,
	users UserStore,
	bookings BookingStore,
	gateway PaymentGateway,
	email ConfirmationSender,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tours:    tours,
		users:    users,
		bookings: bookings,
		gateway:  gateway,
		email:    email,
		logger:   logger,
	}
}

// CreateCheckoutSession opens a Stripe checkout session for the given tour on
// behalf of the authenticated buyer. No booking state is touched here; the
// booking is materialized later from the completed-payment notification.
func (s *BookingService) CreateCheckoutSession(tourID uint, customerEmail string) (*stripe.CheckoutSession, error) {
	if !s.gateway.Configured() {
		return nil, ErrPaymentNotConfigured
	}

	tour, err := s.tours.GetByID(tourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}

	session, err := s.gateway.CreateCheckoutSession(tour, customerEmail)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	return session, nil
}

// VerifyWebhook authenticates an inbound Stripe notification against the
// signing secret.
func (s *BookingService) VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error) {
	if !s.gateway.Configured() {
		return stripe.Event{}, ErrPaymentNotConfigured
	}
	if !s.gateway.WebhookConfigured() {
		return stripe.Event{}, ErrWebhookSecretNotConfigured
	}
	return s.gateway.VerifyWebhook(payload, signatureHeader)
}

// HandleWebhookEvent dispatches a verified Stripe event. Only completed
// checkout sessions feed the booking fulfillment; everything else is
// acknowledged and ignored.
func (s *BookingService) HandleWebhookEvent(event stripe.Event) {
	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			s.logger.Error("failed to decode checkout session from webhook event",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			return
		}
		s.FulfillCheckout(&session)
	default:
		s.logger.Debug("ignoring webhook event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
		)
	}
}

// ReconcileFromRedirect is the fallback path for deployments where webhook
// delivery is unavailable: when the buyer lands back on the site with a
// session_id, the session is fetched and, if paid, fulfilled. Every failure
// is swallowed so the landing page never breaks over a reconciliation hiccup.
func (s *BookingService) ReconcileFromRedirect(sessionID string) {
	if !s.gateway.Configured() {
		return
	}

	session, err := s.gateway.RetrieveCheckoutSession(sessionID)
	if err != nil {
		s.logger.Warn("failed to retrieve checkout session on redirect",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return
	}

	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return
	}

	s.FulfillCheckout(session)
}

// FulfillCheckout materializes a booking from a paid checkout session. It is
// called by both notification paths, which race under normal operation, so it
// must be safe to invoke any number of times for the same payment: the
// (tour, user) lookup short-circuits repeats, and the unique index on
// bookings(tour_id, user_id) closes the window where both paths pass the
// lookup before either inserts.
//
// Nothing here surfaces an error. Failing the webhook delivery or the landing
// page over a reconciliation problem is worse than dropping one booking, so
// every failure is logged and absorbed.
func (s *BookingService) FulfillCheckout(session *stripe.CheckoutSession) {
	email := session.CustomerEmail
	if email == "" && session.CustomerDetails != nil {
		// Retrieved sessions carry the buyer under customer_details.
		email = session.CustomerDetails.Email
	}

	tourID, err := strconv.ParseUint(session.ClientReferenceID, 10, 32)
	if err != nil {
		s.logger.Error("checkout session carries no usable tour reference",
			zap.String("session_id", session.ID),
			zap.String("client_reference_id", session.ClientReferenceID),
		)
		return
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		s.logger.Warn("no user found for checkout email, dropping booking",
			zap.String("session_id", session.ID),
			zap.String("email", email),
			zap.Error(err),
		)
		return
	}

	price := float64(session.AmountTotal) / 100

	if _, err := s.bookings.GetByTourAndUser(uint(tourID), user.ID); err == nil {
		s.logger.Info("booking already exists, skipping",
			zap.Uint64("tour_id", tourID),
			zap.Uint("user_id", user.ID),
		)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("booking lookup failed",
			zap.Uint64("tour_id", tourID),
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return
	}

	booking := &models.Booking{
		TourID: uint(tourID),
		UserID: user.ID,
		Price:  price,
		Paid:   true,
	}

	if err := s.bookings.Create(booking); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// The other notification path won the race past the lookup.
			s.logger.Info("booking already created by the other notification path",
				zap.Uint64("tour_id", tourID),
				zap.Uint("user_id", user.ID),
			)
			return
		}
		s.logger.Error("failed to create booking",
			zap.Uint64("tour_id", tourID),
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("booking created",
		zap.Uint64("tour_id", tourID),
		zap.Uint("user_id", user.ID),
		zap.Float64("price", price),
	)

	if s.email != nil {
		tour, err := s.tours.GetByID(uint(tourID))
		if err != nil {
			s.logger.Warn("booking created but tour lookup for confirmation email failed",
				zap.Uint64("tour_id", tourID),
				zap.Error(err),
			)
			return
		}
		if err := s.email.SendBookingConfirmation(email, tour.Name, price); err != nil {
			s.logger.Warn("failed to send booking confirmation",
				zap.String("email", email),
				zap.Error(err),
			)
		}
	}
}

func (s *BookingService) GetUserBookings(userID uint) ([]models.Booking, error) {
	return s.bookings.GetUserBookings(userID)
}

// Admin CRUD below. Manual creation enforces the same one-booking-per-tour-
// per-user rule as the payment flow.

func (s *BookingService) CreateBooking(req models.BookingRequest) (*models.Booking, error) {
	if _, err := s.bookings.GetByTourAndUser(req.TourID, req.UserID); err == nil {
		return nil, ErrBookingExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	booking := &models.Booking{
		TourID: req.TourID,
		UserID: req.UserID,
		Price:  req.Price,
		Paid:   req.Paid,
	}

	if err := s.bookings.Create(booking); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrBookingExists
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) GetAllBookings() ([]models.Booking, error) {
	return s.bookings.GetAll()
}

func (s *BookingService) GetBooking(id uint) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) UpdateBooking(id uint, req models.UpdateBookingRequest) (*models.Booking, error) {
	booking, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}

	if req.Price != nil {
		booking.Price = *req.Price
	}
	if req.Paid != nil {
		booking.Paid = *req.Paid
	}

	if err := s.bookings.Update(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) DeleteBooking(id uint) error {
	if _, err := s.GetBooking(id); err != nil {
		return err
	}
	return s.bookings.Delete(id)
}
