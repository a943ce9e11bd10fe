package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wandertours/backend/internal/models"
	"github.com/wandertours/backend/internal/service"
	"github.com/wandertours/backend/pkg/utils"
)

type BookingHandler struct {
	bookingService *service.BookingService
	validator      *utils.Validator
}

func NewBookingHandler(bookingService *service.BookingService, validator *utils.Validator) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		validator:      validator,
	}
}

// CreateCheckoutSession opens a Stripe checkout session for the tour in the
// path and hands the session object back to the frontend, which redirects the
// buyer to Stripe's hosted page.
func (h *BookingHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	tourID, err := strconv.ParseUint(c.Params("tourId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid tour ID"))
	}

	userEmail, ok := c.Locals("userEmail").(string)
	if !ok || userEmail == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	session, err := h.bookingService.CreateCheckoutSession(uint(tourID), userEmail)
	if err != nil {
		var upstream *service.UpstreamError
		switch {
		case errors.Is(err, service.ErrTourNotFound):
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrPaymentNotConfigured):
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Payment system is not configured. Please contact the administrator."))
		case errors.As(err, &upstream):
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(upstream.Error()))
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
		}
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"session": session,
	})
}

// HandleStripeWebhook is the asynchronous notification path. The body must
// stay raw for signature verification. Once the signature checks out the
// delivery is acknowledged no matter what reconciliation does with it, so
// Stripe never retries over a downstream hiccup.
func (h *BookingHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := h.bookingService.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotConfigured) {
			return c.Status(fiber.StatusInternalServerError).SendString("Stripe is not configured")
		}
		return c.Status(fiber.StatusBadRequest).SendString(fmt.Sprintf("Webhook Error: %v", err))
	}

	h.bookingService.HandleWebhookEvent(event)

	return c.JSON(fiber.Map{"received": true})
}

func (h *BookingHandler) GetMyBookings(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	bookings, err := h.bookingService.GetUserBookings(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(bookings, ""))
}

// Admin endpoints

func (h *BookingHandler) GetAllBookings(c *fiber.Ctx) error {
	bookings, err := h.bookingService.GetAllBookings()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}
	return c.JSON(models.SuccessResponse(bookings, ""))
}

func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid booking ID"))
	}

	booking, err := h.bookingService.GetBooking(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}
	return c.JSON(models.SuccessResponse(booking, ""))
}

func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	var req models.BookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	booking, err := h.bookingService.CreateBooking(req)
	if err != nil {
		if errors.Is(err, service.ErrBookingExists) {
			return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(booking, "Booking created successfully"))
}

func (h *BookingHandler) UpdateBooking(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid booking ID"))
	}

	var req models.UpdateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	booking, err := h.bookingService.UpdateBooking(uint(id), req)
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}
	return c.JSON(models.SuccessResponse(booking, "Booking updated successfully"))
}

func (h *BookingHandler) DeleteBooking(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid booking ID"))
	}

	if err := h.bookingService.DeleteBooking(uint(id)); err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}
	return c.JSON(models.SuccessResponse(nil, "Booking deleted successfully"))
}
