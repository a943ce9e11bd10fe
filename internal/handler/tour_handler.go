package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wandertours/backend/internal/models"
	"github.com/wandertours/backend/internal/service"
	"github.com/wandertours/backend/pkg/utils"
)

type TourHandler struct {
	tourService *service.TourService
	userService *service.UserService
	validator   *utils.Validator
}

func NewTourHandler(tourService *service.TourService, userService *service.UserService, validator *utils.Validator) *TourHandler {
	return &TourHandler{
		tourService: tourService,
		userService: userService,
		validator:   validator,
	}
}

func (h *TourHandler) GetAllTours(c *fiber.Ctx) error {
	tours, err := h.tourService.GetAllTours()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}
	return c.JSON(models.SuccessResponse(tours, ""))
}

func (h *TourHandler) GetTourBySlug(c *fiber.Ctx) error {
	tour, err := h.tourService.GetTourBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, service.ErrTourNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("There is no tour with that name"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}
	return c.JSON(models.SuccessResponse(tour, ""))
}

func (h *TourHandler) CreateTour(c *fiber.Ctx) error {
	var req models.TourRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	tour, err := h.tourService.CreateTour(req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(tour, "Tour created successfully"))
}

func (h *TourHandler) UpdateTour(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid tour ID"))
	}

	var req models.UpdateTourRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	tour, err := h.tourService.UpdateTour(uint(id), req)
	if err != nil {
		if errors.Is(err, service.ErrTourNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}
	return c.JSON(models.SuccessResponse(tour, "Tour updated successfully"))
}

func (h *TourHandler) DeleteTour(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid tour ID"))
	}

	if err := h.tourService.DeleteTour(uint(id)); err != nil {
		if errors.Is(err, service.ErrTourNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}
	return c.JSON(models.SuccessResponse(nil, "Tour deleted successfully"))
}

func (h *TourHandler) GetGuides(c *fiber.Ctx) error {
	guides, err := h.userService.GetGuides()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}
	return c.JSON(models.SuccessResponse(guides, ""))
}
