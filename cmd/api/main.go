package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/wandertours/backend/internal/config"
	"github.com/wandertours/backend/internal/handler"
	"github.com/wandertours/backend/internal/middleware"
	"github.com/wandertours/backend/internal/models"
	"github.com/wandertours/backend/internal/repository"
	"github.com/wandertours/backend/internal/service"
	"github.com/wandertours/backend/pkg/database"
	"github.com/wandertours/backend/pkg/email"
	"github.com/wandertours/backend/pkg/logger"
	"github.com/wandertours/backend/pkg/payment"
	"github.com/wandertours/backend/pkg/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.LoadConfig()

	zapLogger := logger.New()
	defer zapLogger.Sync()

	// Initialize database
	db := database.NewDatabase(cfg.DatabaseURL)

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tourRepo := repository.NewTourRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// Email service
	emailService := email.NewEmailService(cfg.Email, zapLogger)

	// Stripe gateway, configured once at startup and injected everywhere
	stripeGateway := payment.NewStripeGateway(
		cfg.Stripe.SecretKey,
		cfg.Stripe.WebhookSecret,
		cfg.PublicURL,
	)

	// Services
	authService := service.NewAuthService(userRepo, emailService, zapLogger)
	userService := service.NewUserService(userRepo)
	tourService := service.NewTourService(tourRepo, userRepo)
	bookingService := service.NewBookingService(
		tourRepo,
		userRepo,
		bookingRepo,
		stripeGateway,
		emailService,
		zapLogger,
	)

	validator := utils.NewValidator()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validator)
	userHandler := handler.NewUserHandler(userService)
	tourHandler := handler.NewTourHandler(tourService, userService, validator)
	bookingHandler := handler.NewBookingHandler(bookingService, validator)

	// Router
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.PublicURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Stripe-Signature",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	api.Get("/tours", tourHandler.GetAllTours)
	api.Get("/tours/:slug", tourHandler.GetTourBySlug)

	// Stripe webhook (public, signature-verified)
	api.Post("/bookings/webhook", bookingHandler.HandleStripeWebhook)

	// Protected routes
	api.Use(middleware.AuthMiddleware())
	{
		user := api.Group("/user")
		user.Get("/profile", userHandler.GetMyProfile)

		api.Get("/bookings/checkout-session/:tourId", bookingHandler.CreateCheckoutSession)

		// The fallback poller runs before the listing so a buyer returning
		// from Stripe sees the booking even when webhook delivery is down.
		api.Get("/my-bookings", middleware.CheckoutFallback(bookingService), bookingHandler.GetMyBookings)

		// Admin routes
		adminOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleLeadGuide)
		api.Get("/guides", adminOnly, tourHandler.GetGuides)
		api.Post("/tours", adminOnly, tourHandler.CreateTour)
		api.Put("/tours/:id", adminOnly, tourHandler.UpdateTour)
		api.Delete("/tours/:id", adminOnly, tourHandler.DeleteTour)

		api.Get("/bookings", adminOnly, bookingHandler.GetAllBookings)
		api.Post("/bookings", adminOnly, bookingHandler.CreateBooking)
		api.Get("/bookings/:id", adminOnly, bookingHandler.GetBooking)
		api.Put("/bookings/:id", adminOnly, bookingHandler.UpdateBooking)
		api.Delete("/bookings/:id", adminOnly, bookingHandler.DeleteBooking)
	}

	log.Fatal(app.Listen(":" + cfg.Port))
}
