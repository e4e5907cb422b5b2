package main

import (
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/clinvite/clinvite_backend/config"
	"github.com/clinvite/clinvite_backend/controllers"
	"github.com/clinvite/clinvite_backend/middleware"
	"github.com/clinvite/clinvite_backend/repositories"
	"github.com/clinvite/clinvite_backend/routes"
	"github.com/clinvite/clinvite_backend/services"
	"github.com/clinvite/clinvite_backend/utils"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		utils.Logger.Println("Warning: .env file not found")
	}

	utils.InitLogger("clinvite")

	cfg, err := config.Load()
	if err != nil {
		utils.Logger.Fatalf("Configuration error: %v", err)
	}
	if cfg.OTPStaticCode {
		utils.Logger.Warn("Static OTP mode enabled; every login accepts code 123456. Never use in production.")
	}

	// Connect to database and Redis
	pool := config.ConnectDB(cfg)
	defer pool.Close()
	redisClient := config.ConnectRedis(cfg)

	clock := utils.RealClock{}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(pool)
	otpRepo := repositories.NewOTPRepository(pool)
	sessionRepo := repositories.NewSessionRepository(pool)
	inviteRepo := repositories.NewInviteRepository(pool)
	lookupRepo := repositories.NewLookupRepository(pool)

	// Initialize services
	delivery := services.NewDelivery(cfg)
	otpService := services.NewOTPService(otpRepo, clock, services.OTPOptions{
		CodeLength: cfg.OTPCodeLength,
		Expiry:     cfg.OTPExpiry,
		StaticCode: cfg.OTPStaticCode,
	})
	authService := services.NewAuthService(sessionRepo, userRepo, clock, cfg.JWTSecret, cfg.SessionExpiry)
	inviteService := services.NewInviteService(inviteRepo, delivery, clock)

	// Create a new Echo instance
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	// Middleware
	rateLimiter := middleware.NewRateLimiter()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeaders())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Clinvite backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Initialize controllers
	authController := controllers.NewAuthController(cfg, userRepo, otpService, authService, delivery, redisClient, clock)
	userController := controllers.NewUserController(userRepo)
	inviteController := controllers.NewInviteController(cfg, inviteService, lookupRepo)

	// Register routes
	routes.RegisterAuthRoutes(e, authService, authController)
	routes.RegisterUserRoutes(e, authService, userController)
	routes.RegisterInviteRoutes(e, authService, inviteController)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
