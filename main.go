package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/rkaram/bankms_backend/config"
	"github.com/rkaram/bankms_backend/controllers"
	"github.com/rkaram/bankms_backend/middleware"
	"github.com/rkaram/bankms_backend/repositories"
	"github.com/rkaram/bankms_backend/routes"
	"github.com/rkaram/bankms_backend/services"
	"github.com/rkaram/bankms_backend/utils"
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
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis (optional, OTP request budget)
	redisClient := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Bank Management Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Initialize repositories
	userRepo := repositories.NewUserRepository(client)
	otpRepo := repositories.NewOTPRepository(client)

	// Initialize services
	otpService := services.NewOTPService(userRepo, otpRepo, utils.NewSMTPMailer(), otpTTL())
	authService := services.NewAuthService(userRepo)

	// Initialize controllers
	authController := controllers.NewAuthController(authService)
	otpController := controllers.NewEmailOTPController(otpService, redisClient)

	// Register routes
	routes.RegisterAuthRoutes(e, authController, otpController)
	routes.RegisterBankRoutes(e, client, "uploads")

	// Ensure uploads directory exists
	os.MkdirAll("uploads", 0755)
	e.Static("/uploads", "uploads")

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

// otpTTL reads the OTP lifetime from the environment, defaulting to 10 minutes
func otpTTL() time.Duration {
	if ttlStr := os.Getenv("OTP_TTL_MINUTES"); ttlStr != "" {
		if minutes, err := strconv.Atoi(ttlStr); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
		log.Printf("Warning: invalid OTP_TTL_MINUTES %q, using default", ttlStr)
	}
	return 10 * time.Minute
}
