package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GPC-Itarsi/GPC-Itarsi/internal/config"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/handler"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/mailer"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/middleware"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/repository"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/service"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg := config.Load()
	if cfg.JWTSecretIsDefault {
		log.Println("WARNING: JWT_SECRET_KEY not set, using the insecure development default. Do NOT run this configuration in production.")
	}
	utils.BcryptCost = cfg.BcryptCost

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatalf("Failed to load DB config: %v", err)
	}

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(dbPool); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpirationHours)
	mail := mailer.New(cfg.SMTP)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)

	// --- Admin Bootstrap ---
	if err := service.BootstrapAdmin(context.Background(), userRepo, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail); err != nil {
		log.Fatalf("Failed to bootstrap admin user: %v", err)
	}

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil)
	resetService := service.NewResetService(userRepo, mail, cfg.OTPTTL, cfg.OTPGraceTTL, cfg.ResetProofTTL)
	userService := service.NewUserService(userRepo)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	resetHandler := handler.NewResetHandler(resetService)
	userHandler := handler.NewUserHandler(userService)

	// --- Setup Gin Router ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg.CORS))

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil, userRepo)
	adminRoleMW := middleware.AdminMiddleware()
	authRateMW := middleware.NewRateLimiter(1, 5).Middleware() // 1 req/s, burst 5 per IP

	// --- Register Routes ---
	apiGroup := router.Group("/api/v1")
	authHandler.RegisterAuthRoutes(apiGroup, jwtAuthMW, authRateMW)
	resetHandler.RegisterResetRoutes(apiGroup, authRateMW)
	userHandler.RegisterUserRoutes(apiGroup, jwtAuthMW, adminRoleMW)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
