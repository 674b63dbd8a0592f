package main

import (
	"log"
	"os"

	_ "github.com/SeptianProject/sirasa-sub000/api/swagger" // swagger docs
	"github.com/SeptianProject/sirasa-sub000/internal/database"
	"github.com/SeptianProject/sirasa-sub000/internal/handler"
	"github.com/SeptianProject/sirasa-sub000/internal/middleware"
	"github.com/SeptianProject/sirasa-sub000/internal/repository"
	"github.com/SeptianProject/sirasa-sub000/internal/service"
	"github.com/SeptianProject/sirasa-sub000/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           SIRASA API
// @version         1.0
// @description     Waste bank platform API: processed-waste submissions, point ledger and reward redemption.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "sirasa"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	bankRepo := repository.NewBankSampahRepository(db)
	rewardRepo := repository.NewRewardRepository(db)
	pointTxRepo := repository.NewPointTransactionRepository(db)
	redemptionRepo := repository.NewRedemptionRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	authService := service.NewAuthService(userRepo, tokenRepo)
	userService := service.NewUserService(userRepo, bankRepo, auditRepo, txManager)
	bankService := service.NewBankSampahService(bankRepo, auditRepo, txManager)
	rewardService := service.NewRewardService(rewardRepo, userRepo, auditRepo, txManager)
	pointService := service.NewPointService(pointTxRepo, redemptionRepo, rewardRepo, auditRepo, txManager, wsHub)
	submissionService := service.NewSubmissionService(submissionRepo, bankRepo, userRepo, pointTxRepo, auditRepo, txManager, wsHub)
	verificationService := service.NewVerificationService(verificationRepo, userRepo, auditRepo, txManager)
	auditService := service.NewAuditService(auditRepo)
	statisticsService := service.NewStatisticsService(db)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	bankHandler := handler.NewBankSampahHandler(bankService)
	rewardHandler := handler.NewRewardHandler(rewardService)
	pointHandler := handler.NewPointHandler(pointService)
	submissionHandler := handler.NewSubmissionHandler(submissionService)
	verificationHandler := handler.NewVerificationHandler(verificationService)
	auditHandler := handler.NewAuditHandler(auditService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))
	bankHandler.RegisterRoutes(router.Group(""))
	rewardHandler.RegisterRoutes(router.Group(""))
	pointHandler.RegisterRoutes(router.Group(""))
	submissionHandler.RegisterRoutes(router.Group(""))
	verificationHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
