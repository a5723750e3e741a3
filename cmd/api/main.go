package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Sachinsen7/grin/internal/database"
	"github.com/Sachinsen7/grin/internal/handler"
	"github.com/Sachinsen7/grin/internal/middleware"
	"github.com/Sachinsen7/grin/internal/model"
	"github.com/Sachinsen7/grin/internal/repository"
	"github.com/Sachinsen7/grin/internal/service"
	"github.com/Sachinsen7/grin/internal/storage"
	"github.com/Sachinsen7/grin/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	libredis "github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// @title           GRIN/GSN Intake & Approval API
// @version         1.0
// @description     Inventory intake records with per-manager approval propagation and a supplier directory.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		logrus.Info("No configs/.env file found or error loading it")
	}

	if gin.Mode() == gin.ReleaseMode {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "grin")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		logrus.Fatalf("Database connection failed: %v", err)
	}
	logrus.Info("Connected to PostgreSQL successfully.")

	// Rate limit counters live in Redis when one is configured, else in
	// process memory.
	var rdb *libredis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisDB, _ := strconv.Atoi(envOr("REDIS_DB", "0"))
		rdb = database.NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), redisDB)
	}

	uploadDir := envOr("UPLOAD_DIR", "uploads")
	files, err := storage.NewFileStore(uploadDir)
	if err != nil {
		logrus.Fatalf("Upload directory setup failed: %v", err)
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	accountRepo := repository.NewAccountRepository(db)
	gsnRepo := repository.NewGsnRepository(db)
	grinRepo := repository.NewGrinRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)

	accountService := service.NewAccountService(accountRepo)
	intakeService := service.NewIntakeService(gsnRepo, grinRepo, files, wsHub)
	approvalService := service.NewApprovalService(gsnRepo, grinRepo, wsHub)
	supplierService := service.NewSupplierService(supplierRepo, gsnRepo, txManager)
	reportService := service.NewReportService(gsnRepo, grinRepo)

	accountHandler := handler.NewAccountHandler(accountService)
	intakeHandler := handler.NewIntakeHandler(intakeService)
	approvalHandler := handler.NewApprovalHandler(approvalService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	reportHandler := handler.NewReportHandler(reportService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(envOr("ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173"), ",")
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Uploaded attachments are served straight from disk.
	router.Static("/"+storage.DirGsnFiles, filepath.Join(uploadDir, storage.DirGsnFiles))
	router.Static("/"+storage.DirGsnPhotos, filepath.Join(uploadDir, storage.DirGsnPhotos))
	router.Static("/"+storage.DirGrinFiles, filepath.Join(uploadDir, storage.DirGrinFiles))
	router.Static("/"+storage.DirGrinPhotos, filepath.Join(uploadDir, storage.DirGrinPhotos))

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

	authn := middleware.Authenticate(accountRepo)

	apiV1 := router.Group("/api/v1", middleware.APIRateLimit(rdb))
	accountHandler.RegisterRoutes(apiV1, authn, middleware.LoginRateLimit(rdb))
	intake := apiV1.Group("", authn)
	intakeHandler.RegisterRoutes(intake)
	approvalHandler.RegisterRoutes(intake)

	// Register downloads are for the approval chain, not the entry operators.
	reports := intake.Group("", middleware.RequireRole(
		model.RoleAdmin,
		model.RoleStoreManager,
		model.RolePurchaseManager,
		model.RoleGeneralManager,
		model.RoleAccountManager,
		model.RoleAuditor,
	))
	reportHandler.RegisterRoutes(reports)

	api := router.Group("/api", middleware.APIRateLimit(rdb), authn)
	supplierHandler.RegisterRoutes(api)

	port := envOr("PORT", "8080")

	logrus.Infof("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("Server failed: %v", err)
	}
}
