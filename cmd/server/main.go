package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ar-market.backend/internal/config"
	"ar-market.backend/internal/infrastructure/jobs"
	"ar-market.backend/internal/infrastructure/repositories"
	"ar-market.backend/internal/interfaces/http/handlers"
	"ar-market.backend/internal/interfaces/http/middleware"
	"ar-market.backend/internal/metrics"
	"ar-market.backend/internal/usecases"
	"ar-market.backend/pkg/jwt"
	"ar-market.backend/pkg/logger"
	"ar-market.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	newSessionStore = redis.NewSessionStore
	runServer       = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB        = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("database not available: %v (endpoints will return errors)", err)
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize metrics
	m := metrics.NewMetrics()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	adRepo := repositories.NewAdRepository(db)
	listingRepo := repositories.NewListingRepository(db)
	bidRepo := repositories.NewBidRepository(db)
	txnRepo := repositories.NewTransactionRepository(db)
	walletRepo := repositories.NewWalletAccountRepository(db)
	kycRepo := repositories.NewKYCRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize Session Store (optional, session login mode only)
	var sessionStore *redis.SessionStore
	if cfg.Security.SessionEncryptionKey != "" {
		sessionStore, err = newSessionStore(cfg.Security.SessionEncryptionKey)
		if err != nil {
			return fmt.Errorf("failed to initialize session store: %w", err)
		}
	}

	// Initialize usecases
	ledgerUsecase := usecases.NewLedgerUsecase(txnRepo, walletRepo, uow)
	authUsecase := usecases.NewAuthUsecase(userRepo, ledgerUsecase, uow, jwtService, sessionStore, cfg.JWT.RefreshExpiry)
	adUsecase := usecases.NewAdUsecase(adRepo)
	kycUsecase := usecases.NewKYCUsecase(kycRepo)
	listingUsecase := usecases.NewListingUsecase(listingRepo, bidRepo, adRepo, userRepo, kycRepo, ledgerUsecase, uow)
	bidUsecase := usecases.NewBidUsecase(listingRepo, bidRepo, kycRepo, ledgerUsecase, uow)
	withdrawalUsecase := usecases.NewWithdrawalUsecase(withdrawalRepo, listingRepo, txnRepo, kycRepo, ledgerUsecase, uow, cfg.Marketplace.MinWithdrawalAmount)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	adHandler := handlers.NewAdHandler(adUsecase)
	kycHandler := handlers.NewKYCHandler(kycUsecase)
	marketplaceHandler := handlers.NewMarketplaceHandler(listingUsecase, bidUsecase, withdrawalUsecase, m)
	walletHandler := handlers.NewWalletHandler(ledgerUsecase, withdrawalUsecase)
	adminHandler := handlers.NewAdminHandler(kycUsecase, withdrawalUsecase, ledgerUsecase, authUsecase, m)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expiryJob := jobs.NewListingExpiryJob(listingUsecase, m, cfg.Marketplace.ExpirySweepInterval)
	go expiryJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(m))

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:        authHandler,
		adHandler:          adHandler,
		kycHandler:         kycHandler,
		marketplaceHandler: marketplaceHandler,
		walletHandler:      walletHandler,
		adminHandler:       adminHandler,
		authMiddleware:     authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		expiryJob.Stop()
		cancel()
	}()

	log.Printf("AR market backend starting on port %s", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
