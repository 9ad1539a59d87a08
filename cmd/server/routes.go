package main

import (
	"net/http"
	"time"

	"ar-market.backend/internal/interfaces/http/handlers"
	"ar-market.backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routeDeps struct {
	authHandler        *handlers.AuthHandler
	adHandler          *handlers.AdHandler
	kycHandler         *handlers.KYCHandler
	marketplaceHandler *handlers.MarketplaceHandler
	walletHandler      *handlers.WalletHandler
	adminHandler       *handlers.AdminHandler
	authMiddleware     gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public + protected)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.Refresh)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
			auth.POST("/change-password", d.authMiddleware, d.authHandler.ChangePassword)
		}

		// Ad registry routes (protected)
		ads := v1.Group("/ads")
		ads.Use(d.authMiddleware)
		{
			ads.POST("", d.adHandler.CreateAd)
			ads.GET("", d.adHandler.MyAds)
		}

		// Marketplace routes (protected)
		marketplace := v1.Group("/marketplace")
		marketplace.Use(d.authMiddleware)
		{
			marketplace.POST("", d.marketplaceHandler.CreateListing)
			marketplace.GET("", d.marketplaceHandler.ListOpen)
			marketplace.GET("/my-listings", d.marketplaceHandler.MyListings)
			marketplace.DELETE("/my-listings/:id", d.marketplaceHandler.CloseListing)
			marketplace.GET("/my-bids", d.marketplaceHandler.MyBids)
			marketplace.GET("/my-purchases", d.marketplaceHandler.MyPurchases)
			marketplace.POST("/bids", middleware.IdempotencyMiddleware(), d.marketplaceHandler.PlaceBid)
			marketplace.PUT("/bids/:id/accept", d.marketplaceHandler.AcceptBid)
			marketplace.POST("/payout", d.marketplaceHandler.RequestPayout)
			marketplace.GET("/:id", d.marketplaceHandler.GetListing)
		}

		// User wallet and verification routes (protected)
		user := v1.Group("/user")
		user.Use(d.authMiddleware)
		{
			user.POST("/kyc", d.kycHandler.SubmitEnrollment)
			user.GET("/kyc", d.kycHandler.GetProfile)
			user.GET("/wallet", d.walletHandler.GetWallet)
			user.POST("/topup", d.walletHandler.RequestTopup)
			user.GET("/transactions", d.walletHandler.Transactions)
			user.POST("/withdraw", middleware.IdempotencyMiddleware(), d.walletHandler.RequestWithdrawal)
			user.GET("/withdrawals", d.walletHandler.MyWithdrawals)
		}

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.PUT("/kyc/:userId", d.adminHandler.ReviewKYC)
			admin.PUT("/withdrawals/:id", d.adminHandler.ResolveWithdrawal)
			admin.PUT("/topups/:id", d.adminHandler.ResolveTopup)
			admin.PUT("/users/:id/tier", d.adminHandler.SetTier)
		}
	}
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}
