package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"papertrade/internal/clock"
	"papertrade/internal/config"
	"papertrade/internal/database"
	"papertrade/internal/handlers"
	"papertrade/internal/logger"
	"papertrade/internal/marketdata"
	"papertrade/internal/middleware"
	"papertrade/internal/services"
	"papertrade/internal/validator"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	db := dbManager.DB()
	clk := clock.New(appConfig.Location)
	market := marketdata.NewStore(appConfig.MarketDataDir)

	userService := services.NewUserService(db)
	portfolioService := services.NewPortfolioService(db, clk)
	tradeService := services.NewTradeService(db, market, clk)
	backtestService := services.NewBacktestService(db, market)
	analysisService := services.NewAnalysisService(db, market)

	gate := middleware.NewAuthGate(appConfig, db, clk)

	authHandler := handlers.NewAuthHandler(userService, gate)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService, tradeService)
	marketHandler := handlers.NewMarketHandler(market, tradeService)
	backtestHandler := handlers.NewBacktestHandler(backtestService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(gate.Middleware())

	protected.GET("/strategies", portfolioHandler.Strategies)

	portfolios := protected.Group("/portfolios")
	portfolios.POST("", portfolioHandler.Create)
	portfolios.GET("/:id", portfolioHandler.Get)
	portfolios.DELETE("/:id", portfolioHandler.Delete)
	portfolios.GET("/:id/net-worth", portfolioHandler.NetWorth)
	portfolios.GET("/:id/trades", portfolioHandler.ListTrades)

	marketRoutes := protected.Group("/market")
	marketRoutes.POST("/data/tick", marketHandler.Tick)
	marketRoutes.POST("/data/range", marketHandler.RangeData)
	marketRoutes.POST("/trade", marketHandler.Trade)

	protected.POST("/backtest", backtestHandler.Run)

	analysis := protected.Group("/analysis")
	analysis.GET("/estimate-returns/stock", analysisHandler.StockReturn)
	analysis.GET("/estimate-returns/portfolio", analysisHandler.PortfolioReturn)

	log.Infof("Starting papertrade backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
