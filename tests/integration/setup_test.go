package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"papertrade/internal/clock"
	"papertrade/internal/config"
	"papertrade/internal/handlers"
	"papertrade/internal/logger"
	"papertrade/internal/middleware"
	"papertrade/internal/models"
	"papertrade/internal/services"
	"papertrade/internal/testutil"
	"papertrade/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// appNow is the fixed wall clock every test app runs on. The price fixtures
// below surround it so trades on nearby dates are valid.
var appNow = time.Date(2023, 3, 13, 12, 0, 0, 0, time.UTC)

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Credential{},
		&models.Portfolio{},
		&models.Holding{},
		&models.TradeBatch{},
		&models.Trade{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database and a temp-dir price store.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	market := testutil.NewMarketStore(t, map[string][]testutil.StockCSVRow{
		"AAPL": {
			{Date: "2023-03-10", Open: 92, Close: 90},
			{Date: "2023-03-13", Open: 90, Close: 95},
			{Date: "2023-03-14", Open: 100, Close: 110},
			{Date: "2023-03-15", Open: 120, Close: 100},
		},
		"MSFT": {
			{Date: "2023-03-13", Open: 200, Close: 210},
			{Date: "2023-03-14", Open: 210, Close: 220},
		},
	})

	cfg := &config.Config{
		Env:              "test",
		JWTSecret:        "integration-test-secret",
		JWTExpirationDur: 30 * time.Minute,
		Location:         time.UTC,
	}
	clk := clock.Fixed(appNow)

	userService := services.NewUserService(db)
	portfolioService := services.NewPortfolioService(db, clk)
	tradeService := services.NewTradeService(db, market, clk)
	backtestService := services.NewBacktestService(db, market)
	analysisService := services.NewAnalysisService(db, market)

	gate := middleware.NewAuthGate(cfg, db, clk)

	authHandler := handlers.NewAuthHandler(userService, gate)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService, tradeService)
	marketHandler := handlers.NewMarketHandler(market, tradeService)
	backtestHandler := handlers.NewBacktestHandler(backtestService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

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

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// requestWithCookie makes a request carrying the session token as a cookie
// instead of a bearer header.
func (app *testApp) requestWithCookie(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns its ID.
func (app *testApp) registerUser(t *testing.T, email, password string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return user["id"].(float64)
}

// loginUser logs in and returns the session token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}

// createPortfolio creates a portfolio for the authenticated user and returns
// its ID.
func (app *testApp) createPortfolio(t *testing.T, token, body string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/portfolios", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create portfolio failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	portfolio := result["portfolio"].(map[string]interface{})
	return portfolio["id"].(string)
}
