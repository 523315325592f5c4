package services

import (
	"math"
	"testing"

	"papertrade/internal/testutil"
)

// analysisTestMarket covers exactly one 365-day span so annualized figures
// equal plain percentage growth.
func analysisTestMarket(t *testing.T) map[string][]testutil.StockCSVRow {
	t.Helper()
	return map[string][]testutil.StockCSVRow{
		"AAPL": {
			{Date: "2020-01-01", Open: 95, Close: 100},
			{Date: "2020-12-31", Open: 108, Close: 110},
		},
		"MSFT": {
			{Date: "2020-01-01", Open: 190, Close: 200},
			{Date: "2020-12-31", Open: 255, Close: 260},
		},
	}
}

func TestEstimateStockReturn(t *testing.T) {
	t.Run("one_year_growth", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := testutil.NewMarketStore(t, analysisTestMarket(t))
		svc := NewAnalysisService(db, store)

		// Close 100 -> 110 over exactly 365 days is 10% annualized.
		got, err := svc.EstimateStockReturn("AAPL", mustDate(t, "2020-01-01"), mustDate(t, "2020-12-31"))
		testutil.AssertNoError(t, err)

		if math.Abs(got-10) > 1e-9 {
			t.Errorf("expected 10%% annualized return, got %f", got)
		}
	})

	t.Run("missing_quote_on_boundary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := testutil.NewMarketStore(t, analysisTestMarket(t))
		svc := NewAnalysisService(db, store)

		_, err := svc.EstimateStockReturn("AAPL", mustDate(t, "2020-01-02"), mustDate(t, "2020-12-31"))
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")

		_, err = svc.EstimateStockReturn("AAPL", mustDate(t, "2020-01-01"), mustDate(t, "2020-12-30"))
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")
	})

	t.Run("unknown_symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := testutil.NewMarketStore(t, analysisTestMarket(t))
		svc := NewAnalysisService(db, store)

		_, err := svc.EstimateStockReturn("NOPE", mustDate(t, "2020-01-01"), mustDate(t, "2020-12-31"))
		testutil.AssertAppError(t, err, "STOCK_DATA_NOT_FOUND")
	})
}

func TestEstimatePortfolioReturn(t *testing.T) {
	t.Run("quantity_weighted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := testutil.NewMarketStore(t, analysisTestMarket(t))
		svc := NewAnalysisService(db, store)
		user := testutil.CreateTestUser(t, db)
		portfolio := testutil.CreateTestPortfolio(t, db, user.ID, 1000, testNow)
		testutil.CreateTestHolding(t, db, portfolio.ID, "AAPL", 10, 100)
		testutil.CreateTestHolding(t, db, portfolio.ID, "MSFT", 5, 200)

		// Start value 10*100 + 5*200 = 2000, end value 10*110 + 5*260 = 2400,
		// a 20% gain over exactly one year.
		got, err := svc.EstimatePortfolioReturn(user.ID, portfolio.ID, mustDate(t, "2020-01-01"), mustDate(t, "2020-12-31"))
		testutil.AssertNoError(t, err)

		if math.Abs(got-20) > 1e-9 {
			t.Errorf("expected 20%% annualized return, got %f", got)
		}
	})

	t.Run("zero_base_value", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := testutil.NewMarketStore(t, analysisTestMarket(t))
		svc := NewAnalysisService(db, store)
		user := testutil.CreateTestUser(t, db)
		portfolio := testutil.CreateTestPortfolio(t, db, user.ID, 1000, testNow)
		testutil.CreateTestHolding(t, db, portfolio.ID, "AAPL", 0, 100)

		_, err := svc.EstimatePortfolioReturn(user.ID, portfolio.ID, mustDate(t, "2020-01-01"), mustDate(t, "2020-12-31"))
		testutil.AssertAppError(t, err, "ZERO_BASE_VALUE")
	})

	t.Run("empty_portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := testutil.NewMarketStore(t, analysisTestMarket(t))
		svc := NewAnalysisService(db, store)
		user := testutil.CreateTestUser(t, db)
		portfolio := testutil.CreateTestPortfolio(t, db, user.ID, 1000, testNow)

		_, err := svc.EstimatePortfolioReturn(user.ID, portfolio.ID, mustDate(t, "2020-01-01"), mustDate(t, "2020-12-31"))
		testutil.AssertAppError(t, err, "ZERO_BASE_VALUE")
	})

	t.Run("holding_without_quote", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := testutil.NewMarketStore(t, analysisTestMarket(t))
		svc := NewAnalysisService(db, store)
		user := testutil.CreateTestUser(t, db)
		portfolio := testutil.CreateTestPortfolio(t, db, user.ID, 1000, testNow)
		testutil.CreateTestHolding(t, db, portfolio.ID, "AAPL", 10, 100)

		_, err := svc.EstimatePortfolioReturn(user.ID, portfolio.ID, mustDate(t, "2020-01-02"), mustDate(t, "2020-12-31"))
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")
	})

	t.Run("not_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := testutil.NewMarketStore(t, analysisTestMarket(t))
		svc := NewAnalysisService(db, store)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		portfolio := testutil.CreateTestPortfolio(t, db, owner.ID, 1000, testNow)

		_, err := svc.EstimatePortfolioReturn(intruder.ID, portfolio.ID, mustDate(t, "2020-01-01"), mustDate(t, "2020-12-31"))
		testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")
	})
}
