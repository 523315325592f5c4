package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"papertrade/internal/marketdata"
	"papertrade/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password behind every fixture credential.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user and its credential with a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user and its credential with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:     email,
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", nextID()),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	cred := &models.Credential{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.Create(cred).Error; err != nil {
		t.Fatalf("failed to create test credential: %v", err)
	}
	return user
}

// CreateTestPortfolio creates a portfolio with the given cash and a clock set
// to currentTS.
func CreateTestPortfolio(t *testing.T, db *gorm.DB, userID uint, cash float64, currentTS time.Time) *models.Portfolio {
	t.Helper()

	portfolio := &models.Portfolio{
		UserID:        userID,
		StrategyID:    "0",
		CashRemaining: cash,
		CurrentTS:     currentTS,
	}
	if err := db.Create(portfolio).Error; err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return portfolio
}

// CreateTestHolding creates one holding row in a portfolio.
func CreateTestHolding(t *testing.T, db *gorm.DB, portfolioID, symbol string, quantity int64, price float64) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		PortfolioID: portfolioID,
		Symbol:      symbol,
		Quantity:    quantity,
		Price:       price,
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// StockCSVRow is one day's prices in a test price file.
type StockCSVRow struct {
	Date  string
	Open  float64
	Close float64
}

// WriteStockCSV writes a price file for symbol into dir.
func WriteStockCSV(t *testing.T, dir, symbol string, rows []StockCSVRow) {
	t.Helper()

	f, err := os.Create(filepath.Join(dir, symbol+".csv"))
	if err != nil {
		t.Fatalf("failed to create %s.csv: %v", symbol, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Date", "Open", "Close"}); err != nil {
		t.Fatalf("failed to write %s.csv header: %v", symbol, err)
	}
	for _, row := range rows {
		record := []string{
			row.Date,
			strconv.FormatFloat(row.Open, 'f', -1, 64),
			strconv.FormatFloat(row.Close, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			t.Fatalf("failed to write %s.csv row: %v", symbol, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("failed to flush %s.csv: %v", symbol, err)
	}
}

// NewMarketStore writes the given price files into a temp directory and
// returns a Store over it.
func NewMarketStore(t *testing.T, files map[string][]StockCSVRow) *marketdata.Store {
	t.Helper()

	dir := t.TempDir()
	for symbol, rows := range files {
		WriteStockCSV(t, dir, symbol, rows)
	}
	return marketdata.NewStore(dir)
}
