package marketdata_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"papertrade/internal/marketdata"
	"papertrade/internal/testutil"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func testStore(t *testing.T) *marketdata.Store {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteStockCSV(t, dir, "AAPL", []testutil.StockCSVRow{
		{Date: "2023-03-15", Open: 120, Close: 100},
		{Date: "2023-03-13", Open: 90, Close: 95},
		{Date: "2023-03-14", Open: 100, Close: 110},
	})
	return marketdata.NewStore(dir)
}

func TestQuote(t *testing.T) {
	t.Run("exact_day", func(t *testing.T) {
		store := testStore(t)

		q, err := store.Quote("AAPL", day(t, "2023-03-14"))
		testutil.AssertNoError(t, err)
		if q.Open != 100 || q.Close != 110 {
			t.Errorf("unexpected quote: %+v", q)
		}
		if q.Average() != 105 {
			t.Errorf("expected average 105, got %f", q.Average())
		}
	})

	t.Run("missing_day", func(t *testing.T) {
		store := testStore(t)

		_, err := store.Quote("AAPL", day(t, "2023-03-20"))
		testutil.AssertAppError(t, err, "QUOTE_NOT_FOUND")
	})

	t.Run("unknown_symbol", func(t *testing.T) {
		store := testStore(t)

		_, err := store.Quote("NOPE", day(t, "2023-03-14"))
		testutil.AssertAppError(t, err, "STOCK_DATA_NOT_FOUND")
	})
}

func TestRange(t *testing.T) {
	t.Run("inclusive_and_sorted", func(t *testing.T) {
		store := testStore(t)

		quotes, err := store.Range("AAPL", day(t, "2023-03-13"), day(t, "2023-03-15"))
		testutil.AssertNoError(t, err)

		if len(quotes) != 3 {
			t.Fatalf("expected 3 quotes, got %d", len(quotes))
		}
		// The file above is deliberately out of order; the store sorts it.
		for i := 1; i < len(quotes); i++ {
			if !quotes[i-1].Date.Before(quotes[i].Date) {
				t.Errorf("quotes not sorted ascending: %v before %v", quotes[i-1].Date, quotes[i].Date)
			}
		}
	})

	t.Run("subrange", func(t *testing.T) {
		store := testStore(t)

		quotes, err := store.Range("AAPL", day(t, "2023-03-14"), day(t, "2023-03-14"))
		testutil.AssertNoError(t, err)
		if len(quotes) != 1 || quotes[0].Open != 100 {
			t.Errorf("unexpected subrange result: %+v", quotes)
		}
	})

	t.Run("empty_range", func(t *testing.T) {
		store := testStore(t)

		_, err := store.Range("AAPL", day(t, "2023-04-01"), day(t, "2023-04-30"))
		testutil.AssertAppError(t, err, "QUOTE_NOT_FOUND")
	})
}

func TestLoadIgnoresExtraColumns(t *testing.T) {
	dir := t.TempDir()
	csv := "Date,Open,High,Low,Close,Volume\n2023-03-14,100,112,99,110,123456\n"
	if err := os.WriteFile(filepath.Join(dir, "AAPL.csv"), []byte(csv), 0o644); err != nil {
		t.Fatalf("failed to write test csv: %v", err)
	}

	store := marketdata.NewStore(dir)
	q, err := store.Quote("AAPL", day(t, "2023-03-14"))
	testutil.AssertNoError(t, err)
	if q.Open != 100 || q.Close != 110 {
		t.Errorf("unexpected quote: %+v", q)
	}
}

func TestLoadRejectsMalformedRow(t *testing.T) {
	dir := t.TempDir()
	// The second data row is short a field; the file must be rejected, not
	// silently truncated after the first row.
	csv := "Date,Open,Close\n2023-03-13,90,95\n2023-03-14,100\n"
	if err := os.WriteFile(filepath.Join(dir, "AAPL.csv"), []byte(csv), 0o644); err != nil {
		t.Fatalf("failed to write test csv: %v", err)
	}

	store := marketdata.NewStore(dir)
	_, err := store.Quote("AAPL", day(t, "2023-03-13"))
	testutil.AssertAppError(t, err, "INTERNAL_ERROR")
}

func TestLoadRejectsMissingColumns(t *testing.T) {
	dir := t.TempDir()
	csv := "Date,Price\n2023-03-14,100\n"
	if err := os.WriteFile(filepath.Join(dir, "AAPL.csv"), []byte(csv), 0o644); err != nil {
		t.Fatalf("failed to write test csv: %v", err)
	}

	store := marketdata.NewStore(dir)
	_, err := store.Quote("AAPL", day(t, "2023-03-14"))
	testutil.AssertAppError(t, err, "INTERNAL_ERROR")
}
