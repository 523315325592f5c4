// Package marketdata serves daily open/close prices from one CSV file per
// symbol. Files are parsed once and cached; lookups are read-only and safe
// for concurrent use.
package marketdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"papertrade/internal/dates"
	apperrors "papertrade/internal/errors"
)

// Quote is one day's open and close price for a symbol.
type Quote struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	Close float64   `json:"close"`
}

// Average returns the midpoint of the day's open and close, the price at
// which simulated trades are recorded.
func (q Quote) Average() float64 {
	return (q.Open + q.Close) / 2
}

// Store reads per-symbol CSV price files from a directory.
type Store struct {
	dir string

	mu    sync.RWMutex
	cache map[string][]Quote
}

// NewStore creates a Store backed by dir. Files are loaded lazily, on the
// first lookup of each symbol.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		cache: make(map[string][]Quote),
	}
}

// Quote returns the quote for the exact calendar day, or ErrQuoteNotFound if
// the symbol has data but none for that day.
func (s *Store) Quote(symbol string, day time.Time) (Quote, error) {
	series, err := s.series(symbol)
	if err != nil {
		return Quote{}, err
	}

	want := dates.Day(day)
	i := sort.Search(len(series), func(i int) bool {
		return !series[i].Date.Before(want)
	})
	if i < len(series) && series[i].Date.Equal(want) {
		return series[i], nil
	}
	return Quote{}, apperrors.ErrQuoteNotFound
}

// Range returns all quotes between from and to inclusive, ordered by date
// ascending. An empty result is ErrQuoteNotFound.
func (s *Store) Range(symbol string, from, to time.Time) ([]Quote, error) {
	series, err := s.series(symbol)
	if err != nil {
		return nil, err
	}

	lo := dates.Day(from)
	hi := dates.Day(to)
	var out []Quote
	for _, q := range series {
		if q.Date.Before(lo) {
			continue
		}
		if q.Date.After(hi) {
			break
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, apperrors.ErrQuoteNotFound
	}
	return out, nil
}

// series returns the cached quote series for a symbol, loading it on first use.
func (s *Store) series(symbol string) ([]Quote, error) {
	s.mu.RLock()
	series, ok := s.cache[symbol]
	s.mu.RUnlock()
	if ok {
		return series, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if series, ok := s.cache[symbol]; ok {
		return series, nil
	}

	series, err := s.load(symbol)
	if err != nil {
		return nil, err
	}
	s.cache[symbol] = series
	return series, nil
}

func (s *Store) load(symbol string) ([]Quote, error) {
	f, err := os.Open(filepath.Join(s.dir, symbol+".csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrStockDataNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("read header of %s.csv: %w", symbol, err))
	}

	// Locate columns by name; price files often carry extra columns
	// (High, Low, Volume) that we ignore.
	dateCol, openCol, closeCol := -1, -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Date":
			dateCol = i
		case "Open":
			openCol = i
		case "Close":
			closeCol = i
		}
	}
	if dateCol < 0 || openCol < 0 || closeCol < 0 {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer,
			fmt.Errorf("%s.csv is missing Date, Open, or Close columns", symbol))
	}

	var series []Quote
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer,
				fmt.Errorf("read row of %s.csv: %w", symbol, err))
		}
		date, err := dates.Parse(record[dateCol])
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer,
				fmt.Errorf("%s.csv has invalid date %q: %w", symbol, record[dateCol], err))
		}
		open, err := strconv.ParseFloat(record[openCol], 64)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer,
				fmt.Errorf("%s.csv has invalid open price %q: %w", symbol, record[openCol], err))
		}
		closing, err := strconv.ParseFloat(record[closeCol], 64)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer,
				fmt.Errorf("%s.csv has invalid close price %q: %w", symbol, record[closeCol], err))
		}
		series = append(series, Quote{Date: date, Open: open, Close: closing})
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}
