package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Querier is satisfied by both *sql.DB and *sql.Tx, letting repository
// methods run inside or outside an explicit transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// timeLayouts are the formats a date column may carry: plain dates from
// the API, RFC3339 from explicit inserts, and SQLite's CURRENT_TIMESTAMP.
var timeLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseTime parses a stored date/datetime string and normalizes it to UTC.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date %q", str)
}

// ParseDecimal parses a stored TEXT amount into a decimal.
func ParseDecimal(str string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", str, err)
	}
	return d, nil
}

// FormatDate renders a time for a DATE column.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FormatDateTime renders a time for a DATETIME column.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
