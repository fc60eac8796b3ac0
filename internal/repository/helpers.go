package repository

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// parseNullableTime parses a sql.NullString into a *time.Time using the given
// layout. Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite
// storage: nil (SQL NULL) or the formatted string.
func nullableTimeToString(t *time.Time, layout string) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

// parseNullableDecimal parses a money column into a *decimal.Decimal.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableDecimal(s sql.NullString) *decimal.Decimal {
	if !s.Valid || s.String == "" {
		return nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil
	}
	return &d
}

// parseDecimal parses a non-null money column value.
func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// nullableDecimalToString converts a *decimal.Decimal to a value suitable for
// SQLite storage: nil (SQL NULL) or the decimal string.
func nullableDecimalToString(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
