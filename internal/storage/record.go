package storage

import (
	"strconv"
	"time"
)

// Record is a single result row keyed by column name. Values hold whatever
// the driver produced; the accessors below normalize the common cases
// ([]byte from MySQL text protocol, int64 from numeric columns).
type Record map[string]any

// String returns the named column as a string, or "" when absent or NULL.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return ""
	}
}

// Int returns the named column as an int, or 0 when absent or unparseable.
func (r Record) Int(key string) int {
	switch v := r[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	case []byte:
		n, _ := strconv.Atoi(string(v))
		return n
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

// Float returns the named column as a float64, or 0 when absent or
// unparseable. Aggregate columns like ROUND(x, 2) arrive as []byte over
// the MySQL text protocol.
func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

// Time returns the named column as a time.Time. DATE columns arrive as
// time.Time when the DSN sets parseTime, or as "2006-01-02" text otherwise.
func (r Record) Time(key string) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v
	case []byte:
		t, _ := time.Parse("2006-01-02", string(v))
		return t
	case string:
		t, _ := time.Parse("2006-01-02", v)
		return t
	default:
		return time.Time{}
	}
}
