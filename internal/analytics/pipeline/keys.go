package pipeline

import (
	"bytes"
	"cmp"
	"time"

	"github.com/google/uuid"
)

// MonthKey groups rows by calendar month.
type MonthKey struct {
	Year  int
	Month int
}

// MonthOf returns t's calendar month in loc.
func MonthOf(t time.Time, loc *time.Location) MonthKey {
	if loc != nil {
		t = t.In(loc)
	}
	return MonthKey{Year: t.Year(), Month: int(t.Month())}
}

func CompareMonth(a, b MonthKey) int {
	if c := cmp.Compare(a.Year, b.Year); c != 0 {
		return c
	}
	return cmp.Compare(a.Month, b.Month)
}

// CompareUUID orders ids bytewise, which matches the lexical order of their
// canonical string form.
func CompareUUID(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
