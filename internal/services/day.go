package services

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

const dateLayout = "2006-01-02"

// DayResolver maps the current instant to a calendar date in the reference
// timezone. The returned date is midnight UTC so it round-trips through a DATE column.
type DayResolver struct {
	loc *time.Location
	now func() time.Time
}

func NewDayResolver(timezone string, now func() time.Time) (*DayResolver, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	if now == nil {
		now = time.Now
	}
	return &DayResolver{loc: loc, now: now}, nil
}

func (r *DayResolver) Today() time.Time {
	y, m, d := r.now().In(r.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r *DayResolver) Location() *time.Location {
	return r.loc
}

func FormatDay(day time.Time) string {
	return day.Format(dateLayout)
}
