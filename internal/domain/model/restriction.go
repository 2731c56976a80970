package model

import (
	"fmt"
	"time"

	"municipal-benefits/internal/domain"
)

type Frequency string

const (
	FrequencyNone    Frequency = "none"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Restriction narrows when and how an offer may be redeemed. All fields are
// optional; an unset field means the corresponding check passes trivially.
// Its lifetime is bound to the owning offer (cascade delete).
type Restriction struct {
	OfferID       string
	TimeFrom      string // "HH:mm", empty means unset
	TimeTo        string // "HH:mm", empty means unset
	MinPriceCents *int64
	MaxPriceCents *int64
	Frequency     Frequency
	MinAge        int // 0 means unset
}

// minutesOfDay parses "HH:mm" into minutes since midnight.
func minutesOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Validate enforces the structural invariants: timeFrom < timeTo and
// minPrice < maxPrice whenever both bounds are set.
func (r *Restriction) Validate() error {
	if r.TimeFrom != "" || r.TimeTo != "" {
		if r.TimeFrom == "" || r.TimeTo == "" {
			return domain.ErrInvalidArgument
		}
		from, err := minutesOfDay(r.TimeFrom)
		if err != nil {
			return domain.ErrInvalidArgument
		}
		to, err := minutesOfDay(r.TimeTo)
		if err != nil {
			return domain.ErrInvalidArgument
		}
		if from >= to {
			return domain.ErrInvalidArgument
		}
	}
	if r.MinPriceCents != nil && r.MaxPriceCents != nil && *r.MinPriceCents >= *r.MaxPriceCents {
		return domain.ErrInvalidArgument
	}
	switch r.Frequency {
	case "", FrequencyNone, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
	default:
		return domain.ErrInvalidArgument
	}
	if r.MinAge < 0 {
		return domain.ErrInvalidArgument
	}
	return nil
}

// AllowsTime reports whether the time of day of t falls inside the window
// [TimeFrom, TimeTo], inclusive on both ends. An unset window always allows.
func (r *Restriction) AllowsTime(t time.Time) bool {
	if r == nil || r.TimeFrom == "" || r.TimeTo == "" {
		return true
	}
	from, err := minutesOfDay(r.TimeFrom)
	if err != nil {
		return true
	}
	to, err := minutesOfDay(r.TimeTo)
	if err != nil {
		return true
	}
	m := t.Hour()*60 + t.Minute()
	return m >= from && m <= to
}

// AllowsPrice reports whether amountCents falls inside [MinPrice, MaxPrice].
// Unset bounds always allow.
func (r *Restriction) AllowsPrice(amountCents int64) bool {
	if r == nil {
		return true
	}
	if r.MinPriceCents != nil && amountCents < *r.MinPriceCents {
		return false
	}
	if r.MaxPriceCents != nil && amountCents > *r.MaxPriceCents {
		return false
	}
	return true
}

// SameFrequencyWindow reports whether prev and now fall into the same cap
// window for freq: same calendar day, same ISO week, or same month. Both
// instants must already be in the tenant's location.
func SameFrequencyWindow(freq Frequency, prev, now time.Time) bool {
	switch freq {
	case FrequencyDaily:
		return prev.Year() == now.Year() && prev.YearDay() == now.YearDay()
	case FrequencyWeekly:
		py, pw := prev.ISOWeek()
		ny, nw := now.ISOWeek()
		return py == ny && pw == nw
	case FrequencyMonthly:
		return prev.Year() == now.Year() && prev.Month() == now.Month()
	}
	return false
}
