package model

import (
	"errors"
	"testing"
	"time"

	"municipal-benefits/internal/domain"
)

func i64(v int64) *int64 { return &v }

func TestOfferStatusTransitionsAreMonotonic(t *testing.T) {
	t.Parallel()

	o, err := NewOffer("o1", "t1", "s1", "Free coffee", OfferTypeFreeEntry, 0, 0, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("NewOffer: %v", err)
	}
	if o.Status != OfferStatusPending || o.Active {
		t.Fatalf("new offer should be pending/inactive, got %s/%v", o.Status, o.Active)
	}

	if err := o.Expire(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("pending offer must not expire directly, got %v", err)
	}
	if err := o.Approve(); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if !o.Redeemable() {
		t.Fatalf("approved offer should be redeemable")
	}
	if err := o.Reject(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("active offer must not regress to rejected, got %v", err)
	}
	if err := o.Expire(); err != nil {
		t.Fatalf("Expire: %v", err)
	}
	if o.Redeemable() {
		t.Fatalf("expired offer must not be redeemable")
	}
	if err := o.Approve(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expired offer must not re-activate, got %v", err)
	}
}

func TestNewOfferValidation(t *testing.T) {
	t.Parallel()

	start := time.Now()
	if _, err := NewOffer("o1", "t1", "s1", "x", OfferType("raffle"), 0, 0, start, start.Add(time.Hour)); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("unknown offer type accepted: %v", err)
	}
	if _, err := NewOffer("o1", "t1", "s1", "x", OfferTypePercentage, 0, 120, start, start.Add(time.Hour)); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("percent > 100 accepted: %v", err)
	}
	if _, err := NewOffer("o1", "t1", "s1", "x", OfferTypeCredit, 500, 0, start.Add(time.Hour), start); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expiry before start accepted: %v", err)
	}
}

func TestRestrictionValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		r    Restriction
		ok   bool
	}{
		{"empty", Restriction{}, true},
		{"valid window", Restriction{TimeFrom: "12:00", TimeTo: "15:00"}, true},
		{"inverted window", Restriction{TimeFrom: "15:00", TimeTo: "12:00"}, false},
		{"half window", Restriction{TimeFrom: "12:00"}, false},
		{"garbage time", Restriction{TimeFrom: "noonish", TimeTo: "15:00"}, false},
		{"valid prices", Restriction{MinPriceCents: i64(1000), MaxPriceCents: i64(2000)}, true},
		{"inverted prices", Restriction{MinPriceCents: i64(2000), MaxPriceCents: i64(1000)}, false},
		{"bad frequency", Restriction{Frequency: Frequency("hourly")}, false},
		{"negative age", Restriction{MinAge: -1}, false},
	}
	for _, tc := range cases {
		err := tc.r.Validate()
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestRestrictionAllowsTime(t *testing.T) {
	t.Parallel()

	r := &Restriction{TimeFrom: "12:00", TimeTo: "15:00"}
	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
	}
	if !r.AllowsTime(at(13, 0)) {
		t.Fatalf("13:00 should be inside [12:00,15:00]")
	}
	if !r.AllowsTime(at(12, 0)) || !r.AllowsTime(at(15, 0)) {
		t.Fatalf("window bounds are inclusive")
	}
	if r.AllowsTime(at(11, 59)) || r.AllowsTime(at(15, 1)) {
		t.Fatalf("times outside the window must be refused")
	}
	var unset *Restriction
	if !unset.AllowsTime(at(3, 0)) {
		t.Fatalf("nil restriction allows any time")
	}
}

func TestRestrictionAllowsPrice(t *testing.T) {
	t.Parallel()

	r := &Restriction{MinPriceCents: i64(1000), MaxPriceCents: i64(2000)}
	if r.AllowsPrice(3000) {
		t.Fatalf("3000 outside [1000,2000] must be refused")
	}
	if !r.AllowsPrice(1500) {
		t.Fatalf("1500 inside [1000,2000] must pass")
	}
	if !r.AllowsPrice(1000) || !r.AllowsPrice(2000) {
		t.Fatalf("price bounds are inclusive")
	}
}

func TestSameFrequencyWindow(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)  // Monday, ISO week 2
	day2 := time.Date(2026, 1, 5, 23, 0, 0, 0, time.UTC) // same day
	day3 := time.Date(2026, 1, 6, 1, 0, 0, 0, time.UTC)  // next day, same ISO week
	day4 := time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC) // next ISO week, same month
	day5 := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)  // next month

	if !SameFrequencyWindow(FrequencyDaily, day1, day2) {
		t.Fatalf("same calendar day should match daily window")
	}
	if SameFrequencyWindow(FrequencyDaily, day1, day3) {
		t.Fatalf("next day must leave the daily window")
	}
	if !SameFrequencyWindow(FrequencyWeekly, day1, day3) {
		t.Fatalf("same ISO week should match weekly window")
	}
	if SameFrequencyWindow(FrequencyWeekly, day1, day4) {
		t.Fatalf("next ISO week must leave the weekly window")
	}
	if !SameFrequencyWindow(FrequencyMonthly, day1, day4) {
		t.Fatalf("same month should match monthly window")
	}
	if SameFrequencyWindow(FrequencyMonthly, day1, day5) {
		t.Fatalf("next month must leave the monthly window")
	}
	if SameFrequencyWindow(FrequencyNone, day1, day2) {
		t.Fatalf("frequency none never matches")
	}
}

func TestPrincipalAllowed(t *testing.T) {
	t.Parallel()

	sup := Principal{SubjectID: "s1", Roles: []Role{RoleSupplier}}
	if !sup.Allowed(RoleSupplier) {
		t.Fatalf("supplier must pass supplier check")
	}
	if sup.Allowed(RoleMunicipality) {
		t.Fatalf("supplier must not pass municipality check")
	}
	admin := Principal{SubjectID: "a1", Roles: []Role{RoleAdmin}}
	if !admin.Allowed(RoleMunicipality) {
		t.Fatalf("admin passes every check")
	}
	if (Principal{}).Allowed(RoleSupplier) {
		t.Fatalf("anonymous principal passes nothing")
	}
}

func TestSupplierTransitions(t *testing.T) {
	t.Parallel()

	s, err := NewSupplier("s1", "t1", "Bakery", "bakery@example.org", "NL91ABNA0417164300")
	if err != nil {
		t.Fatalf("NewSupplier: %v", err)
	}
	if err := s.Approve(); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := s.Reject(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("approved supplier must not be rejected, got %v", err)
	}
}

func TestDiscountCodeDeactivateIsIdempotent(t *testing.T) {
	t.Parallel()

	c, err := NewDiscountCode("c1", "jv12a", "cit1", "o1")
	if err != nil {
		t.Fatalf("NewDiscountCode: %v", err)
	}
	if c.Code != "JV12A" {
		t.Fatalf("code must be stored uppercase, got %q", c.Code)
	}
	first := time.Now()
	c.Deactivate(first)
	c.Deactivate(first.Add(time.Hour))
	if c.DeactivatedAt == nil || !c.DeactivatedAt.Equal(first) {
		t.Fatalf("second Deactivate must not move the timestamp")
	}
}

func TestNewOfferTransaction(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tx, err := NewOfferTransaction("c1", 1500, now)
	if err != nil {
		t.Fatalf("NewOfferTransaction: %v", err)
	}
	if tx.ID == "" {
		t.Fatalf("transaction must get a ULID")
	}
	if _, err := NewOfferTransaction("", 1500, now); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("missing code ref accepted: %v", err)
	}
}

func TestInvoiceLifecycle(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	inv, err := NewInvoice("i1", "t1", "s1", "2026-07-S1", start, end, 3, 4500)
	if err != nil {
		t.Fatalf("NewInvoice: %v", err)
	}
	if err := inv.MarkPaid(time.Now()); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("draft invoice must not be paid directly, got %v", err)
	}
	if err := inv.Issue(time.Now()); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := inv.Issue(time.Now()); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("double issue accepted: %v", err)
	}
	if err := inv.MarkPaid(time.Now()); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
}
