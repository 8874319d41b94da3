package services

import (
	"testing"
	"time"
)

func TestIsDayOff_WeekendFallback(t *testing.T) {
	s := NewHolidayService()

	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	if !s.IsDayOff("NONE", saturday) {
		t.Error("Saturday should be a day off with NONE")
	}
	if s.IsDayOff("NONE", monday) {
		t.Error("a plain Monday should not be a day off with NONE")
	}

	// Unknown codes behave like NONE.
	if !s.IsDayOff("XX", saturday) {
		t.Error("unknown country should fall back to weekends")
	}
}

func TestIsDayOff_USIndependenceDay(t *testing.T) {
	s := NewHolidayService()

	// July 4, 2025 falls on a Friday.
	independenceDay := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	if !s.IsDayOff("US", independenceDay) {
		t.Error("July 4 should be a day off in the US")
	}

	ordinaryFriday := time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)
	if s.IsDayOff("US", ordinaryFriday) {
		t.Error("an ordinary Friday should not be a day off in the US")
	}
}

func TestDaysOff_CountsRange(t *testing.T) {
	s := NewHolidayService()

	// 2025-06-02 (Mon) .. 2025-06-08 (Sun): one full week, one weekend.
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	if got := s.DaysOff("NONE", start, end); got != 2 {
		t.Errorf("DaysOff = %d, expected 2", got)
	}

	// Single weekday.
	if got := s.DaysOff("NONE", start, start); got != 0 {
		t.Errorf("DaysOff = %d, expected 0", got)
	}
}

func TestSupportedCountries(t *testing.T) {
	s := NewHolidayService()

	countries := s.SupportedCountries()
	if len(countries) < 10 {
		t.Fatalf("expected a substantial country list, got %d", len(countries))
	}

	if countries[0].Code != "NONE" || countries[1].Code != "CN" {
		t.Errorf("list should start with NONE and CN, got %s, %s", countries[0].Code, countries[1].Code)
	}

	seen := map[string]bool{}
	for _, c := range countries {
		if seen[c.Code] {
			t.Errorf("duplicate country code %s", c.Code)
		}
		seen[c.Code] = true
	}
	for _, code := range []string{"US", "JP", "DE"} {
		if !seen[code] {
			t.Errorf("missing country %s", code)
		}
	}
}
