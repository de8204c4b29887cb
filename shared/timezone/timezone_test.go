package timezone_test

import (
	"hotelbooking/shared/timezone"
	"testing"
	"time"
)

func TestTimezoneInit(t *testing.T) {
	// Test Now() function
	now := timezone.Now()
	if now.IsZero() {
		t.Error("Now() returned zero time")
	}

	// Test GetLocation()
	loc := timezone.GetLocation()
	if loc == nil {
		t.Error("GetLocation() returned nil")
	}
}

func TestTimezoneWithStandardLocation(t *testing.T) {
	utcTime := time.Now().UTC()
	appTime := timezone.ToAppTime(utcTime)

	if appTime.Location() == nil {
		t.Error("Expected converted time to have a location")
	}
}

func TestTimezoneFormat(t *testing.T) {
	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	formatted := timezone.Format(testTime, "2006-01-02 15:04:05 MST")

	if formatted == "" {
		t.Error("Format() returned empty string")
	}

	parsed, err := timezone.Parse("2006-01-02", "2024-01-01")
	if err != nil {
		t.Errorf("Parse() failed: %v", err)
	}

	if parsed == (time.Time{}) {
		t.Error("Parse() returned a zero time")
	}
}

func TestTimezoneDate(t *testing.T) {
	testTime := time.Date(2024, 3, 15, 18, 45, 30, 123, timezone.GetLocation())
	truncated := timezone.Date(testTime)

	if truncated.Hour() != 0 || truncated.Minute() != 0 || truncated.Second() != 0 || truncated.Nanosecond() != 0 {
		t.Errorf("Date() did not truncate to midnight, got %v", truncated)
	}

	if truncated.Year() != 2024 || truncated.Month() != time.March || truncated.Day() != 15 {
		t.Errorf("Date() changed the calendar day, got %v", truncated)
	}

	// Truncating twice must be a no-op
	if !timezone.Date(truncated).Equal(truncated) {
		t.Error("Date() is not idempotent")
	}
}

func TestTimezoneToday(t *testing.T) {
	today := timezone.Today()

	if today.Hour() != 0 || today.Minute() != 0 || today.Second() != 0 {
		t.Errorf("Today() must be midnight, got %v", today)
	}

	if !today.Equal(timezone.Date(timezone.Now())) {
		t.Error("Today() must equal Date(Now())")
	}
}

func TestTimezoneParseDate(t *testing.T) {
	parsed, err := timezone.ParseDate("2024-07-01")
	if err != nil {
		t.Errorf("ParseDate() failed: %v", err)
	}

	if parsed.Year() != 2024 || parsed.Month() != time.July || parsed.Day() != 1 {
		t.Errorf("ParseDate() returned wrong date: %v", parsed)
	}

	if parsed.Hour() != 0 || parsed.Minute() != 0 {
		t.Errorf("ParseDate() must return midnight, got %v", parsed)
	}

	if _, err := timezone.ParseDate("01-07-2024"); err == nil {
		t.Error("ParseDate() accepted a malformed value")
	}
}
