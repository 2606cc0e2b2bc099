package services

import (
	"testing"
	"time"
)

func TestResolveDateRange_Defaults(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	window := resolveDateRangeAt("", "", now)

	if !window.To.Equal(now) {
		t.Fatalf("To = %v, want %v", window.To, now)
	}
	if want := now.AddDate(0, 0, -30); !window.From.Equal(want) {
		t.Fatalf("From = %v, want %v", window.From, want)
	}
}

func TestResolveDateRange_ExplicitBounds(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	window := resolveDateRangeAt("2024-01-01", "2024-02-01", now)

	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !window.From.Equal(want) {
		t.Fatalf("From = %v, want %v", window.From, want)
	}
	if want := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC); !window.To.Equal(want) {
		t.Fatalf("To = %v, want %v", window.To, want)
	}
}

func TestResolveDateRange_InvertedInput(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	// from after to: the from value is discarded and recomputed.
	window := resolveDateRangeAt("2024-01-10", "2024-01-01", now)

	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !window.To.Equal(end) {
		t.Fatalf("To = %v, want %v", window.To, end)
	}
	if want := end.AddDate(0, 0, -30); !window.From.Equal(want) {
		t.Fatalf("From = %v, want %v", window.From, want)
	}
}

func TestResolveDateRange_UnparseableFallsBack(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	window := resolveDateRangeAt("not-a-date", "also-not-a-date", now)

	if !window.To.Equal(now) {
		t.Fatalf("To = %v, want %v", window.To, now)
	}
	if want := now.AddDate(0, 0, -30); !window.From.Equal(want) {
		t.Fatalf("From = %v, want %v", window.From, want)
	}
}

func TestResolveDateRange_RFC3339(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	window := resolveDateRangeAt("2024-03-01T08:30:00Z", "", now)

	if want := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC); !window.From.Equal(want) {
		t.Fatalf("From = %v, want %v", window.From, want)
	}
}

func TestDateRange_ContainsInclusiveEnds(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	window := resolveDateRangeAt("2024-01-01", "2024-02-01", now)

	if !window.Contains(window.From) {
		t.Fatalf("Contains(From) = false, want true")
	}
	if !window.Contains(window.To) {
		t.Fatalf("Contains(To) = false, want true")
	}
	if window.Contains(window.To.Add(time.Second)) {
		t.Fatalf("Contains(To+1s) = true, want false")
	}
}
