package quotes

import (
	"regexp"
	"sort"
	"testing"
	"time"
)

func TestNumberFormat(t *testing.T) {
	at := time.Date(2025, 3, 9, 14, 5, 9, 0, time.UTC)
	got := Number(at)
	want := "QT-2025-03-09_14-05-09"
	if got != want {
		t.Fatalf("Number = %q, want %q", got, want)
	}
	if !regexp.MustCompile(`^QT-\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}$`).MatchString(got) {
		t.Fatalf("unexpected shape %q", got)
	}
}

func TestNumberSortsChronologically(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 1, 0, time.UTC),
		time.Date(2025, 10, 2, 8, 30, 0, 0, time.UTC),
	}
	numbers := make([]string, len(times))
	for i, at := range times {
		numbers[i] = Number(at)
	}
	if !sort.StringsAreSorted(numbers) {
		t.Fatalf("numbers should sort chronologically: %v", numbers)
	}
}
