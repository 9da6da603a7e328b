package util

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthKey(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{date(2024, time.January, 15), "2024-01"},
		{date(2024, time.December, 31), "2024-12"},
		{date(1999, time.September, 1), "1999-09"},
	}

	for _, tt := range tests {
		if got := MonthKey(tt.date); got != tt.want {
			t.Errorf("MonthKey(%v) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestMonthKeyOf_ZeroDateFallsBackToNow(t *testing.T) {
	now := date(2024, time.March, 7)
	if got := MonthKeyOf(time.Time{}, now); got != "2024-03" {
		t.Errorf("MonthKeyOf(zero, %v) = %q, want %q", now, got, "2024-03")
	}
	if got := MonthKeyOf(date(2023, time.July, 4), now); got != "2023-07" {
		t.Errorf("MonthKeyOf = %q, want %q", got, "2023-07")
	}
}

func TestOffsetMonthKey(t *testing.T) {
	tests := []struct {
		key    string
		offset int
		want   string
	}{
		{"2024-06", 0, "2024-06"},
		{"2024-06", 1, "2024-07"},
		{"2024-12", 1, "2025-01"}, // carry into next year
		{"2024-01", -1, "2023-12"}, // borrow from previous year
		{"2024-03", 25, "2026-04"},
		{"2024-03", -27, "2021-12"},
	}

	for _, tt := range tests {
		got, err := OffsetMonthKey(tt.key, tt.offset)
		if err != nil {
			t.Fatalf("OffsetMonthKey(%q, %d) returned error: %v", tt.key, tt.offset, err)
		}
		if got != tt.want {
			t.Errorf("OffsetMonthKey(%q, %d) = %q, want %q", tt.key, tt.offset, got, tt.want)
		}
	}
}

func TestOffsetMonthKey_RoundTrip(t *testing.T) {
	// Zero offset is the identity for any key derived from a date
	dates := []time.Time{
		date(2024, time.January, 31),
		date(2023, time.June, 1),
		date(2025, time.December, 15),
	}
	for _, d := range dates {
		key := MonthKey(d)
		got, err := OffsetMonthKey(key, 0)
		if err != nil {
			t.Fatalf("OffsetMonthKey(%q, 0) returned error: %v", key, err)
		}
		if got != key {
			t.Errorf("OffsetMonthKey(%q, 0) = %q, want %q", key, got, key)
		}
	}
}

func TestOffsetMonthKey_Additive(t *testing.T) {
	// offset(offset(k, a), b) == offset(k, a+b)
	offsets := []struct{ a, b int }{
		{1, 1}, {5, -3}, {-12, 12}, {7, 30}, {-25, -2}, {0, 0},
	}
	key := "2024-05"
	for _, o := range offsets {
		step1, err := OffsetMonthKey(key, o.a)
		if err != nil {
			t.Fatal(err)
		}
		chained, err := OffsetMonthKey(step1, o.b)
		if err != nil {
			t.Fatal(err)
		}
		direct, err := OffsetMonthKey(key, o.a+o.b)
		if err != nil {
			t.Fatal(err)
		}
		if chained != direct {
			t.Errorf("offset additivity broken for (%d, %d): %q != %q", o.a, o.b, chained, direct)
		}
	}
}

func TestOffsetMonthKey_Invalid(t *testing.T) {
	for _, key := range []string{"", "2024", "2024-13", "24-01", "2024/01"} {
		if _, err := OffsetMonthKey(key, 1); err == nil {
			t.Errorf("OffsetMonthKey(%q, 1) expected error, got none", key)
		}
	}
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{
			name:   "same day preserved",
			start:  date(2024, time.January, 15),
			months: 1,
			want:   date(2024, time.February, 15),
		},
		{
			name:   "day 31 clamps to leap February",
			start:  date(2024, time.January, 31),
			months: 1,
			want:   date(2024, time.February, 29),
		},
		{
			name:   "day 31 clamps to non-leap February",
			start:  date(2023, time.January, 31),
			months: 1,
			want:   date(2023, time.February, 28),
		},
		{
			name:   "clamp does not stick: March gets day 31 back",
			start:  date(2024, time.January, 31),
			months: 2,
			want:   date(2024, time.March, 31),
		},
		{
			name:   "year boundary",
			start:  date(2024, time.November, 15),
			months: 3,
			want:   date(2025, time.February, 15),
		},
		{
			name:   "negative offset",
			start:  date(2024, time.March, 31),
			months: -1,
			want:   date(2024, time.February, 29),
		},
		{
			name:   "zero offset is identity",
			start:  date(2024, time.July, 4),
			months: 0,
			want:   date(2024, time.July, 4),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonthsClamped(tt.start, tt.months)
			if !got.Equal(tt.want) {
				t.Errorf("AddMonthsClamped(%v, %d) = %v, want %v", tt.start, tt.months, got, tt.want)
			}
		})
	}
}

func TestLastDayOfMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		if got := LastDayOfMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("LastDayOfMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}
