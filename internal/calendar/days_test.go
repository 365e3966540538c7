package calendar

import (
	"testing"
	"time"
)

// TestRangeDays проверяет перечисление дней с выходными и без.
func TestRangeDays(t *testing.T) {
	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC) // понедельник
	to := time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC)

	all := RangeDays(from, to, true)
	if len(all) != 7 {
		t.Fatalf("expected 7 days, got %d", len(all))
	}

	weekdays := RangeDays(from, to, false)
	if len(weekdays) != 5 {
		t.Fatalf("expected 5 weekdays, got %d", len(weekdays))
	}
	for _, day := range weekdays {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("weekend day %s in weekday range", day.Format(DayKeyLayout))
		}
	}
}

// TestRangeDaysReversed проверяет пустой результат для обратного диапазона.
func TestRangeDaysReversed(t *testing.T) {
	from := time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	if days := RangeDays(from, to, true); len(days) != 0 {
		t.Fatalf("expected no days, got %d", len(days))
	}
}

// TestMonthDays проверяет границы месяца, включая високосный февраль.
func TestMonthDays(t *testing.T) {
	days := MonthDays(2024, time.February, true)
	if len(days) != 29 {
		t.Fatalf("expected 29 days, got %d", len(days))
	}

	first := days[0]
	last := days[len(days)-1]
	if first.Day() != 1 || last.Day() != 29 {
		t.Fatalf("unexpected bounds: %s .. %s", first.Format(DayKeyLayout), last.Format(DayKeyLayout))
	}
}
