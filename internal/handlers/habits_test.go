package handlers

import "testing"

// TestParsePeriodValid проверяет корректный разбор периода.
func TestParsePeriodValid(t *testing.T) {
	start, end, err := parsePeriod("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if start.Format(dateLayout) != "2024-01-01" {
		t.Fatalf("unexpected start: %s", start.Format(dateLayout))
	}
	if end.Format(dateLayout) != "2024-01-31" {
		t.Fatalf("unexpected end: %s", end.Format(dateLayout))
	}
}

// TestParsePeriodInvalid проверяет ошибки при неверном периоде.
func TestParsePeriodInvalid(t *testing.T) {
	if _, _, err := parsePeriod("2024/01/01", "2024-01-31"); err == nil {
		t.Fatal("expected error for invalid start format")
	}

	if _, _, err := parsePeriod("2024-02-01", "2024-01-31"); err == nil {
		t.Fatal("expected error for end before start")
	}
}

// TestParsePeriodDefaults проверяет, что без параметров берется текущий месяц.
func TestParsePeriodDefaults(t *testing.T) {
	start, end, err := parsePeriod("", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if start.Day() != 1 {
		t.Fatalf("expected period to start on the 1st, got %d", start.Day())
	}
	if !end.After(start) {
		t.Fatalf("expected end after start, got %s .. %s", start, end)
	}
	if start.Month() != end.Month() {
		t.Fatalf("expected single month, got %s .. %s", start.Month(), end.Month())
	}
}
