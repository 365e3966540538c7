package calendar

import "time"

// RangeDays перечисляет дни диапазона включительно, опционально без выходных.
// Обратный диапазон дает пустой результат.
func RangeDays(from, to time.Time, includeWeekends bool) []time.Time {
	from = dayFloor(from)
	to = dayFloor(to)

	var days []time.Time
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if !includeWeekends {
			if weekday := day.Weekday(); weekday == time.Saturday || weekday == time.Sunday {
				continue
			}
		}
		days = append(days, day)
	}

	return days
}

// MonthDays перечисляет дни календарного месяца.
func MonthDays(year int, month time.Month, includeWeekends bool) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return RangeDays(first, last, includeWeekends)
}
