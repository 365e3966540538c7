package calendar

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// DayKeyLayout — формат ключа календарного дня.
const DayKeyLayout = "2006-01-02"

type Task struct {
	ID          uuid.UUID
	GroupID     uuid.UUID
	StartDate   time.Time
	EndDate     time.Time
	IsCompleted bool
}

// LaneKey адресует полосу задачи в конкретный день.
type LaneKey struct {
	Day    string
	TaskID uuid.UUID
}

type Layout struct {
	LaneOf        map[LaneKey]int
	MaxLanePerDay map[string]int
}

// DayKey возвращает ключ дня для произвольного момента времени.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// PackLanes распределяет задачи по полосам внутри строк календаря.
//
// Дни нарезаются на строки по columnsPerRow, последняя строка может быть
// короче. Каждая строка пакуется независимо: полосы назначаются жадно с
// нуля в порядке (группа, дата начала, id), две задачи не делят полосу в
// один день. Завершенные задачи исключаются целиком. Задача, пересекающая
// несколько строк, может получить разные полосы в разных строках.
func PackLanes(tasks []Task, displayedDays []time.Time, columnsPerRow int) Layout {
	layout := Layout{
		LaneOf:        make(map[LaneKey]int),
		MaxLanePerDay: make(map[string]int),
	}

	if len(tasks) == 0 || len(displayedDays) == 0 || columnsPerRow <= 0 {
		return layout
	}

	active := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if task.IsCompleted {
			continue
		}
		task.StartDate = dayFloor(task.StartDate)
		task.EndDate = dayFloor(task.EndDate)
		active = append(active, task)
	}

	days := make([]time.Time, len(displayedDays))
	for i, day := range displayedDays {
		days[i] = dayFloor(day)
	}

	for offset := 0; offset < len(days); offset += columnsPerRow {
		end := offset + columnsPerRow
		if end > len(days) {
			end = len(days)
		}
		packRow(&layout, active, days[offset:end])
	}

	return layout
}

func packRow(layout *Layout, tasks []Task, row []time.Time) {
	rowStart := row[0]
	rowEnd := row[len(row)-1]

	selected := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if task.EndDate.Before(rowStart) || task.StartDate.After(rowEnd) {
			continue
		}
		selected = append(selected, task)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.GroupID != b.GroupID {
			return a.GroupID.String() < b.GroupID.String()
		}
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.ID.String() < b.ID.String()
	})

	// used[lane][dayIndex] — занятые клетки строки.
	var used []map[int]bool

	for _, task := range selected {
		occupied := make([]int, 0, len(row))
		for idx, day := range row {
			if day.Before(task.StartDate) || day.After(task.EndDate) {
				continue
			}
			occupied = append(occupied, idx)
		}
		if len(occupied) == 0 {
			continue
		}

		lane := 0
		for ; lane < len(used); lane++ {
			if fits(used[lane], occupied) {
				break
			}
		}
		if lane == len(used) {
			used = append(used, make(map[int]bool))
		}

		for _, idx := range occupied {
			used[lane][idx] = true
			key := DayKey(row[idx])
			layout.LaneOf[LaneKey{Day: key, TaskID: task.ID}] = lane
			if current, ok := layout.MaxLanePerDay[key]; !ok || lane > current {
				layout.MaxLanePerDay[key] = lane
			}
		}
	}
}

func fits(lane map[int]bool, occupied []int) bool {
	for _, idx := range occupied {
		if lane[idx] {
			return false
		}
	}
	return true
}

func dayFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
