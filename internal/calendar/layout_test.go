package calendar

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var (
	groupA = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	groupB = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
)

func day(dayOfMonth int) time.Time {
	return time.Date(2024, time.January, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func week() []time.Time {
	days := make([]time.Time, 0, 7)
	for d := 1; d <= 7; d++ {
		days = append(days, day(d))
	}
	return days
}

// TestPackLanesExample проверяет базовый случай двух пересекающихся задач.
func TestPackLanesExample(t *testing.T) {
	t1 := Task{ID: uuid.New(), GroupID: groupA, StartDate: day(1), EndDate: day(3)}
	t2 := Task{ID: uuid.New(), GroupID: groupB, StartDate: day(2), EndDate: day(4)}

	layout := PackLanes([]Task{t1, t2}, week(), 7)

	for d := 1; d <= 3; d++ {
		if lane := layout.LaneOf[LaneKey{Day: DayKey(day(d)), TaskID: t1.ID}]; lane != 0 {
			t.Fatalf("expected t1 on lane 0 for day %d, got %d", d, lane)
		}
	}
	for d := 2; d <= 4; d++ {
		lane, ok := layout.LaneOf[LaneKey{Day: DayKey(day(d)), TaskID: t2.ID}]
		if !ok || lane != 1 {
			t.Fatalf("expected t2 on lane 1 for day %d, got %d (ok=%v)", d, lane, ok)
		}
	}

	if layout.MaxLanePerDay[DayKey(day(1))] != 0 {
		t.Fatalf("expected max lane 0 on day 1, got %d", layout.MaxLanePerDay[DayKey(day(1))])
	}
	if layout.MaxLanePerDay[DayKey(day(4))] != 1 {
		t.Fatalf("expected max lane 1 on day 4, got %d", layout.MaxLanePerDay[DayKey(day(4))])
	}
}

// TestPackLanesNoSharedLane проверяет, что пересекающиеся задачи не делят полосу.
func TestPackLanesNoSharedLane(t *testing.T) {
	tasks := []Task{
		{ID: uuid.New(), GroupID: groupA, StartDate: day(1), EndDate: day(5)},
		{ID: uuid.New(), GroupID: groupA, StartDate: day(2), EndDate: day(6)},
		{ID: uuid.New(), GroupID: groupB, StartDate: day(3), EndDate: day(7)},
		{ID: uuid.New(), GroupID: groupB, StartDate: day(1), EndDate: day(2)},
	}

	layout := PackLanes(tasks, week(), 7)

	for d := 1; d <= 7; d++ {
		key := DayKey(day(d))
		seen := make(map[int]uuid.UUID)
		for _, task := range tasks {
			lane, ok := layout.LaneOf[LaneKey{Day: key, TaskID: task.ID}]
			if !ok {
				continue
			}
			if other, taken := seen[lane]; taken {
				t.Fatalf("day %d: lane %d shared by %s and %s", d, lane, other, task.ID)
			}
			seen[lane] = task.ID
		}
	}
}

// TestPackLanesMinimality проверяет плотность полос для взаимно пересекающихся задач.
func TestPackLanesMinimality(t *testing.T) {
	tasks := []Task{
		{ID: uuid.New(), GroupID: groupA, StartDate: day(1), EndDate: day(4)},
		{ID: uuid.New(), GroupID: groupA, StartDate: day(2), EndDate: day(5)},
		{ID: uuid.New(), GroupID: groupB, StartDate: day(3), EndDate: day(6)},
	}

	layout := PackLanes(tasks, week(), 7)

	// Дни 3 и 4 заняты всеми тремя задачами.
	for _, d := range []int{3, 4} {
		if max := layout.MaxLanePerDay[DayKey(day(d))]; max != 2 {
			t.Fatalf("expected max lane 2 on day %d, got %d", d, max)
		}
	}

	lanes := make(map[int]bool)
	for _, task := range tasks {
		lanes[layout.LaneOf[LaneKey{Day: DayKey(day(3)), TaskID: task.ID}]] = true
	}
	for lane := 0; lane <= 2; lane++ {
		if !lanes[lane] {
			t.Fatalf("expected lane %d to be used on day 3", lane)
		}
	}
}

// TestPackLanesCompletedExcluded проверяет полное исключение завершенных задач.
func TestPackLanesCompletedExcluded(t *testing.T) {
	done := Task{ID: uuid.New(), GroupID: groupA, StartDate: day(1), EndDate: day(7), IsCompleted: true}
	open := Task{ID: uuid.New(), GroupID: groupB, StartDate: day(1), EndDate: day(7)}

	layout := PackLanes([]Task{done, open}, week(), 7)

	for d := 1; d <= 7; d++ {
		key := DayKey(day(d))
		if _, ok := layout.LaneOf[LaneKey{Day: key, TaskID: done.ID}]; ok {
			t.Fatalf("completed task assigned a lane on day %d", d)
		}
		if layout.MaxLanePerDay[key] != 0 {
			t.Fatalf("completed task affected max lane on day %d", d)
		}
	}
}

// TestPackLanesRowIndependence проверяет перекраску задачи в каждой строке отдельно.
func TestPackLanesRowIndependence(t *testing.T) {
	days := make([]time.Time, 0, 14)
	for d := 1; d <= 14; d++ {
		days = append(days, day(d))
	}

	blocker := Task{ID: uuid.New(), GroupID: groupA, StartDate: day(1), EndDate: day(3)}
	long := Task{ID: uuid.New(), GroupID: groupB, StartDate: day(1), EndDate: day(10)}

	layout := PackLanes([]Task{blocker, long}, days, 7)

	if lane := layout.LaneOf[LaneKey{Day: DayKey(day(3)), TaskID: long.ID}]; lane != 1 {
		t.Fatalf("expected lane 1 in first row, got %d", lane)
	}
	if lane := layout.LaneOf[LaneKey{Day: DayKey(day(9)), TaskID: long.ID}]; lane != 0 {
		t.Fatalf("expected lane 0 in second row, got %d", lane)
	}
}

// TestPackLanesGroupClustering проверяет сортировку сначала по группе.
func TestPackLanesGroupClustering(t *testing.T) {
	later := Task{ID: uuid.New(), GroupID: groupA, StartDate: day(3), EndDate: day(5)}
	earlier := Task{ID: uuid.New(), GroupID: groupB, StartDate: day(1), EndDate: day(5)}

	layout := PackLanes([]Task{earlier, later}, week(), 7)

	// groupA пакуется раньше groupB несмотря на более позднюю дату начала.
	if lane := layout.LaneOf[LaneKey{Day: DayKey(day(3)), TaskID: later.ID}]; lane != 0 {
		t.Fatalf("expected groupA task on lane 0, got %d", lane)
	}
	if lane := layout.LaneOf[LaneKey{Day: DayKey(day(3)), TaskID: earlier.ID}]; lane != 1 {
		t.Fatalf("expected groupB task on lane 1, got %d", lane)
	}
}

// TestPackLanesTieBreak проверяет детерминизм при равных группе и дате начала.
func TestPackLanesTieBreak(t *testing.T) {
	first := Task{
		ID:        uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		GroupID:   groupA,
		StartDate: day(1),
		EndDate:   day(2),
	}
	second := Task{
		ID:        uuid.MustParse("00000000-0000-0000-0000-000000000002"),
		GroupID:   groupA,
		StartDate: day(1),
		EndDate:   day(2),
	}

	layout := PackLanes([]Task{second, first}, week(), 7)

	if lane := layout.LaneOf[LaneKey{Day: DayKey(day(1)), TaskID: first.ID}]; lane != 0 {
		t.Fatalf("expected smaller id on lane 0, got %d", lane)
	}
	if lane := layout.LaneOf[LaneKey{Day: DayKey(day(1)), TaskID: second.ID}]; lane != 1 {
		t.Fatalf("expected larger id on lane 1, got %d", lane)
	}
}

// TestPackLanesEmptyInputs проверяет пустой результат без ошибок.
func TestPackLanesEmptyInputs(t *testing.T) {
	layout := PackLanes(nil, week(), 7)
	if len(layout.LaneOf) != 0 || len(layout.MaxLanePerDay) != 0 {
		t.Fatal("expected empty layout for empty tasks")
	}

	layout = PackLanes([]Task{{ID: uuid.New(), GroupID: groupA, StartDate: day(1), EndDate: day(2)}}, nil, 7)
	if len(layout.LaneOf) != 0 {
		t.Fatal("expected empty layout for empty days")
	}
}

// TestPackLanesReversedRange проверяет, что перевернутый интервал не занимает дней.
func TestPackLanesReversedRange(t *testing.T) {
	reversed := Task{ID: uuid.New(), GroupID: groupA, StartDate: day(5), EndDate: day(2)}

	layout := PackLanes([]Task{reversed}, week(), 7)

	if len(layout.LaneOf) != 0 {
		t.Fatalf("expected no lanes for reversed range, got %d", len(layout.LaneOf))
	}
}

// TestPackLanesShortLastRow проверяет неполную последнюю строку.
func TestPackLanesShortLastRow(t *testing.T) {
	days := make([]time.Time, 0, 10)
	for d := 1; d <= 10; d++ {
		days = append(days, day(d))
	}

	task := Task{ID: uuid.New(), GroupID: groupA, StartDate: day(8), EndDate: day(10)}

	layout := PackLanes([]Task{task}, days, 7)

	for d := 8; d <= 10; d++ {
		if _, ok := layout.LaneOf[LaneKey{Day: DayKey(day(d)), TaskID: task.ID}]; !ok {
			t.Fatalf("expected lane assignment on day %d", d)
		}
	}
}
