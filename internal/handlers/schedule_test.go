package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/roomkit/backend/internal/models"
	"example.com/roomkit/backend/internal/repository"
)

// TestParseTaskDates проверяет разбор и проверку дат задачи.
func TestParseTaskDates(t *testing.T) {
	start, end, err := parseTaskDates("2024-06-01", "2024-06-03")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if start.After(end) {
		t.Fatalf("unexpected range: %s .. %s", start, end)
	}

	if _, _, err := parseTaskDates("2024-06-03", "2024-06-01"); err == nil {
		t.Fatal("expected error for end before start")
	}

	if _, _, err := parseTaskDates("junk", "2024-06-01"); err == nil {
		t.Fatal("expected error for invalid start date")
	}
}

// TestBuildLayoutResponse проверяет сборку ответа раскладки по дням.
func TestBuildLayoutResponse(t *testing.T) {
	groupID := uuid.New()
	day1 := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	// Фиксированные id: многодневная задача сортируется первой и берет полосу 0.
	tasks := []repository.TaskWithGroup{
		{
			Task: models.Task{
				ID:        uuid.MustParse("00000000-0000-0000-0000-000000000001"),
				GroupID:   groupID,
				StartDate: day1,
				EndDate:   day2,
			},
			GroupTitle: "chores",
			GroupColor: "#AABBCC",
		},
		{
			Task: models.Task{
				ID:        uuid.MustParse("00000000-0000-0000-0000-000000000002"),
				GroupID:   groupID,
				StartDate: day1,
				EndDate:   day1,
			},
			GroupTitle: "chores",
			GroupColor: "#AABBCC",
		},
		{
			Task: models.Task{
				ID:          uuid.New(),
				GroupID:     groupID,
				StartDate:   day1,
				EndDate:     day1,
				IsCompleted: true,
			},
			GroupTitle: "chores",
			GroupColor: "#AABBCC",
		},
	}

	response := buildLayoutResponse(tasks, []time.Time{day1, day2}, 7)

	if response.Columns != 7 {
		t.Fatalf("unexpected columns: %d", response.Columns)
	}
	if len(response.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(response.Days))
	}
	if len(response.Tasks) != 3 {
		t.Fatalf("expected 3 tasks in response, got %d", len(response.Tasks))
	}

	// Две активные задачи делят первый день — две полосы.
	if got := len(response.Days[0].Tasks); got != 2 {
		t.Fatalf("expected 2 placed tasks on first day, got %d", got)
	}
	if response.Days[0].MaxLane != 1 {
		t.Fatalf("expected max lane 1 on first day, got %d", response.Days[0].MaxLane)
	}

	// Завершенная задача не попадает в раскладку.
	if got := len(response.Days[1].Tasks); got != 1 {
		t.Fatalf("expected 1 placed task on second day, got %d", got)
	}
	if response.Days[1].MaxLane != 0 {
		t.Fatalf("expected max lane 0 on second day, got %d", response.Days[1].MaxLane)
	}
}
