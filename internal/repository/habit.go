package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/roomkit/backend/internal/models"
)

type HabitRepository struct {
	db *pgxpool.Pool
}

type HabitCompletion struct {
	HabitID   uuid.UUID
	Title     string
	Color     string
	DoneCount int
}

// NewHabitRepository создает репозиторий привычек.
func NewHabitRepository(db *pgxpool.Pool) *HabitRepository {
	return &HabitRepository{db: db}
}

// ListByRoom возвращает привычки комнаты по порядку сортировки.
func (r *HabitRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Habit, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, room_id, title, color, sort_order, created_at, updated_at
		 FROM habits
		 WHERE room_id = $1
		 ORDER BY sort_order, created_at`,
		roomID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := make([]models.Habit, 0)
	for rows.Next() {
		var habit models.Habit
		err := rows.Scan(&habit.ID, &habit.RoomID, &habit.Title, &habit.Color, &habit.SortOrder, &habit.CreatedAt, &habit.UpdatedAt)
		if err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}

	return habits, rows.Err()
}

// Create создает привычку в конце списка.
func (r *HabitRepository) Create(ctx context.Context, roomID uuid.UUID, title, color string) (models.Habit, error) {
	var habit models.Habit

	err := r.db.QueryRow(ctx,
		`INSERT INTO habits (room_id, title, color, sort_order)
		 VALUES ($1, $2, $3, COALESCE((SELECT MAX(sort_order) + 1 FROM habits WHERE room_id = $1), 0))
		 RETURNING id, room_id, title, color, sort_order, created_at, updated_at`,
		roomID, title, color,
	).Scan(&habit.ID, &habit.RoomID, &habit.Title, &habit.Color, &habit.SortOrder, &habit.CreatedAt, &habit.UpdatedAt)
	if err != nil {
		return habit, err
	}

	return habit, nil
}

// Update обновляет название и цвет привычки.
func (r *HabitRepository) Update(ctx context.Context, roomID, habitID uuid.UUID, title, color string) (models.Habit, error) {
	var habit models.Habit

	err := r.db.QueryRow(ctx,
		`UPDATE habits
		 SET title = $3, color = $4, updated_at = NOW()
		 WHERE id = $1 AND room_id = $2
		 RETURNING id, room_id, title, color, sort_order, created_at, updated_at`,
		habitID, roomID, title, color,
	).Scan(&habit.ID, &habit.RoomID, &habit.Title, &habit.Color, &habit.SortOrder, &habit.CreatedAt, &habit.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return habit, ErrNotFound
		}
		return habit, err
	}

	return habit, nil
}

// Delete удаляет привычку вместе с отметками.
func (r *HabitRepository) Delete(ctx context.Context, roomID, habitID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM habits
		 WHERE id = $1 AND room_id = $2`,
		habitID, roomID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ToggleLog переключает отметку привычки за день. Возвращает true, если день отмечен.
func (r *HabitRepository) ToggleLog(ctx context.Context, roomID, habitID uuid.UUID, day time.Time) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM habits WHERE id = $1 AND room_id = $2)`,
		habitID, roomID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrNotFound
	}

	cmd, err := tx.Exec(ctx,
		`DELETE FROM habit_logs
		 WHERE habit_id = $1 AND day = $2`,
		habitID, day,
	)
	if err != nil {
		return false, err
	}

	marked := false
	if cmd.RowsAffected() == 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO habit_logs (habit_id, day)
			 VALUES ($1, $2)`,
			habitID, day,
		)
		if err != nil {
			return false, err
		}
		marked = true
	}

	return marked, tx.Commit(ctx)
}

// ListLogs возвращает отметки привычек комнаты за диапазон дней.
func (r *HabitRepository) ListLogs(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]models.HabitLog, error) {
	rows, err := r.db.Query(ctx,
		`SELECT l.id, l.habit_id, l.day, l.created_at
		 FROM habit_logs l
		 JOIN habits h ON h.id = l.habit_id
		 WHERE h.room_id = $1 AND l.day BETWEEN $2 AND $3
		 ORDER BY l.day, l.habit_id`,
		roomID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]models.HabitLog, 0)
	for rows.Next() {
		var log models.HabitLog
		if err := rows.Scan(&log.ID, &log.HabitID, &log.Day, &log.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

// Completion возвращает число отмеченных дней по каждой привычке за диапазон.
func (r *HabitRepository) Completion(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]HabitCompletion, error) {
	rows, err := r.db.Query(ctx,
		`SELECT h.id, h.title, h.color, COUNT(l.id)
		 FROM habits h
		 LEFT JOIN habit_logs l ON l.habit_id = h.id AND l.day BETWEEN $2 AND $3
		 WHERE h.room_id = $1
		 GROUP BY h.id, h.title, h.color, h.sort_order, h.created_at
		 ORDER BY h.sort_order, h.created_at`,
		roomID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := make([]HabitCompletion, 0)
	for rows.Next() {
		var completion HabitCompletion
		if err := rows.Scan(&completion.HabitID, &completion.Title, &completion.Color, &completion.DoneCount); err != nil {
			return nil, err
		}
		completions = append(completions, completion)
	}

	return completions, rows.Err()
}
