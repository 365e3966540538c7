package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepository struct {
	db *pgxpool.Pool
}

type RoomOverview struct {
	MemberCount      int
	ExpenseCount     int
	TotalCommonCents int64
	OpenTaskCount    int
	HabitCount       int
	HabitLogsInRange int
	OpenPollCount    int
}

// NewStatsRepository создает репозиторий агрегатов комнаты.
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

// Overview собирает сводку комнаты одним набором агрегатов.
func (r *StatsRepository) Overview(ctx context.Context, roomID uuid.UUID, habitFrom, habitTo time.Time) (RoomOverview, error) {
	var overview RoomOverview

	err := r.db.QueryRow(ctx,
		`SELECT
		    (SELECT COUNT(*) FROM members WHERE room_id = $1),
		    (SELECT COUNT(*) FROM expenses WHERE room_id = $1),
		    (SELECT COALESCE(SUM(amount_cents), 0) FROM expenses WHERE room_id = $1 AND category = 'common'),
		    (SELECT COUNT(*) FROM tasks t JOIN task_groups g ON g.id = t.group_id WHERE g.room_id = $1 AND NOT t.is_completed),
		    (SELECT COUNT(*) FROM habits WHERE room_id = $1),
		    (SELECT COUNT(*) FROM habit_logs l JOIN habits h ON h.id = l.habit_id WHERE h.room_id = $1 AND l.day BETWEEN $2 AND $3),
		    (SELECT COUNT(*) FROM polls WHERE room_id = $1 AND NOT is_closed)`,
		roomID, habitFrom, habitTo,
	).Scan(
		&overview.MemberCount,
		&overview.ExpenseCount,
		&overview.TotalCommonCents,
		&overview.OpenTaskCount,
		&overview.HabitCount,
		&overview.HabitLogsInRange,
		&overview.OpenPollCount,
	)
	if err != nil {
		return overview, err
	}

	return overview, nil
}
