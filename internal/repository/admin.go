package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	db *pgxpool.Pool
}

type AdminRoom struct {
	ID           uuid.UUID
	Slug         string
	Name         string
	MemberCount  int
	ExpenseCount int
}

type AdminUsage struct {
	RoomCount    int
	MemberCount  int
	ExpenseCount int
	PollCount    int
	HabitCount   int
	TaskCount    int
}

// NewAdminRepository создает репозиторий административных выборок.
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// ListRooms возвращает комнаты со счетчиками участников и расходов.
func (r *AdminRepository) ListRooms(ctx context.Context) ([]AdminRoom, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.id, r.slug, r.name,
		        (SELECT COUNT(*) FROM members m WHERE m.room_id = r.id),
		        (SELECT COUNT(*) FROM expenses e WHERE e.room_id = r.id)
		 FROM rooms r
		 ORDER BY r.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]AdminRoom, 0)
	for rows.Next() {
		var room AdminRoom
		if err := rows.Scan(&room.ID, &room.Slug, &room.Name, &room.MemberCount, &room.ExpenseCount); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

// Usage возвращает суммарные счетчики по всей базе.
func (r *AdminRepository) Usage(ctx context.Context) (AdminUsage, error) {
	var usage AdminUsage

	err := r.db.QueryRow(ctx,
		`SELECT
		    (SELECT COUNT(*) FROM rooms),
		    (SELECT COUNT(*) FROM members),
		    (SELECT COUNT(*) FROM expenses),
		    (SELECT COUNT(*) FROM polls),
		    (SELECT COUNT(*) FROM habits),
		    (SELECT COUNT(*) FROM tasks)`,
	).Scan(
		&usage.RoomCount,
		&usage.MemberCount,
		&usage.ExpenseCount,
		&usage.PollCount,
		&usage.HabitCount,
		&usage.TaskCount,
	)
	if err != nil {
		return usage, err
	}

	return usage, nil
}
