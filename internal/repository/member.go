package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/roomkit/backend/internal/models"
)

type MemberRepository struct {
	db *pgxpool.Pool
}

// NewMemberRepository создает репозиторий участников комнаты.
func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

// ListByRoom возвращает участников комнаты в порядке добавления.
func (r *MemberRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Member, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, room_id, name, created_at
		 FROM members
		 WHERE room_id = $1
		 ORDER BY created_at, id`,
		roomID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.Member, 0)
	for rows.Next() {
		var member models.Member
		if err := rows.Scan(&member.ID, &member.RoomID, &member.Name, &member.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

// Create добавляет участника с учетом лимита на комнату.
func (r *MemberRepository) Create(ctx context.Context, roomID uuid.UUID, name string, maxMembers int) (models.Member, error) {
	var member models.Member

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return member, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM members WHERE room_id = $1`,
		roomID,
	).Scan(&count); err != nil {
		return member, err
	}

	if count >= maxMembers {
		return member, ErrRoomIsFull
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO members (room_id, name)
		 VALUES ($1, $2)
		 RETURNING id, room_id, name, created_at`,
		roomID, name,
	).Scan(&member.ID, &member.RoomID, &member.Name, &member.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return member, ErrConflict
		}
		return member, err
	}

	if err := tx.Commit(ctx); err != nil {
		return member, err
	}

	return member, nil
}

// Delete удаляет участника комнаты.
func (r *MemberRepository) Delete(ctx context.Context, roomID, memberID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM members
		 WHERE id = $1 AND room_id = $2`,
		memberID, roomID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
