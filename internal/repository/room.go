package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/roomkit/backend/internal/models"
)

type RoomRepository struct {
	db *pgxpool.Pool
}

// NewRoomRepository создает репозиторий комнат.
func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create создает комнату в базе.
func (r *RoomRepository) Create(ctx context.Context, slug, name, passwordHash string) (models.Room, error) {
	var room models.Room

	err := r.db.QueryRow(ctx,
		`INSERT INTO rooms (slug, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, slug, name, password_hash, created_at, updated_at`,
		slug, name, passwordHash,
	).Scan(&room.ID, &room.Slug, &room.Name, &room.PasswordHash, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return room, ErrConflict
		}
		return room, err
	}

	return room, nil
}

// GetBySlug возвращает комнату по слагу.
func (r *RoomRepository) GetBySlug(ctx context.Context, slug string) (models.Room, error) {
	var room models.Room

	err := r.db.QueryRow(ctx,
		`SELECT id, slug, name, password_hash, created_at, updated_at
		 FROM rooms
		 WHERE slug = $1`,
		slug,
	).Scan(&room.ID, &room.Slug, &room.Name, &room.PasswordHash, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return room, ErrNotFound
		}
		return room, err
	}

	return room, nil
}

// GetByID возвращает комнату по идентификатору.
func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Room, error) {
	var room models.Room

	err := r.db.QueryRow(ctx,
		`SELECT id, slug, name, password_hash, created_at, updated_at
		 FROM rooms
		 WHERE id = $1`,
		id,
	).Scan(&room.ID, &room.Slug, &room.Name, &room.PasswordHash, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return room, ErrNotFound
		}
		return room, err
	}

	return room, nil
}
