package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/roomkit/backend/internal/models"
)

type NoteRepository struct {
	db *pgxpool.Pool
}

// NewNoteRepository создает репозиторий заметок комнаты.
func NewNoteRepository(db *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{db: db}
}

// ListByRoom возвращает заметки: сначала закрепленные, затем по порядку.
func (r *NoteRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Note, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, room_id, content, note_kind, sort_order, created_at, updated_at
		 FROM notes
		 WHERE room_id = $1
		 ORDER BY note_kind = 'pinned' DESC, sort_order, created_at`,
		roomID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]models.Note, 0)
	for rows.Next() {
		var note models.Note
		err := rows.Scan(&note.ID, &note.RoomID, &note.Content, &note.NoteKind, &note.SortOrder, &note.CreatedAt, &note.UpdatedAt)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// Create создает заметку в конце списка.
func (r *NoteRepository) Create(ctx context.Context, roomID uuid.UUID, content string, kind models.NoteKind) (models.Note, error) {
	var note models.Note

	err := r.db.QueryRow(ctx,
		`INSERT INTO notes (room_id, content, note_kind, sort_order)
		 VALUES ($1, $2, $3, COALESCE((SELECT MAX(sort_order) + 1 FROM notes WHERE room_id = $1), 0))
		 RETURNING id, room_id, content, note_kind, sort_order, created_at, updated_at`,
		roomID, content, kind,
	).Scan(&note.ID, &note.RoomID, &note.Content, &note.NoteKind, &note.SortOrder, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return note, err
	}

	return note, nil
}

// Update обновляет содержимое и вид заметки.
func (r *NoteRepository) Update(ctx context.Context, roomID, noteID uuid.UUID, content string, kind models.NoteKind) (models.Note, error) {
	var note models.Note

	err := r.db.QueryRow(ctx,
		`UPDATE notes
		 SET content = $3, note_kind = $4, updated_at = NOW()
		 WHERE id = $1 AND room_id = $2
		 RETURNING id, room_id, content, note_kind, sort_order, created_at, updated_at`,
		noteID, roomID, content, kind,
	).Scan(&note.ID, &note.RoomID, &note.Content, &note.NoteKind, &note.SortOrder, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return note, ErrNotFound
		}
		return note, err
	}

	return note, nil
}

// Delete удаляет заметку.
func (r *NoteRepository) Delete(ctx context.Context, roomID, noteID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM notes
		 WHERE id = $1 AND room_id = $2`,
		noteID, roomID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Reorder сохраняет новый порядок заметок комнаты.
func (r *NoteRepository) Reorder(ctx context.Context, roomID uuid.UUID, noteIDs []uuid.UUID) error {
	if len(noteIDs) == 0 {
		return ErrInvalid
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for idx, noteID := range noteIDs {
		cmd, err := tx.Exec(ctx,
			`UPDATE notes
			 SET sort_order = $3, updated_at = NOW()
			 WHERE id = $1 AND room_id = $2`,
			noteID, roomID, idx,
		)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
	}

	return tx.Commit(ctx)
}
