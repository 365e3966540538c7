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

type PollRepository struct {
	db *pgxpool.Pool
}

// NewPollRepository создает репозиторий опросов по датам встреч.
func NewPollRepository(db *pgxpool.Pool) *PollRepository {
	return &PollRepository{db: db}
}

// Create создает опрос вместе с датами-кандидатами.
func (r *PollRepository) Create(ctx context.Context, roomID uuid.UUID, title string, dates []time.Time) (models.Poll, error) {
	var poll models.Poll

	if len(dates) == 0 {
		return poll, ErrInvalid
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return poll, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = tx.QueryRow(ctx,
		`INSERT INTO polls (room_id, title)
		 VALUES ($1, $2)
		 RETURNING id, room_id, title, is_closed, created_at, updated_at`,
		roomID, title,
	).Scan(&poll.ID, &poll.RoomID, &poll.Title, &poll.IsClosed, &poll.CreatedAt, &poll.UpdatedAt)
	if err != nil {
		return poll, err
	}

	for _, date := range dates {
		_, err = tx.Exec(ctx,
			`INSERT INTO poll_dates (poll_id, vote_date)
			 VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			poll.ID, date,
		)
		if err != nil {
			return poll, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return poll, err
	}

	poll.Dates = dates
	return poll, nil
}

// ListByRoom возвращает опросы комнаты с датами-кандидатами.
func (r *PollRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Poll, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, room_id, title, is_closed, created_at, updated_at
		 FROM polls
		 WHERE room_id = $1
		 ORDER BY created_at DESC`,
		roomID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	polls := make([]models.Poll, 0)
	for rows.Next() {
		var poll models.Poll
		if err := rows.Scan(&poll.ID, &poll.RoomID, &poll.Title, &poll.IsClosed, &poll.CreatedAt, &poll.UpdatedAt); err != nil {
			return nil, err
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range polls {
		dates, err := r.pollDates(ctx, polls[i].ID)
		if err != nil {
			return nil, err
		}
		polls[i].Dates = dates
	}

	return polls, nil
}

// GetByID возвращает опрос комнаты по идентификатору.
func (r *PollRepository) GetByID(ctx context.Context, roomID, pollID uuid.UUID) (models.Poll, error) {
	var poll models.Poll

	err := r.db.QueryRow(ctx,
		`SELECT id, room_id, title, is_closed, created_at, updated_at
		 FROM polls
		 WHERE id = $1 AND room_id = $2`,
		pollID, roomID,
	).Scan(&poll.ID, &poll.RoomID, &poll.Title, &poll.IsClosed, &poll.CreatedAt, &poll.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return poll, ErrNotFound
		}
		return poll, err
	}

	poll.Dates, err = r.pollDates(ctx, poll.ID)
	if err != nil {
		return poll, err
	}

	return poll, nil
}

// Close закрывает опрос.
func (r *PollRepository) Close(ctx context.Context, roomID, pollID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE polls
		 SET is_closed = TRUE, updated_at = NOW()
		 WHERE id = $1 AND room_id = $2`,
		pollID, roomID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete удаляет опрос.
func (r *PollRepository) Delete(ctx context.Context, roomID, pollID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM polls
		 WHERE id = $1 AND room_id = $2`,
		pollID, roomID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// CastVotes записывает голоса участника, перезаписывая прежний выбор по датам.
// Закрытый опрос голосов не принимает.
func (r *PollRepository) CastVotes(ctx context.Context, pollID uuid.UUID, voterName string, votes map[time.Time]models.VoteChoice) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var isClosed bool
	err = tx.QueryRow(ctx,
		`SELECT is_closed FROM polls WHERE id = $1`,
		pollID,
	).Scan(&isClosed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if isClosed {
		return ErrPollClosed
	}

	for date, choice := range votes {
		_, err = tx.Exec(ctx,
			`INSERT INTO poll_votes (poll_id, voter_name, vote_date, choice)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (poll_id, voter_name, vote_date)
			 DO UPDATE SET choice = EXCLUDED.choice`,
			pollID, voterName, date, choice,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListVotes возвращает все голоса опроса.
func (r *PollRepository) ListVotes(ctx context.Context, pollID uuid.UUID) ([]models.PollVote, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, poll_id, voter_name, vote_date, choice, created_at
		 FROM poll_votes
		 WHERE poll_id = $1
		 ORDER BY vote_date, voter_name`,
		pollID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	votes := make([]models.PollVote, 0)
	for rows.Next() {
		var vote models.PollVote
		if err := rows.Scan(&vote.ID, &vote.PollID, &vote.VoterName, &vote.VoteDate, &vote.Choice, &vote.CreatedAt); err != nil {
			return nil, err
		}
		votes = append(votes, vote)
	}

	return votes, rows.Err()
}

func (r *PollRepository) pollDates(ctx context.Context, pollID uuid.UUID) ([]time.Time, error) {
	rows, err := r.db.Query(ctx,
		`SELECT vote_date
		 FROM poll_dates
		 WHERE poll_id = $1
		 ORDER BY vote_date`,
		pollID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}

	return dates, rows.Err()
}
