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

type ExpenseRepository struct {
	db *pgxpool.Pool
}

// NewExpenseRepository создает репозиторий расходов.
func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// ListByRoom возвращает расходы комнаты, новые сверху.
func (r *ExpenseRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Expense, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, room_id, paid_by, description, amount_cents, category, spent_on, created_at, updated_at
		 FROM expenses
		 WHERE room_id = $1
		 ORDER BY spent_on DESC, created_at DESC`,
		roomID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0)
	for rows.Next() {
		var expense models.Expense
		err := rows.Scan(
			&expense.ID, &expense.RoomID, &expense.PaidBy, &expense.Description,
			&expense.AmountCents, &expense.Category, &expense.SpentOn,
			&expense.CreatedAt, &expense.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

// Create создает расход.
func (r *ExpenseRepository) Create(ctx context.Context, roomID uuid.UUID, paidBy, description string, amountCents int64, category models.ExpenseCategory, spentOn time.Time) (models.Expense, error) {
	var expense models.Expense

	err := r.db.QueryRow(ctx,
		`INSERT INTO expenses (room_id, paid_by, description, amount_cents, category, spent_on)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, room_id, paid_by, description, amount_cents, category, spent_on, created_at, updated_at`,
		roomID, paidBy, description, amountCents, category, spentOn,
	).Scan(
		&expense.ID, &expense.RoomID, &expense.PaidBy, &expense.Description,
		&expense.AmountCents, &expense.Category, &expense.SpentOn,
		&expense.CreatedAt, &expense.UpdatedAt,
	)
	if err != nil {
		return expense, err
	}

	return expense, nil
}

// Update обновляет расход.
func (r *ExpenseRepository) Update(ctx context.Context, roomID, expenseID uuid.UUID, paidBy, description string, amountCents int64, category models.ExpenseCategory, spentOn time.Time) (models.Expense, error) {
	var expense models.Expense

	err := r.db.QueryRow(ctx,
		`UPDATE expenses
		 SET paid_by = $3,
		     description = $4,
		     amount_cents = $5,
		     category = $6,
		     spent_on = $7,
		     updated_at = NOW()
		 WHERE id = $1 AND room_id = $2
		 RETURNING id, room_id, paid_by, description, amount_cents, category, spent_on, created_at, updated_at`,
		expenseID, roomID, paidBy, description, amountCents, category, spentOn,
	).Scan(
		&expense.ID, &expense.RoomID, &expense.PaidBy, &expense.Description,
		&expense.AmountCents, &expense.Category, &expense.SpentOn,
		&expense.CreatedAt, &expense.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return expense, ErrNotFound
		}
		return expense, err
	}

	return expense, nil
}

// Delete удаляет расход.
func (r *ExpenseRepository) Delete(ctx context.Context, roomID, expenseID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM expenses
		 WHERE id = $1 AND room_id = $2`,
		expenseID, roomID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
