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

type ScheduleRepository struct {
	db *pgxpool.Pool
}

type TaskWithGroup struct {
	Task       models.Task
	GroupTitle string
	GroupColor string
}

// NewScheduleRepository создает репозиторий групп и задач расписания.
func NewScheduleRepository(db *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListGroups возвращает группы задач комнаты.
func (r *ScheduleRepository) ListGroups(ctx context.Context, roomID uuid.UUID) ([]models.TaskGroup, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, room_id, title, color, sort_order, created_at
		 FROM task_groups
		 WHERE room_id = $1
		 ORDER BY sort_order, created_at`,
		roomID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]models.TaskGroup, 0)
	for rows.Next() {
		var group models.TaskGroup
		if err := rows.Scan(&group.ID, &group.RoomID, &group.Title, &group.Color, &group.SortOrder, &group.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, rows.Err()
}

// CreateGroup создает группу задач в конце списка.
func (r *ScheduleRepository) CreateGroup(ctx context.Context, roomID uuid.UUID, title, color string) (models.TaskGroup, error) {
	var group models.TaskGroup

	err := r.db.QueryRow(ctx,
		`INSERT INTO task_groups (room_id, title, color, sort_order)
		 VALUES ($1, $2, $3, COALESCE((SELECT MAX(sort_order) + 1 FROM task_groups WHERE room_id = $1), 0))
		 RETURNING id, room_id, title, color, sort_order, created_at`,
		roomID, title, color,
	).Scan(&group.ID, &group.RoomID, &group.Title, &group.Color, &group.SortOrder, &group.CreatedAt)
	if err != nil {
		return group, err
	}

	return group, nil
}

// DeleteGroup удаляет группу вместе с задачами.
func (r *ScheduleRepository) DeleteGroup(ctx context.Context, roomID, groupID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM task_groups
		 WHERE id = $1 AND room_id = $2`,
		groupID, roomID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListTasks возвращает задачи комнаты вместе с данными группы.
func (r *ScheduleRepository) ListTasks(ctx context.Context, roomID uuid.UUID) ([]TaskWithGroup, error) {
	rows, err := r.db.Query(ctx,
		`SELECT t.id, t.group_id, t.title, t.start_date, t.end_date, t.is_completed, t.created_at, t.updated_at,
		        g.title, g.color
		 FROM tasks t
		 JOIN task_groups g ON g.id = t.group_id
		 WHERE g.room_id = $1
		 ORDER BY t.start_date, t.created_at`,
		roomID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]TaskWithGroup, 0)
	for rows.Next() {
		var item TaskWithGroup
		err := rows.Scan(
			&item.Task.ID, &item.Task.GroupID, &item.Task.Title,
			&item.Task.StartDate, &item.Task.EndDate, &item.Task.IsCompleted,
			&item.Task.CreatedAt, &item.Task.UpdatedAt,
			&item.GroupTitle, &item.GroupColor,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, item)
	}

	return tasks, rows.Err()
}

// CreateTask создает задачу в группе комнаты.
func (r *ScheduleRepository) CreateTask(ctx context.Context, roomID, groupID uuid.UUID, title string, startDate, endDate time.Time) (models.Task, error) {
	var task models.Task

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM task_groups WHERE id = $1 AND room_id = $2)`,
		groupID, roomID,
	).Scan(&exists)
	if err != nil {
		return task, err
	}
	if !exists {
		return task, ErrNotFound
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO tasks (group_id, title, start_date, end_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, group_id, title, start_date, end_date, is_completed, created_at, updated_at`,
		groupID, title, startDate, endDate,
	).Scan(&task.ID, &task.GroupID, &task.Title, &task.StartDate, &task.EndDate, &task.IsCompleted, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return task, err
	}

	return task, nil
}

// UpdateTask обновляет задачу комнаты.
func (r *ScheduleRepository) UpdateTask(ctx context.Context, roomID, taskID uuid.UUID, title string, startDate, endDate time.Time) (models.Task, error) {
	var task models.Task

	err := r.db.QueryRow(ctx,
		`UPDATE tasks t
		 SET title = $3, start_date = $4, end_date = $5, updated_at = NOW()
		 FROM task_groups g
		 WHERE t.id = $1 AND t.group_id = g.id AND g.room_id = $2
		 RETURNING t.id, t.group_id, t.title, t.start_date, t.end_date, t.is_completed, t.created_at, t.updated_at`,
		taskID, roomID, title, startDate, endDate,
	).Scan(&task.ID, &task.GroupID, &task.Title, &task.StartDate, &task.EndDate, &task.IsCompleted, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task, ErrNotFound
		}
		return task, err
	}

	return task, nil
}

// ToggleTask переключает флаг завершенности задачи.
func (r *ScheduleRepository) ToggleTask(ctx context.Context, roomID, taskID uuid.UUID) (models.Task, error) {
	var task models.Task

	err := r.db.QueryRow(ctx,
		`UPDATE tasks t
		 SET is_completed = NOT t.is_completed, updated_at = NOW()
		 FROM task_groups g
		 WHERE t.id = $1 AND t.group_id = g.id AND g.room_id = $2
		 RETURNING t.id, t.group_id, t.title, t.start_date, t.end_date, t.is_completed, t.created_at, t.updated_at`,
		taskID, roomID,
	).Scan(&task.ID, &task.GroupID, &task.Title, &task.StartDate, &task.EndDate, &task.IsCompleted, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task, ErrNotFound
		}
		return task, err
	}

	return task, nil
}

// DeleteTask удаляет задачу комнаты.
func (r *ScheduleRepository) DeleteTask(ctx context.Context, roomID, taskID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM tasks t
		 USING task_groups g
		 WHERE t.id = $1 AND t.group_id = g.id AND g.room_id = $2`,
		taskID, roomID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
