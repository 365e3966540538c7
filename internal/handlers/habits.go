package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/roomkit/backend/internal/auth"
	"example.com/roomkit/backend/internal/models"
	"example.com/roomkit/backend/internal/notifications"
	"example.com/roomkit/backend/internal/repository"
)

type HabitHandler struct {
	Habits   *repository.HabitRepository
	Notifier *notifications.Hub
}

// NewHabitHandler создает обработчик привычек.
func NewHabitHandler(habits *repository.HabitRepository, notifier *notifications.Hub) *HabitHandler {
	return &HabitHandler{Habits: habits, Notifier: notifier}
}

type HabitRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Color string `json:"color" validate:"required,hexcolor"`
}

type ToggleLogRequest struct {
	Day string `json:"day" validate:"required"`
}

type HabitResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

type HabitLogResponse struct {
	HabitID uuid.UUID `json:"habit_id"`
	Day     string    `json:"day"`
}

type HabitListResponse struct {
	Habits []HabitResponse    `json:"habits"`
	Logs   []HabitLogResponse `json:"logs"`
}

type HabitStatsItem struct {
	HabitID   uuid.UUID `json:"habit_id"`
	Title     string    `json:"title"`
	Color     string    `json:"color"`
	DoneCount int       `json:"done_count"`
	TotalDays int       `json:"total_days"`
}

// List возвращает привычки комнаты вместе с отметками за период.
func (h *HabitHandler) List(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	from, to, err := parsePeriod(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	habits, err := h.Habits.ListByRoom(c.Request().Context(), roomID)
	if err != nil {
		return serverError(c)
	}

	logs, err := h.Habits.ListLogs(c.Request().Context(), roomID, from, to)
	if err != nil {
		return serverError(c)
	}

	response := HabitListResponse{
		Habits: make([]HabitResponse, 0, len(habits)),
		Logs:   make([]HabitLogResponse, 0, len(logs)),
	}
	for _, habit := range habits {
		response.Habits = append(response.Habits, toHabitResponse(habit))
	}
	for _, log := range logs {
		response.Logs = append(response.Logs, HabitLogResponse{
			HabitID: log.HabitID,
			Day:     log.Day.Format(dateLayout),
		})
	}

	return c.JSON(http.StatusOK, response)
}

// Create создает привычку.
func (h *HabitHandler) Create(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req HabitRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	habit, err := h.Habits.Create(c.Request().Context(), roomID, strings.TrimSpace(req.Title), req.Color)
	if err != nil {
		return serverError(c)
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventHabitChanged)
	return c.JSON(http.StatusCreated, toHabitResponse(habit))
}

// Update обновляет название и цвет привычки.
func (h *HabitHandler) Update(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	habitID, err := uuid.Parse(c.Param("habitId"))
	if err != nil {
		return badRequest(c, "invalid habit id")
	}

	var req HabitRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	habit, err := h.Habits.Update(c.Request().Context(), roomID, habitID, strings.TrimSpace(req.Title), req.Color)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "habit not found")
		}
		return serverError(c)
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventHabitChanged)
	return c.JSON(http.StatusOK, toHabitResponse(habit))
}

// Delete удаляет привычку.
func (h *HabitHandler) Delete(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	habitID, err := uuid.Parse(c.Param("habitId"))
	if err != nil {
		return badRequest(c, "invalid habit id")
	}

	if err := h.Habits.Delete(c.Request().Context(), roomID, habitID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "habit not found")
		}
		return serverError(c)
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventHabitChanged)
	return c.NoContent(http.StatusNoContent)
}

// Toggle переключает отметку привычки за день.
func (h *HabitHandler) Toggle(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	habitID, err := uuid.Parse(c.Param("habitId"))
	if err != nil {
		return badRequest(c, "invalid habit id")
	}

	var req ToggleLogRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	day, err := parseDate(req.Day)
	if err != nil {
		return badRequest(c, err.Error())
	}

	marked, err := h.Habits.ToggleLog(c.Request().Context(), roomID, habitID, day)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "habit not found")
		}
		return serverError(c)
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventHabitChanged)
	return c.JSON(http.StatusOK, map[string]bool{"marked": marked})
}

// Stats возвращает число отмеченных дней по привычкам за период.
func (h *HabitHandler) Stats(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	from, to, err := parsePeriod(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	completions, err := h.Habits.Completion(c.Request().Context(), roomID, from, to)
	if err != nil {
		return serverError(c)
	}

	totalDays := int(to.Sub(from).Hours()/24) + 1

	stats := make([]HabitStatsItem, 0, len(completions))
	for _, completion := range completions {
		stats = append(stats, HabitStatsItem{
			HabitID:   completion.HabitID,
			Title:     completion.Title,
			Color:     completion.Color,
			DoneCount: completion.DoneCount,
			TotalDays: totalDays,
		})
	}

	return c.JSON(http.StatusOK, map[string][]HabitStatsItem{"stats": stats})
}

func toHabitResponse(habit models.Habit) HabitResponse {
	return HabitResponse{
		ID:        habit.ID,
		Title:     habit.Title,
		Color:     habit.Color,
		SortOrder: habit.SortOrder,
		CreatedAt: habit.CreatedAt,
	}
}

// parsePeriod читает границы периода из query-параметров.
// По умолчанию берется текущий календарный месяц.
func parsePeriod(fromRaw, toRaw string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	var err error
	if fromRaw != "" {
		from, err = parseDate(fromRaw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if toRaw != "" {
		to, err = parseDate(toRaw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("period end is before its start")
	}

	return from, to, nil
}
