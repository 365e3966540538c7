package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/roomkit/backend/internal/auth"
	"example.com/roomkit/backend/internal/calendar"
	"example.com/roomkit/backend/internal/models"
	"example.com/roomkit/backend/internal/notifications"
	"example.com/roomkit/backend/internal/repository"
)

const (
	defaultLayoutColumns = 7
	maxLayoutDays        = 120
)

type ScheduleHandler struct {
	Schedule *repository.ScheduleRepository
	Notifier *notifications.Hub
}

// NewScheduleHandler создает обработчик групп, задач и раскладки календаря.
func NewScheduleHandler(schedule *repository.ScheduleRepository, notifier *notifications.Hub) *ScheduleHandler {
	return &ScheduleHandler{Schedule: schedule, Notifier: notifier}
}

type TaskGroupRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Color string `json:"color" validate:"required,hexcolor"`
}

type TaskRequest struct {
	GroupID   uuid.UUID `json:"group_id" validate:"required"`
	Title     string    `json:"title" validate:"required,max=200"`
	StartDate string    `json:"start_date" validate:"required"`
	EndDate   string    `json:"end_date" validate:"required"`
}

type TaskGroupResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sort_order"`
}

type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	GroupID     uuid.UUID `json:"group_id"`
	GroupTitle  string    `json:"group_title,omitempty"`
	GroupColor  string    `json:"group_color,omitempty"`
	Title       string    `json:"title"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	IsCompleted bool      `json:"is_completed"`
}

type TaskLaneResponse struct {
	TaskID uuid.UUID `json:"task_id"`
	Lane   int       `json:"lane"`
}

type LayoutDayResponse struct {
	Day     string             `json:"day"`
	MaxLane int                `json:"max_lane"`
	Tasks   []TaskLaneResponse `json:"tasks"`
}

type LayoutResponse struct {
	Columns int                 `json:"columns"`
	Days    []LayoutDayResponse `json:"days"`
	Tasks   []TaskResponse      `json:"tasks"`
}

// ListGroups возвращает группы задач комнаты.
func (h *ScheduleHandler) ListGroups(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	groups, err := h.Schedule.ListGroups(c.Request().Context(), roomID)
	if err != nil {
		return serverError(c)
	}

	response := make([]TaskGroupResponse, 0, len(groups))
	for _, group := range groups {
		response = append(response, toTaskGroupResponse(group))
	}

	return c.JSON(http.StatusOK, map[string][]TaskGroupResponse{"groups": response})
}

// CreateGroup создает группу задач.
func (h *ScheduleHandler) CreateGroup(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req TaskGroupRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	group, err := h.Schedule.CreateGroup(c.Request().Context(), roomID, strings.TrimSpace(req.Title), req.Color)
	if err != nil {
		return serverError(c)
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventScheduleChanged)
	return c.JSON(http.StatusCreated, toTaskGroupResponse(group))
}

// DeleteGroup удаляет группу вместе с задачами.
func (h *ScheduleHandler) DeleteGroup(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	groupID, err := uuid.Parse(c.Param("groupId"))
	if err != nil {
		return badRequest(c, "invalid group id")
	}

	if err := h.Schedule.DeleteGroup(c.Request().Context(), roomID, groupID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "group not found")
		}
		return serverError(c)
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventScheduleChanged)
	return c.NoContent(http.StatusNoContent)
}

// ListTasks возвращает задачи комнаты.
func (h *ScheduleHandler) ListTasks(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tasks, err := h.Schedule.ListTasks(c.Request().Context(), roomID)
	if err != nil {
		return serverError(c)
	}

	response := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, toTaskResponse(task))
	}

	return c.JSON(http.StatusOK, map[string][]TaskResponse{"tasks": response})
}

// CreateTask создает задачу в группе.
func (h *ScheduleHandler) CreateTask(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	startDate, endDate, err := parseTaskDates(req.StartDate, req.EndDate)
	if err != nil {
		return badRequest(c, err.Error())
	}

	task, err := h.Schedule.CreateTask(c.Request().Context(), roomID, req.GroupID, strings.TrimSpace(req.Title), startDate, endDate)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "group not found")
		}
		return serverError(c)
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventScheduleChanged)
	return c.JSON(http.StatusCreated, toTaskOnlyResponse(task))
}

// UpdateTask обновляет задачу.
func (h *ScheduleHandler) UpdateTask(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	startDate, endDate, err := parseTaskDates(req.StartDate, req.EndDate)
	if err != nil {
		return badRequest(c, err.Error())
	}

	task, err := h.Schedule.UpdateTask(c.Request().Context(), roomID, taskID, strings.TrimSpace(req.Title), startDate, endDate)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "task not found")
		}
		return serverError(c)
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventScheduleChanged)
	return c.JSON(http.StatusOK, toTaskOnlyResponse(task))
}

// ToggleTask переключает флаг завершенности задачи.
func (h *ScheduleHandler) ToggleTask(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	task, err := h.Schedule.ToggleTask(c.Request().Context(), roomID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "task not found")
		}
		return serverError(c)
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventScheduleChanged)
	return c.JSON(http.StatusOK, toTaskOnlyResponse(task))
}

// DeleteTask удаляет задачу.
func (h *ScheduleHandler) DeleteTask(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	if err := h.Schedule.DeleteTask(c.Request().Context(), roomID, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "task not found")
		}
		return serverError(c)
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventScheduleChanged)
	return c.NoContent(http.StatusNoContent)
}

// Layout возвращает раскладку задач по полосам для сетки календаря.
func (h *ScheduleHandler) Layout(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	from, to, err := parsePeriod(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	columns := defaultLayoutColumns
	if raw := c.QueryParam("columns"); raw != "" {
		columns, err = strconv.Atoi(raw)
		if err != nil || columns <= 0 {
			return badRequest(c, "columns must be a positive number")
		}
	}

	includeWeekends := true
	if raw := c.QueryParam("weekends"); raw != "" {
		includeWeekends, err = strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "weekends must be true or false")
		}
	}

	days := calendar.RangeDays(from, to, includeWeekends)
	if len(days) > maxLayoutDays {
		return badRequest(c, "period is too long")
	}

	tasks, err := h.Schedule.ListTasks(c.Request().Context(), roomID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, buildLayoutResponse(tasks, days, columns))
}

// buildLayoutResponse пакует задачи в полосы и собирает ответ по дням.
func buildLayoutResponse(tasks []repository.TaskWithGroup, days []time.Time, columns int) LayoutResponse {
	packerTasks := make([]calendar.Task, 0, len(tasks))
	for _, task := range tasks {
		packerTasks = append(packerTasks, calendar.Task{
			ID:          task.Task.ID,
			GroupID:     task.Task.GroupID,
			StartDate:   task.Task.StartDate,
			EndDate:     task.Task.EndDate,
			IsCompleted: task.Task.IsCompleted,
		})
	}

	layout := calendar.PackLanes(packerTasks, days, columns)

	response := LayoutResponse{
		Columns: columns,
		Days:    make([]LayoutDayResponse, 0, len(days)),
		Tasks:   make([]TaskResponse, 0, len(tasks)),
	}

	for _, day := range days {
		key := calendar.DayKey(day)
		dayResponse := LayoutDayResponse{
			Day:     key,
			MaxLane: layout.MaxLanePerDay[key],
			Tasks:   make([]TaskLaneResponse, 0),
		}
		for _, task := range packerTasks {
			lane, ok := layout.LaneOf[calendar.LaneKey{Day: key, TaskID: task.ID}]
			if !ok {
				continue
			}
			dayResponse.Tasks = append(dayResponse.Tasks, TaskLaneResponse{TaskID: task.ID, Lane: lane})
		}
		response.Days = append(response.Days, dayResponse)
	}

	for _, task := range tasks {
		response.Tasks = append(response.Tasks, toTaskResponse(task))
	}

	return response
}

func toTaskGroupResponse(group models.TaskGroup) TaskGroupResponse {
	return TaskGroupResponse{
		ID:        group.ID,
		Title:     group.Title,
		Color:     group.Color,
		SortOrder: group.SortOrder,
	}
}

func toTaskResponse(item repository.TaskWithGroup) TaskResponse {
	response := toTaskOnlyResponse(item.Task)
	response.GroupTitle = item.GroupTitle
	response.GroupColor = item.GroupColor
	return response
}

func toTaskOnlyResponse(task models.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		GroupID:     task.GroupID,
		Title:       task.Title,
		StartDate:   task.StartDate.Format(dateLayout),
		EndDate:     task.EndDate.Format(dateLayout),
		IsCompleted: task.IsCompleted,
	}
}

func parseTaskDates(startRaw, endRaw string) (time.Time, time.Time, error) {
	startDate, err := parseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	endDate, err := parseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, errors.New("end date is before start date")
	}

	return startDate, endDate, nil
}
