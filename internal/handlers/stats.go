package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/roomkit/backend/internal/auth"
	"example.com/roomkit/backend/internal/repository"
)

type StatsHandler struct {
	Stats *repository.StatsRepository
}

// NewStatsHandler создает обработчик сводки комнаты.
func NewStatsHandler(stats *repository.StatsRepository) *StatsHandler {
	return &StatsHandler{Stats: stats}
}

type OverviewResponse struct {
	MemberCount      int   `json:"member_count"`
	ExpenseCount     int   `json:"expense_count"`
	TotalCommonCents int64 `json:"total_common_cents"`
	OpenTaskCount    int   `json:"open_task_count"`
	HabitCount       int   `json:"habit_count"`
	HabitLogsInRange int   `json:"habit_logs_in_range"`
	OpenPollCount    int   `json:"open_poll_count"`
}

// Overview возвращает сводку комнаты за период привычек.
func (h *StatsHandler) Overview(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	from, to, err := parsePeriod(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	overview, err := h.Stats.Overview(c.Request().Context(), roomID, from, to)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, OverviewResponse{
		MemberCount:      overview.MemberCount,
		ExpenseCount:     overview.ExpenseCount,
		TotalCommonCents: overview.TotalCommonCents,
		OpenTaskCount:    overview.OpenTaskCount,
		HabitCount:       overview.HabitCount,
		HabitLogsInRange: overview.HabitLogsInRange,
		OpenPollCount:    overview.OpenPollCount,
	})
}
