package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/roomkit/backend/internal/auth"
	"example.com/roomkit/backend/internal/repository"
)

type AdminHandler struct {
	Admin *repository.AdminRepository
	Rooms *repository.RoomRepository
	Slugs []string
}

// NewAdminHandler создает обработчик административных выборок.
func NewAdminHandler(admin *repository.AdminRepository, rooms *repository.RoomRepository, slugs []string) *AdminHandler {
	return &AdminHandler{Admin: admin, Rooms: rooms, Slugs: slugs}
}

type AdminRoomResponse struct {
	ID           uuid.UUID `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	MemberCount  int       `json:"member_count"`
	ExpenseCount int       `json:"expense_count"`
}

type AdminUsageResponse struct {
	RoomCount    int `json:"room_count"`
	MemberCount  int `json:"member_count"`
	ExpenseCount int `json:"expense_count"`
	PollCount    int `json:"poll_count"`
	HabitCount   int `json:"habit_count"`
	TaskCount    int `json:"task_count"`
}

// Middleware пускает дальше только сессии комнат из списка ADMIN_SLUGS.
func (h *AdminHandler) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		roomID, ok := auth.RoomIDFromContext(c)
		if !ok {
			return unauthorized(c)
		}

		room, err := h.Rooms.GetByID(c.Request().Context(), roomID)
		if err != nil {
			return forbidden(c)
		}

		for _, slug := range h.Slugs {
			if slug == room.Slug {
				return next(c)
			}
		}

		return forbidden(c)
	}
}

// ListRooms возвращает все комнаты со счетчиками.
func (h *AdminHandler) ListRooms(c echo.Context) error {
	rooms, err := h.Admin.ListRooms(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	response := make([]AdminRoomResponse, 0, len(rooms))
	for _, room := range rooms {
		response = append(response, AdminRoomResponse{
			ID:           room.ID,
			Slug:         room.Slug,
			Name:         room.Name,
			MemberCount:  room.MemberCount,
			ExpenseCount: room.ExpenseCount,
		})
	}

	return c.JSON(http.StatusOK, map[string][]AdminRoomResponse{"rooms": response})
}

// Usage возвращает суммарные счетчики по всей базе.
func (h *AdminHandler) Usage(c echo.Context) error {
	usage, err := h.Admin.Usage(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, AdminUsageResponse{
		RoomCount:    usage.RoomCount,
		MemberCount:  usage.MemberCount,
		ExpenseCount: usage.ExpenseCount,
		PollCount:    usage.PollCount,
		HabitCount:   usage.HabitCount,
		TaskCount:    usage.TaskCount,
	})
}
