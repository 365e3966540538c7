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
	"example.com/roomkit/backend/internal/repository"
)

type MemberHandler struct {
	Members    *repository.MemberRepository
	MaxMembers int
}

// NewMemberHandler создает обработчик участников комнаты.
func NewMemberHandler(members *repository.MemberRepository, maxMembers int) *MemberHandler {
	return &MemberHandler{Members: members, MaxMembers: maxMembers}
}

type MemberRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type MemberResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// List возвращает участников комнаты.
func (h *MemberHandler) List(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	members, err := h.Members.ListByRoom(c.Request().Context(), roomID)
	if err != nil {
		return serverError(c)
	}

	response := make([]MemberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, toMemberResponse(member))
	}

	return c.JSON(http.StatusOK, map[string][]MemberResponse{"members": response})
}

// Create добавляет участника в комнату.
func (h *MemberHandler) Create(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req MemberRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return badRequest(c, "name is required")
	}

	member, err := h.Members.Create(c.Request().Context(), roomID, name, h.MaxMembers)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return conflict(c, "member already exists")
		case errors.Is(err, repository.ErrRoomIsFull):
			return badRequest(c, "room is full")
		default:
			return serverError(c)
		}
	}

	return c.JSON(http.StatusCreated, toMemberResponse(member))
}

// Delete удаляет участника комнаты.
func (h *MemberHandler) Delete(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		return badRequest(c, "invalid member id")
	}

	if err := h.Members.Delete(c.Request().Context(), roomID, memberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "member not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

func toMemberResponse(member models.Member) MemberResponse {
	return MemberResponse{
		ID:        member.ID,
		Name:      member.Name,
		CreatedAt: member.CreatedAt,
	}
}
