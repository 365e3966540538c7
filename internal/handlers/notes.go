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

type NoteHandler struct {
	Notes *repository.NoteRepository
}

// NewNoteHandler создает обработчик заметок комнаты.
func NewNoteHandler(notes *repository.NoteRepository) *NoteHandler {
	return &NoteHandler{Notes: notes}
}

type NoteRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
	Kind    string `json:"kind" validate:"required,oneof=pinned regular"`
}

type ReorderNotesRequest struct {
	NoteIDs []uuid.UUID `json:"note_ids" validate:"required,min=1"`
}

type NoteResponse struct {
	ID        uuid.UUID       `json:"id"`
	Content   string          `json:"content"`
	Kind      models.NoteKind `json:"kind"`
	SortOrder int             `json:"sort_order"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// List возвращает заметки комнаты, закрепленные впереди.
func (h *NoteHandler) List(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	notes, err := h.Notes.ListByRoom(c.Request().Context(), roomID)
	if err != nil {
		return serverError(c)
	}

	response := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		response = append(response, toNoteResponse(note))
	}

	return c.JSON(http.StatusOK, map[string][]NoteResponse{"notes": response})
}

// Create создает заметку.
func (h *NoteHandler) Create(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	note, err := h.Notes.Create(c.Request().Context(), roomID, strings.TrimSpace(req.Content), models.NoteKind(req.Kind))
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toNoteResponse(note))
}

// Update обновляет содержимое и вид заметки.
func (h *NoteHandler) Update(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	noteID, err := uuid.Parse(c.Param("noteId"))
	if err != nil {
		return badRequest(c, "invalid note id")
	}

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	note, err := h.Notes.Update(c.Request().Context(), roomID, noteID, strings.TrimSpace(req.Content), models.NoteKind(req.Kind))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "note not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toNoteResponse(note))
}

// Delete удаляет заметку.
func (h *NoteHandler) Delete(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	noteID, err := uuid.Parse(c.Param("noteId"))
	if err != nil {
		return badRequest(c, "invalid note id")
	}

	if err := h.Notes.Delete(c.Request().Context(), roomID, noteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "note not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// Reorder сохраняет новый порядок заметок.
func (h *NoteHandler) Reorder(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ReorderNotesRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	if err := h.Notes.Reorder(c.Request().Context(), roomID, req.NoteIDs); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "note not found")
		case errors.Is(err, repository.ErrInvalid):
			return badRequest(c, "note ids are required")
		default:
			return serverError(c)
		}
	}

	return c.NoContent(http.StatusNoContent)
}

func toNoteResponse(note models.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Content:   note.Content,
		Kind:      note.NoteKind,
		SortOrder: note.SortOrder,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
