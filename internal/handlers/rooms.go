package handlers

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/roomkit/backend/internal/auth"
	"example.com/roomkit/backend/internal/models"
	"example.com/roomkit/backend/internal/repository"
)

// slugAlphabet без похожих символов, чтобы слаг легко диктовался вслух.
const slugAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

type RoomHandler struct {
	Rooms        *repository.RoomRepository
	Tokens       *repository.RefreshTokenRepository
	TokenManager *auth.TokenManager
	SlugLength   int
}

// NewRoomHandler создает обработчик комнат и сессий.
func NewRoomHandler(rooms *repository.RoomRepository, tokens *repository.RefreshTokenRepository, manager *auth.TokenManager, slugLength int) *RoomHandler {
	return &RoomHandler{
		Rooms:        rooms,
		Tokens:       tokens,
		TokenManager: manager,
		SlugLength:   slugLength,
	}
}

type CreateRoomRequest struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Slug     *string `json:"slug" validate:"omitempty,min=4,max=40"`
	Password string  `json:"password" validate:"required,min=4"`
}

type JoinRoomRequest struct {
	Slug     string `json:"slug" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RoomInfo struct {
	ID   uuid.UUID `json:"id"`
	Slug string    `json:"slug"`
	Name string    `json:"name"`
}

type SessionResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	Room         RoomInfo `json:"room"`
}

type RoomResponse struct {
	Room RoomInfo `json:"room"`
}

// Create создает комнату и открывает сессию.
func (h *RoomHandler) Create(c echo.Context) error {
	var req CreateRoomRequest
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

	passwordHash, err := auth.HashPassword(strings.TrimSpace(req.Password))
	if err != nil {
		return serverError(c)
	}

	slug, err := h.resolveSlug(req.Slug)
	if err != nil {
		return badRequest(c, err.Error())
	}

	room, err := h.Rooms.Create(c.Request().Context(), slug, name, passwordHash)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "slug already taken")
		}
		return serverError(c)
	}

	response, err := h.issueSession(c.Request().Context(), room)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, response)
}

// Join открывает сессию комнаты по слагу и паролю.
func (h *RoomHandler) Join(c echo.Context) error {
	var req JoinRoomRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	slug := normalizeSlug(req.Slug)

	room, err := h.Rooms.GetBySlug(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return unauthorized(c)
		}
		return serverError(c)
	}

	if err = auth.ComparePassword(room.PasswordHash, strings.TrimSpace(req.Password)); err != nil {
		return unauthorized(c)
	}

	response, err := h.issueSession(c.Request().Context(), room)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, response)
}

// Refresh обновляет сессию по refresh-токену.
func (h *RoomHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	claims, err := h.TokenManager.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return unauthorized(c)
	}

	refreshID, err := uuid.Parse(claims.ID)
	if err != nil {
		return unauthorized(c)
	}

	roomID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return unauthorized(c)
	}

	stored, err := h.Tokens.GetByID(c.Request().Context(), refreshID)
	if err != nil {
		return unauthorized(c)
	}

	if stored.RoomID != roomID || stored.RevokedAt != nil || time.Now().After(stored.ExpiresAt) {
		return unauthorized(c)
	}

	if !auth.CompareTokenHash(stored.TokenHash, req.RefreshToken) {
		return unauthorized(c)
	}

	room, err := h.Rooms.GetByID(c.Request().Context(), roomID)
	if err != nil {
		return unauthorized(c)
	}

	newRefreshID := uuid.New()
	pair, err := h.TokenManager.NewTokenPair(room.ID, newRefreshID)
	if err != nil {
		return serverError(c)
	}

	err = h.Tokens.Rotate(c.Request().Context(), refreshID, models.RefreshToken{
		ID:        newRefreshID,
		RoomID:    room.ID,
		TokenHash: auth.HashToken(pair.RefreshToken),
		ExpiresAt: pair.RefreshExpiresAt,
	})
	if err != nil {
		return unauthorized(c)
	}

	return c.JSON(http.StatusOK, SessionResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Room:         toRoomInfo(room),
	})
}

// Logout отзывает refresh-токен сессии.
func (h *RoomHandler) Logout(c echo.Context) error {
	var req LogoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	claims, err := h.TokenManager.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return c.NoContent(http.StatusNoContent)
	}

	refreshID, err := uuid.Parse(claims.ID)
	if err != nil {
		return c.NoContent(http.StatusNoContent)
	}

	_ = h.Tokens.Revoke(c.Request().Context(), refreshID, nil)
	return c.NoContent(http.StatusNoContent)
}

// Me возвращает текущую комнату сессии.
func (h *RoomHandler) Me(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	room, err := h.Rooms.GetByID(c.Request().Context(), roomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "room not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, RoomResponse{Room: toRoomInfo(room)})
}

func (h *RoomHandler) issueSession(ctx context.Context, room models.Room) (SessionResponse, error) {
	refreshID := uuid.New()

	pair, err := h.TokenManager.NewTokenPair(room.ID, refreshID)
	if err != nil {
		return SessionResponse{}, err
	}

	err = h.Tokens.Create(ctx, models.RefreshToken{
		ID:        refreshID,
		RoomID:    room.ID,
		TokenHash: auth.HashToken(pair.RefreshToken),
		ExpiresAt: pair.RefreshExpiresAt,
	})
	if err != nil {
		return SessionResponse{}, err
	}

	return SessionResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Room:         toRoomInfo(room),
	}, nil
}

func (h *RoomHandler) resolveSlug(slug *string) (string, error) {
	if slug != nil {
		normalized := normalizeSlug(*slug)
		if normalized == "" {
			return "", errors.New("slug must contain letters or digits")
		}
		return normalized, nil
	}

	return generateSlug(h.SlugLength)
}

func toRoomInfo(room models.Room) RoomInfo {
	return RoomInfo{
		ID:   room.ID,
		Slug: room.Slug,
		Name: room.Name,
	}
}

func normalizeSlug(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))

	var b strings.Builder
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ', r == '_':
			b.WriteRune('-')
		}
	}

	return strings.Trim(b.String(), "-")
}

func generateSlug(length int) (string, error) {
	max := big.NewInt(int64(len(slugAlphabet)))

	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(slugAlphabet[n.Int64()])
	}

	return b.String(), nil
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
}

func conflict(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, map[string]string{"error": message})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": message})
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
}

func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
