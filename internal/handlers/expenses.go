package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/roomkit/backend/internal/auth"
	"example.com/roomkit/backend/internal/models"
	"example.com/roomkit/backend/internal/notifications"
	"example.com/roomkit/backend/internal/repository"
	"example.com/roomkit/backend/internal/split"
)

const dateLayout = "2006-01-02"

type ExpenseHandler struct {
	Expenses *repository.ExpenseRepository
	Members  *repository.MemberRepository
	Notifier *notifications.Hub
}

// NewExpenseHandler создает обработчик расходов.
func NewExpenseHandler(expenses *repository.ExpenseRepository, members *repository.MemberRepository, notifier *notifications.Hub) *ExpenseHandler {
	return &ExpenseHandler{Expenses: expenses, Members: members, Notifier: notifier}
}

type ExpenseRequest struct {
	PaidBy      string `json:"paid_by" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=200"`
	AmountCents int64  `json:"amount_cents" validate:"gt=0"`
	Category    string `json:"category" validate:"required,oneof=common personal"`
	SpentOn     string `json:"spent_on" validate:"required"`
}

type ExpenseResponse struct {
	ID          uuid.UUID              `json:"id"`
	PaidBy      string                 `json:"paid_by"`
	Description string                 `json:"description"`
	AmountCents int64                  `json:"amount_cents"`
	Category    models.ExpenseCategory `json:"category"`
	SpentOn     string                 `json:"spent_on"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

type SettlementTransfer struct {
	From        string `json:"from"`
	To          string `json:"to"`
	AmountCents int64  `json:"amount_cents"`
}

type SettlementResponse struct {
	TotalCommonCents    int64                `json:"total_common_cents"`
	PerPersonShareCents float64              `json:"per_person_share_cents"`
	Settlements         []SettlementTransfer `json:"settlements"`
}

// List возвращает расходы комнаты.
func (h *ExpenseHandler) List(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	expenses, err := h.Expenses.ListByRoom(c.Request().Context(), roomID)
	if err != nil {
		return serverError(c)
	}

	response := make([]ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		response = append(response, toExpenseResponse(expense))
	}

	return c.JSON(http.StatusOK, map[string][]ExpenseResponse{"expenses": response})
}

// Create создает расход.
func (h *ExpenseHandler) Create(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	spentOn, err := parseDate(req.SpentOn)
	if err != nil {
		return badRequest(c, err.Error())
	}

	expense, err := h.Expenses.Create(
		c.Request().Context(), roomID,
		strings.TrimSpace(req.PaidBy), strings.TrimSpace(req.Description),
		req.AmountCents, models.ExpenseCategory(req.Category), spentOn,
	)
	if err != nil {
		return serverError(c)
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventExpenseChanged)
	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// Update обновляет расход.
func (h *ExpenseHandler) Update(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	expenseID, err := uuid.Parse(c.Param("expenseId"))
	if err != nil {
		return badRequest(c, "invalid expense id")
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	spentOn, err := parseDate(req.SpentOn)
	if err != nil {
		return badRequest(c, err.Error())
	}

	expense, err := h.Expenses.Update(
		c.Request().Context(), roomID, expenseID,
		strings.TrimSpace(req.PaidBy), strings.TrimSpace(req.Description),
		req.AmountCents, models.ExpenseCategory(req.Category), spentOn,
	)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "expense not found")
		}
		return serverError(c)
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventExpenseChanged)
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// Delete удаляет расход.
func (h *ExpenseHandler) Delete(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	expenseID, err := uuid.Parse(c.Param("expenseId"))
	if err != nil {
		return badRequest(c, "invalid expense id")
	}

	if err := h.Expenses.Delete(c.Request().Context(), roomID, expenseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "expense not found")
		}
		return serverError(c)
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventExpenseChanged)
	return c.NoContent(http.StatusNoContent)
}

// Settlement считает балансы и переводы, закрывающие долги комнаты.
func (h *ExpenseHandler) Settlement(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	members, err := h.Members.ListByRoom(c.Request().Context(), roomID)
	if err != nil {
		return serverError(c)
	}

	expenses, err := h.Expenses.ListByRoom(c.Request().Context(), roomID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, buildSettlementResponse(members, expenses))
}

func buildSettlementResponse(members []models.Member, expenses []models.Expense) SettlementResponse {
	participants, entries := buildSettlementInput(members, expenses)
	result := split.Compute(participants, entries)

	transfers := make([]SettlementTransfer, 0, len(result.Settlements))
	for _, s := range result.Settlements {
		transfers = append(transfers, SettlementTransfer{
			From:        s.From,
			To:          s.To,
			AmountCents: s.Amount,
		})
	}

	return SettlementResponse{
		TotalCommonCents:    int64(result.TotalCommonSpend),
		PerPersonShareCents: result.PerPersonShare,
		Settlements:         transfers,
	}
}

func buildSettlementInput(members []models.Member, expenses []models.Expense) ([]string, []split.Expense) {
	participants := make([]string, 0, len(members))
	for _, member := range members {
		participants = append(participants, member.Name)
	}

	entries := make([]split.Expense, 0, len(expenses))
	for _, expense := range expenses {
		category := split.CategoryPersonal
		if expense.Category == models.ExpenseCategoryCommon {
			category = split.CategoryCommon
		}
		entries = append(entries, split.Expense{
			Payer:    expense.PaidBy,
			Amount:   float64(expense.AmountCents),
			Category: category,
		})
	}

	return participants, entries
}

func toExpenseResponse(expense models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          expense.ID,
		PaidBy:      expense.PaidBy,
		Description: expense.Description,
		AmountCents: expense.AmountCents,
		Category:    expense.Category,
		SpentOn:     expense.SpentOn.Format(dateLayout),
		CreatedAt:   expense.CreatedAt,
		UpdatedAt:   expense.UpdatedAt,
	}
}

func parseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in %s format", dateLayout)
	}

	return parsed, nil
}

func publishRoomEvent(hub *notifications.Hub, roomID uuid.UUID, eventType string) {
	if hub == nil {
		return
	}

	hub.Publish(roomID, notifications.Event{Type: eventType})
}
