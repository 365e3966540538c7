package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/roomkit/backend/internal/auth"
)

const (
	exportTypeExpenses   = "expenses"
	exportTypeSettlement = "settlement"
)

const timeLayout = time.RFC3339

// ExportJSON выгружает расходы и расчет долгов комнаты в JSON-файл.
func (h *ExpenseHandler) ExportJSON(c echo.Context) error {
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

	expenseResponses := make([]ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		expenseResponses = append(expenseResponses, toExpenseResponse(expense))
	}

	response := map[string]interface{}{
		"expenses":   expenseResponses,
		"settlement": buildSettlementResponse(members, expenses),
	}

	filename := "room-" + roomID.String() + "-expenses.json"
	c.Response().Header().Set(echo.HeaderContentType, "application/json")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.JSON(http.StatusOK, response)
}

// ExportCSV выгружает расходы или расчет долгов комнаты в CSV-файл.
func (h *ExpenseHandler) ExportCSV(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	exportType := strings.ToLower(strings.TrimSpace(c.QueryParam("type")))
	if exportType == "" {
		exportType = exportTypeExpenses
	}

	members, err := h.Members.ListByRoom(c.Request().Context(), roomID)
	if err != nil {
		return serverError(c)
	}

	expenses, err := h.Expenses.ListByRoom(c.Request().Context(), roomID)
	if err != nil {
		return serverError(c)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	switch exportType {
	case exportTypeExpenses:
		expenseResponses := make([]ExpenseResponse, 0, len(expenses))
		for _, expense := range expenses {
			expenseResponses = append(expenseResponses, toExpenseResponse(expense))
		}
		if err := writeExpensesCSV(writer, expenseResponses); err != nil {
			return serverError(c)
		}
	case exportTypeSettlement:
		if err := writeSettlementCSV(writer, buildSettlementResponse(members, expenses)); err != nil {
			return serverError(c)
		}
	default:
		return badRequest(c, "invalid export type")
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	filename := "room-" + roomID.String() + "-" + exportType + ".csv"
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func writeExpensesCSV(writer *csv.Writer, expenses []ExpenseResponse) error {
	header := []string{
		"expense_id",
		"paid_by",
		"description",
		"amount_cents",
		"category",
		"spent_on",
		"created_at",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, expense := range expenses {
		record := []string{
			expense.ID.String(),
			expense.PaidBy,
			expense.Description,
			formatInt64(expense.AmountCents),
			string(expense.Category),
			expense.SpentOn,
			expense.CreatedAt.Format(timeLayout),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func writeSettlementCSV(writer *csv.Writer, settlement SettlementResponse) error {
	header := []string{
		"from",
		"to",
		"amount_cents",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, transfer := range settlement.Settlements {
		record := []string{
			transfer.From,
			transfer.To,
			formatInt64(transfer.AmountCents),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func formatInt64(value int64) string {
	return strconv.FormatInt(value, 10)
}
