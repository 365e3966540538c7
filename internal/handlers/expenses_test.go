package handlers

import (
	"testing"
	"time"

	"example.com/roomkit/backend/internal/models"
)

// TestParseDateValid проверяет разбор даты из запроса.
func TestParseDateValid(t *testing.T) {
	parsed, err := parseDate(" 2024-03-15 ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if parsed.Format(dateLayout) != "2024-03-15" {
		t.Fatalf("unexpected date: %s", parsed.Format(dateLayout))
	}

	if _, err := parseDate("15.03.2024"); err == nil {
		t.Fatal("expected error for invalid format")
	}
}

// TestBuildSettlementInput проверяет отображение расходов в расчет долгов.
func TestBuildSettlementInput(t *testing.T) {
	members := []models.Member{{Name: "alice"}, {Name: "bob"}}
	expenses := []models.Expense{
		{PaidBy: "alice", AmountCents: 1000, Category: models.ExpenseCategoryCommon},
		{PaidBy: "bob", AmountCents: 500, Category: models.ExpenseCategoryPersonal},
	}

	participants, entries := buildSettlementInput(members, expenses)

	if len(participants) != 2 || participants[0] != "alice" || participants[1] != "bob" {
		t.Fatalf("unexpected participants: %v", participants)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Amount != 1000 {
		t.Fatalf("unexpected amount: %f", entries[0].Amount)
	}
	if entries[1].Payer != "bob" {
		t.Fatalf("unexpected payer: %s", entries[1].Payer)
	}
}

// TestBuildSettlementResponse проверяет сводку долгов для двух участников.
func TestBuildSettlementResponse(t *testing.T) {
	members := []models.Member{{Name: "alice"}, {Name: "bob"}}
	expenses := []models.Expense{
		{PaidBy: "alice", AmountCents: 2000, Category: models.ExpenseCategoryCommon, SpentOn: time.Now()},
	}

	response := buildSettlementResponse(members, expenses)

	if response.TotalCommonCents != 2000 {
		t.Fatalf("unexpected total: %d", response.TotalCommonCents)
	}
	if response.PerPersonShareCents != 1000 {
		t.Fatalf("unexpected share: %f", response.PerPersonShareCents)
	}

	if len(response.Settlements) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(response.Settlements))
	}
	transfer := response.Settlements[0]
	if transfer.From != "bob" || transfer.To != "alice" || transfer.AmountCents != 1000 {
		t.Fatalf("unexpected transfer: %+v", transfer)
	}
}
