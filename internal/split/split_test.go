package split

import (
	"math"
	"testing"
)

// TestComputeExample проверяет классический пример: один платит за всех.
func TestComputeExample(t *testing.T) {
	participants := []string{"A", "B", "C"}
	expenses := []Expense{
		{Payer: "A", Amount: 300, Category: CategoryCommon},
	}

	result := Compute(participants, expenses)

	if result.TotalCommonSpend != 300 {
		t.Fatalf("expected total 300, got %v", result.TotalCommonSpend)
	}
	if result.PerPersonShare != 100 {
		t.Fatalf("expected share 100, got %v", result.PerPersonShare)
	}
	if len(result.Settlements) != 2 {
		t.Fatalf("expected 2 settlements, got %d", len(result.Settlements))
	}

	want := map[string]int64{"B": 100, "C": 100}
	for _, s := range result.Settlements {
		if s.To != "A" {
			t.Fatalf("expected receiver A, got %s", s.To)
		}
		amount, ok := want[s.From]
		if !ok {
			t.Fatalf("unexpected sender %s", s.From)
		}
		if s.Amount != amount {
			t.Fatalf("expected %s to send %d, got %d", s.From, amount, s.Amount)
		}
		delete(want, s.From)
	}
}

// TestComputeEmptyParticipants проверяет отсутствие деления на ноль.
func TestComputeEmptyParticipants(t *testing.T) {
	result := Compute(nil, []Expense{{Payer: "A", Amount: 100, Category: CategoryCommon}})

	if result.PerPersonShare != 0 {
		t.Fatalf("expected zero share, got %v", result.PerPersonShare)
	}
	if len(result.Settlements) != 0 {
		t.Fatalf("expected no settlements, got %d", len(result.Settlements))
	}
}

// TestComputePersonalExcluded проверяет, что личные расходы не делятся.
func TestComputePersonalExcluded(t *testing.T) {
	participants := []string{"A", "B"}
	expenses := []Expense{
		{Payer: "A", Amount: 200, Category: CategoryCommon},
		{Payer: "B", Amount: 999, Category: CategoryPersonal},
	}

	result := Compute(participants, expenses)

	if result.TotalCommonSpend != 200 {
		t.Fatalf("expected total 200, got %v", result.TotalCommonSpend)
	}
	if len(result.Settlements) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(result.Settlements))
	}
	s := result.Settlements[0]
	if s.From != "B" || s.To != "A" || s.Amount != 100 {
		t.Fatalf("unexpected settlement %+v", s)
	}
}

// TestComputeZeroSum проверяет, что переводы закрывают балансы с точностью до единицы.
func TestComputeZeroSum(t *testing.T) {
	participants := []string{"A", "B", "C", "D"}
	expenses := []Expense{
		{Payer: "A", Amount: 1250, Category: CategoryCommon},
		{Payer: "B", Amount: 730, Category: CategoryCommon},
		{Payer: "C", Amount: 15, Category: CategoryCommon},
		{Payer: "A", Amount: 333, Category: CategoryCommon},
	}

	result := Compute(participants, expenses)

	net := make(map[string]float64)
	for _, s := range result.Settlements {
		if s.From == s.To {
			t.Fatalf("self transfer recorded: %+v", s)
		}
		net[s.To] += float64(s.Amount)
		net[s.From] -= float64(s.Amount)
	}

	paid := map[string]float64{"A": 1583, "B": 730, "C": 15, "D": 0}
	for _, name := range participants {
		balance := paid[name] - result.PerPersonShare
		if math.Abs(net[name]-balance) > 1 {
			t.Fatalf("%s: net %v differs from balance %v by more than 1", name, net[name], balance)
		}
	}
}

// TestComputeRoundLate проверяет округление в момент записи при точных остатках.
func TestComputeRoundLate(t *testing.T) {
	participants := []string{"A", "B", "C"}
	expenses := []Expense{
		{Payer: "A", Amount: 100, Category: CategoryCommon},
	}

	result := Compute(participants, expenses)

	if len(result.Settlements) != 2 {
		t.Fatalf("expected 2 settlements, got %d", len(result.Settlements))
	}
	for _, s := range result.Settlements {
		if s.Amount != 33 {
			t.Fatalf("expected rounded amount 33, got %d", s.Amount)
		}
	}
}

// TestComputeOrderIndependence проверяет одинаковый результат при перестановке расходов.
func TestComputeOrderIndependence(t *testing.T) {
	participants := []string{"A", "B", "C"}
	forward := []Expense{
		{Payer: "A", Amount: 120, Category: CategoryCommon},
		{Payer: "B", Amount: 60, Category: CategoryCommon},
		{Payer: "C", Amount: 30, Category: CategoryCommon},
	}
	backward := []Expense{forward[2], forward[1], forward[0]}

	first := Compute(participants, forward)
	second := Compute(participants, backward)

	if len(first.Settlements) != len(second.Settlements) {
		t.Fatalf("settlement counts differ: %d vs %d", len(first.Settlements), len(second.Settlements))
	}

	counts := make(map[Settlement]int)
	for _, s := range first.Settlements {
		counts[s]++
	}
	for _, s := range second.Settlements {
		counts[s]--
	}
	for s, n := range counts {
		if n != 0 {
			t.Fatalf("settlement %+v differs between orderings", s)
		}
	}
}

// TestComputeUnknownPayer проверяет терпимость к плательщику вне списка участников.
func TestComputeUnknownPayer(t *testing.T) {
	participants := []string{"A", "B"}
	expenses := []Expense{
		{Payer: "X", Amount: 100, Category: CategoryCommon},
	}

	result := Compute(participants, expenses)

	if result.TotalCommonSpend != 100 {
		t.Fatalf("expected unknown payer to count toward total, got %v", result.TotalCommonSpend)
	}
	// Оба участника в долгу, получателей нет — переводы не строятся.
	if len(result.Settlements) != 0 {
		t.Fatalf("expected no settlements, got %d", len(result.Settlements))
	}
}

// TestComputeNearZeroBalance проверяет, что баланс в пределах эпсилона не порождает перевод.
func TestComputeNearZeroBalance(t *testing.T) {
	participants := []string{"A", "B", "C"}
	expenses := []Expense{
		{Payer: "A", Amount: 100, Category: CategoryCommon},
		{Payer: "B", Amount: 100, Category: CategoryCommon},
		{Payer: "C", Amount: 100, Category: CategoryCommon},
	}

	result := Compute(participants, expenses)

	if len(result.Settlements) != 0 {
		t.Fatalf("expected no settlements for equal payers, got %d", len(result.Settlements))
	}
}
