package split

import (
	"math"
	"sort"
)

type Category string

const (
	CategoryCommon   Category = "common"
	CategoryPersonal Category = "personal"
)

// senderEpsilon отсекает шум плавающей точки около нулевого баланса.
const senderEpsilon = 0.01

type Expense struct {
	Payer    string
	Amount   float64
	Category Category
}

type Settlement struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type Result struct {
	TotalCommonSpend float64      `json:"total_common_spend"`
	PerPersonShare   float64      `json:"per_person_share"`
	Settlements      []Settlement `json:"settlements"`
}

type party struct {
	name      string
	remaining float64
}

// Compute считает балансы участников по общим расходам и строит
// минимальный список переводов, закрывающий все долги.
//
// Балансы ведутся без округления, округляется только сумма каждого
// записанного перевода. Плательщики, отсутствующие в списке участников,
// не отклоняются: их расходы попадают в общую сумму без компенсирующего
// баланса.
func Compute(participants []string, expenses []Expense) Result {
	result := Result{Settlements: []Settlement{}}

	var total float64
	paid := make(map[string]float64)
	for _, expense := range expenses {
		if expense.Category != CategoryCommon {
			continue
		}
		total += expense.Amount
		paid[expense.Payer] += expense.Amount
	}

	result.TotalCommonSpend = total
	if len(participants) == 0 {
		return result
	}

	share := total / float64(len(participants))
	result.PerPersonShare = share

	var receivers, senders []party
	for _, name := range participants {
		balance := paid[name] - share
		switch {
		case balance > 0:
			receivers = append(receivers, party{name: name, remaining: balance})
		case balance < -senderEpsilon:
			senders = append(senders, party{name: name, remaining: -balance})
		}
	}

	sort.SliceStable(receivers, func(i, j int) bool {
		return receivers[i].remaining > receivers[j].remaining
	})
	sort.SliceStable(senders, func(i, j int) bool {
		return senders[i].remaining > senders[j].remaining
	})

	ri, si := 0, 0
	for ri < len(receivers) && si < len(senders) {
		receiver := &receivers[ri]
		sender := &senders[si]

		amount := math.Min(receiver.remaining, sender.remaining)
		result.Settlements = append(result.Settlements, Settlement{
			From:   sender.name,
			To:     receiver.name,
			Amount: int64(math.Round(amount)),
		})

		receiver.remaining -= amount
		sender.remaining -= amount

		// Меньше одной денежной единицы — сторона закрыта.
		if receiver.remaining < 1 {
			ri++
		}
		if sender.remaining < 1 {
			si++
		}
	}

	return result
}
