package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanSettlement builds the single corrective transaction that moves a
// counterparty's balance toward zero by the requested amount.
//
// If the box owes the counterparty (balance > 0) the correction is a
// Reembolso: cash leaves the box and their credit shrinks. If the
// counterparty owes the box (balance < 0) they hand the money in, which
// is the Préstamo movement (cash enters the box, their debt to it
// shrinks); the description records it as a collection. The amount must
// be strictly positive and may be less than |balance| for a partial
// settlement; the planner never special-cases full versus partial
// because the correction direction alone guarantees the recomputed
// balance shrinks by exactly the settled amount.
//
// The planned transaction is unconfirmed: it goes through the same
// confirmation step as any other proposal before it reaches the ledger.
func PlanSettlement(counterparty string, balance, amount Money) (Transaction, error) {
	if amount.Cents <= 0 {
		return Transaction{}, ErrInvalidAmount
	}
	if balance.IsZero() {
		return Transaction{}, ErrNothingToSettle
	}

	category := Prestamo
	description := "Cobro saldo: " + counterparty
	if balance.Cents > 0 {
		category = Reembolso
		description = "Reembolso saldo: " + counterparty
	}

	return Transaction{
		Date:             Today(),
		Description:      description,
		AmountUSD:        amount,
		OriginalAmount:   amount,
		OriginalCurrency: USD,
		ExchangeRate:     decimal.NewFromInt(1),
		Category:         category,
		PaidBy:           counterparty,
		CreatedAt:        time.Now(),
	}, nil
}
