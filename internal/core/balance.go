package core

import "strings"

// CounterpartyBalance computes one person's signed balance against the
// cash box: positive means the box owes them, negative means they owe the
// box. Matching against PaidBy is a case-insensitive exact comparison.
//
// The rule subset here is deliberately narrower than the global effect
// table: it only sees transactions where the counterparty is the payer,
// so the box-identity branch never applies. Donación is absorbed by the
// global aggregator as a debt reduction but does not move a personal
// balance. The two views are not required to reconcile; see the
// aggregation tests.
func CounterpartyBalance(txs []Transaction, name string) Money {
	var balance Money
	for _, t := range txs {
		if !t.IsConfirmed {
			continue
		}
		if t.AmountUSD.Cents < 0 {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(t.PaidBy), strings.TrimSpace(name)) {
			continue
		}
		switch {
		case IsExpenseCategory(t.Category), t.Category == Prestamo:
			balance.Cents += t.AmountUSD.Cents
		case t.Category == Reembolso, t.Category == Adelanto:
			balance.Cents -= t.AmountUSD.Cents
		case t.Category == Ingreso, t.Category == PagoReserva:
			// They collected money that belongs to the box.
			balance.Cents -= t.AmountUSD.Cents
		}
	}
	return balance
}
