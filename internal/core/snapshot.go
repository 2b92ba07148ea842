package core

import "sort"

// CategoryExpenses is one slice of the expense breakdown.
type CategoryExpenses struct {
	Category     Category
	Amount       Money
	Transactions []Transaction
}

// SkippedTransaction records a transaction the aggregator refused to fold
// in, with the reason. Skipping is reported, never silent.
type SkippedTransaction struct {
	ID     string
	Reason string
}

// LedgerSnapshot is the full set of derived aggregates for one
// observation of the transaction collection.
type LedgerSnapshot struct {
	CurrentBox       Money
	TotalExpense     Money
	BusinessIncome   Money
	TotalDonations   Money
	Contributions    Money
	TotalPendingDebt Money
	NetProfit        Money
	// ExpensesByCategory is sorted descending by amount; zero-amount
	// categories are excluded.
	ExpensesByCategory []CategoryExpenses
	// Skipped lists confirmed transactions with negative amounts that
	// were excluded rather than folded in.
	Skipped []SkippedTransaction
}

// Aggregate folds an unordered transaction collection into a
// LedgerSnapshot. It is a pure function: order-independent, O(n) over the
// collection, no hidden state. Unconfirmed transactions are proposals and
// are excluded without error. A confirmed transaction with a negative
// amount is excluded and reported in Skipped; it never corrupts the rest
// of the snapshot.
func Aggregate(txs []Transaction) LedgerSnapshot {
	var snap LedgerSnapshot
	byCategory := make(map[Category]*CategoryExpenses)

	for _, t := range txs {
		if !t.IsConfirmed {
			continue
		}
		if t.AmountUSD.Cents < 0 {
			snap.Skipped = append(snap.Skipped, SkippedTransaction{
				ID:     t.ID,
				Reason: "negative amount",
			})
			continue
		}

		amount := t.AmountUSD.Cents
		eff := CategoryEffect(t.Category, ClassifyPayer(t.PaidBy))
		snap.CurrentBox.Cents += eff.Cash * amount
		snap.TotalPendingDebt.Cents += eff.Debt * amount

		switch {
		case CountsAsBusinessIncome(t.Category):
			snap.BusinessIncome.Cents += amount
		case t.Category == Donacion:
			snap.TotalDonations.Cents += amount
			snap.Contributions.Cents += amount
		case t.Category == Prestamo:
			snap.Contributions.Cents += amount
		}
		if CountsAsExpense(t.Category) {
			snap.TotalExpense.Cents += amount
			entry, ok := byCategory[t.Category]
			if !ok {
				entry = &CategoryExpenses{Category: t.Category}
				byCategory[t.Category] = entry
			}
			entry.Amount.Cents += amount
			entry.Transactions = append(entry.Transactions, t)
		}
	}

	snap.NetProfit = snap.BusinessIncome.Add(snap.TotalDonations).Sub(snap.TotalExpense)

	for _, entry := range byCategory {
		if entry.Amount.IsZero() {
			continue
		}
		snap.ExpensesByCategory = append(snap.ExpensesByCategory, *entry)
	}
	sort.Slice(snap.ExpensesByCategory, func(i, j int) bool {
		a, b := snap.ExpensesByCategory[i], snap.ExpensesByCategory[j]
		if a.Amount.Cents != b.Amount.Cents {
			return a.Amount.Cents > b.Amount.Cents
		}
		return a.Category < b.Category
	})

	return snap
}
