package core

import "testing"

func confirmed(category Category, paidBy string, cents int64) Transaction {
	return Transaction{
		Date:             NewDate(2026, 3, 10),
		Description:      "test",
		AmountUSD:        Money{Cents: cents},
		OriginalAmount:   Money{Cents: cents},
		OriginalCurrency: USD,
		Category:         category,
		PaidBy:           paidBy,
		IsConfirmed:      true,
	}
}

func TestAggregateEmpty(t *testing.T) {
	snap := Aggregate(nil)
	if snap.CurrentBox.Cents != 0 || snap.TotalPendingDebt.Cents != 0 || snap.NetProfit.Cents != 0 {
		t.Fatalf("empty collection must yield a zero snapshot, got %+v", snap)
	}
	if len(snap.ExpensesByCategory) != 0 || len(snap.Skipped) != 0 {
		t.Fatalf("empty collection must yield empty slices, got %+v", snap)
	}
}

func TestAggregateIgnoresUnconfirmed(t *testing.T) {
	proposal := confirmed(Ingreso, "Cliente", 50_00)
	proposal.IsConfirmed = false
	snap := Aggregate([]Transaction{proposal})
	if snap.CurrentBox.Cents != 0 || snap.BusinessIncome.Cents != 0 {
		t.Fatalf("unconfirmed transactions must not move aggregates, got %+v", snap)
	}
	if len(snap.Skipped) != 0 {
		t.Fatalf("unconfirmed exclusion is silent, got skipped %+v", snap.Skipped)
	}
}

func TestAggregateSkipsNegativeAmounts(t *testing.T) {
	bad := confirmed(Insumos, "Pablo", -10_00)
	bad.ID = "tx-bad"
	good := confirmed(Ingreso, "Cliente", 100_00)
	snap := Aggregate([]Transaction{bad, good})
	if snap.CurrentBox.Cents != 100_00 {
		t.Fatalf("negative transaction leaked into the box: %+v", snap)
	}
	if snap.TotalExpense.Cents != 0 || snap.TotalPendingDebt.Cents != 0 {
		t.Fatalf("negative transaction leaked into totals: %+v", snap)
	}
	if len(snap.Skipped) != 1 || snap.Skipped[0].ID != "tx-bad" {
		t.Fatalf("expected tx-bad reported as skipped, got %+v", snap.Skipped)
	}
}

func TestAggregateScenarioChain(t *testing.T) {
	// A cousin lends the box 100, takes 40 as an advance, then is
	// reimbursed the remaining 60. Both views must land on zero.
	loan := confirmed(Prestamo, "Pablo", 100_00)

	snap := Aggregate([]Transaction{loan})
	if snap.CurrentBox.Cents != 100_00 {
		t.Fatalf("after loan: box = %d, want 10000", snap.CurrentBox.Cents)
	}
	if snap.TotalPendingDebt.Cents != 100_00 {
		t.Fatalf("after loan: debt = %d, want 10000", snap.TotalPendingDebt.Cents)
	}
	if got := CounterpartyBalance([]Transaction{loan}, "Pablo"); got.Cents != 100_00 {
		t.Fatalf("after loan: balance = %d, want 10000", got.Cents)
	}

	advance := confirmed(Adelanto, "Pablo", 40_00)
	txs := []Transaction{loan, advance}
	snap = Aggregate(txs)
	if snap.CurrentBox.Cents != 60_00 || snap.TotalPendingDebt.Cents != 60_00 {
		t.Fatalf("after advance: box=%d debt=%d, want 6000/6000",
			snap.CurrentBox.Cents, snap.TotalPendingDebt.Cents)
	}
	if got := CounterpartyBalance(txs, "Pablo"); got.Cents != 60_00 {
		t.Fatalf("after advance: balance = %d, want 6000", got.Cents)
	}

	reimbursement := confirmed(Reembolso, "Pablo", 60_00)
	txs = append(txs, reimbursement)
	snap = Aggregate(txs)
	if snap.CurrentBox.Cents != 0 || snap.TotalPendingDebt.Cents != 0 {
		t.Fatalf("after reimbursement: box=%d debt=%d, want 0/0",
			snap.CurrentBox.Cents, snap.TotalPendingDebt.Cents)
	}
	if got := CounterpartyBalance(txs, "Pablo"); got.Cents != 0 {
		t.Fatalf("after reimbursement: balance = %d, want 0", got.Cents)
	}
}

func TestAggregateDeletionLeavesNoResidual(t *testing.T) {
	// Aggregation is a pure fold, so deleting a transaction is just
	// recomputing without it.
	txs := []Transaction{
		confirmed(Ingreso, "Cliente", 500_00),
		confirmed(Insumos, "caja", 120_00),
		confirmed(Prestamo, "Mabel", 80_00),
	}
	snap := Aggregate(txs[:2])
	withLoan := Aggregate(txs)
	if withLoan.CurrentBox.Cents == snap.CurrentBox.Cents {
		t.Fatal("loan must have moved the box")
	}
	after := Aggregate(txs[:2])
	if after.CurrentBox != snap.CurrentBox || after.TotalPendingDebt != snap.TotalPendingDebt ||
		after.NetProfit != snap.NetProfit || after.Contributions != snap.Contributions {
		t.Fatalf("recomputation after deletion diverged: %+v vs %+v", after, snap)
	}
}

func TestAggregateNetProfitIdentity(t *testing.T) {
	txs := []Transaction{
		confirmed(Ingreso, "Cliente", 900_00),
		confirmed(PagoReserva, "Cliente", 350_00),
		confirmed(Donacion, "Familia", 200_00),
		confirmed(Insumos, "Pablo", 130_00),
		confirmed(Servicios, "caja", 70_00),
		confirmed(Prestamo, "Mabel", 500_00),
		confirmed(Adelanto, "Pablo", 50_00),
	}
	snap := Aggregate(txs)
	want := snap.BusinessIncome.Add(snap.TotalDonations).Sub(snap.TotalExpense)
	if snap.NetProfit != want {
		t.Fatalf("netProfit = %d, want %d", snap.NetProfit.Cents, want.Cents)
	}
	if snap.BusinessIncome.Cents != 1250_00 {
		t.Fatalf("businessIncome = %d, want 125000", snap.BusinessIncome.Cents)
	}
	if snap.TotalExpense.Cents != 200_00 {
		t.Fatalf("totalExpense = %d, want 20000", snap.TotalExpense.Cents)
	}
	if snap.Contributions.Cents != 700_00 {
		t.Fatalf("contributions = %d, want 70000", snap.Contributions.Cents)
	}
}

func TestAggregateExpenseBreakdown(t *testing.T) {
	txs := []Transaction{
		confirmed(Insumos, "caja", 30_00),
		confirmed(Insumos, "Pablo", 45_00),
		confirmed(Mantenimiento, "caja", 200_00),
		confirmed(Ingreso, "Cliente", 1000_00),
	}
	snap := Aggregate(txs)
	if len(snap.ExpensesByCategory) != 2 {
		t.Fatalf("expected 2 categories, got %+v", snap.ExpensesByCategory)
	}
	if snap.ExpensesByCategory[0].Category != Mantenimiento ||
		snap.ExpensesByCategory[0].Amount.Cents != 200_00 {
		t.Fatalf("breakdown not sorted descending: %+v", snap.ExpensesByCategory)
	}
	if snap.ExpensesByCategory[1].Category != Insumos ||
		snap.ExpensesByCategory[1].Amount.Cents != 75_00 {
		t.Fatalf("Insumos slice wrong: %+v", snap.ExpensesByCategory[1])
	}
	if got := len(snap.ExpensesByCategory[1].Transactions); got != 2 {
		t.Fatalf("Insumos slice should carry 2 transactions, got %d", got)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	txs := []Transaction{
		confirmed(Prestamo, "Pablo", 100_00),
		confirmed(Insumos, "Pablo", 25_00),
		confirmed(Ingreso, "Cliente", 300_00),
		confirmed(Donacion, "Mabel", 40_00),
	}
	reversed := make([]Transaction, len(txs))
	for i, tx := range txs {
		reversed[len(txs)-1-i] = tx
	}
	a, b := Aggregate(txs), Aggregate(reversed)
	if a.CurrentBox != b.CurrentBox || a.TotalPendingDebt != b.TotalPendingDebt ||
		a.NetProfit != b.NetProfit {
		t.Fatalf("fold is order-dependent: %+v vs %+v", a, b)
	}
}

func TestBalancesNeedNotReconcileWithDebt(t *testing.T) {
	// A cousin's Donación reduces global pending debt but leaves their
	// personal balance untouched, so the summed balances and
	// TotalPendingDebt legitimately diverge.
	txs := []Transaction{
		confirmed(Prestamo, "Pablo", 100_00),
		confirmed(Donacion, "Pablo", 30_00),
	}
	snap := Aggregate(txs)
	if snap.TotalPendingDebt.Cents != 70_00 {
		t.Fatalf("debt = %d, want 7000", snap.TotalPendingDebt.Cents)
	}
	if got := CounterpartyBalance(txs, "Pablo"); got.Cents != 100_00 {
		t.Fatalf("balance = %d, want 10000", got.Cents)
	}
}
