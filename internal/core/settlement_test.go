package core

import (
	"errors"
	"testing"
)

func TestPlanSettlementFull(t *testing.T) {
	txs := []Transaction{confirmed(Prestamo, "Pablo", 100_00)}
	balance := CounterpartyBalance(txs, "Pablo")

	tx, err := PlanSettlement("Pablo", balance, balance)
	if err != nil {
		t.Fatalf("PlanSettlement: %v", err)
	}
	if tx.Category != Reembolso {
		t.Fatalf("category = %q, want Reembolso", tx.Category)
	}
	if tx.PaidBy != "Pablo" {
		t.Fatalf("paidBy = %q, want Pablo", tx.PaidBy)
	}
	if tx.Description != "Reembolso saldo: Pablo" {
		t.Fatalf("description = %q", tx.Description)
	}
	if tx.IsConfirmed {
		t.Fatal("settlement must be emitted unconfirmed")
	}

	tx.IsConfirmed = true
	txs = append(txs, tx)
	if got := CounterpartyBalance(txs, "Pablo"); got.Cents != 0 {
		t.Fatalf("balance after full settlement = %d, want 0", got.Cents)
	}
	snap := Aggregate(txs)
	if snap.TotalPendingDebt.Cents != 0 {
		t.Fatalf("debt after full settlement = %d, want 0", snap.TotalPendingDebt.Cents)
	}
}

func TestPlanSettlementPartial(t *testing.T) {
	txs := []Transaction{confirmed(Prestamo, "Pablo", 100_00)}
	balance := CounterpartyBalance(txs, "Pablo")

	tx, err := PlanSettlement("Pablo", balance, Money{Cents: 30_00})
	if err != nil {
		t.Fatalf("PlanSettlement: %v", err)
	}
	tx.IsConfirmed = true
	txs = append(txs, tx)
	if got := CounterpartyBalance(txs, "Pablo"); got.Cents != 70_00 {
		t.Fatalf("residual balance = %d, want 7000", got.Cents)
	}
}

func TestPlanSettlementNegativeBalance(t *testing.T) {
	// The counterparty collected box money; settling means they pay in.
	txs := []Transaction{confirmed(Ingreso, "Mabel", 80_00)}
	balance := CounterpartyBalance(txs, "Mabel")
	if balance.Cents != -80_00 {
		t.Fatalf("precondition: balance = %d", balance.Cents)
	}

	tx, err := PlanSettlement("Mabel", balance, balance.Abs())
	if err != nil {
		t.Fatalf("PlanSettlement: %v", err)
	}
	if tx.Category != Prestamo {
		t.Fatalf("category = %q, want Préstamo", tx.Category)
	}
	if tx.Description != "Cobro saldo: Mabel" {
		t.Fatalf("description = %q", tx.Description)
	}
	tx.IsConfirmed = true
	txs = append(txs, tx)
	if got := CounterpartyBalance(txs, "Mabel"); got.Cents != 0 {
		t.Fatalf("balance after settlement = %d, want 0", got.Cents)
	}
	snap := Aggregate(txs)
	if snap.TotalPendingDebt.Cents != 0 {
		t.Fatalf("debt after settlement = %d, want 0", snap.TotalPendingDebt.Cents)
	}
	if snap.CurrentBox.Cents != 80_00 {
		t.Fatalf("box after settlement = %d, want 8000", snap.CurrentBox.Cents)
	}
}

func TestPlanSettlementRejectsMisuse(t *testing.T) {
	if _, err := PlanSettlement("Pablo", Money{Cents: 100_00}, Money{}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero amount: err = %v, want ErrInvalidAmount", err)
	}
	if _, err := PlanSettlement("Pablo", Money{Cents: 100_00}, Money{Cents: -5_00}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative amount: err = %v, want ErrInvalidAmount", err)
	}
	if _, err := PlanSettlement("Pablo", Money{}, Money{Cents: 10_00}); !errors.Is(err, ErrNothingToSettle) {
		t.Fatalf("zero balance: err = %v, want ErrNothingToSettle", err)
	}
}
