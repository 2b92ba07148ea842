package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"eucalito/internal/amqp"
	"eucalito/internal/core"
	"eucalito/internal/storage"
)

type fakeWorkerStore struct {
	txs    map[string]core.Transaction
	synced map[string]bool
}

func newFakeWorkerStore() *fakeWorkerStore {
	return &fakeWorkerStore{
		txs:    make(map[string]core.Transaction),
		synced: make(map[string]bool),
	}
}

func (f *fakeWorkerStore) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	tx, ok := f.txs[id]
	if !ok {
		return core.Transaction{}, storage.ErrNotFound
	}
	return tx, nil
}

func (f *fakeWorkerStore) ListUnsynced(_ context.Context, limit int) ([]core.Transaction, error) {
	var out []core.Transaction
	for id, tx := range f.txs {
		if tx.IsConfirmed && !f.synced[id] {
			out = append(out, tx)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeWorkerStore) MarkSynced(_ context.Context, id string, _ time.Time) error {
	if _, ok := f.txs[id]; !ok {
		return storage.ErrNotFound
	}
	f.synced[id] = true
	return nil
}

type fakeSheet struct {
	rows []core.Transaction
	err  error
}

func (f *fakeSheet) AppendRow(_ context.Context, tx core.Transaction) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.rows = append(f.rows, tx)
	return "Movimientos!A2:H2", nil
}

func confirmedTx(id string) core.Transaction {
	return core.Transaction{
		ID:               id,
		Date:             core.NewDate(2026, 3, 10),
		Description:      "test",
		AmountUSD:        core.Money{Cents: 45_00},
		OriginalAmount:   core.Money{Cents: 45_00},
		OriginalCurrency: core.USD,
		Category:         core.Insumos,
		PaidBy:           "Pablo",
		IsConfirmed:      true,
	}
}

func TestHandleEventMirrorsConfirmed(t *testing.T) {
	store := newFakeWorkerStore()
	sheet := &fakeSheet{}
	w := NewBackupWorker(store, sheet, 10)

	store.txs["tx-1"] = confirmedTx("tx-1")
	msg := amqp.NewLedgerEventMessage("sync", "transaction", "tx-1")
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(sheet.rows) != 1 || sheet.rows[0].ID != "tx-1" {
		t.Fatalf("rows = %+v", sheet.rows)
	}
	if !store.synced["tx-1"] {
		t.Fatal("transaction not marked synced")
	}
}

func TestHandleEventSkipsUnconfirmed(t *testing.T) {
	store := newFakeWorkerStore()
	sheet := &fakeSheet{}
	w := NewBackupWorker(store, sheet, 10)

	tx := confirmedTx("tx-1")
	tx.IsConfirmed = false
	store.txs["tx-1"] = tx

	if err := w.HandleEvent(context.Background(), amqp.NewLedgerEventMessage("sync", "transaction", "tx-1")); err != nil {
		t.Fatal(err)
	}
	if len(sheet.rows) != 0 {
		t.Fatal("unconfirmed proposal was mirrored")
	}
}

func TestHandleEventIgnoresOtherEntities(t *testing.T) {
	w := NewBackupWorker(newFakeWorkerStore(), &fakeSheet{}, 10)
	if err := w.HandleEvent(context.Background(), amqp.NewLedgerEventMessage("sync", "booking", "bk-1")); err != nil {
		t.Fatalf("booking events must be ignored: %v", err)
	}
	if err := w.HandleEvent(context.Background(), amqp.NewLedgerEventMessage("delete", "transaction", "tx-1")); err != nil {
		t.Fatalf("delete events must be ignored: %v", err)
	}
}

func TestHandleEventTolerateDeletedRow(t *testing.T) {
	w := NewBackupWorker(newFakeWorkerStore(), &fakeSheet{}, 10)
	if err := w.HandleEvent(context.Background(), amqp.NewLedgerEventMessage("sync", "transaction", "gone")); err != nil {
		t.Fatalf("missing row must not error: %v", err)
	}
}

func TestProcessPendingRetriesOnFailure(t *testing.T) {
	store := newFakeWorkerStore()
	sheet := &fakeSheet{err: errors.New("quota exceeded")}
	w := NewBackupWorker(store, sheet, 10)

	store.txs["tx-1"] = confirmedTx("tx-1")
	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if store.synced["tx-1"] {
		t.Fatal("failed mirror must stay queued")
	}

	sheet.err = nil
	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !store.synced["tx-1"] {
		t.Fatal("retry did not mirror the transaction")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	w := NewBackupWorker(newFakeWorkerStore(), &fakeSheet{}, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
}
