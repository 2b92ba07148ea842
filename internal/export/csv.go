// Package export renders the ledger as a CSV report and as a JSON
// backup, and parses backups back for restore.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"eucalito/internal/core"
)

// WriteCSV renders the full report: chronological history, expense
// breakdown, income and donations, and debt movements, as four sections
// in one file.
func WriteCSV(w io.Writer, txs []core.Transaction, snap core.LedgerSnapshot) error {
	cw := csv.NewWriter(w)

	if err := writeHistory(cw, txs); err != nil {
		return err
	}
	if err := writeExpenseBreakdown(cw, snap); err != nil {
		return err
	}
	if err := writeIncome(cw, txs); err != nil {
		return err
	}
	if err := writeDebtMovements(cw, txs); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func txRecord(t core.Transaction) []string {
	confirmed := "no"
	if t.IsConfirmed {
		confirmed = "sí"
	}
	return []string{
		t.Date.ISO(),
		t.Description,
		t.AmountUSD.String(),
		t.OriginalAmount.String(),
		string(t.OriginalCurrency),
		string(t.Category),
		t.PaidBy,
		confirmed,
	}
}

func writeHistory(cw *csv.Writer, txs []core.Transaction) error {
	if err := cw.Write([]string{"HISTORIAL"}); err != nil {
		return fmt.Errorf("write history section: %w", err)
	}
	header := []string{"fecha", "descripción", "monto USD", "monto original",
		"moneda", "categoría", "pagado por", "confirmado"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write history header: %w", err)
	}

	ordered := make([]core.Transaction, len(txs))
	copy(ordered, txs)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date.Time)
	})
	for _, t := range ordered {
		if err := cw.Write(txRecord(t)); err != nil {
			return fmt.Errorf("write history row: %w", err)
		}
	}
	return cw.Write(nil)
}

func writeExpenseBreakdown(cw *csv.Writer, snap core.LedgerSnapshot) error {
	if err := cw.Write([]string{"GASTOS POR CATEGORÍA"}); err != nil {
		return fmt.Errorf("write breakdown section: %w", err)
	}
	if err := cw.Write([]string{"categoría", "total USD"}); err != nil {
		return fmt.Errorf("write breakdown header: %w", err)
	}
	for _, e := range snap.ExpensesByCategory {
		if err := cw.Write([]string{string(e.Category), e.Amount.String()}); err != nil {
			return fmt.Errorf("write breakdown row: %w", err)
		}
	}
	if err := cw.Write([]string{"TOTAL", snap.TotalExpense.String()}); err != nil {
		return fmt.Errorf("write breakdown total: %w", err)
	}
	return cw.Write(nil)
}

func writeIncome(cw *csv.Writer, txs []core.Transaction) error {
	if err := cw.Write([]string{"INGRESOS Y APORTES"}); err != nil {
		return fmt.Errorf("write income section: %w", err)
	}
	if err := cw.Write([]string{"fecha", "descripción", "monto USD", "categoría", "pagado por"}); err != nil {
		return fmt.Errorf("write income header: %w", err)
	}
	for _, t := range txs {
		if !t.IsConfirmed {
			continue
		}
		if !core.CountsAsBusinessIncome(t.Category) && !core.CountsAsContribution(t.Category) {
			continue
		}
		row := []string{t.Date.ISO(), t.Description, t.AmountUSD.String(),
			string(t.Category), t.PaidBy}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write income row: %w", err)
		}
	}
	return cw.Write(nil)
}

func writeDebtMovements(cw *csv.Writer, txs []core.Transaction) error {
	if err := cw.Write([]string{"MOVIMIENTOS DE DEUDA"}); err != nil {
		return fmt.Errorf("write debt section: %w", err)
	}
	if err := cw.Write([]string{"fecha", "descripción", "monto USD", "categoría", "contraparte"}); err != nil {
		return fmt.Errorf("write debt header: %w", err)
	}
	for _, t := range txs {
		if !t.IsConfirmed {
			continue
		}
		eff := core.CategoryEffect(t.Category, core.ClassifyPayer(t.PaidBy))
		if eff.Debt == 0 {
			continue
		}
		row := []string{t.Date.ISO(), t.Description, t.AmountUSD.String(),
			string(t.Category), t.PaidBy}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write debt row: %w", err)
		}
	}
	return nil
}
