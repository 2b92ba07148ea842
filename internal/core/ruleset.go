package core

import "strings"

// PayerKind classifies who a transaction names as payer. The decision is
// made once per transaction; aggregation never re-derives it from raw
// strings.
type PayerKind int

const (
	// PayerCounterparty is a recognized person who can owe or be owed
	// money by the box.
	PayerCounterparty PayerKind = iota
	// PayerBox is the cash box itself ("Caja").
	PayerBox
	// PayerClient is a paying guest ("Cliente").
	PayerClient
	// PayerFamily is a no-charge family identity ("Familia").
	PayerFamily
	// PayerProperty is the house itself.
	PayerProperty
)

// reservedPayers maps lowercased reserved identities to their kind.
// Anything not listed here is a counterparty.
var reservedPayers = map[string]PayerKind{
	"caja":                        PayerBox,
	"cliente":                     PayerClient,
	"familia":                     PayerFamily,
	strings.ToLower(PropertyName): PayerProperty,
}

// ClassifyPayer decides whether paidBy names a counterparty or one of the
// reserved box-side identities. Matching is case-insensitive.
func ClassifyPayer(paidBy string) PayerKind {
	if k, ok := reservedPayers[strings.ToLower(strings.TrimSpace(paidBy))]; ok {
		return k
	}
	return PayerCounterparty
}

// IsReserved reports whether the kind is a box-side identity.
func (k PayerKind) IsReserved() bool { return k != PayerCounterparty }

// Effect is the signed multiplier a single transaction applies to the
// cash box and to the payer's debt balance. Debt is positive when the box
// owes the person.
type Effect struct {
	Cash int64
	Debt int64
}

// expenseCategories are the operating-expense categories that share one
// row of the effect table.
var expenseCategories = map[Category]bool{
	Insumos:       true,
	Mantenimiento: true,
	Servicios:     true,
	Cuentas:       true,
	Impuestos:     true,
}

// IsExpenseCategory reports whether the category is an operating expense.
func IsExpenseCategory(c Category) bool { return expenseCategories[c] }

// CategoryEffect returns the cash/debt multipliers for a category given
// who paid. The same category has different effects depending on whether
// the payer is a counterparty or a reserved identity:
//
//	counterparty pays an expense  -> the box owes them, cash untouched
//	Caja pays an expense          -> cash leaves the box
//	counterparty books an Ingreso -> they collected money owed to the box
//	Cliente pays an Ingreso       -> cash enters the box
//
// Unknown categories fall through to the expense row: categorization is
// advisory and adversarial input must aggregate without crashing.
func CategoryEffect(c Category, k PayerKind) Effect {
	counterparty := k == PayerCounterparty
	switch c {
	case Ingreso, PagoReserva:
		if counterparty {
			return Effect{Cash: 0, Debt: -1}
		}
		return Effect{Cash: +1, Debt: 0}
	case Prestamo:
		// Reserved payers are not expected here but get the same rule.
		return Effect{Cash: +1, Debt: +1}
	case Adelanto, Reembolso:
		return Effect{Cash: -1, Debt: -1}
	case Donacion:
		if counterparty {
			return Effect{Cash: 0, Debt: -1}
		}
		return Effect{Cash: +1, Debt: 0}
	default:
		// Expense categories, and anything unrecognized.
		if counterparty {
			return Effect{Cash: 0, Debt: +1}
		}
		if k == PayerBox {
			return Effect{Cash: -1, Debt: 0}
		}
		// External gift: paid from outside the box entirely.
		return Effect{Cash: 0, Debt: 0}
	}
}

// Accounting totals are an independent axis, accumulated regardless of
// payer identity.

// CountsAsBusinessIncome reports whether the category contributes to
// business income.
func CountsAsBusinessIncome(c Category) bool {
	return c == Ingreso || c == PagoReserva
}

// CountsAsContribution reports whether the category contributes to the
// contributions total.
func CountsAsContribution(c Category) bool {
	return c == Donacion || c == Prestamo
}

// CountsAsExpense reports whether the category contributes to the total
// expense figure. Every category outside the income/transfer set does,
// including unknown ones.
func CountsAsExpense(c Category) bool {
	switch c {
	case Ingreso, PagoReserva, Prestamo, Adelanto, Reembolso, Donacion:
		return false
	default:
		return true
	}
}
