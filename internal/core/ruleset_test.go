package core

import "testing"

func TestClassifyPayer(t *testing.T) {
	cases := []struct {
		paidBy string
		want   PayerKind
	}{
		{"Pablo", PayerCounterparty},
		{"caja", PayerBox},
		{"Caja", PayerBox},
		{" CAJA ", PayerBox},
		{"Cliente", PayerClient},
		{"Familia", PayerFamily},
		{"El Eucalito", PayerProperty},
		{"el eucalito", PayerProperty},
		{"Desconocido", PayerCounterparty},
		{"", PayerCounterparty},
	}
	for _, tc := range cases {
		if got := ClassifyPayer(tc.paidBy); got != tc.want {
			t.Errorf("ClassifyPayer(%q) = %v, want %v", tc.paidBy, got, tc.want)
		}
	}
}

func TestCategoryEffectTable(t *testing.T) {
	cases := []struct {
		name string
		cat  Category
		kind PayerKind
		want Effect
	}{
		// Expense categories: counterparty pays -> box owes them.
		{"expense by cousin", Insumos, PayerCounterparty, Effect{Cash: 0, Debt: +1}},
		{"maintenance by cousin", Mantenimiento, PayerCounterparty, Effect{Cash: 0, Debt: +1}},
		{"taxes by cousin", Impuestos, PayerCounterparty, Effect{Cash: 0, Debt: +1}},
		// Expense paid from the box itself drains cash.
		{"expense by box", Servicios, PayerBox, Effect{Cash: -1, Debt: 0}},
		// Expense paid by other reserved identities is an external gift.
		{"expense by family", Cuentas, PayerFamily, Effect{Cash: 0, Debt: 0}},
		{"expense by client", Insumos, PayerClient, Effect{Cash: 0, Debt: 0}},
		{"expense by property", Insumos, PayerProperty, Effect{Cash: 0, Debt: 0}},

		// Income: cousin collected box money vs. client paid the box.
		{"income by cousin", Ingreso, PayerCounterparty, Effect{Cash: 0, Debt: -1}},
		{"income by client", Ingreso, PayerClient, Effect{Cash: +1, Debt: 0}},
		{"booking payment by cousin", PagoReserva, PayerCounterparty, Effect{Cash: 0, Debt: -1}},
		{"booking payment by client", PagoReserva, PayerClient, Effect{Cash: +1, Debt: 0}},

		// Loans add cash and debt; reserved payers get the same rule.
		{"loan by cousin", Prestamo, PayerCounterparty, Effect{Cash: +1, Debt: +1}},
		{"loan by box", Prestamo, PayerBox, Effect{Cash: +1, Debt: +1}},

		// Advances and reimbursements drain cash and debt together.
		{"advance", Adelanto, PayerCounterparty, Effect{Cash: -1, Debt: -1}},
		{"reimbursement", Reembolso, PayerCounterparty, Effect{Cash: -1, Debt: -1}},

		// Donations: absorbed as debt reduction vs. cash gift.
		{"donation by cousin", Donacion, PayerCounterparty, Effect{Cash: 0, Debt: -1}},
		{"donation by family", Donacion, PayerFamily, Effect{Cash: +1, Debt: 0}},

		// Unknown categories take the expense row.
		{"unknown by cousin", Category("Otro"), PayerCounterparty, Effect{Cash: 0, Debt: +1}},
		{"unknown by box", Category("Otro"), PayerBox, Effect{Cash: -1, Debt: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CategoryEffect(tc.cat, tc.kind); got != tc.want {
				t.Fatalf("CategoryEffect(%q, %v) = %+v, want %+v", tc.cat, tc.kind, got, tc.want)
			}
		})
	}
}

func TestAccountingAxes(t *testing.T) {
	if !CountsAsBusinessIncome(Ingreso) || !CountsAsBusinessIncome(PagoReserva) {
		t.Error("Ingreso and Pago Reserva must count as business income")
	}
	if !CountsAsContribution(Donacion) || !CountsAsContribution(Prestamo) {
		t.Error("Donación and Préstamo must count as contributions")
	}
	for _, c := range []Category{Insumos, Mantenimiento, Servicios, Cuentas, Impuestos} {
		if !CountsAsExpense(c) {
			t.Errorf("%q must count as expense", c)
		}
	}
	for _, c := range []Category{Ingreso, PagoReserva, Prestamo, Adelanto, Reembolso, Donacion} {
		if CountsAsExpense(c) {
			t.Errorf("%q must not count as expense", c)
		}
	}
	if !CountsAsExpense(Category("Garbage")) {
		t.Error("unrecognized categories fold into the expense total")
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		if err != nil || got != c {
			t.Fatalf("ParseCategory(%q) = %q, %v", c, got, err)
		}
	}
	if got, err := ParseCategory("préstamo"); err != nil || got != Prestamo {
		t.Fatalf("case-insensitive match failed: %q, %v", got, err)
	}
	if _, err := ParseCategory("Sueldo"); err == nil {
		t.Fatal("expected error for category outside the closed set")
	}
}
