package core

import "testing"

func TestCounterpartyBalance(t *testing.T) {
	cases := []struct {
		name string
		txs  []Transaction
		want int64
	}{
		{
			name: "expense raises what the box owes",
			txs:  []Transaction{confirmed(Insumos, "Pablo", 80_00)},
			want: 80_00,
		},
		{
			name: "loan raises the balance like an expense",
			txs:  []Transaction{confirmed(Prestamo, "Pablo", 100_00)},
			want: 100_00,
		},
		{
			name: "advance lowers the balance",
			txs: []Transaction{
				confirmed(Prestamo, "Pablo", 100_00),
				confirmed(Adelanto, "Pablo", 40_00),
			},
			want: 60_00,
		},
		{
			name: "collected income makes them owe the box",
			txs:  []Transaction{confirmed(Ingreso, "Pablo", 200_00)},
			want: -200_00,
		},
		{
			name: "collected booking payment makes them owe the box",
			txs:  []Transaction{confirmed(PagoReserva, "Pablo", 150_00)},
			want: -150_00,
		},
		{
			name: "donation does not move the personal balance",
			txs:  []Transaction{confirmed(Donacion, "Pablo", 30_00)},
			want: 0,
		},
		{
			name: "other people's transactions are invisible",
			txs: []Transaction{
				confirmed(Insumos, "Mabel", 50_00),
				confirmed(Insumos, "Pablo", 20_00),
			},
			want: 20_00,
		},
		{
			name: "unconfirmed proposals are invisible",
			txs: []Transaction{
				{Category: Insumos, PaidBy: "Pablo", AmountUSD: Money{Cents: 99_00}},
			},
			want: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CounterpartyBalance(tc.txs, "Pablo"); got.Cents != tc.want {
				t.Fatalf("balance = %d, want %d", got.Cents, tc.want)
			}
		})
	}
}

func TestCounterpartyBalanceMatchIsCaseInsensitive(t *testing.T) {
	txs := []Transaction{confirmed(Insumos, "  pablo ", 10_00)}
	if got := CounterpartyBalance(txs, "PABLO"); got.Cents != 10_00 {
		t.Fatalf("balance = %d, want 1000", got.Cents)
	}
}

func TestCounterpartyBalanceSkipsNegatives(t *testing.T) {
	txs := []Transaction{
		confirmed(Insumos, "Pablo", 50_00),
		confirmed(Insumos, "Pablo", -20_00),
	}
	if got := CounterpartyBalance(txs, "Pablo"); got.Cents != 50_00 {
		t.Fatalf("negative amount leaked into balance: %d", got.Cents)
	}
}
