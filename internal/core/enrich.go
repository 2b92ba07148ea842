package core

import "github.com/shopspring/decimal"

// FallbackUYURate is the UYU-per-USD rate used when both the live and
// historical lookups fail. Enrichment is never fatal.
var FallbackUYURate = decimal.NewFromFloat(42.5)

// ConvertToUSD normalizes an original UYU amount at the given
// UYU-per-USD rate, rounding to whole cents.
func ConvertToUSD(original Money, rate decimal.Decimal) (Money, error) {
	if original.Cents < 0 {
		return Money{}, ErrInvalidAmount
	}
	if rate.Sign() <= 0 {
		return Money{}, ErrInvalidRate
	}
	return MoneyFromDecimal(original.Decimal().DivRound(rate, 4)), nil
}

// DeriveRate recomputes the exchange rate implied by an original amount
// and its normalized USD amount, rounded to 2 decimals. This is the
// edit-time analogue of ConvertToUSD: editing OriginalAmount on a UYU
// transaction keeps AmountUSD and re-derives the rate so provenance
// stays consistent with the creation formula.
func DeriveRate(original, amountUSD Money) (decimal.Decimal, error) {
	if original.Cents < 0 || amountUSD.Cents <= 0 {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return original.Decimal().DivRound(amountUSD.Decimal(), 2), nil
}
