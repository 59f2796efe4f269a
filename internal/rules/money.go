package rules

import "fmt"

// Money is an amount in the smallest currency unit (kuruş for TRY). All
// pricing arithmetic stays in integers; there is no floating point anywhere
// in the order pipeline.
type Money struct {
	AmountMinor int64
	Currency    string
}

func NewMoney(amountMinor int64, currency string) (Money, error) {
	if currency == "" {
		return Money{}, newError(CodeValidation, "currency is required")
	}
	if amountMinor < 0 {
		return Money{}, newError(CodeValidation, "amount must not be negative").
			withDetail("amountMinor", amountMinor)
	}
	return Money{AmountMinor: amountMinor, Currency: currency}, nil
}

func ZeroMoney(currency string) Money {
	return Money{AmountMinor: 0, Currency: currency}
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, newError(CodeCurrencyMismatch,
			fmt.Sprintf("cannot add %s to %s", other.Currency, m.Currency))
	}
	return Money{AmountMinor: m.AmountMinor + other.AmountMinor, Currency: m.Currency}, nil
}

func (m Money) MulQty(qty int) (Money, error) {
	if qty < 0 {
		return Money{}, newError(CodeValidation, "quantity must not be negative").
			withDetail("quantity", qty)
	}
	return Money{AmountMinor: m.AmountMinor * int64(qty), Currency: m.Currency}, nil
}

// SumMoney adds a list of amounts; an empty list yields zero in the given
// currency.
func SumMoney(currency string, amounts ...Money) (Money, error) {
	total := ZeroMoney(currency)
	for _, a := range amounts {
		var err error
		total, err = total.Add(a)
		if err != nil {
			return Money{}, err
		}
	}
	return total, nil
}
