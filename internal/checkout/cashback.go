package checkout

import "github.com/shopspring/decimal"

// Gateway-paid orders earn a 5% wallet cashback, applied once at
// verification time.
var cashbackRate = decimal.RequireFromString("0.05")

// Cashback computes the wallet credit for a gateway-paid order total,
// rounded to 2 decimal places half-to-even, so a boundary total like
// 0.10 credits 0.00 rather than 0.01.
func Cashback(total decimal.Decimal) decimal.Decimal {
	return total.Mul(cashbackRate).RoundBank(2)
}
