package rebalance

// ZAR is a helper for test to create rand money from const
func ZAR(v float64) Money { return M(v, "ZAR") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

// holding is a helper for test to create a holding valued at shares*price.
func holding(code string, shares, price float64) Holding {
	return Holding{
		ContractCode: code,
		Shares:       Q(shares),
		CurrentPrice: ZAR(price),
		CurrentValue: ZAR(price).Mul(Q(shares)),
	}
}
