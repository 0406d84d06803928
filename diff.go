package rebalance

// PositionDelta is the signed number of shares to trade for a contract:
// positive to buy, negative to sell.
type PositionDelta struct {
	ContractCode string
	Shares       Quantity
}

// Diff returns the delta between desired and current positions for every
// contract present on either side, sorted by contract code.
//
// A contract held but not desired is closed out entirely, a contract desired
// but not held is opened entirely. Zero deltas are kept.
func Diff(current, desired Positions) []PositionDelta {
	codes := union(current, desired)
	deltas := make([]PositionDelta, 0, len(codes))
	for _, code := range codes {
		held, isHeld := current[code]
		wanted, isWanted := desired[code]

		var shares Quantity
		switch {
		case isHeld && isWanted:
			shares = wanted.Sub(held).Round(4)
		case isHeld:
			shares = held.Neg()
		default:
			shares = wanted
		}
		deltas = append(deltas, PositionDelta{ContractCode: code, Shares: shares})
	}
	return deltas
}
