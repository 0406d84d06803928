package rebalance

// Side is the direction of an order.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Order is an instruction to trade Amount shares of a contract.
type Order struct {
	ContractCode        string
	Side                Side
	Amount              Quantity // always positive
	EstimatedOrderValue Money    // always positive
}

func (o Order) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("contractCode", o.ContractCode)
	w.Append("side", o.Side)
	w.Append("amount", o.Amount)
	w.Append("estimatedOrderValue", o.EstimatedOrderValue)
	return w.MarshalJSON()
}

// BuildOrders turns deltas into orders, in the same order.
//
// The amount is the delta rounded to 3 decimal places, and the estimated
// value is the delta times the price, rounded to the cent. Deltas whose
// amount rounds to zero produce no order.
func BuildOrders(deltas []PositionDelta, prices map[string]Money) ([]Order, error) {
	orders := make([]Order, 0, len(deltas))
	for _, d := range deltas {
		if d.Shares.IsZero() {
			continue
		}
		price, ok := prices[d.ContractCode]
		if !ok {
			return nil, &MissingPriceError{ContractCode: d.ContractCode}
		}
		size := d.Shares.Abs()
		amount := size.Round(3)
		if amount.IsZero() {
			continue
		}
		side := Sell
		if d.Shares.IsPositive() {
			side = Buy
		}
		orders = append(orders, Order{
			ContractCode:        d.ContractCode,
			Side:                side,
			Amount:              amount,
			EstimatedOrderValue: price.Mul(size).Abs().Round(2),
		})
	}
	return orders, nil
}

// Totals returns the estimated value of all buy orders and all sell orders.
func Totals(orders []Order) (buys, sells Money) {
	for _, o := range orders {
		switch o.Side {
		case Buy:
			buys = buys.Add(o.EstimatedOrderValue)
		case Sell:
			sells = sells.Add(o.EstimatedOrderValue)
		}
	}
	return buys, sells
}
