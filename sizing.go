package rebalance

import "fmt"

// DesiredShares returns the number of shares worth weight of portfolioValue
// at price, rounded to 4 decimal places.
func DesiredShares(weight Weight, portfolioValue, price Money) (Quantity, error) {
	if !price.IsPositive() {
		return Quantity{}, &UpstreamDataError{Source: "price", Err: fmt.Errorf("price %v is not positive", price)}
	}
	return portfolioValue.MulWeight(weight).DivPrice(price).Round(4), nil
}

// DesiredHoldings sizes every targeted contract. Every code in weights must
// have a price, zero weights included.
func DesiredHoldings(weights TargetWeights, portfolioValue Money, prices map[string]Money) (Positions, error) {
	desired := make(Positions, len(weights))
	for _, code := range weights.Codes() {
		price, ok := prices[code]
		if !ok {
			return nil, &MissingPriceError{ContractCode: code}
		}
		shares, err := DesiredShares(weights[code], portfolioValue, price)
		if err != nil {
			return nil, fmt.Errorf("cannot size %s: %w", code, err)
		}
		desired[code] = shares
	}
	return desired, nil
}
