package rebalance

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildOrders(t *testing.T) {
	prices := map[string]Money{"A": ZAR(50), "B": ZAR(25), "C": ZAR(3.33)}
	tests := []struct {
		name   string
		deltas []PositionDelta
		want   []Order
	}{
		{
			name:   "buy existing and new",
			deltas: []PositionDelta{{"A", Q(5)}, {"B", Q(30)}},
			want: []Order{
				{ContractCode: "A", Side: Buy, Amount: Q(5), EstimatedOrderValue: ZAR(250)},
				{ContractCode: "B", Side: Buy, Amount: Q(30), EstimatedOrderValue: ZAR(750)},
			},
		},
		{
			name:   "sell",
			deltas: []PositionDelta{{"A", Q(-2.5)}},
			want: []Order{
				{ContractCode: "A", Side: Sell, Amount: Q(2.5), EstimatedOrderValue: ZAR(125)},
			},
		},
		{
			name:   "amount rounded to 3 places, value from the exact delta",
			deltas: []PositionDelta{{"C", Q(1.2345)}},
			want: []Order{
				{ContractCode: "C", Side: Buy, Amount: Q(1.235), EstimatedOrderValue: ZAR(4.11)},
			},
		},
		{
			name:   "zero deltas produce no order",
			deltas: []PositionDelta{{"A", Q(0)}, {"B", Q(0.0004)}, {"C", Q(-0.0001)}},
			want:   []Order{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildOrders(tt.deltas, prices)
			if err != nil {
				t.Fatalf("BuildOrders() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BuildOrders() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildOrders_Properties(t *testing.T) {
	prices := map[string]Money{"A": ZAR(17.31), "B": ZAR(0.97), "C": ZAR(250)}
	deltas := []PositionDelta{{"A", Q(3.5)}, {"B", Q(-120.125)}, {"C", Q(-0.5)}}

	orders, err := BuildOrders(deltas, prices)
	if err != nil {
		t.Fatalf("BuildOrders() error = %v", err)
	}
	if len(orders) != len(deltas) {
		t.Fatalf("len(orders) = %d, want %d", len(orders), len(deltas))
	}
	for i, o := range orders {
		d := deltas[i]
		if (o.Side == Buy) != d.Shares.IsPositive() {
			t.Errorf("%s: side %s for delta %v", o.ContractCode, o.Side, d.Shares)
		}
		if o.Amount.IsNegative() || o.EstimatedOrderValue.IsNegative() {
			t.Errorf("%s: negative order %v %v", o.ContractCode, o.Amount, o.EstimatedOrderValue)
		}
		if want := d.Shares.Abs().Round(3); !o.Amount.Equal(want) {
			t.Errorf("%s: amount %v, want %v", o.ContractCode, o.Amount, want)
		}
		if want := prices[o.ContractCode].Mul(d.Shares.Abs()).Round(2); !o.EstimatedOrderValue.Equal(want) {
			t.Errorf("%s: value %v, want %v", o.ContractCode, o.EstimatedOrderValue, want)
		}
	}
}

func TestBuildOrders_MissingPrice(t *testing.T) {
	_, err := BuildOrders([]PositionDelta{{"A", Q(1)}, {"Z", Q(-1)}}, map[string]Money{"A": ZAR(1)})
	var missing *MissingPriceError
	if !errors.As(err, &missing) || missing.ContractCode != "Z" {
		t.Errorf("BuildOrders() error = %v, want a MissingPriceError for Z", err)
	}
}

func TestTotals(t *testing.T) {
	orders := []Order{
		{ContractCode: "A", Side: Buy, Amount: Q(1), EstimatedOrderValue: ZAR(100)},
		{ContractCode: "B", Side: Sell, Amount: Q(1), EstimatedOrderValue: ZAR(40)},
		{ContractCode: "C", Side: Buy, Amount: Q(1), EstimatedOrderValue: ZAR(0.5)},
	}
	buys, sells := Totals(orders)
	if !buys.Equal(ZAR(100.5)) {
		t.Errorf("buys = %v, want %v", buys, ZAR(100.5))
	}
	if !sells.Equal(ZAR(40)) {
		t.Errorf("sells = %v, want %v", sells, ZAR(40))
	}
}
