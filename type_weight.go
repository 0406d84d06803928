package rebalance

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Weight is a fraction of the portfolio value, 1 being the whole portfolio.
type Weight struct {
	value decimal.Decimal
}

func W[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Weight {
	return Weight{value: newDecimal(value)}
}

// ParseWeight parses a weight written either as a fraction ("0.25") or as a
// percentage ("25%").
func ParseWeight(s string) (Weight, error) {
	s = strings.TrimSpace(s)
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Weight{}, fmt.Errorf("invalid weight %q: %w", s, err)
	}
	if percent {
		d = d.Shift(-2)
	}
	return Weight{value: d}, nil
}

func (w Weight) Equal(v Weight) bool       { return w.value.Equal(v.value) }
func (w Weight) Add(v Weight) Weight       { return Weight{value: w.value.Add(v.value)} }
func (w Weight) Round(places int32) Weight { return Weight{value: w.value.Round(places)} }
func (w Weight) IsZero() bool              { return w.value.IsZero() }
func (w Weight) Decimal() decimal.Decimal  { return w.value }
func (w Weight) Float64() float64          { return w.value.InexactFloat64() }

// InRange reports whether w is within [0,1].
func (w Weight) InRange() bool {
	return !w.value.IsNegative() && w.value.LessThanOrEqual(decimal.NewFromInt(1))
}

// String returns the weight as a percentage.
func (w Weight) String() string {
	return w.value.Shift(2).StringFixed(2) + "%"
}

func (w Weight) MarshalJSON() ([]byte, error) {
	return []byte(w.value.String()), nil
}

func (w *Weight) UnmarshalJSON(data []byte) error {
	v, err := ParseWeight(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler so that targets files can use
// either fractions or percentages.
func (w *Weight) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: weight must be a scalar", node.Line)
	}
	v, err := ParseWeight(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*w = v
	return nil
}
