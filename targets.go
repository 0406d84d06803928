package rebalance

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// TargetWeights maps contract codes to the weight they should have in the
// portfolio. Weights need not sum to 1, the remainder stays in cash.
type TargetWeights map[string]Weight

// Codes returns the targeted contract codes, sorted.
func (t TargetWeights) Codes() []string { return slices.Sorted(maps.Keys(t)) }

// Sum returns the total targeted weight.
func (t TargetWeights) Sum() Weight {
	var sum Weight
	for _, w := range t {
		sum = sum.Add(w)
	}
	return sum
}

// Validate checks that t is not empty and that every weight is within [0,1].
func (t TargetWeights) Validate() error {
	if len(t) == 0 {
		return &InvalidArgumentError{Argument: "target weights", Reason: "no contract targeted"}
	}
	for _, code := range t.Codes() {
		if code == "" {
			return &InvalidArgumentError{Argument: "target weights", Reason: "empty contract code"}
		}
		if w := t[code]; !w.InRange() {
			return &InvalidArgumentError{
				Argument: "target weights",
				Reason:   fmt.Sprintf("weight of %s is %v, must be within [0%%,100%%]", code, w),
			}
		}
	}
	return nil
}

// ParseTargetWeights reads target weights from a YAML mapping of contract
// code to weight, e.g.
//
//	TFSA.STX500: 0.2
//	TFSA.SYGEU: 20%
//
// JSON objects are valid YAML and are accepted too. An empty document yields
// empty weights.
func ParseTargetWeights(r io.Reader) (TargetWeights, error) {
	weights := make(TargetWeights)
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&weights); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("cannot decode target weights: %w", err)
	}
	return weights, nil
}
