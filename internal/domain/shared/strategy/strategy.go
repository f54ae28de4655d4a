// Package strategy holds the pluggable pricing contract. Strategies are looked up by name
// in a registry; the price ladder is one of them.
package strategy

// StrategyType groups strategies in the registry
type StrategyType string

// StrategyTypePricing is the only group: cost-to-price strategies
const StrategyTypePricing StrategyType = "pricing"

// Strategy describes a registered strategy
type Strategy interface {
	Name() string
	Type() StrategyType
	Description() string
}

// BaseStrategy implements Strategy for embedding
type BaseStrategy struct {
	name, description string
	kind              StrategyType
}

// NewBaseStrategy returns a BaseStrategy with the given metadata
func NewBaseStrategy(name string, kind StrategyType, description string) BaseStrategy {
	return BaseStrategy{name: name, description: description, kind: kind}
}

func (s BaseStrategy) Name() string { return s.name }
func (s BaseStrategy) Type() StrategyType { return s.kind }
func (s BaseStrategy) Description() string { return s.description }
