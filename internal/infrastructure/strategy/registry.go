// Package strategy keeps the pricing strategies the service can quote with.
package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/domain/shared/strategy"
	"github.com/samber/lo"
)

// StrategyRegistry holds pricing strategies by name and the name of the fallback one.
// Tenants without a published ladder are quoted with the fallback.
type StrategyRegistry struct {
	mu         sync.RWMutex
	strategies map[string]strategy.PricingStrategy
	fallback   string
}

// NewStrategyRegistry creates an empty registry
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{strategies: make(map[string]strategy.PricingStrategy)}
}

// Register adds a strategy under its name
func (r *StrategyRegistry) Register(s strategy.PricingStrategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.strategies[s.Name()]; exists {
		return fmt.Errorf("%w: pricing strategy %q already registered", shared.ErrAlreadyExists, s.Name())
	}
	r.strategies[s.Name()] = s
	return nil
}

// Get returns the named strategy; an empty name means the fallback
func (r *StrategyRegistry) Get(name string) (strategy.PricingStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(name)
}

// GetPricingStrategyOrDefault returns the named strategy, the fallback when it is unknown,
// or nil when there is no fallback either
func (r *StrategyRegistry) GetPricingStrategyOrDefault(name string) strategy.PricingStrategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, err := r.lookup(name); err == nil {
		return s
	}
	return r.strategies[r.fallback]
}

func (r *StrategyRegistry) lookup(name string) (strategy.PricingStrategy, error) {
	if name == "" {
		name = r.fallback
	}
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: pricing strategy %q", shared.ErrNotFound, name)
	}
	return s, nil
}

// Names returns the registered strategy names in order
func (r *StrategyRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.strategies)
	sort.Strings(names)
	return names
}

// SetFallback picks the strategy used when none is named
func (r *StrategyRegistry) SetFallback(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.strategies[name]; !ok {
		return fmt.Errorf("%w: pricing strategy %q", shared.ErrNotFound, name)
	}
	r.fallback = name
	return nil
}

// Fallback returns the fallback strategy name
func (r *StrategyRegistry) Fallback() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}
