package strategy

// StrategyType identifies a family of interchangeable strategies
type StrategyType string

const (
	// StrategyTypeAllocation covers settlement allocation planning
	StrategyTypeAllocation StrategyType = "allocation"
)

// Strategy is the common interface for pluggable domain strategies
type Strategy interface {
	Name() string
	Type() StrategyType
	Description() string
}

// BaseStrategy provides common strategy metadata
type BaseStrategy struct {
	name         string
	strategyType StrategyType
	description  string
}

// NewBaseStrategy creates a new base strategy
func NewBaseStrategy(name string, strategyType StrategyType, description string) BaseStrategy {
	return BaseStrategy{
		name:         name,
		strategyType: strategyType,
		description:  description,
	}
}

// Name returns the strategy name
func (s BaseStrategy) Name() string {
	return s.name
}

// Type returns the strategy type
func (s BaseStrategy) Type() StrategyType {
	return s.strategyType
}

// Description returns a human readable description
func (s BaseStrategy) Description() string {
	return s.description
}
