package matcher

import "fmt"

// MatchStrategy selects how two normalized address lines are compared.
type MatchStrategy string

const (
	// StrategyExact requires the normalized line pairs to be identical.
	// This is the canonical policy; it is the only one applied unless a
	// caller opts in to something weaker.
	StrategyExact MatchStrategy = "exact"

	// StrategyContainment accepts a line pair when one normalized line
	// contains the other. Strictly weaker than exact matching; useful when
	// one system stores "123 Nguyen Hue" and the other "123 Nguyen Hue,
	// Phuong Ben Nghe". Opt-in only.
	StrategyContainment MatchStrategy = "containment"
)

// IsValid checks if the strategy is supported.
func (s MatchStrategy) IsValid() bool {
	return s == StrategyExact || s == StrategyContainment
}

// ParseStrategy converts a CLI flag value into a MatchStrategy.
func ParseStrategy(value string) (MatchStrategy, error) {
	s := MatchStrategy(value)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown match strategy '%s' (valid: %s, %s)",
			value, StrategyExact, StrategyContainment)
	}
	return s, nil
}

// MatchingConfig holds configuration for address matching.
type MatchingConfig struct {
	Strategy MatchStrategy `json:"strategy"`
}

// DefaultMatchingConfig returns the canonical configuration: exact matching.
func DefaultMatchingConfig() *MatchingConfig {
	return &MatchingConfig{
		Strategy: StrategyExact,
	}
}

// Validate validates the matching configuration.
func (c *MatchingConfig) Validate() error {
	if !c.Strategy.IsValid() {
		return fmt.Errorf("invalid match strategy: %s", c.Strategy)
	}
	return nil
}
