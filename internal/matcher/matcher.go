// Package matcher decides whether a requested address and a reference-system
// address denote the same place, and groups reference records by account for
// lookup during reconciliation.
//
// Comparison always happens on the tone-free canonical form produced by the
// normalize package. The identity of an address is carried by its first two
// lines (number+street and street name); ward and city are canonicalized for
// output but do not participate in the match decision.
package matcher

import (
	"strings"

	"vietnam-address-reconciliation/internal/models"
	"vietnam-address-reconciliation/internal/normalize"
)

// AddressMatcher compares address line pairs using a configured strategy.
type AddressMatcher struct {
	config *MatchingConfig
}

// NewAddressMatcher creates a matcher with the given configuration. A nil
// configuration selects the canonical exact strategy.
func NewAddressMatcher(config *MatchingConfig) *AddressMatcher {
	if config == nil {
		config = DefaultMatchingConfig()
	}

	return &AddressMatcher{config: config}
}

// Strategy returns the strategy the matcher was configured with.
func (m *AddressMatcher) Strategy() MatchStrategy {
	return m.config.Strategy
}

// Match reports whether the request address lines and the reference address
// lines denote the same place under the configured strategy.
func (m *AddressMatcher) Match(reqLine1, reqLine2, refLine1, refLine2 string) bool {
	a1 := normalize.Text(reqLine1)
	a2 := normalize.Text(reqLine2)
	b1 := normalize.Text(refLine1)
	b2 := normalize.Text(refLine2)

	switch m.config.Strategy {
	case StrategyContainment:
		return lineContains(a1, b1) && lineContains(a2, b2)
	default:
		return a1 == b1 && a2 == b2
	}
}

// MatchAddress compares a request address block against a reference record.
func (m *AddressMatcher) MatchAddress(req models.Address, ref *models.ReferenceRecord) bool {
	if ref == nil {
		return false
	}
	return m.Match(req.Line1, req.Line2, ref.AddressLine1, ref.AddressLine2)
}

// FindMatch returns the first reference record in the group that has the
// given address type and matches the request address, or nil. Group order is
// the reference table's input order, so ties resolve deterministically.
func (m *AddressMatcher) FindMatch(req models.Address, group []*models.ReferenceRecord, addressType models.AddressType) *models.ReferenceRecord {
	for _, ref := range group {
		if ref.AddressType != addressType {
			continue
		}
		if m.MatchAddress(req, ref) {
			return ref
		}
	}
	return nil
}

// lineContains implements the containment strategy for one line pair. Empty
// lines only match empty lines; an empty string is never treated as a
// substring match against real content.
func lineContains(a, b string) bool {
	if a == "" || b == "" {
		return a == b
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
