package discovery

import (
	"conventest/internal/domain"
)

// ClassDiscoverer selects test classes from candidate declarations
type ClassDiscoverer struct {
	predicates []ClassPredicate
}

// NewClassDiscoverer creates a discoverer requiring every predicate to match
func NewClassDiscoverer(predicates ...ClassPredicate) *ClassDiscoverer {
	return &ClassDiscoverer{predicates: predicates}
}

// Discover returns the candidates accepted by every predicate, in order.
// A predicate that panics aborts discovery with a *ConfigError.
func (d *ClassDiscoverer) Discover(candidates []domain.ClassInfo) ([]domain.ClassInfo, error) {
	var classes []domain.ClassInfo
	for _, candidate := range candidates {
		ok, err := d.matches(candidate)
		if err != nil {
			return nil, err
		}
		if ok {
			classes = append(classes, candidate)
		}
	}
	return classes, nil
}

func (d *ClassDiscoverer) matches(candidate domain.ClassInfo) (bool, error) {
	for _, predicate := range d.predicates {
		ok, err := guard("class predicate", candidate.Name, func() bool {
			return predicate(candidate)
		})
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
