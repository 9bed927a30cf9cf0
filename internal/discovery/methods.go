package discovery

import (
	"conventest/internal/domain"
)

// MethodDiscoverer selects test methods of a discovered class
type MethodDiscoverer struct {
	predicates []MethodPredicate
}

// NewMethodDiscoverer creates a discoverer requiring every predicate to match
func NewMethodDiscoverer(predicates ...MethodPredicate) *MethodDiscoverer {
	return &MethodDiscoverer{predicates: predicates}
}

// Discover returns the class's methods accepted by every predicate, in order.
// A predicate that panics aborts discovery with a *ConfigError.
func (d *MethodDiscoverer) Discover(class domain.ClassInfo) ([]domain.MethodInfo, error) {
	var methods []domain.MethodInfo
	for _, method := range class.Methods {
		ok, err := d.matches(method)
		if err != nil {
			return nil, err
		}
		if ok {
			methods = append(methods, method)
		}
	}
	return methods, nil
}

func (d *MethodDiscoverer) matches(method domain.MethodInfo) (bool, error) {
	for _, predicate := range d.predicates {
		ok, err := guard("method predicate", method.FullName(), func() bool {
			return predicate(method)
		})
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
