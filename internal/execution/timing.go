package execution

import (
	"time"

	"conventest/internal/domain"
)

// Reconcile spreads the part of classDuration not already attributed to cases
// evenly over the non-skipped cases, so their durations add up to the class time.
// Skipped cases are left at zero. Durations are never reduced.
func Reconcile(cases []*domain.Case, classDuration time.Duration) {
	var executed []*domain.Case
	var sum time.Duration
	for _, c := range cases {
		if c.Skipped() {
			continue
		}
		executed = append(executed, c)
		sum += c.Duration()
	}

	excess := classDuration - sum
	if len(executed) == 0 || excess <= 0 {
		return
	}

	share := excess / time.Duration(len(executed))
	remainder := excess % time.Duration(len(executed))
	for i, c := range executed {
		d := share
		if time.Duration(i) < remainder {
			d++
		}
		c.AddDuration(d)
	}
}
