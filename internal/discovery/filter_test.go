package discovery

import (
	"testing"
)

func TestFilter_Match(t *testing.T) {
	filter := NewFilter()

	tests := []struct {
		name     string
		names    []string
		pattern  string
		expected int // Expected number of matches
	}{
		{
			name:     "empty pattern matches all",
			names:    []string{"UserTests", "PaymentTests", "OrderTests"},
			pattern:  "",
			expected: 3,
		},
		{
			name:     "wildcard pattern matches suffix",
			names:    []string{"UserTests", "PaymentTests", "OrderTests"},
			pattern:  "*UserTests",
			expected: 1,
		},
		{
			name:     "wildcard pattern matches substring",
			names:    []string{"UserTests", "PaymentTests", "OrderTests", "PaymentServiceTests"},
			pattern:  "*Payment*",
			expected: 2,
		},
		{
			name:     "simple contains match",
			names:    []string{"UserTests", "PaymentTests", "OrderTests"},
			pattern:  "Payment",
			expected: 1,
		},
		{
			name:     "no matches",
			names:    []string{"UserTests", "PaymentTests"},
			pattern:  "*NonExistent*",
			expected: 0,
		},
		{
			name:     "qualified case names match on method segment",
			names:    []string{"CalcTests.Add(1, 2)", "CalcTests.Subtract"},
			pattern:  "Add*",
			expected: 1,
		},
		{
			name:     "pattern with multiple wildcards",
			names:    []string{"UserServiceTests", "UserControllerTests", "PaymentTests"},
			pattern:  "*User*Tests",
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched := 0
			for _, name := range tt.names {
				if filter.Match(name, tt.pattern) {
					matched++
				}
			}
			if matched != tt.expected {
				t.Errorf("expected %d matches, got %d", tt.expected, matched)
			}
		})
	}
}

func TestFilter_Match_EdgeCases(t *testing.T) {
	filter := NewFilter()

	t.Run("bare wildcard matches nothing", func(t *testing.T) {
		if filter.Match("abc", "**x") {
			t.Error("expected no match")
		}
	})

	t.Run("question mark needs an exact match", func(t *testing.T) {
		if !filter.Match("Add", "Ad?") {
			t.Error("expected Ad? to match Add")
		}
		if filter.Match("Adds", "Ad?") {
			t.Error("expected Ad? not to match Adds")
		}
	})
}
