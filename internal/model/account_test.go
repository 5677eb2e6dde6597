package model

import "testing"

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role     string
		minimum  string
		expected bool
	}{
		{RoleOperator, RoleOperator, true},
		{RoleOperator, RoleTrader, true},
		{RoleTrader, RoleOperator, false},
		{RoleTrader, RoleTrader, true},
		// The market account is outside the ordering and fails both ways.
		{RoleMarket, RoleTrader, false},
		{RoleTrader, RoleMarket, false},
		// Unknown roles fail-closed.
		{"unknown", RoleTrader, false},
		{RoleOperator, "unknown", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got := RoleAtLeast(tt.role, tt.minimum)
		if got != tt.expected {
			t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.minimum, got, tt.expected)
		}
	}
}
