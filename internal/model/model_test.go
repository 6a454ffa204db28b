package model

import "testing"

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role     string
		minimum  string
		expected bool
	}{
		{RoleEditor, RoleEditor, true},
		{RoleEditor, RoleViewer, true},
		{RoleViewer, RoleEditor, false},
		{RoleViewer, RoleViewer, true},
		// Unknown roles fail-closed.
		{"unknown", RoleViewer, false},
		{RoleEditor, "unknown", false},
		{"", "", false},
		{"", RoleViewer, false},
	}

	for _, tt := range tests {
		got := RoleAtLeast(tt.role, tt.minimum)
		if got != tt.expected {
			t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.minimum, got, tt.expected)
		}
	}
}

func TestItemStatusValid(t *testing.T) {
	for _, s := range ItemStatuses {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}

	for _, s := range []ItemStatus{"", "available", "IN USE", "Lost"} {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}
