package extractor

import "testing"

func TestNewSelection(t *testing.T) {
	tests := []struct {
		tcp, udp bool
		want     Selection
	}{
		{false, false, SelectNone},
		{true, false, SelectTCP},
		{false, true, SelectUDP},
		{true, true, SelectBoth},
	}
	for _, tt := range tests {
		if got := NewSelection(tt.tcp, tt.udp); got != tt.want {
			t.Errorf("NewSelection(%v, %v) = %s, want %s", tt.tcp, tt.udp, got, tt.want)
		}
	}
}

func TestSelectionAllows(t *testing.T) {
	tests := []struct {
		sel      Selection
		protocol string
		want     bool
	}{
		{SelectNone, "tcp", true},
		{SelectNone, "udp", true},
		{SelectNone, "sctp", true},
		{SelectTCP, "tcp", true},
		{SelectTCP, "udp", false},
		{SelectTCP, "sctp", false},
		{SelectUDP, "udp", true},
		{SelectUDP, "tcp", false},
		{SelectUDP, "sctp", false},
		{SelectBoth, "tcp", true},
		{SelectBoth, "udp", true},
		{SelectBoth, "sctp", true},
	}
	for _, tt := range tests {
		if got := tt.sel.Allows(tt.protocol); got != tt.want {
			t.Errorf("%s.Allows(%q) = %v, want %v", tt.sel, tt.protocol, got, tt.want)
		}
	}
}

func TestSelectionString(t *testing.T) {
	if SelectBoth.String() != "both" {
		t.Errorf("Expected 'both', got %s", SelectBoth)
	}
	if Selection(9).String() != "selection(9)" {
		t.Errorf("Unexpected string for unknown selection: %s", Selection(9))
	}
}
