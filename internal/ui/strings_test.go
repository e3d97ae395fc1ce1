package ui

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"  short  ", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer task text", 10, "a longe..."},
		{"abcdef", 3, "abc"},
		{"unlimited", 0, "unlimited"},
		{"ünïcödé text", 6, "ünï..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestCountLabel(t *testing.T) {
	if got := countLabel("Active", 0); got != "Active" {
		t.Fatalf("countLabel zero = %q, want %q", got, "Active")
	}
	if got := countLabel("TODO", 12); got != "TODO (12)" {
		t.Fatalf("countLabel = %q, want %q", got, "TODO (12)")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ v, lo, hi, want int }{
		{5, 0, 3, 3},
		{-1, 0, 3, 0},
		{2, 0, 3, 2},
		{4, 0, -1, 0},
	}
	for _, tt := range tests {
		if got := clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Fatalf("clamp(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
