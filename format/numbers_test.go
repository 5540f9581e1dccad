package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"whole_millions", 2450000, "$2,450,000"},
		{"fractional", 7800.25, "$7,800.25"},
		{"negative", -96400.50, "-$96,400.50"},
		{"small", 42, "$42"},
		{"zero", 0, "$0"},
		{"thousand_boundary", 1000, "$1,000"},
		{"rounding_cents", 10.999, "$11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.in); got != tt.want {
				t.Errorf("Currency(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		want string
	}{
		{"hundreds", 120, "120"},
		{"thousands", 1200, "1,200"},
		{"millions", 3184000, "3,184,000"},
		{"negative", -1200, "-1,200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.in); got != tt.want {
				t.Errorf("Count(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"one_decimal", 94.2, "94.2%"},
		{"whole", 96.0, "96%"},
		{"rounded", 33.333, "33.3%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percent(tt.in); got != tt.want {
				t.Errorf("Percent(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHumanizeKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"totalActiveCustomers", "TOTAL ACTIVE CUSTOMERS"},
		{"complianceRate", "COMPLIANCE RATE"},
		{"netIncome", "NET INCOME"},
		{"checksRun", "CHECKS RUN"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := humanizeKey(tt.key); got != tt.want {
				t.Errorf("humanizeKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
