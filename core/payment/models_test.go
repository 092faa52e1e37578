package payment

import "testing"

func TestComputeFees(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   Fees
	}{
		{name: "zero", amount: 0, want: Fees{Processing: 0.30, Gateway: 0.25, Platform: 0, Net: -0.55}},
		{name: "round", amount: 100, want: Fees{Processing: 3.20, Gateway: 0.25, Platform: 10.00, Net: 86.55}},
		{name: "cents", amount: 49.99, want: Fees{Processing: 1.75, Gateway: 0.25, Platform: 5.00, Net: 42.99}},
		{name: "small", amount: 1, want: Fees{Processing: 0.33, Gateway: 0.25, Platform: 0.10, Net: 0.32}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeFees(tt.amount); got != tt.want {
				t.Errorf("ComputeFees(%v) = %+v; want %+v", tt.amount, got, tt.want)
			}
		})
	}
}
