package drip

import "testing"

func TestClassify_EmptyBagAlwaysFinalizado(t *testing.T) {
	for _, initial := range []float64{0, -10, 1, 500, 100000} {
		if got := Classify(initial, 0); got != StatusFinalizado {
			t.Errorf("Classify(%v, 0) = %s, want finalizado", initial, got)
		}
	}
}

func TestClassify_Tiers(t *testing.T) {
	tests := []struct {
		name    string
		initial float64
		current float64
		want    Status
	}{
		{"full bag", 500, 500, StatusEmAndamento},
		{"well above alert", 500, 400, StatusEmAndamento},
		{"exactly 30 percent", 500, 150, StatusEmAndamento},
		{"just below 30 percent", 500, 149, StatusAlerta},
		{"24 percent", 500, 120, StatusAlerta},
		{"exactly 10 percent", 500, 50, StatusAlerta},
		{"8 percent", 500, 40, StatusFinalizado},
		{"just below 10 percent", 500, 49, StatusFinalizado},
		{"no baseline", 0, 120, StatusNenhum},
		{"negative baseline", -5, 120, StatusNenhum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.initial, tt.current); got != tt.want {
				t.Errorf("Classify(%v, %v) = %s, want %s", tt.initial, tt.current, got, tt.want)
			}
		})
	}
}

// Increasing the remaining fraction must never move the status toward a
// further-along tier.
func TestClassify_MonotonicInRatio(t *testing.T) {
	const initial = 1000.0
	prevSeverity := severityRank[StatusFinalizado]
	for current := 1.0; current <= initial; current++ {
		s := Classify(initial, current)
		if s.Severity() > prevSeverity {
			t.Fatalf("severity increased from %d to %d at current=%v", prevSeverity, s.Severity(), current)
		}
		prevSeverity = s.Severity()
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusNenhum, StatusEmAndamento, StatusAlerta, StatusPausado, StatusFinalizado} {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if Status("bogus").Valid() {
		t.Error("expected bogus status to be invalid")
	}
}

func TestStatus_Active(t *testing.T) {
	active := []Status{StatusEmAndamento, StatusAlerta, StatusPausado}
	for _, s := range active {
		if !s.Active() {
			t.Errorf("expected %s to be active", s)
		}
	}
	for _, s := range []Status{StatusNenhum, StatusFinalizado} {
		if s.Active() {
			t.Errorf("expected %s to be inactive", s)
		}
	}
}
