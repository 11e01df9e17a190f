package observability

import "testing"

func TestParseOTLPHeaders(t *testing.T) {
	got := ParseOTLPHeaders(" api-key = abc , bad, =x, team=core ")
	if len(got) != 2 || got["api-key"] != "abc" || got["team"] != "core" {
		t.Fatalf("headers: %v", got)
	}
	if ParseOTLPHeaders("  ") != nil {
		t.Fatalf("empty input must yield nil")
	}
}

func TestClampRatio(t *testing.T) {
	for in, want := range map[float64]float64{0: 0.1, -1: 0.1, 0.5: 0.5, 3: 1} {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v): want=%v got=%v", in, want, got)
		}
	}
}
