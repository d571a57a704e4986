package schedule

import "testing"

func TestNormalizeText_Canonical(t *testing.T) {
	cases := map[string]string{
		"  Math ":          "math",
		"PHYS.":            "phys",
		"хим;био":          "хим/био",
		"a  ,  b":          "a / b",
		"101\\102":         "101/102",
		"Eng.  Language!!": "eng. language",
	}
	for in, want := range cases {
		if got := NormalizeText(in); got != want {
			t.Errorf("NormalizeText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeText_Idempotent(t *testing.T) {
	inputs := []string{"  Math ", "хим;био", "a , b", "-- speech --", "", "  .  "}
	for _, in := range inputs {
		once := NormalizeText(in)
		if twice := NormalizeText(once); twice != once {
			t.Errorf("NormalizeText not idempotent on %q: %q -> %q", in, once, twice)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList("101; 102 , 103")
	want := []string{"101", "102", "103"}
	if len(got) != len(want) {
		t.Fatalf("SplitList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SplitList = %v, want %v", got, want)
		}
	}
	if out := SplitList(" ; / "); out != nil {
		t.Errorf("expected nil for separator-only input, got %v", out)
	}
}
