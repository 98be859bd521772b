package util

import "testing"

func TestNormalizeTicker(t *testing.T) {
	cases := map[string]bool{
		"aapl":     true,
		" BRK.B ":  true,
		"BF-B":     true,
		"":         false,
		"1ABC":     false,
		"AAPL;rm":  false,
		"TOOLONGX": false,
	}
	for in, want := range cases {
		if _, ok := NormalizeTicker(in); ok != want {
			t.Errorf("NormalizeTicker(%q) ok = %v, want %v", in, ok, want)
		}
	}
	if got, _ := NormalizeTicker(" brk.b"); got != "BRK.B" {
		t.Errorf("got %q", got)
	}
}

func TestPadCIK(t *testing.T) {
	got, err := PadCIK("320193")
	if err != nil || got != "0000320193" {
		t.Fatalf("PadCIK = %q, %v", got, err)
	}
	if got, _ := PadCIK("CIK0000789019"); got != "0000789019" {
		t.Fatalf("PadCIK prefixed = %q", got)
	}
	if _, err := PadCIK("abc"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("9090", 8080); got != 9090 {
		t.Fatalf("got %d", got)
	}
	if got := ParseIntDefault("", 8080); got != 8080 {
		t.Fatalf("empty: got %d", got)
	}
	if got := ParseIntDefault("80x", 8080); got != 8080 {
		t.Fatalf("invalid: got %d", got)
	}
}
