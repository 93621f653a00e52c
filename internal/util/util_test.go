package util

import "testing"

func TestFormatWon(t *testing.T) {
	t.Parallel()

	cases := map[float64]string{
		0:         "0원",
		999:       "999원",
		1000:      "1,000원",
		119386:    "119,386원",
		1234567.9: "1,234,567원",
		-55000:    "-55,000원",
	}
	for in, want := range cases {
		if got := FormatWon(in); got != want {
			t.Fatalf("FormatWon(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFindAvailablePort(t *testing.T) {
	t.Parallel()

	if p := FindAvailablePort(0, 1); p != 0 {
		t.Fatalf("port 0 should always be bindable, got %d", p)
	}
}
