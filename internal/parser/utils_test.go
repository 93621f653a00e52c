package parser

import (
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	strip := NamePolicy{StripParentheses: true}
	keep := NamePolicy{StripParentheses: false}

	cases := []struct {
		raw    string
		policy NamePolicy
		want   string
	}{
		{"홍길동123", strip, "홍길동"},
		{"김기열(서구)", strip, "김기열"},
		{"김기열(서구)", keep, "김기열(서구)"},
		{"김기열（서구）", strip, "김기열"},
		{" 홍 길동 ", strip, "홍길동"},
		{"이영희(1)(강남)", strip, "이영희"},
		{"", strip, ""},
		{"12345", strip, ""},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.raw, tc.policy); got != tc.want {
			t.Fatalf("NormalizeName(%q, %+v) = %q, want %q", tc.raw, tc.policy, got, tc.want)
		}
	}
}

func TestNormalizeName_DecomposedHangul(t *testing.T) {
	t.Parallel()

	decomposed := norm.NFD.String("홍길동")
	if decomposed == "홍길동" {
		t.Fatalf("expected NFD form to differ")
	}
	if got := NormalizeName(decomposed, NamePolicy{StripParentheses: true}); got != "홍길동" {
		t.Fatalf("NormalizeName(NFD) = %q", got)
	}
}

func TestCleanNumber(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"1,234":      1234,
		"":           0,
		"abc":        0,
		"nan":        0,
		"NaN":        0,
		"Inf":        0,
		"-2,500.5":   -2500.5,
		" 60000 ":    60000,
		"1，000":      1000,
		"12.5E2":     1250,
		"(1,000)":    0,
		"₩10,000":    0,
		"-0":         0,
		"3000000000": 3000000000,
	}
	for raw, want := range cases {
		if got := CleanNumber(raw); got != want {
			t.Fatalf("CleanNumber(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestIsMissing(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"nan", "NaN", " NAN "} {
		if !IsMissing(s) {
			t.Fatalf("IsMissing(%q) = false", s)
		}
	}
	for _, s := range []string{"", "nano", "홍길동"} {
		if IsMissing(s) {
			t.Fatalf("IsMissing(%q) = true", s)
		}
	}
}

func TestCompactText(t *testing.T) {
	t.Parallel()

	if got := CompactText("라이더부담\n고용보험료"); got != "라이더부담고용보험료" {
		t.Fatalf("CompactText newline = %q", got)
	}
	if got := CompactText(" 총 정산\t금액 "); got != "총정산금액" {
		t.Fatalf("CompactText spaces = %q", got)
	}
}
