package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// MissingLiteral 결측값이 문자열로 변환되었을 때의 표기
const MissingLiteral = "nan"

var parenRe = regexp.MustCompile(`\(.*?\)`)

// NamePolicy 이름 정규화 정책
type NamePolicy struct {
	// StripParentheses 괄호 주석 제거 여부. false 면 "(서구)" 같은 지점 구분을 유지한다.
	StripParentheses bool
}

// foldText 전각 문자를 반각으로, 한글 자모 분리형(NFD)을 조합형(NFC)으로
func foldText(s string) string {
	t := transform.Chain(width.Fold, norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeName 집계 키로 쓰는 기사 이름
// 숫자(ID 접미사)를 모두 지우고, 정책에 따라 괄호를 지운 뒤 공백을 제거한다.
func NormalizeName(raw string, policy NamePolicy) string {
	if raw == "" {
		return ""
	}
	s := foldText(raw)
	s = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, s)
	if policy.StripParentheses {
		s = parenRe.ReplaceAllString(s, "")
	}
	s = strings.TrimSpace(s)
	return strings.ReplaceAll(s, " ", "")
}

// IsMissing 결측값 표기인지
func IsMissing(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), MissingLiteral)
}

// CleanNumber 셀 값을 숫자로. 변환할 수 없으면 0 (에러를 올리지 않는다)
func CleanNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" || IsMissing(s) {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "，", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// CompactText 비교용 텍스트: 모든 공백·줄바꿈 제거
func CompactText(s string) string {
	if s == "" {
		return ""
	}
	s = foldText(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// CompactRow 행의 모든 셀을 CompactText 로
func CompactRow(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = CompactText(c)
	}
	return out
}

// ContainsAny 검사 문자열이 키워드 중 하나라도 포함하는지
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ContainsAll 키워드 전부 포함하는지 (빈 목록은 false)
func ContainsAll(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}
