package util

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var wonPrinter = message.NewPrinter(language.Korean)

// FormatWon 천 단위 구분 기호를 넣은 원화 금액 (소수점 이하 버림)
func FormatWon(value float64) string {
	return wonPrinter.Sprintf("%d원", int64(math.Trunc(value)))
}
