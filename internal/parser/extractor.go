package parser

import (
	"math"

	"bigstep/internal/model"
)

// RetroPolicy B 소급 처리 방식
type RetroPolicy string

const (
	RetroColumns RetroPolicy = "columns" // |(F)+(G)|
	RetroManual  RetroPolicy = "manual"  // 문서에서 읽지 않음 (0)
)

// DefaultSkipNames 합계 행 등 기사가 아닌 이름
var DefaultSkipNames = []string{"합계", "소계", "총계", "총합계"}

// ExtractOptions 행 추출 옵션
type ExtractOptions struct {
	Names       NamePolicy
	FeePerOrder float64
	Retro       RetroPolicy
	SkipNames   []string
}

// ExtractResult 문서 하나에서 뽑은 행 레코드
type ExtractResult struct {
	Records     []model.RowRecord
	SkippedRows int
}

// Extractor 데이터 행 → 기사별 레코드
type Extractor struct {
	opts ExtractOptions
	skip map[string]struct{}
}

// NewExtractor 추출기 생성
func NewExtractor(opts ExtractOptions) *Extractor {
	if opts.Retro == "" {
		opts.Retro = RetroColumns
	}
	skip := make(map[string]struct{}, len(opts.SkipNames))
	for _, n := range opts.SkipNames {
		if k := NormalizeName(n, NamePolicy{StripParentheses: true}); k != "" {
			skip[k] = struct{}{}
		}
	}
	return &Extractor{opts: opts, skip: skip}
}

// Extract dataStart 행부터 끝까지. 이름이 비었거나 결측/합계 행이면 건너뛴다.
func (e *Extractor) Extract(sheet *model.Sheet, platform model.Platform, fields model.FieldMap, dataStart int) ExtractResult {
	var res ExtractResult
	if sheet == nil {
		return res
	}
	if dataStart < 0 {
		dataStart = 0
	}
	for r := dataStart; r < len(sheet.Rows); r++ {
		row := sheet.Row(r)
		name := NormalizeName(cell(row, fields, model.FieldWorkerName), e.opts.Names)
		if !e.validName(name) {
			res.SkippedRows++
			continue
		}

		var values model.PlatformTotals
		switch platform {
		case model.PlatformA:
			values = extractRowA(row, fields)
		case model.PlatformB:
			values = extractRowB(row, fields, e.opts)
		default:
			res.SkippedRows++
			continue
		}
		values.Rows = 1
		res.Records = append(res.Records, model.RowRecord{RowNo: r + 1, Name: name, Values: values})
	}
	return res
}

func (e *Extractor) validName(name string) bool {
	if name == "" || IsMissing(name) {
		return false
	}
	_, skip := e.skip[name]
	return !skip
}

func cell(row []string, fields model.FieldMap, f model.Field) string {
	return cellAt(row, fields.Index(f))
}

func number(row []string, fields model.FieldMap, f model.Field) float64 {
	if !fields.Has(f) {
		return 0
	}
	return CleanNumber(cell(row, fields, f))
}

// extractRowA "총 정산금액" 은 수수료 차감 후 금액. 0 이면서 건수가 있으면 대체 열을 본다.
// 보험료·소급은 음수로 기록되므로 절댓값.
func extractRowA(row []string, fields model.FieldMap) model.PlatformTotals {
	orders := number(row, fields, model.FieldOrderCount)
	total := number(row, fields, model.FieldGrossTotal)
	if total == 0 && orders > 0 && fields.Has(model.FieldAltGrossTotal) {
		total = number(row, fields, model.FieldAltGrossTotal)
	}
	return model.PlatformTotals{
		Orders:              orders,
		Total:               total,
		EmploymentInsurance: math.Abs(number(row, fields, model.FieldEmploymentInsurance)),
		AccidentInsurance:   math.Abs(number(row, fields, model.FieldAccidentInsurance)),
		HourlyInsurance:     math.Abs(number(row, fields, model.FieldHourlyInsurance)),
		Retro:               math.Abs(number(row, fields, model.FieldRetroAdjustment)),
	}
}

// extractRowB "C(A+B)" 에서 건당 수수료를 뺀다. 보험료는 기록된 값 그대로.
func extractRowB(row []string, fields model.FieldMap, opts ExtractOptions) model.PlatformTotals {
	orders := number(row, fields, model.FieldOrderCount)
	total := number(row, fields, model.FieldGrossTotal) - opts.FeePerOrder*orders

	retro := 0.0
	if opts.Retro == RetroColumns {
		retro = math.Abs(number(row, fields, model.FieldRetroF) + number(row, fields, model.FieldRetroG))
	}
	return model.PlatformTotals{
		Orders:              orders,
		Total:               total,
		EmploymentInsurance: number(row, fields, model.FieldEmploymentInsurance),
		AccidentInsurance:   number(row, fields, model.FieldAccidentInsurance),
		HourlyInsurance:     number(row, fields, model.FieldHourlyInsurance),
		Retro:               retro,
	}
}
