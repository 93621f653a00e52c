package parser

import (
	"strings"

	"bigstep/internal/model"
)

// DefaultShapeSampleRows 데이터 형태 휴리스틱에서 확인하는 헤더 아래 행 수
const DefaultShapeSampleRows = 5

// Detection 문서 판별 결과
type Detection struct {
	Platform model.Platform
	Sheet    *model.Sheet
	Schema   *Schema
	Method   model.DetectMethod
}

// Recognized 알려진 플랫폼인지
func (d Detection) Recognized() bool {
	return d.Schema != nil && d.Sheet != nil
}

// SheetRecognizer 문서 플랫폼 판별기
// 시트명 → 헤더 키워드 → 데이터 형태 순으로 시도하고 처음 성공한 결과를 쓴다.
type SheetRecognizer struct {
	schemas    []*Schema
	scanDepth  int
	sampleRows int
}

// NewSheetRecognizer 판별기 생성. schemas 순서가 곧 우선순위.
func NewSheetRecognizer(schemas []*Schema, scanDepth, sampleRows int) *SheetRecognizer {
	if scanDepth <= 0 {
		scanDepth = DefaultScanDepth
	}
	if sampleRows <= 0 {
		sampleRows = DefaultShapeSampleRows
	}
	return &SheetRecognizer{schemas: schemas, scanDepth: scanDepth, sampleRows: sampleRows}
}

// Recognize 워크북 판별. 실패하면 Platform 이 Unknown.
func (r *SheetRecognizer) Recognize(wb *model.Workbook) Detection {
	if wb == nil || len(wb.Sheets) == 0 {
		return unknownDetection()
	}
	if d, ok := r.bySheetName(wb); ok {
		return d
	}
	if d, ok := r.byHeaderKeyword(wb); ok {
		return d
	}
	if d, ok := r.byDataShape(wb); ok {
		return d
	}
	return unknownDetection()
}

func unknownDetection() Detection {
	return Detection{Platform: model.PlatformUnknown, Method: model.DetectNone}
}

func (r *SheetRecognizer) detected(schema *Schema, sheet *model.Sheet, method model.DetectMethod) Detection {
	return Detection{Platform: schema.Platform, Sheet: sheet, Schema: schema, Method: method}
}

func (r *SheetRecognizer) bySheetName(wb *model.Workbook) (Detection, bool) {
	for _, schema := range r.schemas {
		marker := CompactText(schema.SheetMarker)
		if marker == "" {
			continue
		}
		for _, sheet := range wb.Sheets {
			if strings.Contains(CompactText(sheet.Name), marker) {
				return r.detected(schema, sheet, model.DetectSheetName), true
			}
		}
	}
	return Detection{}, false
}

// headerCandidate 헤더 후보 행. 2행 헤더를 위해 다음 행과 합친 행도 후보로 본다.
type headerCandidate struct {
	cells       []string
	sampleStart int
}

func (r *SheetRecognizer) candidates(sheet *model.Sheet, row int) []headerCandidate {
	out := []headerCandidate{{cells: sheet.Row(row), sampleStart: row + 1}}
	if row+1 < len(sheet.Rows) {
		out = append(out, headerCandidate{
			cells:       combineHeaderRows(sheet.Row(row), sheet.Row(row+1)),
			sampleStart: row + 2,
		})
	}
	return out
}

func (r *SheetRecognizer) depth(sheet *model.Sheet) int {
	if len(sheet.Rows) < r.scanDepth {
		return len(sheet.Rows)
	}
	return r.scanDepth
}

func (r *SheetRecognizer) byHeaderKeyword(wb *model.Workbook) (Detection, bool) {
	for _, sheet := range wb.Sheets {
		for row := 0; row < r.depth(sheet); row++ {
			for _, cand := range r.candidates(sheet, row) {
				for _, cell := range cand.cells {
					if schema := r.uniqueMarker(CompactText(cell)); schema != nil {
						return r.detected(schema, sheet, model.DetectHeaderKeyword), true
					}
				}
			}
		}
	}
	return Detection{}, false
}

// uniqueMarker 셀이 정확히 한 플랫폼의 보험 라벨 표식만 포함할 때 그 스키마
func (r *SheetRecognizer) uniqueMarker(text string) *Schema {
	if text == "" {
		return nil
	}
	var hit *Schema
	for _, schema := range r.schemas {
		marker := CompactText(schema.InsuranceMarker)
		if marker == "" || !strings.Contains(text, marker) {
			continue
		}
		if hit != nil {
			return nil
		}
		hit = schema
	}
	return hit
}

func (r *SheetRecognizer) byDataShape(wb *model.Workbook) (Detection, bool) {
	negative, positive := r.shapeSchemas()
	if negative == nil || positive == nil {
		return Detection{}, false
	}
	for _, sheet := range wb.Sheets {
		for row := 0; row < r.depth(sheet); row++ {
			for _, cand := range r.candidates(sheet, row) {
				col := model.NotFound
				for _, rule := range ShapeColumnRules {
					if col = rule.Find(cand.cells); col != model.NotFound {
						break
					}
				}
				if col == model.NotFound {
					continue
				}
				if r.hasNegative(sheet, col, cand.sampleStart) {
					return r.detected(negative, sheet, model.DetectDataShape), true
				}
				return r.detected(positive, sheet, model.DetectDataShape), true
			}
		}
	}
	return Detection{}, false
}

func (r *SheetRecognizer) shapeSchemas() (negative, positive *Schema) {
	for _, s := range r.schemas {
		if s.NegativeWithholding && negative == nil {
			negative = s
		}
		if !s.NegativeWithholding && positive == nil {
			positive = s
		}
	}
	return negative, positive
}

func (r *SheetRecognizer) hasNegative(sheet *model.Sheet, col, start int) bool {
	for i := start; i < start+r.sampleRows && i < len(sheet.Rows); i++ {
		if CleanNumber(sheet.Cell(i, col)) < 0 {
			return true
		}
	}
	return false
}
