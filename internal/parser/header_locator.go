package parser

import (
	"bigstep/internal/model"
)

// DefaultScanDepth 헤더를 찾을 때 확인하는 최대 행 수
const DefaultScanDepth = 50

// HeaderLocator 헤더 행 탐지
type HeaderLocator struct {
	scanDepth int
	dynamic   bool
}

// NewHeaderLocator dynamic 이 false 면 항상 고정 양식을 쓴다.
func NewHeaderLocator(scanDepth int, dynamic bool) *HeaderLocator {
	if scanDepth <= 0 {
		scanDepth = DefaultScanDepth
	}
	return &HeaderLocator{scanDepth: scanDepth, dynamic: dynamic}
}

// Locate 헤더 위치 탐지. 찾지 못하면 false.
// 순서: 2행/단일 행 표식 → 이름 열 표식 → 고정 양식
func (l *HeaderLocator) Locate(sheet *model.Sheet, schema *Schema) (HeaderLocation, bool) {
	if sheet == nil || schema == nil || len(sheet.Rows) == 0 {
		return HeaderLocation{}, false
	}
	if l.dynamic {
		if loc, ok := l.locateByMarkers(sheet, schema); ok {
			return loc, true
		}
		if loc, ok := l.locateByName(sheet, schema); ok {
			return loc, true
		}
	}
	return legacyLocation(sheet, schema)
}

func (l *HeaderLocator) depth(sheet *model.Sheet) int {
	if len(sheet.Rows) < l.scanDepth {
		return len(sheet.Rows)
	}
	return l.scanDepth
}

func (l *HeaderLocator) locateByMarkers(sheet *model.Sheet, schema *Schema) (HeaderLocation, bool) {
	depth := l.depth(sheet)
	for r := 0; r < depth; r++ {
		row := sheet.Row(r)
		if len(schema.TopMarkers) > 0 && r+1 < len(sheet.Rows) &&
			MatchesAny(row, schema.TopMarkers) && MatchesAny(sheet.Row(r+1), schema.SubMarkers) {
			return HeaderLocation{HeaderRow: r, SubHeaderRow: r + 1, DataStartRow: r + 2}, true
		}
		if MatchesAny(row, schema.HeaderMarkers) {
			return HeaderLocation{HeaderRow: r, SubHeaderRow: -1, DataStartRow: r + 1}, true
		}
	}
	return HeaderLocation{}, false
}

func (l *HeaderLocator) locateByName(sheet *model.Sheet, schema *Schema) (HeaderLocation, bool) {
	if len(schema.NameMarkers) == 0 {
		return HeaderLocation{}, false
	}
	depth := l.depth(sheet)
	for r := 0; r < depth; r++ {
		if MatchesAny(sheet.Row(r), schema.NameMarkers) {
			return HeaderLocation{HeaderRow: r, SubHeaderRow: -1, DataStartRow: r + 1, Loose: true}, true
		}
	}
	return HeaderLocation{}, false
}

func legacyLocation(sheet *model.Sheet, schema *Schema) (HeaderLocation, bool) {
	if !schema.Legacy.Enabled() || schema.Legacy.HeaderRow >= len(sheet.Rows) {
		return HeaderLocation{}, false
	}
	return HeaderLocation{
		HeaderRow:    schema.Legacy.HeaderRow,
		SubHeaderRow: -1,
		DataStartRow: schema.Legacy.DataStartRow,
		Legacy:       true,
	}, true
}

// HeaderRowsAt 위치에 해당하는 헤더 행 묶음
func HeaderRowsAt(sheet *model.Sheet, loc HeaderLocation) HeaderRows {
	var sub []string
	if loc.SubHeaderRow >= 0 {
		sub = sheet.Row(loc.SubHeaderRow)
		if sub == nil {
			sub = []string{}
		}
	}
	return NewHeaderRows(sheet.Row(loc.HeaderRow), sub)
}
