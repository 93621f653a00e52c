package parser

import (
	"bigstep/internal/model"
)

// HeaderRows 열 매칭에 쓰는 헤더 행들 (CompactText 적용 전 원문)
type HeaderRows struct {
	Primary  []string
	Sub      []string // 2행 헤더가 아니면 nil
	Combined []string // 상단 그룹 라벨 전방 채움 + 하단 라벨
}

// NewHeaderRows 헤더 행 구성. sub 가 nil 이면 단일 행 헤더.
func NewHeaderRows(primary, sub []string) HeaderRows {
	h := HeaderRows{Primary: primary, Sub: sub}
	if sub != nil {
		h.Combined = combineHeaderRows(primary, sub)
	}
	return h
}

// combineHeaderRows 병합 셀의 상단 라벨은 첫 칸에만 값이 있으므로 오른쪽으로 채운다.
// 하단 라벨이 빈 열로는 채우지 않는다 (세로 병합된 단일 라벨 열).
func combineHeaderRows(top, sub []string) []string {
	n := len(top)
	if len(sub) > n {
		n = len(sub)
	}
	out := make([]string, n)
	group := ""
	for i := 0; i < n; i++ {
		t, s := cellAt(top, i), cellAt(sub, i)
		if CompactText(t) != "" {
			group = t
		}
		switch {
		case s == "":
			out[i] = t
		case CompactText(t) != "":
			out[i] = t + s
		default:
			out[i] = group + s
		}
	}
	return out
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// FindColumn 필수 키워드를 모두 포함하고 제외 키워드를 하나도 포함하지 않는 첫 열.
// 공백/줄바꿈은 무시한다. 없으면 model.NotFound.
func FindColumn(headers []string, required []string, exclude []string) int {
	if len(required) == 0 {
		return model.NotFound
	}
	req := compactKeywords(required)
	exc := compactKeywords(exclude)
	for i, h := range headers {
		text := CompactText(h)
		if text == "" {
			continue
		}
		if ContainsAll(text, req) && !ContainsAny(text, exc) {
			return i
		}
	}
	return model.NotFound
}

func compactKeywords(keywords []string) []string {
	if len(keywords) == 0 {
		return nil
	}
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if c := CompactText(kw); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Find 규칙으로 열 찾기
func (r KeywordRule) Find(headers []string) int {
	return FindColumn(headers, r.Required, r.Exclude)
}

// MatchesAny 행에 규칙 중 하나라도 맞는 셀이 있는지
func MatchesAny(row []string, rules []KeywordRule) bool {
	for _, r := range rules {
		if r.Find(row) != model.NotFound {
			return true
		}
	}
	return false
}

// FieldMapper 스키마의 필드 규칙으로 헤더를 열 인덱스에 매핑
type FieldMapper struct {
	legacyFallback bool
}

// NewFieldMapper legacyFallback 이 true 면 찾지 못한 필드에 고정 열을 쓴다.
func NewFieldMapper(legacyFallback bool) *FieldMapper {
	return &FieldMapper{legacyFallback: legacyFallback}
}

// Map 스키마의 모든 필드를 매핑. 찾지 못한 필드는 model.NotFound 로 남는다.
func (m *FieldMapper) Map(schema *Schema, headers HeaderRows) model.FieldMap {
	fields := make(model.FieldMap, len(schema.Fields))
	for _, rule := range schema.Fields {
		fields[rule.Field] = m.Resolve(rule, headers)
	}
	return fields
}

// Resolve 필드 하나: 규칙 순서가 우선이고, 규칙마다 행 우선순위대로 본다.
func (m *FieldMapper) Resolve(rule FieldRule, headers HeaderRows) int {
	rows := orderedRows(rule.Priority, headers)
	for _, kr := range rule.Rules {
		for _, row := range rows {
			if idx := kr.Find(row); idx != model.NotFound {
				return idx
			}
		}
	}
	if m.legacyFallback && rule.LegacyColumn >= 0 {
		return rule.LegacyColumn
	}
	return model.NotFound
}

func orderedRows(p RowPriority, h HeaderRows) [][]string {
	rows := make([][]string, 0, 3)
	if p == SubRowFirst {
		if h.Sub != nil {
			rows = append(rows, h.Sub)
		}
		rows = append(rows, h.Primary)
	} else {
		rows = append(rows, h.Primary)
		if h.Sub != nil {
			rows = append(rows, h.Sub)
		}
	}
	if h.Combined != nil {
		rows = append(rows, h.Combined)
	}
	return rows
}

// MissingFields 매핑되지 않은 필드 목록 (스키마 순서)
func MissingFields(schema *Schema, fields model.FieldMap) []model.Field {
	var missing []model.Field
	for _, rule := range schema.Fields {
		if !fields.Has(rule.Field) {
			missing = append(missing, rule.Field)
		}
	}
	return missing
}
