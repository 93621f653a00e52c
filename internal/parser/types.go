package parser

import (
	"bigstep/internal/model"
)

// KeywordRule 열 매칭 규칙: Required 전부 포함하고 Exclude 는 하나도 포함하지 않아야 한다.
type KeywordRule struct {
	Required []string `json:"required"`
	Exclude  []string `json:"exclude,omitempty"`
}

// Keywords 규칙 생성
func Keywords(required ...string) KeywordRule {
	return KeywordRule{Required: required}
}

// Except 제외 키워드 추가
func (r KeywordRule) Except(exclude ...string) KeywordRule {
	r.Exclude = append(append([]string{}, r.Exclude...), exclude...)
	return r
}

// RowPriority 다중 헤더에서 어느 행을 먼저 볼지
type RowPriority int

const (
	PrimaryRowFirst RowPriority = iota
	SubRowFirst
)

// FieldRule 필드 하나의 매칭 전략. Rules 는 순서대로 시도하고 처음 맞는 것을 쓴다.
type FieldRule struct {
	Field        model.Field
	Rules        []KeywordRule
	Priority     RowPriority
	LegacyColumn int // 헤더로 찾지 못했을 때의 고정 열, 없으면 model.NotFound
}

// LegacyLayout 고정 양식 문서의 헤더/데이터 시작 행 (0-based)
type LegacyLayout struct {
	HeaderRow    int
	DataStartRow int
}

// Enabled 고정 양식이 설정되었는지
func (l LegacyLayout) Enabled() bool {
	return l.HeaderRow >= 0 && l.DataStartRow > l.HeaderRow
}

// Schema 플랫폼 하나의 문서 양식 정의
type Schema struct {
	Platform model.Platform

	// 시트명 휴리스틱
	SheetMarker string
	// 헤더 키워드 휴리스틱: 기사 부담 고용보험 열 라벨
	InsuranceMarker string
	// 데이터 형태 휴리스틱: 보험료를 음수로 기록하는 플랫폼
	NegativeWithholding bool

	HeaderMarkers []KeywordRule
	TopMarkers    []KeywordRule // 2행 헤더 상단(그룹) 라벨
	SubMarkers    []KeywordRule // 2행 헤더 하단(세부) 라벨
	NameMarkers   []KeywordRule // 느슨한 폴백

	Fields []FieldRule
	Legacy LegacyLayout
}

// FieldRule 필드 규칙 조회
func (s *Schema) FieldRule(f model.Field) (FieldRule, bool) {
	for _, fr := range s.Fields {
		if fr.Field == f {
			return fr, true
		}
	}
	return FieldRule{}, false
}

// HeaderLocation 헤더 위치
type HeaderLocation struct {
	HeaderRow    int
	SubHeaderRow int
	DataStartRow int
	Loose        bool // 이름 열 표식만으로 찾음
	Legacy       bool // 고정 양식 사용
}
