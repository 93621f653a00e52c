package parser

import (
	"bigstep/internal/model"
)

// 근로자명 열 후보 (양 플랫폼 공통)
var workerNameRules = []KeywordRule{
	Keywords("라이더명"),
	Keywords("기사명"),
	Keywords("성명"),
	Keywords("이름"),
}

// ShapeColumnRules 데이터 형태 휴리스틱에서 쓰는 일반 고용보험 열 라벨
var ShapeColumnRules = []KeywordRule{
	Keywords("고용보험", "기사"),
	Keywords("고용보험", "라이더"),
}

// DefaultSchemaA 쿠팡 계열 정산서 양식
// 보험료·소급은 음수로 기록되고 "총 정산금액" 은 이미 수수료가 빠진 금액이다.
func DefaultSchemaA() *Schema {
	return &Schema{
		Platform:            model.PlatformA,
		SheetMarker:         "종합",
		InsuranceMarker:     "기사부담고용보험",
		NegativeWithholding: true,
		HeaderMarkers: []KeywordRule{
			Keywords("기사부담", "고용보험"),
			Keywords("총정산금액"),
			Keywords("보험료소급"),
		},
		TopMarkers:  []KeywordRule{Keywords("기사부담")},
		SubMarkers:  []KeywordRule{Keywords("고용보험"), Keywords("산재보험")},
		NameMarkers: workerNameRules,
		Fields: []FieldRule{
			{Field: model.FieldWorkerName, Rules: workerNameRules, LegacyColumn: 2},
			{Field: model.FieldOrderCount, Rules: []KeywordRule{
				Keywords("배달건수"),
				Keywords("처리건수"),
				Keywords("총정산", "건수"),
				Keywords("오더수"),
				Keywords("건수").Except("금액"),
			}, LegacyColumn: 5},
			{Field: model.FieldGrossTotal, Rules: []KeywordRule{
				Keywords("총정산금액").Except("건수"),
				Keywords("총정산").Except("건수"),
			}, LegacyColumn: model.NotFound},
			{Field: model.FieldAltGrossTotal, Rules: []KeywordRule{
				Keywords("정산금액").Except("총", "건수"),
			}, LegacyColumn: model.NotFound},
			{Field: model.FieldEmploymentInsurance, Priority: SubRowFirst, Rules: []KeywordRule{
				Keywords("기사부담", "고용보험"),
				Keywords("고용보험").Except("사업주", "회사", "사업자"),
			}, LegacyColumn: model.NotFound},
			{Field: model.FieldAccidentInsurance, Priority: SubRowFirst, Rules: []KeywordRule{
				Keywords("기사부담", "산재보험"),
				Keywords("산재보험").Except("사업주", "회사", "사업자"),
			}, LegacyColumn: model.NotFound},
			{Field: model.FieldHourlyInsurance, Priority: SubRowFirst, Rules: []KeywordRule{
				Keywords("시간제보험"),
			}, LegacyColumn: model.NotFound},
			{Field: model.FieldRetroAdjustment, Priority: SubRowFirst, Rules: []KeywordRule{
				Keywords("보험료소급"),
				Keywords("소급"),
			}, LegacyColumn: model.NotFound},
		},
		Legacy: LegacyLayout{HeaderRow: 8, DataStartRow: 16},
	}
}

// DefaultSchemaB 배민 계열 을지 양식
// "C(A+B)" 는 건당 수수료 차감 전 금액이고 소급은 (F), (G) 두 열로 나뉜다.
func DefaultSchemaB() *Schema {
	return &Schema{
		Platform:        model.PlatformB,
		SheetMarker:     "을지",
		InsuranceMarker: "라이더부담고용보험료",
		HeaderMarkers: []KeywordRule{
			Keywords("라이더부담", "고용보험료"),
			Keywords("C(A+B)"),
			Keywords("처리건수"),
		},
		NameMarkers: workerNameRules,
		Fields: []FieldRule{
			{Field: model.FieldWorkerName, Rules: workerNameRules, LegacyColumn: 2},
			{Field: model.FieldOrderCount, Rules: []KeywordRule{
				Keywords("처리건수"),
				Keywords("배달건수"),
			}, LegacyColumn: model.NotFound},
			{Field: model.FieldGrossTotal, Rules: []KeywordRule{
				Keywords("C(A+B)"),
				Keywords("정산금액").Except("건수"),
			}, LegacyColumn: model.NotFound},
			{Field: model.FieldEmploymentInsurance, Rules: []KeywordRule{
				Keywords("라이더부담", "고용보험료"),
				Keywords("라이더부담", "고용보험"),
			}, LegacyColumn: model.NotFound},
			{Field: model.FieldAccidentInsurance, Rules: []KeywordRule{
				Keywords("라이더부담", "산재보험료"),
				Keywords("라이더부담", "산재보험"),
			}, LegacyColumn: model.NotFound},
			{Field: model.FieldHourlyInsurance, Rules: []KeywordRule{
				Keywords("시간제보험료"),
				Keywords("시간제보험"),
			}, LegacyColumn: model.NotFound},
			{Field: model.FieldRetroF, Rules: []KeywordRule{Keywords("(F)")}, LegacyColumn: model.NotFound},
			{Field: model.FieldRetroG, Rules: []KeywordRule{Keywords("(G)")}, LegacyColumn: model.NotFound},
		},
		Legacy: LegacyLayout{HeaderRow: 17, DataStartRow: 19},
	}
}

// DefaultSchemas 판별 순서대로 (A 먼저)
func DefaultSchemas() []*Schema {
	return []*Schema{DefaultSchemaA(), DefaultSchemaB()}
}

// SchemaFor 플랫폼에 해당하는 스키마
func SchemaFor(schemas []*Schema, p model.Platform) *Schema {
	for _, s := range schemas {
		if s.Platform == p {
			return s
		}
	}
	return nil
}
