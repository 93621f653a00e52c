package model

// NotFound 열을 찾지 못했을 때의 인덱스
const NotFound = -1

// Field 의미 필드
type Field string

const (
	FieldWorkerName          Field = "worker_name"
	FieldOrderCount          Field = "order_count"
	FieldGrossTotal          Field = "gross_total"
	FieldAltGrossTotal       Field = "alt_gross_total" // A: 순액 열이 비었을 때의 대체 열
	FieldEmploymentInsurance Field = "employment_insurance"
	FieldAccidentInsurance   Field = "accident_insurance"
	FieldHourlyInsurance     Field = "hourly_insurance"
	FieldRetroAdjustment     Field = "retro_adjustment"
	FieldRetroF              Field = "retro_f" // B: 소급 (F)
	FieldRetroG              Field = "retro_g" // B: 소급 (G)
)

// FieldMap 문서 하나에 대한 필드 → 열 인덱스
type FieldMap map[Field]int

// Index 매핑되지 않은 필드는 NotFound
func (m FieldMap) Index(f Field) int {
	if m == nil {
		return NotFound
	}
	idx, ok := m[f]
	if !ok {
		return NotFound
	}
	return idx
}

// Has 필드가 열에 매핑되었는지
func (m FieldMap) Has(f Field) bool {
	return m.Index(f) != NotFound
}
