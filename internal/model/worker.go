package model

// PlatformTotals 한 플랫폼에서 누적된 기사 금액
type PlatformTotals struct {
	Orders              float64 `json:"orders"`
	Total               float64 `json:"total"` // 수수료 차감 후 금액
	EmploymentInsurance float64 `json:"employmentInsurance"`
	AccidentInsurance   float64 `json:"accidentInsurance"`
	HourlyInsurance     float64 `json:"hourlyInsurance"`
	Retro               float64 `json:"retro"`
	Rows                int     `json:"rows"` // 기여한 원본 행 수
}

// Add 값 누적 (덮어쓰지 않음)
func (t *PlatformTotals) Add(o PlatformTotals) {
	t.Orders += o.Orders
	t.Total += o.Total
	t.EmploymentInsurance += o.EmploymentInsurance
	t.AccidentInsurance += o.AccidentInsurance
	t.HourlyInsurance += o.HourlyInsurance
	t.Retro += o.Retro
	t.Rows += o.Rows
}

// InsuranceSum 보험료 3종 합계
func (t PlatformTotals) InsuranceSum() float64 {
	return t.EmploymentInsurance + t.AccidentInsurance + t.HourlyInsurance
}

// WorkerRecord 정규화된 이름 기준 기사 누적 레코드 (한 번의 정산 실행 동안만 유지)
type WorkerRecord struct {
	Name string         `json:"name"`
	A    PlatformTotals `json:"platformA"`
	B    PlatformTotals `json:"platformB"`
}

// Totals 플랫폼별 누적값 포인터
func (w *WorkerRecord) Totals(p Platform) *PlatformTotals {
	switch p {
	case PlatformA:
		return &w.A
	case PlatformB:
		return &w.B
	default:
		return nil
	}
}

// RowRecord 원본 한 행에서 추출된 값
type RowRecord struct {
	RowNo  int            `json:"rowNo"` // 1-based (엑셀 행 번호)
	Name   string         `json:"name"`
	Values PlatformTotals `json:"values"`
}

// SettlementRow 최종 정산서 한 줄. 계산 후 변경하지 않는다.
type SettlementRow struct {
	Name             string  `json:"name"`
	AOrders          float64 `json:"aOrders"`
	BOrders          float64 `json:"bOrders"`
	ATotal           float64 `json:"aTotal"`
	BTotal           float64 `json:"bTotal"`
	APromo           float64 `json:"aPromo"`
	BPromo           float64 `json:"bPromo"`
	Reward           float64 `json:"reward"`
	GrossSum         float64 `json:"grossSum"`
	AEmployment      float64 `json:"aEmployment"`
	AAccident        float64 `json:"aAccident"`
	BEmployment      float64 `json:"bEmployment"`
	BAccident        float64 `json:"bAccident"`
	AHourly          float64 `json:"aHourly"`
	BHourly          float64 `json:"bHourly"`
	RetroRefund      float64 `json:"retroRefund"`
	WithholdingTax   float64 `json:"withholdingTax"`
	LocalTax         float64 `json:"localTax"`
	AdvanceDeduction float64 `json:"advanceDeduction"`
	NetPay           float64 `json:"netPay"`
}

// InsuranceSum 보험료 6종 합계
func (r SettlementRow) InsuranceSum() float64 {
	return r.AEmployment + r.AAccident + r.BEmployment + r.BAccident + r.AHourly + r.BHourly
}
