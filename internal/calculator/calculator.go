package calculator

import (
	"github.com/shopspring/decimal"

	"bigstep/internal/model"
)

// Rates 세율과 절사 단위
type Rates struct {
	Withholding decimal.Decimal // 소득세율
	Local       decimal.Decimal // 지방소득세율
	RoundUnit   decimal.Decimal // 절사 단위 (원)
}

// DefaultRates 소득세 3%, 지방소득세 0.3%, 10원 단위 절사
func DefaultRates() Rates {
	return Rates{
		Withholding: decimal.RequireFromString("0.03"),
		Local:       decimal.RequireFromString("0.003"),
		RoundUnit:   decimal.NewFromInt(10),
	}
}

// NewRates 설정값으로 세율 생성. 0 이하 값은 기본값을 쓴다.
func NewRates(withholding, local float64, unit int64) Rates {
	r := DefaultRates()
	if withholding > 0 {
		r.Withholding = decimal.NewFromFloat(withholding)
	}
	if local > 0 {
		r.Local = decimal.NewFromFloat(local)
	}
	if unit > 0 {
		r.RoundUnit = decimal.NewFromInt(unit)
	}
	return r
}

// Calculator 기사별 정산 계산기
// 스프레드시트 수식과 같은 값이 나오도록 십진 연산을 쓴다.
type Calculator struct {
	rates Rates
}

// NewCalculator 계산기 생성
func NewCalculator(rates Rates) *Calculator {
	if rates.RoundUnit.IsZero() {
		rates.RoundUnit = decimal.NewFromInt(10)
	}
	return &Calculator{rates: rates}
}

// Rates 사용 중인 세율
func (c *Calculator) Rates() Rates {
	return c.rates
}

// Tax floor(gross × rate / unit) × unit
func (c *Calculator) Tax(gross, rate decimal.Decimal) decimal.Decimal {
	return gross.Mul(rate).Div(c.rates.RoundUnit).Floor().Mul(c.rates.RoundUnit)
}

// Settle 레코드 하나의 정산 행
func (c *Calculator) Settle(w *model.WorkerRecord) model.SettlementRow {
	d := decimal.NewFromFloat
	aTotal, bTotal := d(w.A.Total), d(w.B.Total)
	promoA, promoB, reward := decimal.Zero, decimal.Zero, decimal.Zero
	advance := decimal.Zero

	gross := aTotal.Add(bTotal).Add(promoA).Add(promoB).Add(reward)
	withholding := c.Tax(gross, c.rates.Withholding)
	local := c.Tax(gross, c.rates.Local)

	insurance := decimal.Sum(
		d(w.A.EmploymentInsurance), d(w.A.AccidentInsurance),
		d(w.B.EmploymentInsurance), d(w.B.AccidentInsurance),
		d(w.A.HourlyInsurance), d(w.B.HourlyInsurance),
	)
	retro := d(w.A.Retro).Add(d(w.B.Retro))
	net := gross.Sub(insurance).Add(retro).Sub(withholding.Add(local)).Sub(advance)

	return model.SettlementRow{
		Name:             w.Name,
		AOrders:          w.A.Orders,
		BOrders:          w.B.Orders,
		ATotal:           aTotal.InexactFloat64(),
		BTotal:           bTotal.InexactFloat64(),
		APromo:           promoA.InexactFloat64(),
		BPromo:           promoB.InexactFloat64(),
		Reward:           reward.InexactFloat64(),
		GrossSum:         gross.InexactFloat64(),
		AEmployment:      w.A.EmploymentInsurance,
		AAccident:        w.A.AccidentInsurance,
		BEmployment:      w.B.EmploymentInsurance,
		BAccident:        w.B.AccidentInsurance,
		AHourly:          w.A.HourlyInsurance,
		BHourly:          w.B.HourlyInsurance,
		RetroRefund:      retro.InexactFloat64(),
		WithholdingTax:   withholding.InexactFloat64(),
		LocalTax:         local.InexactFloat64(),
		AdvanceDeduction: advance.InexactFloat64(),
		NetPay:           net.InexactFloat64(),
	}
}

// SettleAll 명부 전체, 이름순
func (c *Calculator) SettleAll(r *Roster) []model.SettlementRow {
	workers := r.Workers()
	rows := make([]model.SettlementRow, 0, len(workers))
	for _, w := range workers {
		rows = append(rows, c.Settle(w))
	}
	return rows
}
