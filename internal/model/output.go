package model

// OutputColumn 정산서 출력 열 (순서 고정)
type OutputColumn string

const (
	ColName             OutputColumn = "name"
	ColAOrders          OutputColumn = "a_orders"
	ColBOrders          OutputColumn = "b_orders"
	ColATotal           OutputColumn = "a_total"
	ColBTotal           OutputColumn = "b_total"
	ColAPromo           OutputColumn = "a_promo"
	ColBPromo           OutputColumn = "b_promo"
	ColReward           OutputColumn = "reward"
	ColGrossSum         OutputColumn = "gross_sum"
	ColAEmployment      OutputColumn = "a_employment"
	ColAAccident        OutputColumn = "a_accident"
	ColBEmployment      OutputColumn = "b_employment"
	ColBAccident        OutputColumn = "b_accident"
	ColAHourly          OutputColumn = "a_hourly"
	ColBHourly          OutputColumn = "b_hourly"
	ColRetroRefund      OutputColumn = "retro_refund"
	ColWithholdingTax   OutputColumn = "withholding_tax"
	ColLocalTax         OutputColumn = "local_tax"
	ColAdvanceDeduction OutputColumn = "advance_deduction"
	ColNetPay           OutputColumn = "net_pay"
)

// OutputColumns 정산서 열 순서. 수식의 열 문자는 이 순서에서 계산한다.
var OutputColumns = []OutputColumn{
	ColName,
	ColAOrders,
	ColBOrders,
	ColATotal,
	ColBTotal,
	ColAPromo,
	ColBPromo,
	ColReward,
	ColGrossSum,
	ColAEmployment,
	ColAAccident,
	ColBEmployment,
	ColBAccident,
	ColAHourly,
	ColBHourly,
	ColRetroRefund,
	ColWithholdingTax,
	ColLocalTax,
	ColAdvanceDeduction,
	ColNetPay,
}

// OutputColumnIndex 1-based 열 번호, 없으면 0
func OutputColumnIndex(c OutputColumn) int {
	for i, it := range OutputColumns {
		if it == c {
			return i + 1
		}
	}
	return 0
}

// Value 열에 해당하는 값 (이름 열은 제외)
func (r SettlementRow) Value(c OutputColumn) float64 {
	switch c {
	case ColAOrders:
		return r.AOrders
	case ColBOrders:
		return r.BOrders
	case ColATotal:
		return r.ATotal
	case ColBTotal:
		return r.BTotal
	case ColAPromo:
		return r.APromo
	case ColBPromo:
		return r.BPromo
	case ColReward:
		return r.Reward
	case ColGrossSum:
		return r.GrossSum
	case ColAEmployment:
		return r.AEmployment
	case ColAAccident:
		return r.AAccident
	case ColBEmployment:
		return r.BEmployment
	case ColBAccident:
		return r.BAccident
	case ColAHourly:
		return r.AHourly
	case ColBHourly:
		return r.BHourly
	case ColRetroRefund:
		return r.RetroRefund
	case ColWithholdingTax:
		return r.WithholdingTax
	case ColLocalTax:
		return r.LocalTax
	case ColAdvanceDeduction:
		return r.AdvanceDeduction
	case ColNetPay:
		return r.NetPay
	}
	return 0
}
