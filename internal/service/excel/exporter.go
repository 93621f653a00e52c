package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"bigstep/internal/model"
)

// DefaultSheetName 정산서 시트명
const DefaultSheetName = "정산서"

const (
	numberFormat     = "#,##0"
	zeroHiddenFormat = `#,##0;-#,##0;""`
)

// HeaderLabels 출력 열 머리글. aLabel/bLabel 은 플랫폼 표시명 (쿠팡, 배민).
func HeaderLabels(aLabel, bLabel string) map[model.OutputColumn]string {
	return map[model.OutputColumn]string{
		model.ColName:             "성함",
		model.ColAOrders:          aLabel + " 오더수",
		model.ColBOrders:          bLabel + " 오더수",
		model.ColATotal:           aLabel + " 총금액",
		model.ColBTotal:           bLabel + " 총금액",
		model.ColAPromo:           aLabel + " 프로모션",
		model.ColBPromo:           bLabel + " 프로모션",
		model.ColReward:           "리워드",
		model.ColGrossSum:         "최종합산",
		model.ColAEmployment:      aLabel + " 고용보험",
		model.ColAAccident:        aLabel + " 산재보험",
		model.ColBEmployment:      bLabel + " 고용보험",
		model.ColBAccident:        bLabel + " 산재보험",
		model.ColAHourly:          aLabel + " 시간제 보험",
		model.ColBHourly:          bLabel + " 시간제 보험",
		model.ColRetroRefund:      "보험료 환급(소급)",
		model.ColWithholdingTax:   "소득세",
		model.ColLocalTax:         "지방소득세",
		model.ColAdvanceDeduction: "선지급차감",
		model.ColNetPay:           "최종지급(액)",
	}
}

// ExportOptions 정산서 생성 옵션
type ExportOptions struct {
	SheetName       string
	Headers         map[model.OutputColumn]string
	WithholdingRate float64
	LocalTaxRate    float64
	RoundUnit       int64
}

// Exporter 정산서 워크북 생성기
type Exporter struct {
	opts ExportOptions
}

// NewExporter 생성기. 비어 있는 옵션은 기본값을 쓴다.
func NewExporter(opts ExportOptions) *Exporter {
	if opts.SheetName == "" {
		opts.SheetName = DefaultSheetName
	}
	if opts.Headers == nil {
		opts.Headers = HeaderLabels("쿠팡", "배민")
	}
	if opts.WithholdingRate <= 0 {
		opts.WithholdingRate = 0.03
	}
	if opts.LocalTaxRate <= 0 {
		opts.LocalTaxRate = 0.003
	}
	if opts.RoundUnit <= 0 {
		opts.RoundUnit = 10
	}
	return &Exporter{opts: opts}
}

// col 출력 열의 열 문자
func col(c model.OutputColumn) string {
	name, _ := excelize.ColumnNumberToName(model.OutputColumnIndex(c))
	return name
}

func ref(c model.OutputColumn, row int) string {
	return fmt.Sprintf("%s%d", col(c), row)
}

func sumRefs(row int, cols ...model.OutputColumn) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = ref(c, row)
	}
	return strings.Join(parts, "+")
}

// Formulas 한 행의 수식 (최종합산, 소득세, 지방소득세, 최종지급)
func (e *Exporter) Formulas(row int) map[model.OutputColumn]string {
	rate := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	unit := strconv.FormatInt(e.opts.RoundUnit, 10)
	gross := ref(model.ColGrossSum, row)

	return map[model.OutputColumn]string{
		model.ColGrossSum: sumRefs(row,
			model.ColATotal, model.ColBTotal, model.ColAPromo, model.ColBPromo, model.ColReward),
		model.ColWithholdingTax: fmt.Sprintf("INT(%s*%s/%s)*%s", gross, rate(e.opts.WithholdingRate), unit, unit),
		model.ColLocalTax:       fmt.Sprintf("INT(%s*%s/%s)*%s", gross, rate(e.opts.LocalTaxRate), unit, unit),
		model.ColNetPay: fmt.Sprintf("%s-(%s)+%s-(%s)-%s",
			gross,
			sumRefs(row, model.ColAEmployment, model.ColAAccident, model.ColBEmployment,
				model.ColBAccident, model.ColAHourly, model.ColBHourly),
			ref(model.ColRetroRefund, row),
			sumRefs(row, model.ColWithholdingTax, model.ColLocalTax),
			ref(model.ColAdvanceDeduction, row),
		),
	}
}

// Export 정산 행을 워크북으로. 값은 계산 결과를 먼저 기록하고 수식을 덮는다.
func (e *Exporter) Export(rows []model.SettlementRow) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := e.opts.SheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(model.OutputColumns))
	for i, c := range model.OutputColumns {
		header[i] = e.opts.Headers[c]
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		rowNo := i + 2
		values := make([]interface{}, len(model.OutputColumns))
		for j, c := range model.OutputColumns {
			if c == model.ColName {
				values[j] = r.Name
				continue
			}
			values[j] = r.Value(c)
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowNo), &values); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write row %d: %w", rowNo, err)
		}
		for c, formula := range e.Formulas(rowNo) {
			if err := f.SetCellFormula(sheet, ref(c, rowNo), formula); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("set formula %s: %w", ref(c, rowNo), err)
			}
		}
	}

	if err := e.applyStyles(f, sheet, len(rows)); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func (e *Exporter) applyStyles(f *excelize.File, sheet string, n int) error {
	numFmt := numberFormat
	zeroFmt := zeroHiddenFormat
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	numStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("number style: %w", err)
	}
	zeroStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &zeroFmt})
	if err != nil {
		return fmt.Errorf("zero style: %w", err)
	}

	last := col(model.OutputColumns[len(model.OutputColumns)-1])
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	if n > 0 {
		for _, c := range model.OutputColumns[1:] {
			style := numStyle
			switch c {
			case model.ColAPromo, model.ColBPromo, model.ColReward, model.ColAdvanceDeduction:
				style = zeroStyle
			}
			if err := f.SetCellStyle(sheet, ref(c, 2), ref(c, n+1), style); err != nil {
				return fmt.Errorf("apply style %s: %w", col(c), err)
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, col(model.ColAOrders), last, 13)
	_ = f.SetRowHeight(sheet, 1, 30)
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
