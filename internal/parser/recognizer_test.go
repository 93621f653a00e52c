package parser

import (
	"testing"

	"bigstep/internal/model"
)

func twoRowSheetA(name string) *model.Sheet {
	return &model.Sheet{Name: name, Rows: [][]string{
		{"주간 정산 내역"},
		{"", "", "기사명", "배달건수", "총 정산금액", "기사부담", "", "시간제보험", "보험료 소급"},
		{"", "", "", "", "", "고용보험", "산재보험", "", ""},
		{"", "1", "홍길동123", "5", "10,000", "-300", "-200", "-100", "-50"},
		{"", "2", "nan", "", "", "", "", "", ""},
		{"", "", "합계", "5", "10,000", "-300", "-200", "-100", "-50"},
	}}
}

func singleRowSheetB(name string) *model.Sheet {
	return &model.Sheet{Name: name, Rows: [][]string{
		{"", "", "라이더명", "처리건수", "C(A+B)", "라이더부담\n고용보험료", "라이더부담\n산재보험료", "시간제보험료", "소급(F)", "소급(G)"},
		{"", "", "김철수", "50", "60,000", "500", "300", "100", "-200", "50"},
		{"", "", "", "", "", "", "", "", "", ""},
	}}
}

func newTestRecognizer() *SheetRecognizer {
	return NewSheetRecognizer(DefaultSchemas(), 0, 0)
}

func TestSheetRecognizer_SheetName(t *testing.T) {
	t.Parallel()

	r := newTestRecognizer()
	wb := &model.Workbook{Sheets: []*model.Sheet{
		{Name: "안내"},
		singleRowSheetB("을지_협력사 소속 라이더 정산 확인용"),
	}}
	d := r.Recognize(wb)
	if d.Platform != model.PlatformB || d.Method != model.DetectSheetName {
		t.Fatalf("got platform=%s method=%s", d.Platform, d.Method)
	}
	if d.Sheet.Name != "을지_협력사 소속 라이더 정산 확인용" {
		t.Fatalf("sheet = %s", d.Sheet.Name)
	}

	wb = &model.Workbook{Sheets: []*model.Sheet{twoRowSheetA("종합 정산")}}
	if d := r.Recognize(wb); d.Platform != model.PlatformA || d.Method != model.DetectSheetName {
		t.Fatalf("got platform=%s method=%s", d.Platform, d.Method)
	}
}

func TestSheetRecognizer_HeaderKeyword(t *testing.T) {
	t.Parallel()

	r := newTestRecognizer()
	if d := r.Recognize(&model.Workbook{Sheets: []*model.Sheet{twoRowSheetA("Sheet1")}}); d.Platform != model.PlatformA || d.Method != model.DetectHeaderKeyword {
		t.Fatalf("A: got platform=%s method=%s", d.Platform, d.Method)
	}
	if d := r.Recognize(&model.Workbook{Sheets: []*model.Sheet{singleRowSheetB("data")}}); d.Platform != model.PlatformB || d.Method != model.DetectHeaderKeyword {
		t.Fatalf("B: got platform=%s method=%s", d.Platform, d.Method)
	}
}

func TestSheetRecognizer_DataShape(t *testing.T) {
	t.Parallel()

	r := newTestRecognizer()
	negative := &model.Sheet{Name: "Sheet1", Rows: [][]string{
		{"이름", "금액", "기사 고용보험"},
		{"홍길동", "1000", "0"},
		{"김철수", "2000", "-30"},
	}}
	d := r.Recognize(&model.Workbook{Sheets: []*model.Sheet{negative}})
	if d.Platform != model.PlatformA || d.Method != model.DetectDataShape {
		t.Fatalf("negative: got platform=%s method=%s", d.Platform, d.Method)
	}

	positive := &model.Sheet{Name: "Sheet1", Rows: [][]string{
		{"이름", "금액", "라이더 고용보험"},
		{"홍길동", "1000", "30"},
	}}
	d = r.Recognize(&model.Workbook{Sheets: []*model.Sheet{positive}})
	if d.Platform != model.PlatformB || d.Method != model.DetectDataShape {
		t.Fatalf("positive: got platform=%s method=%s", d.Platform, d.Method)
	}
}

func TestSheetRecognizer_Unknown(t *testing.T) {
	t.Parallel()

	r := newTestRecognizer()
	wb := &model.Workbook{Sheets: []*model.Sheet{{Name: "메모", Rows: [][]string{{"품목", "수량"}, {"볼펜", "3"}}}}}
	d := r.Recognize(wb)
	if d.Recognized() || d.Platform != model.PlatformUnknown {
		t.Fatalf("expected unknown, got %s", d.Platform)
	}
	if d := r.Recognize(&model.Workbook{}); d.Recognized() {
		t.Fatalf("empty workbook recognized")
	}
}

func TestHeaderLocator_TwoRowHeader(t *testing.T) {
	t.Parallel()

	loc, ok := NewHeaderLocator(0, true).Locate(twoRowSheetA("Sheet1"), DefaultSchemaA())
	if !ok {
		t.Fatalf("header not found")
	}
	if loc.HeaderRow != 1 || loc.SubHeaderRow != 2 || loc.DataStartRow != 3 || loc.Loose || loc.Legacy {
		t.Fatalf("unexpected location: %+v", loc)
	}
}

func TestHeaderLocator_SingleRowHeader(t *testing.T) {
	t.Parallel()

	loc, ok := NewHeaderLocator(0, true).Locate(singleRowSheetB("data"), DefaultSchemaB())
	if !ok || loc.HeaderRow != 0 || loc.SubHeaderRow != -1 || loc.DataStartRow != 1 {
		t.Fatalf("unexpected location: %+v ok=%v", loc, ok)
	}
}

func TestHeaderLocator_Fallbacks(t *testing.T) {
	t.Parallel()

	loose := &model.Sheet{Rows: [][]string{{"제목"}, {"성명", "금액"}, {"홍길동", "100"}}}
	loc, ok := NewHeaderLocator(0, true).Locate(loose, DefaultSchemaA())
	if !ok || !loc.Loose || loc.HeaderRow != 1 || loc.DataStartRow != 2 {
		t.Fatalf("loose: %+v ok=%v", loc, ok)
	}

	blank := &model.Sheet{Rows: make([][]string, 20)}
	loc, ok = NewHeaderLocator(0, true).Locate(blank, DefaultSchemaA())
	if !ok || !loc.Legacy || loc.HeaderRow != 8 || loc.DataStartRow != 16 {
		t.Fatalf("legacy: %+v ok=%v", loc, ok)
	}

	// 동적 탐지 끔: 표식이 있어도 고정 양식
	loc, ok = NewHeaderLocator(0, false).Locate(&model.Sheet{Rows: append(singleRowSheetB("x").Rows, make([][]string, 20)...)}, DefaultSchemaB())
	if !ok || !loc.Legacy || loc.HeaderRow != 17 || loc.DataStartRow != 19 {
		t.Fatalf("dynamic off: %+v ok=%v", loc, ok)
	}

	short := &model.Sheet{Rows: [][]string{{"품목"}, {"볼펜"}}}
	if _, ok := NewHeaderLocator(0, true).Locate(short, DefaultSchemaA()); ok {
		t.Fatalf("expected not found")
	}
}

func TestExtractor_PlatformA(t *testing.T) {
	t.Parallel()

	sheet := twoRowSheetA("Sheet1")
	schema := DefaultSchemaA()
	loc, _ := NewHeaderLocator(0, true).Locate(sheet, schema)
	fields := NewFieldMapper(true).Map(schema, HeaderRowsAt(sheet, loc))

	ex := NewExtractor(ExtractOptions{Names: NamePolicy{StripParentheses: true}, SkipNames: DefaultSkipNames})
	res := ex.Extract(sheet, model.PlatformA, fields, loc.DataStartRow)
	if len(res.Records) != 1 || res.SkippedRows != 2 {
		t.Fatalf("records=%d skipped=%d", len(res.Records), res.SkippedRows)
	}
	rec := res.Records[0]
	want := model.PlatformTotals{Orders: 5, Total: 10000, EmploymentInsurance: 300, AccidentInsurance: 200, HourlyInsurance: 100, Retro: 50, Rows: 1}
	if rec.Name != "홍길동" || rec.Values != want || rec.RowNo != 4 {
		t.Fatalf("record = %+v", rec)
	}
}

func TestExtractor_PlatformA_AltTotal(t *testing.T) {
	t.Parallel()

	sheet := &model.Sheet{Rows: [][]string{
		{"기사명", "배달건수", "총 정산금액", "정산금액"},
		{"홍길동", "3", "0", "7,000"},
		{"김철수", "0", "0", "9,000"},
	}}
	schema := DefaultSchemaA()
	fields := NewFieldMapper(false).Map(schema, NewHeaderRows(sheet.Row(0), nil))
	res := NewExtractor(ExtractOptions{}).Extract(sheet, model.PlatformA, fields, 1)
	if len(res.Records) != 2 {
		t.Fatalf("records = %d", len(res.Records))
	}
	if res.Records[0].Values.Total != 7000 {
		t.Fatalf("alt total not used: %+v", res.Records[0])
	}
	if res.Records[1].Values.Total != 0 {
		t.Fatalf("alt total must need orders: %+v", res.Records[1])
	}
}

func TestExtractor_PlatformB(t *testing.T) {
	t.Parallel()

	sheet := singleRowSheetB("data")
	schema := DefaultSchemaB()
	fields := NewFieldMapper(false).Map(schema, NewHeaderRows(sheet.Row(0), nil))
	if missing := MissingFields(schema, fields); len(missing) != 0 {
		t.Fatalf("missing fields: %v", missing)
	}

	res := NewExtractor(ExtractOptions{FeePerOrder: 100, Retro: RetroColumns}).Extract(sheet, model.PlatformB, fields, 1)
	if len(res.Records) != 1 {
		t.Fatalf("records = %d", len(res.Records))
	}
	got := res.Records[0].Values
	want := model.PlatformTotals{Orders: 50, Total: 55000, EmploymentInsurance: 500, AccidentInsurance: 300, HourlyInsurance: 100, Retro: 150, Rows: 1}
	if got != want {
		t.Fatalf("values = %+v", got)
	}

	res = NewExtractor(ExtractOptions{FeePerOrder: 100, Retro: RetroManual}).Extract(sheet, model.PlatformB, fields, 1)
	if res.Records[0].Values.Retro != 0 {
		t.Fatalf("manual retro = %v", res.Records[0].Values.Retro)
	}
}
