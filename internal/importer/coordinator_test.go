package importer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"bigstep/internal/config"
	"bigstep/internal/model"
	"bigstep/internal/parser"
	"bigstep/internal/service/excel"
)

func buildDocument(t *testing.T, filename, sheet string, rows [][]interface{}) Document {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	return Document{Filename: filename, Data: buf.Bytes()}
}

func platformADoc(t *testing.T, filename string) Document {
	return buildDocument(t, filename, "종합", [][]interface{}{
		{"주간 정산"},
		{"", "", "기사명", "배달건수", "총 정산금액", "기사부담", "", "시간제보험", "보험료 소급"},
		{"", "", "", "", "", "고용보험", "산재보험", "", ""},
		{"", 1, "홍길동123", 5, 10000, -300, -200, -100, -50},
		{"", "", "합계", 5, 10000, -300, -200, -100, -50},
	})
}

func platformBDoc(t *testing.T, filename string) Document {
	return buildDocument(t, filename, "을지_협력사 소속 라이더 정산 확인용", [][]interface{}{
		{"", "", "라이더명", "처리건수", "C(A+B)", "라이더부담\n고용보험료", "라이더부담\n산재보험료", "시간제보험료", "소급(F)", "소급(G)"},
		{"", "", "김철수", 50, 60000, 500, 300, 100, -200, 50},
		{"", "", "홍길동", 10, 20000, 100, 50, 0, 0, 0},
	})
}

type memoryLedger struct {
	entries []model.UsageEntry
	err     error
}

func (l *memoryLedger) Append(_ context.Context, e model.UsageEntry) error {
	if l.err != nil {
		return l.err
	}
	l.entries = append(l.entries, e)
	return nil
}

func newTestCoordinator(ledger UsageLedger) *Coordinator {
	return NewCoordinator(excel.NewReader("", zap.NewNop()), DefaultOptions(), ledger, zap.NewNop())
}

func TestCoordinator_AggregatesAcrossDocuments(t *testing.T) {
	t.Parallel()

	ledger := &memoryLedger{}
	docs := []Document{
		platformADoc(t, "week1.xlsx"),
		platformADoc(t, "week2.xlsx"),
		platformBDoc(t, "baemin.xlsx"),
		buildDocument(t, "memo.xlsx", "메모", [][]interface{}{{"품목", "수량"}, {"볼펜", 3}}),
		{Filename: "broken.xlsx", Data: []byte("garbage")},
	}

	var events []ProgressEvent
	res, err := newTestCoordinator(ledger).Run(context.Background(), docs, func(e ProgressEvent) { events = append(events, e) })
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	r := res.Report
	if r.RecognizedDocuments() != 3 {
		t.Fatalf("recognized = %d", r.RecognizedDocuments())
	}
	if len(r.Unrecognized) != 1 || r.Unrecognized[0] != "memo.xlsx" {
		t.Fatalf("unrecognized = %v", r.Unrecognized)
	}
	if len(r.Failed) != 1 || r.Failed[0] != "broken.xlsx" {
		t.Fatalf("failed = %v", r.Failed)
	}
	if r.Workers != 2 || r.PlatformARecords != 1 || r.PlatformBRecords != 2 {
		t.Fatalf("counts: workers=%d a=%d b=%d", r.Workers, r.PlatformARecords, r.PlatformBRecords)
	}

	if len(res.Rows) != 2 || res.Rows[0].Name != "김철수" || res.Rows[1].Name != "홍길동" {
		t.Fatalf("rows = %+v", res.Rows)
	}
	hong := res.Rows[1]
	if hong.AOrders != 10 || hong.ATotal != 20000 || hong.AEmployment != 600 || hong.RetroRefund != 100 {
		t.Fatalf("A aggregation: %+v", hong)
	}
	if hong.BOrders != 10 || hong.BTotal != 19000 {
		t.Fatalf("B aggregation: %+v", hong)
	}
	kim := res.Rows[0]
	if kim.BTotal != 55000 || kim.RetroRefund != 150 {
		t.Fatalf("kim: %+v", kim)
	}

	a := r.Documents[0]
	if a.Status != model.DocumentImported || a.Classification.Platform != model.PlatformA ||
		a.Classification.Method != model.DetectSheetName || a.Classification.SubHeaderRow != 2 || a.SkippedRows != 1 {
		t.Fatalf("doc report: %+v", a)
	}
	if len(ledger.entries) != 0 {
		t.Fatalf("run must not write the ledger before output exists: %+v", ledger.entries)
	}
	newTestCoordinator(ledger).RecordUsage(context.Background(), r)
	if len(ledger.entries) != 1 || ledger.entries[0].RunID != r.RunID || ledger.entries[0].Documents != 3 {
		t.Fatalf("ledger: %+v", ledger.entries)
	}
	if len(events) == 0 || events[0].Type != "start" {
		t.Fatalf("events: %+v", events)
	}
}

func TestCoordinator_NoRecognizedDocuments(t *testing.T) {
	t.Parallel()

	ledger := &memoryLedger{}
	docs := []Document{buildDocument(t, "memo.xlsx", "메모", [][]interface{}{{"품목"}})}
	res, err := newTestCoordinator(ledger).Run(context.Background(), docs, nil)
	if !errors.Is(err, ErrNoRecognizedDocuments) {
		t.Fatalf("err = %v", err)
	}
	if res == nil || len(res.Report.Unrecognized) != 1 {
		t.Fatalf("report must list skipped document")
	}
	if len(ledger.entries) != 0 {
		t.Fatalf("ledger must not be written")
	}
}

func TestCoordinator_NoSettlementRows(t *testing.T) {
	t.Parallel()

	docs := []Document{buildDocument(t, "empty.xlsx", "종합", [][]interface{}{
		{"기사명", "배달건수", "총 정산금액", "기사부담 고용보험"},
		{"합계", 0, 0, 0},
	})}
	_, err := newTestCoordinator(nil).Run(context.Background(), docs, nil)
	if !errors.Is(err, ErrNoSettlementRows) {
		t.Fatalf("err = %v", err)
	}
}

func TestCoordinator_LedgerFailureKeepsResult(t *testing.T) {
	t.Parallel()

	ledger := &memoryLedger{err: errors.New("disk full")}
	coord := newTestCoordinator(ledger)
	res, err := coord.Run(context.Background(), []Document{platformBDoc(t, "b.xlsx")}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	coord.RecordUsage(context.Background(), res.Report)
	if res.Report.LedgerError == "" || len(res.Rows) != 2 {
		t.Fatalf("ledger error not reported: %+v", res.Report)
	}
}

func TestCoordinator_ImportChannel(t *testing.T) {
	t.Parallel()

	ch := newTestCoordinator(nil).Import(context.Background(), []Document{platformADoc(t, "a.xlsx")})
	var last ProgressEvent
	for evt := range ch {
		last = evt
	}
	if last.Type != "done" {
		t.Fatalf("last event = %+v", last)
	}
	res, ok := last.Data.(*Result)
	if !ok || len(res.Rows) != 1 {
		t.Fatalf("unexpected done data: %T", last.Data)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Input.StripParentheses = false
	cfg.PlatformB.RetroPolicy = "manual"
	cfg.PlatformB.FeePerOrder = 150
	cfg.PlatformA.SheetMarker = "쿠팡"

	opts := OptionsFromConfig(cfg)
	if opts.Extract.Names.StripParentheses || opts.Extract.Retro != parser.RetroManual || opts.Extract.FeePerOrder != 150 {
		t.Fatalf("extract options: %+v", opts.Extract)
	}
	a := parser.SchemaFor(opts.Schemas, model.PlatformA)
	if a.SheetMarker != "쿠팡" || a.Legacy.HeaderRow != 8 {
		t.Fatalf("schema a: %+v", a)
	}
}
