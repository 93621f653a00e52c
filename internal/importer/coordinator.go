package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bigstep/internal/calculator"
	"bigstep/internal/model"
	"bigstep/internal/parser"
	"bigstep/internal/service/excel"
)

var (
	// ErrNoRecognizedDocuments 인식된 정산 문서가 하나도 없음
	ErrNoRecognizedDocuments = errors.New("no recognized settlement documents")
	// ErrNoSettlementRows 인식은 되었지만 기사 행이 하나도 없음
	ErrNoSettlementRows = errors.New("no settlement rows")
)

// Document 업로드된 원본 문서
type Document struct {
	Filename string
	Data     []byte
}

// UsageLedger 사용 기록 원장 (추가 전용)
type UsageLedger interface {
	Append(ctx context.Context, entry model.UsageEntry) error
}

// Options 파이프라인 설정
type Options struct {
	Schemas         []*parser.Schema
	ScanDepth       int
	ShapeSampleRows int
	DynamicHeaders  bool
	Extract         parser.ExtractOptions
	Rates           calculator.Rates
}

// DefaultOptions 기본 양식과 세율
func DefaultOptions() Options {
	return Options{
		Schemas:         parser.DefaultSchemas(),
		ScanDepth:       parser.DefaultScanDepth,
		ShapeSampleRows: parser.DefaultShapeSampleRows,
		DynamicHeaders:  true,
		Extract: parser.ExtractOptions{
			Names:       parser.NamePolicy{StripParentheses: true},
			FeePerOrder: 100,
			Retro:       parser.RetroColumns,
			SkipNames:   parser.DefaultSkipNames,
		},
		Rates: calculator.DefaultRates(),
	}
}

// ProgressEvent 진행 이벤트
type ProgressEvent struct {
	Type      string      `json:"type"` // start/document_start/document_done/done/error
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Result 정산 실행 결과
type Result struct {
	Report *model.BatchReport     `json:"report"`
	Rows   []model.SettlementRow `json:"rows"`
}

// Coordinator 정산 실행 조정자
// 한 번의 실행이 명부를 소유하며 문서는 순서대로 처리한다.
type Coordinator struct {
	reader     *excel.Reader
	recognizer *parser.SheetRecognizer
	locator    *parser.HeaderLocator
	mapper     *parser.FieldMapper
	extractor  *parser.Extractor
	calc       *calculator.Calculator
	schemas    []*parser.Schema
	ledger     UsageLedger
	logger     *zap.Logger
	now        func() time.Time
}

// NewCoordinator 조정자 생성. ledger 가 nil 이면 기록하지 않는다.
func NewCoordinator(reader *excel.Reader, opts Options, ledger UsageLedger, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.Schemas) == 0 {
		opts.Schemas = parser.DefaultSchemas()
	}
	return &Coordinator{
		reader:     reader,
		recognizer: parser.NewSheetRecognizer(opts.Schemas, opts.ScanDepth, opts.ShapeSampleRows),
		locator:    parser.NewHeaderLocator(opts.ScanDepth, opts.DynamicHeaders),
		mapper:     parser.NewFieldMapper(true),
		extractor:  parser.NewExtractor(opts.Extract),
		calc:       calculator.NewCalculator(opts.Rates),
		schemas:    opts.Schemas,
		ledger:     ledger,
		logger:     logger,
		now:        time.Now,
	}
}

// Import 비동기 실행. 마지막 이벤트는 done (Data: *Result) 또는 error.
func (c *Coordinator) Import(ctx context.Context, docs []Document) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		send := func(evt ProgressEvent) { c.sendProgress(progressChan, evt) }
		res, err := c.Run(ctx, docs, send)
		final := ProgressEvent{Type: "done", Message: "정산 완료", Data: res, Timestamp: c.now()}
		if err != nil {
			final = ProgressEvent{Type: "error", Message: err.Error(), Data: res, Timestamp: c.now()}
		}
		// 마지막 이벤트는 버리지 않는다
		select {
		case progressChan <- final:
		case <-ctx.Done():
		}
	}()

	return progressChan
}

func (c *Coordinator) sendProgress(ch chan ProgressEvent, evt ProgressEvent) {
	select {
	case ch <- evt:
	default:
	}
}

// runContext 실행 하나의 상태
type runContext struct {
	report   *model.BatchReport
	roster   *calculator.Roster
	progress func(ProgressEvent)
}

func (rc *runContext) emit(evt ProgressEvent) {
	if rc.progress != nil {
		rc.progress(evt)
	}
}

// Run 문서 전체를 처리하고 정산 행을 만든다. 사용 기록은 남기지 않는다 (RecordUsage).
// 인식된 문서가 없거나 정산 행이 없을 때만 에러를 돌려주며, 이때도 보고서는 채워져 있다.
func (c *Coordinator) Run(ctx context.Context, docs []Document, progress func(ProgressEvent)) (*Result, error) {
	startTime := c.now()
	rc := &runContext{
		report: &model.BatchReport{
			RunID:        uuid.New().String(),
			StartedAt:    startTime,
			Documents:    []model.DocumentReport{},
			Unrecognized: []string{},
			Failed:       []string{},
		},
		roster:   calculator.NewRoster(),
		progress: progress,
	}
	res := &Result{Report: rc.report, Rows: []model.SettlementRow{}}
	log := c.logger.With(zap.String("run_id", rc.report.RunID))

	rc.emit(ProgressEvent{
		Type:      "start",
		Message:   fmt.Sprintf("문서 %d개 정산 시작", len(docs)),
		Data:      map[string]interface{}{"documents": len(docs)},
		Timestamp: c.now(),
	})

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		c.processDocument(rc, doc)
	}

	rc.report.PlatformARecords = rc.roster.CountWith(model.PlatformA)
	rc.report.PlatformBRecords = rc.roster.CountWith(model.PlatformB)
	rc.report.Workers = rc.roster.Len()

	if rc.report.RecognizedDocuments() == 0 {
		rc.report.Duration = time.Since(startTime)
		log.Warn("no recognized documents", zap.Strings("unrecognized", rc.report.Unrecognized), zap.Strings("failed", rc.report.Failed))
		return res, fmt.Errorf("settlement run %s: %w", rc.report.RunID, ErrNoRecognizedDocuments)
	}

	res.Rows = c.calc.SettleAll(rc.roster)
	if len(res.Rows) == 0 {
		rc.report.Duration = time.Since(startTime)
		log.Warn("no settlement rows")
		return res, fmt.Errorf("settlement run %s: %w", rc.report.RunID, ErrNoSettlementRows)
	}

	rc.report.Duration = time.Since(startTime)

	log.Info("settlement run finished",
		zap.Int("documents", len(docs)),
		zap.Int("recognized", rc.report.RecognizedDocuments()),
		zap.Int("workers", rc.report.Workers),
		zap.Int("platform_a_records", rc.report.PlatformARecords),
		zap.Int("platform_b_records", rc.report.PlatformBRecords),
		zap.Duration("duration", rc.report.Duration),
	)
	return res, nil
}

// RecordUsage 정산서 파일이 만들어진 뒤 호출한다.
// 원장 기록 실패는 report.LedgerError 로만 알리고 이미 만든 결과는 유지한다.
func (c *Coordinator) RecordUsage(ctx context.Context, report *model.BatchReport) {
	if c.ledger == nil || report == nil {
		return
	}
	log := c.logger.With(zap.String("run_id", report.RunID))
	entry := model.UsageEntry{
		RunID:            report.RunID,
		RecordedAt:       c.now(),
		PlatformARecords: report.PlatformARecords,
		PlatformBRecords: report.PlatformBRecords,
		Documents:        report.RecognizedDocuments(),
		Workers:          report.Workers,
	}
	if err := c.ledger.Append(ctx, entry); err != nil {
		report.LedgerError = err.Error()
		log.Error("usage ledger append failed", zap.Error(err))
	}
}

// processDocument 문서 하나: 읽기 → 판별 → 헤더 → 열 매핑 → 행 추출
func (c *Coordinator) processDocument(rc *runContext, doc Document) {
	docStart := c.now()
	log := c.logger.With(zap.String("file", doc.Filename))

	rc.emit(ProgressEvent{
		Type:      "document_start",
		Message:   fmt.Sprintf("문서 분석 중: %s", doc.Filename),
		Data:      map[string]string{"filename": doc.Filename},
		Timestamp: c.now(),
	})

	wb, err := c.reader.Read(doc.Filename, doc.Data)
	if err != nil {
		log.Warn("unreadable document", zap.Error(err))
		rc.report.Failed = append(rc.report.Failed, doc.Filename)
		c.recordDocumentResult(rc, model.DocumentReport{
			Filename:       doc.Filename,
			Status:         model.DocumentError,
			Classification: unknownClassification(),
			Errors:         []string{fmt.Sprintf("문서를 읽을 수 없습니다: %v", err)},
			Duration:       time.Since(docStart),
		})
		return
	}

	detection := c.recognizer.Recognize(wb)
	if !detection.Recognized() {
		log.Info("document not recognized", zap.Strings("sheets", wb.SheetNames()))
		c.skipDocument(rc, doc.Filename, unknownClassification(), "정산 양식을 인식하지 못했습니다", docStart)
		return
	}

	loc, ok := c.locator.Locate(detection.Sheet, detection.Schema)
	cls := model.Classification{
		Platform:     detection.Platform,
		SheetName:    detection.Sheet.Name,
		Method:       detection.Method,
		HeaderRow:    loc.HeaderRow,
		SubHeaderRow: loc.SubHeaderRow,
		DataStartRow: loc.DataStartRow,
		LegacyLayout: loc.Legacy,
	}
	if !ok {
		cls.HeaderRow, cls.SubHeaderRow, cls.DataStartRow = model.NotFound, model.NotFound, model.NotFound
		log.Info("header row not found", zap.String("platform", string(detection.Platform)), zap.String("sheet", detection.Sheet.Name))
		c.skipDocument(rc, doc.Filename, cls, "헤더 행을 찾지 못했습니다", docStart)
		return
	}

	fields := c.mapper.Map(detection.Schema, parser.HeaderRowsAt(detection.Sheet, loc))
	missing := parser.MissingFields(detection.Schema, fields)
	if !fields.Has(model.FieldWorkerName) {
		c.skipDocument(rc, doc.Filename, cls, "기사명 열을 찾지 못했습니다", docStart)
		return
	}

	extracted := c.extractor.Extract(detection.Sheet, detection.Platform, fields, loc.DataStartRow)
	rc.roster.AddAll(detection.Platform, extracted.Records)

	log.Info("document imported",
		zap.String("platform", string(detection.Platform)),
		zap.String("sheet", detection.Sheet.Name),
		zap.String("method", string(detection.Method)),
		zap.Int("header_row", loc.HeaderRow),
		zap.Int("data_start_row", loc.DataStartRow),
		zap.Int("rows", len(extracted.Records)),
		zap.Int("skipped_rows", extracted.SkippedRows),
		zap.Any("missing_fields", missing),
	)

	c.recordDocumentResult(rc, model.DocumentReport{
		Filename:       doc.Filename,
		Status:         model.DocumentImported,
		Classification: cls,
		Fields:         fields,
		MissingFields:  missing,
		ExtractedRows:  len(extracted.Records),
		SkippedRows:    extracted.SkippedRows,
		Duration:       time.Since(docStart),
	})
}

func unknownClassification() model.Classification {
	return model.Classification{
		Platform:     model.PlatformUnknown,
		Method:       model.DetectNone,
		HeaderRow:    model.NotFound,
		SubHeaderRow: model.NotFound,
		DataStartRow: model.NotFound,
	}
}

func (c *Coordinator) skipDocument(rc *runContext, filename string, cls model.Classification, reason string, start time.Time) {
	rc.report.Unrecognized = append(rc.report.Unrecognized, filename)
	c.recordDocumentResult(rc, model.DocumentReport{
		Filename:       filename,
		Status:         model.DocumentSkipped,
		Classification: cls,
		Errors:         []string{reason},
		Duration:       time.Since(start),
	})
}

// recordDocumentResult 문서 결과 기록 및 진행 이벤트
func (c *Coordinator) recordDocumentResult(rc *runContext, result model.DocumentReport) {
	rc.report.Documents = append(rc.report.Documents, result)
	rc.emit(ProgressEvent{
		Type:      "document_done",
		Message:   fmt.Sprintf("%s: %s", result.Filename, result.Status),
		Data:      result,
		Timestamp: c.now(),
	})
}
