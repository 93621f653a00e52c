package model

import "time"

// DocumentStatus 문서 처리 결과 상태
type DocumentStatus string

const (
	DocumentImported DocumentStatus = "imported"
	DocumentSkipped  DocumentStatus = "skipped" // 플랫폼 미인식
	DocumentError    DocumentStatus = "error"   // 읽을 수 없는 문서
)

// DocumentReport 문서 하나의 처리 결과
type DocumentReport struct {
	Filename       string         `json:"filename"`
	Status         DocumentStatus `json:"status"`
	Classification Classification `json:"classification"`
	Fields         FieldMap       `json:"fields,omitempty"`
	MissingFields  []Field        `json:"missingFields,omitempty"`
	ExtractedRows  int            `json:"extractedRows"`
	SkippedRows    int            `json:"skippedRows"`
	Errors         []string       `json:"errors,omitempty"`
	Duration       time.Duration  `json:"duration"`
}

// BatchReport 한 번의 정산 실행 결과
type BatchReport struct {
	RunID            string           `json:"runId"`
	StartedAt        time.Time        `json:"startedAt"`
	Documents        []DocumentReport `json:"documents"`
	Unrecognized     []string         `json:"unrecognized"` // 사용자에게 보여줄 제외 목록
	Failed           []string         `json:"failed"`
	PlatformARecords int              `json:"platformARecords"`
	PlatformBRecords int              `json:"platformBRecords"`
	Workers          int              `json:"workers"`
	LedgerError      string           `json:"ledgerError,omitempty"`
	Duration         time.Duration    `json:"duration"`
}

// RecognizedDocuments 인식된 문서 수
func (r *BatchReport) RecognizedDocuments() int {
	n := 0
	for _, d := range r.Documents {
		if d.Status == DocumentImported {
			n++
		}
	}
	return n
}

// UsageEntry 사용 기록 원장 한 줄
type UsageEntry struct {
	RunID            string    `json:"runId"`
	RecordedAt       time.Time `json:"recordedAt"`
	PlatformARecords int       `json:"platformARecords"`
	PlatformBRecords int       `json:"platformBRecords"`
	Documents        int       `json:"documents"`
	Workers          int       `json:"workers"`
}
