package model

// Platform 정산 원본 플랫폼
type Platform string

const (
	PlatformUnknown Platform = "unknown"
	PlatformA       Platform = "platform_a" // 쿠팡 계열 (보험료를 음수로 기록)
	PlatformB       Platform = "platform_b" // 배민 계열 (건당 수수료 별도 차감)
)

// Known 정산 대상 플랫폼 여부
func (p Platform) Known() bool {
	return p == PlatformA || p == PlatformB
}

// DetectMethod 플랫폼 판별에 사용된 휴리스틱
type DetectMethod string

const (
	DetectNone          DetectMethod = "none"
	DetectSheetName     DetectMethod = "sheet_name"
	DetectHeaderKeyword DetectMethod = "header_keyword"
	DetectDataShape     DetectMethod = "data_shape"
)

// Sheet 한 시트의 원시 셀 그리드 (행 × 열, 타입 가정 없음)
type Sheet struct {
	Name string     `json:"name"`
	Rows [][]string `json:"-"`
}

// Cell 범위를 벗어나면 빈 문자열
func (s *Sheet) Cell(row, col int) string {
	if s == nil || row < 0 || row >= len(s.Rows) {
		return ""
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Row 범위를 벗어나면 nil
func (s *Sheet) Row(row int) []string {
	if s == nil || row < 0 || row >= len(s.Rows) {
		return nil
	}
	return s.Rows[row]
}

// Workbook 업로드된 문서 하나 (시트 순서 유지)
type Workbook struct {
	Filename  string   `json:"filename"`
	Encrypted bool     `json:"encrypted"`
	Sheets    []*Sheet `json:"sheets"`
}

// SheetNames 시트 이름 목록
func (w *Workbook) SheetNames() []string {
	if w == nil {
		return []string{}
	}
	out := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		out = append(out, s.Name)
	}
	return out
}

// Classification 문서 판별 결과. 생성 후 변경하지 않는다.
type Classification struct {
	Platform     Platform     `json:"platform"`
	SheetName    string       `json:"sheetName"`
	Method       DetectMethod `json:"method"`
	HeaderRow    int          `json:"headerRow"`    // 0-based
	SubHeaderRow int          `json:"subHeaderRow"` // 없으면 -1
	DataStartRow int          `json:"dataStartRow"`
	LegacyLayout bool         `json:"legacyLayout"`
}
