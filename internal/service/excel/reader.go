package excel

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"bigstep/internal/model"
)

// ErrEmptyWorkbook 시트가 하나도 없는 문서
var ErrEmptyWorkbook = errors.New("workbook has no sheets")

// Reader 업로드 문서를 원시 셀 그리드로 읽는다 (xlsx, 암호화 xlsx, xls)
type Reader struct {
	passphrase string
	logger     *zap.Logger
}

// NewReader passphrase 는 암호화 문서용 고정 암호 (없으면 빈 문자열)
func NewReader(passphrase string, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{passphrase: passphrase, logger: logger}
}

// Read 문서 읽기. 읽을 수 없는 문서는 에러.
func (r *Reader) Read(filename string, data []byte) (*model.Workbook, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xls") {
		return readXLS(filename, data)
	}

	plain := data
	encrypted := false
	if IsCompoundFile(data) && r.passphrase != "" {
		out, err := Decrypt(data, r.passphrase)
		if err != nil {
			r.logger.Warn("decryption failed, reading as plain workbook",
				zap.String("file", filename), zap.Error(err))
		} else {
			plain, encrypted = out, true
		}
	}

	wb, err := readXLSX(filename, plain)
	if err == nil {
		wb.Encrypted = encrypted
		return wb, nil
	}
	// 확장자가 xlsx 여도 실제로는 구형 xls 인 경우
	if IsCompoundFile(plain) {
		if xwb, xerr := readXLS(filename, plain); xerr == nil {
			return xwb, nil
		}
	}
	return nil, err
}

func readXLSX(filename string, data []byte) (*model.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", filename, err)
	}
	defer func() { _ = f.Close() }()

	wb := &model.Workbook{Filename: filename}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, &model.Sheet{Name: name, Rows: rows})
	}
	if len(wb.Sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	return wb, nil
}

// maxXLSColumns BIFF8 한 행의 최대 열 수
const maxXLSColumns = 256

func readXLS(filename string, data []byte) (*model.Workbook, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls %s: %w", filename, err)
	}
	// Workbook 스트림이 없는 복합 문서 (암호화 xlsx 등)
	if book == nil {
		return nil, fmt.Errorf("open xls %s: no workbook stream", filename)
	}
	if book.NumSheets() == 0 {
		return nil, ErrEmptyWorkbook
	}

	wb := &model.Workbook{Filename: filename}
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		rows := make([][]string, 0, int(ws.MaxRow)+1)
		for ri := 0; ri <= int(ws.MaxRow); ri++ {
			rows = append(rows, xlsRowCells(xlsRow(ws, ri)))
		}
		wb.Sheets = append(wb.Sheets, &model.Sheet{Name: ws.Name, Rows: rows})
	}
	return wb, nil
}

// xlsRow 비어 있는 행은 nil. 라이브러리의 Row 는 없는 행에서 패닉한다.
func xlsRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

// xlsRowCells ROW 레코드가 없는 행은 열 범위를 모르므로 최대 열까지 읽고 뒤쪽 빈 칸을 자른다.
func xlsRowCells(row *xls.Row) []string {
	if row == nil {
		return nil
	}
	width := row.LastCol()
	if width <= 0 {
		width = maxXLSColumns
	}
	cells := make([]string, width)
	last := -1
	for ci := range cells {
		cells[ci] = row.Col(ci)
		if cells[ci] != "" {
			last = ci
		}
	}
	if row.LastCol() <= 0 {
		cells = cells[:last+1]
	}
	return cells
}
