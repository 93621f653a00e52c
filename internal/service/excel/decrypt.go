package excel

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// cfbSignature OLE 복합 문서 시그니처. 암호화된 xlsx 와 구형 xls 가 이 형식이다.
var cfbSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// zipSignature 복호화된 xlsx 는 zip 컨테이너여야 한다
var zipSignature = []byte{'P', 'K', 0x03, 0x04}

// IsCompoundFile 데이터가 OLE 복합 문서인지
func IsCompoundFile(data []byte) bool {
	return bytes.HasPrefix(data, cfbSignature)
}

// Decrypt 고정 암호로 문서를 복호화한다.
// 암호화되지 않았거나 복호화에 실패하면 입력을 그대로 돌려준다 (실패 시 에러도 함께).
func Decrypt(data []byte, passphrase string) ([]byte, error) {
	if passphrase == "" || !IsCompoundFile(data) {
		return data, nil
	}
	plain, err := excelize.Decrypt(data, &excelize.Options{Password: passphrase})
	if err != nil {
		return data, fmt.Errorf("decrypt workbook: %w", err)
	}
	// 암호가 틀려도 에러 없이 임의 바이트가 나온다
	if !bytes.HasPrefix(plain, zipSignature) {
		return data, errors.New("decrypt workbook: wrong passphrase")
	}
	return plain, nil
}
