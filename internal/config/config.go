package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 애플리케이션 설정
type AppConfig struct {
	Server     ServerConfig     `toml:"server"`
	Data       DataConfig       `toml:"data"`
	Auth       AuthConfig       `toml:"auth"`
	Input      InputConfig      `toml:"input"`
	Settlement SettlementConfig `toml:"settlement"`
	PlatformA  PlatformConfig   `toml:"platform_a"`
	PlatformB  PlatformConfig   `toml:"platform_b"`
	Ledger     LedgerConfig     `toml:"ledger"`
}

// ServerConfig 서버 설정
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 데이터 디렉터리
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// AuthConfig 접속 암호. PassphraseHash 가 비어 있으면 인증 없이 열린다.
type AuthConfig struct {
	PassphraseHash    string `toml:"passphrase_hash"`
	SessionTTLMinutes int    `toml:"session_ttl_minutes"`
}

// InputConfig 업로드 문서 해석
type InputConfig struct {
	DocumentPassphrase string   `toml:"document_passphrase"` // 암호화 정산서 고정 암호
	DynamicHeaders     bool     `toml:"dynamic_headers"`     // false 면 고정 양식만 사용
	ScanDepth          int      `toml:"scan_depth"`
	ShapeSampleRows    int      `toml:"shape_sample_rows"`
	StripParentheses   bool     `toml:"strip_parentheses"`
	SkipNames          []string `toml:"skip_names"`
	MaxUploadMB        int      `toml:"max_upload_mb"`
}

// SettlementConfig 세율과 출력
type SettlementConfig struct {
	WithholdingRate float64 `toml:"withholding_rate"`
	LocalTaxRate    float64 `toml:"local_tax_rate"`
	RoundUnit       int64   `toml:"round_unit"`
	SheetName       string  `toml:"sheet_name"`
	OutputFilename  string  `toml:"output_filename"`
}

// PlatformConfig 플랫폼별 표식과 고정 양식 (행/열은 0-based)
type PlatformConfig struct {
	Label           string  `toml:"label"`
	SheetMarker     string  `toml:"sheet_marker"`
	InsuranceMarker string  `toml:"insurance_marker"`
	LegacyHeaderRow int     `toml:"legacy_header_row"`
	LegacyDataRow   int     `toml:"legacy_data_row"`
	FeePerOrder     float64 `toml:"fee_per_order"`
	RetroPolicy     string  `toml:"retro_policy"` // columns | manual (B 만 해당)
}

// LedgerConfig 사용 기록
type LedgerConfig struct {
	Enabled bool   `toml:"enabled"`
	DBFile  string `toml:"db_file"`
}

// LoadConfigInfo 설정 로드 메타 정보
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig 기본 설정
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Auth: AuthConfig{
			SessionTTLMinutes: 12 * 60,
		},
		Input: InputConfig{
			DynamicHeaders:   true,
			ScanDepth:        50,
			ShapeSampleRows:  5,
			StripParentheses: true,
			SkipNames:        []string{"합계", "소계", "총계", "총합계"},
			MaxUploadMB:      32,
		},
		Settlement: SettlementConfig{
			WithholdingRate: 0.03,
			LocalTaxRate:    0.003,
			RoundUnit:       10,
			SheetName:       "정산서",
			OutputFilename:  "정산서.xlsx",
		},
		PlatformA: PlatformConfig{
			Label:           "쿠팡",
			SheetMarker:     "종합",
			InsuranceMarker: "기사부담고용보험",
			LegacyHeaderRow: 8,
			LegacyDataRow:   16,
		},
		PlatformB: PlatformConfig{
			Label:           "배민",
			SheetMarker:     "을지",
			InsuranceMarker: "라이더부담고용보험료",
			LegacyHeaderRow: 17,
			LegacyDataRow:   19,
			FeePerOrder:     100,
			RetroPolicy:     "columns",
		},
		Ledger: LedgerConfig{
			Enabled: true,
			DBFile:  "usage.db",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 실행 파일이 있는 디렉터리
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// ConfigPath config.toml 경로 (실행 파일과 같은 디렉터리)
func ConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 실행 파일 옆의 config.toml 을 읽고 메타 정보도 돌려준다.
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadConfigFrom(ConfigPath())
}

// LoadConfigFrom 지정한 경로에서 설정 로드. 파일이 없으면 기본값.
func LoadConfigFrom(configPath string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, info, err
		}
	} else {
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	}

	applyEnv(config)
	return config, info, nil
}

// applyEnv 환경 변수 덮어쓰기 (배포 환경에서 암호를 파일에 두지 않기 위해)
func applyEnv(config *AppConfig) {
	if v := os.Getenv("BIGSTEP_DOC_PASSPHRASE"); v != "" {
		config.Input.DocumentPassphrase = v
	}
	if v := os.Getenv("BIGSTEP_AUTH_PASSPHRASE_HASH"); v != "" {
		config.Auth.PassphraseHash = v
	}
	if v := os.Getenv("BIGSTEP_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
}

// ResolveDataDir 상대 경로면 실행 파일 디렉터리 기준
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// ExportsSubdir 웹 업로드로 만든 정산서를 두는 하위 디렉터리
const ExportsSubdir = "exports"

// EnsureDataDir 데이터 디렉터리와 정산서 디렉터리 생성
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)
	if err := os.MkdirAll(filepath.Join(dataDir, ExportsSubdir), 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}
