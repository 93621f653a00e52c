package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"bigstep/internal/config"
	"bigstep/internal/importer"
	"bigstep/internal/logging"
	"bigstep/internal/security"
	"bigstep/internal/server"
	"bigstep/internal/service/excel"
	"bigstep/internal/store"
	"bigstep/internal/util"
)

// inputFiles -in 을 여러 번 받는다
type inputFiles []string

func (f *inputFiles) String() string { return strings.Join(*f, ",") }

func (f *inputFiles) Set(v string) error {
	*f = append(*f, v)
	return nil
}

var (
	port           = flag.Int("port", 0, "서비스 포트 (config.toml 에 port 가 없을 때만 적용)")
	devMode        = flag.Bool("dev", false, "개발 모드")
	dataDir        = flag.String("dataDir", "", "데이터 디렉터리 (설정 파일보다 우선)")
	outPath        = flag.String("out", "", "일괄 모드 정산서 경로 (기본: 설정의 output_filename)")
	hashPassphrase = flag.String("hash-passphrase", "", "접속 암호 해시를 출력하고 종료")
	inputs         inputFiles
)

func main() {
	flag.Var(&inputs, "in", "정산 내역 파일 (여러 번 지정 가능, 지정하면 일괄 모드)")
	flag.Parse()

	if *hashPassphrase != "" {
		hash, err := security.HashPassphrase(*hashPassphrase)
		if err != nil {
			log.Fatalf("암호 해시 실패: %v", err)
		}
		fmt.Println(hash)
		return
	}

	fmt.Println("==========================================")
	fmt.Println("  BigStep - 주간 배달 정산서 생성")
	fmt.Println("==========================================")

	// 설정 로드
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("설정 로드 실패, 기본 설정 사용: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 명령행 인자가 설정을 덮어쓴다
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	logger, err := logging.New(cfg.Server.DevMode)
	if err != nil {
		log.Fatalf("로거 초기화 실패: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		logger.Warn("failed to create data directory", zap.Error(err))
	} else {
		fmt.Printf("데이터 디렉터리: %s\n", dir)
	}

	if len(inputs) > 0 {
		if err := runBatch(cfg, logger, inputs, *outPath); err != nil {
			fmt.Fprintf(os.Stderr, "정산 실패: %v\n", err)
			os.Exit(1)
		}
		return
	}
	runServer(cfg, logger)
}

// runBatch 서버 없이 파일을 바로 정산한다
func runBatch(cfg *config.AppConfig, logger *zap.Logger, files []string, out string) error {
	docs := make([]importer.Document, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		docs = append(docs, importer.Document{Filename: filepath.Base(path), Data: data})
	}

	var ledger importer.UsageLedger
	if cfg.Ledger.Enabled {
		st, err := store.New(filepath.Join(config.ResolveDataDir(cfg), cfg.Ledger.DBFile))
		if err != nil {
			logger.Warn("usage ledger unavailable", zap.Error(err))
		} else {
			defer st.Close()
			ledger = st
		}
	}

	coord := importer.NewCoordinator(excel.NewReader(cfg.Input.DocumentPassphrase, logger), importer.OptionsFromConfig(cfg), ledger, logger)

	var result *importer.Result
	var runErr error
	for evt := range coord.Import(context.Background(), docs) {
		switch evt.Type {
		case "done", "error":
			result, _ = evt.Data.(*importer.Result)
			if evt.Type == "error" {
				runErr = errors.New(evt.Message)
			}
		default:
			fmt.Printf("  %s\n", evt.Message)
		}
	}
	if runErr != nil {
		if result != nil {
			printReport(result, cfg.PlatformA.Label, cfg.PlatformB.Label)
		}
		return runErr
	}
	if result == nil {
		return errors.New("정산 결과가 없습니다")
	}

	f, err := excel.NewExporter(server.ExportOptionsFromConfig(cfg)).Export(result.Rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if out == "" {
		out = cfg.Settlement.OutputFilename
	}
	if err := f.SaveAs(out); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}
	// 파일이 만들어진 뒤에만 사용 기록
	coord.RecordUsage(context.Background(), result.Report)

	printReport(result, cfg.PlatformA.Label, cfg.PlatformB.Label)
	fmt.Printf("정산서 저장: %s\n", out)
	return nil
}

func printReport(res *importer.Result, aLabel, bLabel string) {
	r := res.Report
	if r == nil {
		return
	}
	fmt.Printf("\n문서 %d개 인식, 기사 %d명 (%s %d / %s %d)\n",
		r.RecognizedDocuments(), r.Workers, aLabel, r.PlatformARecords, bLabel, r.PlatformBRecords)
	if len(r.Unrecognized) > 0 {
		fmt.Printf("제외된 문서: %s\n", strings.Join(r.Unrecognized, ", "))
	}
	if len(r.Failed) > 0 {
		fmt.Printf("읽지 못한 문서: %s\n", strings.Join(r.Failed, ", "))
	}
	if r.LedgerError != "" {
		fmt.Printf("사용 기록 실패: %s\n", r.LedgerError)
	}

	var total float64
	for _, row := range res.Rows {
		total += row.NetPay
	}
	fmt.Printf("최종 지급 합계: %s\n", util.FormatWon(total))
}

func runServer(cfg *config.AppConfig, logger *zap.Logger) {
	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		log.Fatalf("서버 생성 실패: %v", err)
	}
	defer srv.Close()

	// 설정 포트가 사용 중이면 다음 포트
	listenPort := util.FindAvailablePort(cfg.Server.Port, 10)
	addr := fmt.Sprintf(":%d", listenPort)
	url := fmt.Sprintf("http://localhost:%d", listenPort)

	go func() {
		fmt.Printf("서비스 시작, 포트 %d ...\n", listenPort)
		if err := srv.Run(addr); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	if !cfg.Server.DevMode {
		fmt.Printf("브라우저 여는 중: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("브라우저를 열 수 없습니다. 직접 접속하세요: %s\n", url)
		}
	} else {
		fmt.Printf("개발 모드: %s 에 접속하세요\n", url)
	}

	fmt.Println("\nCtrl+C 로 종료...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n서비스 종료 중...")
}
