package server

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bigstep/internal/api"
	"bigstep/internal/config"
	"bigstep/internal/importer"
	"bigstep/internal/security"
	"bigstep/internal/service/excel"
	"bigstep/internal/store"
)

//go:embed all:web
var staticFiles embed.FS

// Server HTTP 서버
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
	logger *zap.Logger
}

// NewServer 서버 생성. 사용 기록이 켜져 있으면 SQLite 를 연다.
func NewServer(cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		logger.Warn("failed to create data directory", zap.Error(err))
		dataDir = config.ResolveDataDir(cfg)
	}

	var sqliteStore *store.Store
	var ledger importer.UsageLedger
	var runs api.RunStore
	if cfg.Ledger.Enabled {
		sqliteStore, err = store.New(filepath.Join(dataDir, cfg.Ledger.DBFile))
		if err != nil {
			return nil, fmt.Errorf("initialize usage ledger: %w", err)
		}
		ledger, runs = sqliteStore, sqliteStore
	}

	reader := excel.NewReader(cfg.Input.DocumentPassphrase, logger)
	coordinator := importer.NewCoordinator(reader, importer.OptionsFromConfig(cfg), ledger, logger)
	exporter := excel.NewExporter(ExportOptionsFromConfig(cfg))
	gate := security.NewGate(cfg.Auth.PassphraseHash, time.Duration(cfg.Auth.SessionTTLMinutes)*time.Minute)

	handler := api.NewHandler(coordinator, exporter, gate, runs, api.Options{
		ExportDir:      filepath.Join(dataDir, config.ExportsSubdir),
		OutputFilename: cfg.Settlement.OutputFilename,
		MaxUploadBytes: int64(cfg.Input.MaxUploadMB) << 20,
	}, logger)

	s := &Server{
		router: gin.New(),
		store:  sqliteStore,
		api:    handler,
		logger: logger,
	}
	s.setupRoutes(devMode)
	return s, nil
}

// ExportOptionsFromConfig 정산서 출력 옵션
func ExportOptionsFromConfig(cfg *config.AppConfig) excel.ExportOptions {
	return excel.ExportOptions{
		SheetName:       cfg.Settlement.SheetName,
		Headers:         excel.HeaderLabels(cfg.PlatformA.Label, cfg.PlatformB.Label),
		WithholdingRate: cfg.Settlement.WithholdingRate,
		LocalTaxRate:    cfg.Settlement.LocalTaxRate,
		RoundUnit:       cfg.Settlement.RoundUnit,
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) setupRoutes(devMode bool) {
	s.router.Use(gin.Recovery(), s.requestLogger())

	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	if devMode {
		// 개발 모드: 프런트엔드 개발 서버로
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
		return
	}

	sub, _ := fs.Sub(staticFiles, "web")
	s.router.GET("/", func(c *gin.Context) {
		data, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	})
}

// Handler 테스트용 http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 서버 시작
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 저장소 닫기
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
