package api

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bigstep/internal/importer"
	"bigstep/internal/model"
	"bigstep/internal/security"
	"bigstep/internal/service/excel"
)

// RunStore 사용 기록 조회
type RunStore interface {
	List(ctx context.Context, limit int) ([]model.UsageEntry, error)
	LastRunAt(ctx context.Context) (time.Time, bool, error)
}

// Options 핸들러 설정
type Options struct {
	ExportDir      string
	OutputFilename string
	MaxUploadBytes int64
	DownloadTTL    time.Duration
}

// Handler 정산 API 처리기
type Handler struct {
	coordinator *importer.Coordinator
	exporter    *excel.Exporter
	gate        *security.Gate
	runs        RunStore
	downloads   *security.TokenStore[exportDownload]
	opts        Options
	logger      *zap.Logger
}

// NewHandler runs 가 nil 이면 사용 기록 조회는 빈 목록
func NewHandler(coordinator *importer.Coordinator, exporter *excel.Exporter, gate *security.Gate, runs RunStore, opts Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.OutputFilename == "" {
		opts.OutputFilename = "정산서.xlsx"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	if opts.DownloadTTL <= 0 {
		opts.DownloadTTL = 30 * time.Minute
	}
	downloads := security.NewTokenStore[exportDownload]()
	// 받아 가지 않은 정산서 파일은 토큰과 함께 지운다
	downloads.OnExpire(func(d exportDownload) {
		if err := os.Remove(d.filePath); err != nil && !os.IsNotExist(err) {
			logger.Warn("remove expired export failed", zap.String("path", d.filePath), zap.Error(err))
		}
	})
	return &Handler{
		coordinator: coordinator,
		exporter:    exporter,
		gate:        gate,
		runs:        runs,
		downloads:   downloads,
		opts:        opts,
		logger:      logger,
	}
}

// RegisterRoutes API 라우트 등록
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 인증 없이 접근
	router.POST("/login", h.Login)
	router.GET("/status", h.GetStatus)
	// 다운로드 토큰 자체가 일회용 권한
	router.GET("/settlements/download/:token", h.DownloadSettlement)

	authed := router.Group("")
	authed.Use(h.RequireSession())
	{
		authed.POST("/logout", h.Logout)
		authed.POST("/settlements", h.CreateSettlement)
		authed.GET("/runs", h.ListRuns)
	}
}
