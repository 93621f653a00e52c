package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bigstep/internal/importer"
	"bigstep/internal/model"
)

type exportDownload struct {
	filePath string
	runID    string
}

// SettlementResponse 정산 결과
type SettlementResponse struct {
	Report      *model.BatchReport    `json:"report"`
	Rows        []model.SettlementRow `json:"rows"`
	DownloadURL string                `json:"downloadUrl,omitempty"`
}

// CreateSettlement 업로드된 문서들로 정산서 생성
// POST /api/settlements (multipart, field "files")
func (h *Handler) CreateSettlement(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 업로드 형식입니다"})
		return
	}

	files := append(form.File["files"], form.File["file"]...)
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "업로드된 파일이 없습니다"})
		return
	}

	docs := make([]importer.Document, 0, len(files))
	for _, fh := range files {
		data, err := readUploadedFile(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s 파일을 읽을 수 없습니다", fh.Filename)})
			return
		}
		docs = append(docs, importer.Document{Filename: filepath.Base(fh.Filename), Data: data})
	}

	res, err := h.coordinator.Run(c.Request.Context(), docs, nil)
	if err != nil {
		if errors.Is(err, importer.ErrNoRecognizedDocuments) || errors.Is(err, importer.ErrNoSettlementRows) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "report": reportOf(res)})
			return
		}
		h.logger.Error("settlement run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	path, err := h.writeExport(res)
	if err != nil {
		h.logger.Error("write settlement workbook failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "정산서 생성에 실패했습니다"})
		return
	}
	h.coordinator.RecordUsage(c.Request.Context(), res.Report)

	token, _ := h.downloads.Put(exportDownload{filePath: path, runID: res.Report.RunID}, h.opts.DownloadTTL)

	c.JSON(http.StatusOK, SettlementResponse{
		Report:      res.Report,
		Rows:        res.Rows,
		DownloadURL: "/api/settlements/download/" + token,
	})
}

func reportOf(res *importer.Result) *model.BatchReport {
	if res == nil {
		return nil
	}
	return res.Report
}

func readUploadedFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *Handler) writeExport(res *importer.Result) (string, error) {
	f, err := h.exporter.Export(res.Rows)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	dir := h.opts.ExportDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("bigstep_%s.xlsx", res.Report.RunID))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

// DownloadSettlement 정산서 다운로드 (일회용)
// GET /api/settlements/download/:token
func (h *Handler) DownloadSettlement(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "토큰이 없습니다"})
		return
	}

	item, ok := h.downloads.Take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "다운로드 링크가 만료되었습니다"})
		return
	}
	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "정산서 파일이 없습니다"})
		return
	}

	c.Header("Content-Disposition", buildContentDisposition(h.opts.OutputFilename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(item.filePath)

	_ = os.Remove(item.filePath)
}

// buildContentDisposition 한글 파일명은 filename* 로, ASCII 대체 이름도 함께
func buildContentDisposition(filename string) string {
	fallback := "settlement.xlsx"
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", fallback, url.PathEscape(filename))
}
