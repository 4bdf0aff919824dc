package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/supplier-directory/internal/audit"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/infra/storage"
	"github.com/BruksfildServices01/supplier-directory/internal/logger"
	"github.com/BruksfildServices01/supplier-directory/internal/media"
	"github.com/BruksfildServices01/supplier-directory/internal/middleware"
)

const presignTTL = 15 * time.Minute

var videoExt = map[string]string{
	"video/mp4":  ".mp4",
	"video/webm": ".webm",
}

type UploadHandler struct {
	store storage.Store
	audit audit.Recorder
}

// NewUploadHandler aceita store nil: as rotas respondem upload_unavailable.
func NewUploadHandler(store storage.Store, audit audit.Recorder) *UploadHandler {
	return &UploadHandler{store: store, audit: audit}
}

type PresignRequest struct {
	Folder      string `json:"folder" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// Upload recebe multipart (campos file e folder). Imagens viram WebP;
// vídeos são gravados como vieram.
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.store == nil {
		httperr.Business(c, "upload_unavailable")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxBytes)

	folder := c.PostForm("folder")
	if !media.IsValidFolder(folder) {
		httperr.Business(c, "invalid_folder")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		invalidRequest(c, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_upload", "Erro ao ler arquivo.")
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		httperr.Internal(c, "failed_to_read_upload", "Erro ao ler arquivo.")
		return
	}

	contentType := http.DetectContentType(raw)

	var (
		body []byte
		key  string
	)
	switch {
	case media.IsImage(contentType):
		body, err = media.ToWebP(bytes.NewReader(raw))
		if errors.Is(err, media.ErrUnsupported) {
			httperr.Business(c, "unsupported_media")
			return
		}
		if err != nil {
			httperr.Internal(c, "failed_to_process_image", "Erro ao processar imagem.")
			return
		}
		contentType = "image/webp"
		key = media.ObjectKey(folder, ".webp")

	case media.IsVideo(contentType):
		body = raw
		ext := videoExt[contentType]
		if ext == "" {
			ext = strings.ToLower(filepath.Ext(fh.Filename))
		}
		key = media.ObjectKey(folder, ext)

	default:
		httperr.Business(c, "unsupported_media")
		return
	}

	url, err := h.store.Put(c.Request.Context(), key, contentType, bytes.NewReader(body), int64(len(body)))
	if err != nil {
		logger.Log.Error("upload failed", zap.String("key", key), zap.Error(err))
		httperr.Internal(c, "failed_to_upload", "Erro ao enviar arquivo.")
		return
	}

	actorID := middleware.UserID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "media_uploaded",
		Entity:   "media",
		Metadata: map[string]any{"key": key, "content_type": contentType, "size": len(body)},
	})

	c.JSON(http.StatusCreated, gin.H{
		"url":          url,
		"key":          key,
		"content_type": contentType,
	})
}

// Presign devolve uma URL PUT assinada para arquivos grandes. As chaves de
// assinatura ficam no servidor.
func (h *UploadHandler) Presign(c *gin.Context) {
	if h.store == nil {
		httperr.Business(c, "upload_unavailable")
		return
	}

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	if !media.IsValidFolder(req.Folder) {
		httperr.Business(c, "invalid_folder")
		return
	}

	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	var ext string
	switch {
	case media.IsVideo(contentType):
		ext = videoExt[contentType]
	case contentType == "image/webp":
		ext = ".webp"
	default:
		// imagens comuns passam pelo upload direto para virarem WebP
		httperr.Business(c, "unsupported_media")
		return
	}

	up, err := h.store.PresignPut(c.Request.Context(), media.ObjectKey(req.Folder, ext), contentType, presignTTL)
	if err != nil {
		logger.Log.Error("presign failed", zap.Error(err))
		httperr.Internal(c, "failed_to_presign", "Erro ao preparar upload.")
		return
	}

	c.JSON(http.StatusOK, up)
}
