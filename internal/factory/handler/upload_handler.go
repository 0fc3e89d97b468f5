package handler

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// UploadHandler 图片等附件上传到对象存储
type UploadHandler struct {
	client *minio.Client
	bucket string
	useSSL bool
}

func NewUploadHandler(client *minio.Client, bucket string, useSSL bool) *UploadHandler {
	return &UploadHandler{client: client, bucket: bucket, useSSL: useSSL}
}

const maxUploadSize = 10 << 20 // 10MB

// Upload 接收 multipart 文件并存入 MinIO，返回访问URL
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.client == nil {
		InternalError(c, "对象存储未配置")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "请上传文件（字段名 file）")
		return
	}
	if file.Size > maxUploadSize {
		BadRequest(c, "文件大小超过10MB限制")
		return
	}

	src, err := file.Open()
	if err != nil {
		InternalError(c, "读取上传文件失败")
		return
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	objectName := fmt.Sprintf("uploads/%s/%s%s", time.Now().Format("2006/01"), uuid.New().String(), ext)

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = h.client.PutObject(c.Request.Context(), h.bucket, objectName, src, file.Size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		InternalError(c, "上传文件失败: "+err.Error())
		return
	}

	scheme := "http"
	if h.useSSL {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/%s/%s", scheme, h.client.EndpointURL().Host, h.bucket, objectName)
	Success(c, gin.H{"url": url, "object": objectName})
}
