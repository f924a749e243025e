package minio

import (
	"Agora/internal/api/config"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
)

// DeleteFile 删除MinIO中的文件
func DeleteFile(ctx context.Context, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	err := Client.RemoveObject(ctx, BucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// IsObjectKey 绝对 URL 由客户端直接给出，不属于本桶
func IsObjectKey(ref string) bool {
	return ref != "" && !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://")
}

// GetPublicURL 把对象 key 转成可直接访问的 URL，绝对 URL 或未启用 MinIO 时原样返回
func GetPublicURL(ref string) string {
	if !IsObjectKey(ref) || config.Cfg == nil || config.Cfg.MinIO.Endpoint == "" {
		return ref
	}
	cfg := config.Cfg.MinIO

	protocol := "http"
	if cfg.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, cfg.Endpoint, cfg.Bucket, strings.TrimPrefix(ref, "/"))
}
