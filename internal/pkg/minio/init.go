package minio

import (
	"Agora/internal/api/config"
	"context"
	"fmt"
	log "log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	// Client 全局 MinIO 客户端实例，未配置 endpoint 时为 nil
	Client *minio.Client
	// BucketName 帖子图片所在的存储桶
	BucketName string
)

// Init 初始化 MinIO 客户端
func Init(cfg config.MinIOConfig) error {
	if cfg.Endpoint == "" {
		log.Info("MinIO endpoint not configured, image storage disabled")
		return nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to connect to minio server: %w", err)
	}
	if !exists {
		return fmt.Errorf("minio bucket %q does not exist", cfg.Bucket)
	}

	Client = client
	BucketName = cfg.Bucket
	return nil
}

// IsEnabled MinIO 是否可用
func IsEnabled() bool {
	return Client != nil
}
