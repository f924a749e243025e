package database

import (
	"Agora/internal/model"
	"fmt"
	log "log/slog"

	"gorm.io/gorm"
)

// AutoMigrate 同步表结构，唯一索引 uq_like_user_post / uq_post_tag / uq_tag_name 在这里建立
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.Tag{},
		&model.PostTag{},
		&model.Like{},
		&model.Comment{},
		&model.PostMetric{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("Database migration completed")
	return nil
}
