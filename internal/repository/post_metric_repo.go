package repository

import (
	"Agora/internal/model"
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostMetricRepo interface {
	SaveOrUpdateMetric(ctx context.Context, metric *model.PostMetric) error
	GetPostMetrics(ctx context.Context, postID uint64, since time.Time) ([]*model.PostMetric, error)
}

type postMetricRepoImpl struct {
	db *gorm.DB
}

func NewPostMetricRepository(db *gorm.DB) PostMetricRepo {
	return &postMetricRepoImpl{db: db}
}

// SaveOrUpdateMetric 采用 Upsert 逻辑。如果 post_id + metric_date 已存在，则更新各项数值
func (r *postMetricRepoImpl) SaveOrUpdateMetric(ctx context.Context, metric *model.PostMetric) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "post_id"}, {Name: "metric_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_likes",
			"total_comments",
			"total_views",
		}),
	}).Create(metric).Error
	return pkgerrors.Wrap(err, "save post metric")
}

// GetPostMetrics 获取 since 之后（含）的每日快照，按日期升序
func (r *postMetricRepoImpl) GetPostMetrics(ctx context.Context, postID uint64, since time.Time) ([]*model.PostMetric, error) {
	metrics := make([]*model.PostMetric, 0)
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND metric_date >= ?", postID, since).
		Order("metric_date ASC").
		Find(&metrics).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "get post metrics")
	}
	return metrics, nil
}
