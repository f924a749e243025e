package model

import (
	"time"
)

type PostMetric struct {
	ID            uint64    `gorm:"primaryKey"`
	PostID        uint64    `gorm:"not null;uniqueIndex:uq_post_metric_date"`
	MetricDate    time.Time `gorm:"not null;uniqueIndex:uq_post_metric_date;column:metric_date"`
	TotalLikes    int64     `gorm:"not null;default:0"`
	TotalComments int64     `gorm:"not null;default:0"`
	TotalViews    int64     `gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (PostMetric) TableName() string {
	return "post_daily_metrics"
}
