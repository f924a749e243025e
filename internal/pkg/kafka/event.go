package kafka

import (
	"context"
	"time"
)

// FeedEvent 帖子动态事件，供下游推荐或统计服务消费
type FeedEvent struct {
	Type      string    `json:"type"`
	PostID    uint64    `json:"post_id"`
	UserID    uint64    `json:"user_id"`
	Tags      []string  `json:"tags,omitempty"`
	TraceID   string    `json:"trace_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher 事件发布是尽力而为的，失败只记日志，不影响主流程
type Publisher interface {
	Publish(ctx context.Context, event FeedEvent)
	Close() error
}

type nopPublisher struct{}

// NewNopPublisher 未配置 Kafka 时使用
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, FeedEvent) {}

func (nopPublisher) Close() error { return nil }
