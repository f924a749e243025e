package job

import (
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/logger"
	"Agora/internal/pkg/redis"
	"Agora/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const postMetricsJobTimeout = 30 * time.Minute

// PostMetricsJob 每天把帖子的累计点赞、评论、浏览写入当日快照
type PostMetricsJob struct {
	postMetricSvc service.PostMetricService
}

func NewPostMetricsJob(postMetricSvc service.PostMetricService) *PostMetricsJob {
	return &PostMetricsJob{
		postMetricSvc: postMetricSvc,
	}
}

func (s *PostMetricsJob) Run() {
	traceID := "job-post-metrics-" + uuid.NewString()
	ctx, cancel := context.WithTimeout(logger.WithTraceID(context.Background(), traceID), postMetricsJobTimeout)
	defer cancel()

	// 多实例部署时只允许一个实例执行
	if redis.Enabled() {
		ok, err := redis.TryLock(ctx, consts.PostMetricsJobLock, traceID, postMetricsJobTimeout, 1)
		if err != nil {
			log.ErrorContext(ctx, "acquire post metrics lock error", "err", err)
			return
		}
		if !ok {
			log.InfoContext(ctx, "post metrics job is running on another instance")
			return
		}
		defer func() {
			if err := redis.UnLock(context.WithoutCancel(ctx), consts.PostMetricsJobLock, traceID); err != nil {
				log.ErrorContext(ctx, "release post metrics lock error", "err", err)
			}
		}()
	}

	start := time.Now()
	synced, err := s.postMetricSvc.SyncPostMetrics(ctx, start)
	if err != nil {
		log.ErrorContext(ctx, "sync post metrics error", "synced", synced, "err", err)
		return
	}

	log.InfoContext(ctx, "sync post metrics success",
		"post_count", synced,
		"latency", time.Since(start))
}
