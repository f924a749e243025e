package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/redis"
	"Agora/internal/pkg/util"
	"Agora/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

const metricSyncBatchSize = 200

type PostMetricService interface {
	// SyncPostMetrics 把所有帖子当前的累计点赞、评论、浏览写入 day 当天的快照
	SyncPostMetrics(ctx context.Context, day time.Time) (int, error)
	// GetPostMetrics 获取最近 days 天的趋势，只有作者本人可以查看
	GetPostMetrics(ctx context.Context, userID, postID uint64, days int) (*dto.PostTrendDTO, error)
}

type postMetricServiceImpl struct {
	postMetricRepo repository.PostMetricRepo
	postRepo       repository.PostRepo
	engagementRepo repository.EngagementRepo
}

func NewPostMetricService(postMetricRepo repository.PostMetricRepo, postRepo repository.PostRepo, engagementRepo repository.EngagementRepo) PostMetricService {
	return &postMetricServiceImpl{
		postMetricRepo: postMetricRepo,
		postRepo:       postRepo,
		engagementRepo: engagementRepo,
	}
}

func (s *postMetricServiceImpl) SyncPostMetrics(ctx context.Context, day time.Time) (int, error) {
	metricDate := util.GetMidnight(day)
	synced := 0

	var lastID uint64
	for {
		ids, err := s.postRepo.ListPostIDs(ctx, lastID, metricSyncBatchSize)
		if err != nil {
			return synced, err
		}
		if len(ids) == 0 {
			return synced, nil
		}
		lastID = ids[len(ids)-1]

		posts, err := s.postRepo.GetPostByIds(ctx, ids)
		if err != nil {
			return synced, err
		}
		likes, err := s.engagementRepo.BatchLikeCounts(ctx, ids)
		if err != nil {
			return synced, err
		}
		comments, err := s.engagementRepo.BatchCommentCounts(ctx, ids)
		if err != nil {
			return synced, err
		}

		for _, p := range posts {
			metric := &model.PostMetric{
				PostID:        p.ID,
				MetricDate:    metricDate,
				TotalLikes:    likes[p.ID],
				TotalComments: comments[p.ID],
				TotalViews:    p.ViewCount,
			}
			if err = s.postMetricRepo.SaveOrUpdateMetric(ctx, metric); err != nil {
				return synced, err
			}
			synced++
			s.evictMetricCache(ctx, p.ID)
		}
	}
}

func (s *postMetricServiceImpl) GetPostMetrics(ctx context.Context, userID, postID uint64, days int) (*dto.PostTrendDTO, error) {
	key, err := metricCacheKey(postID, days)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.UserID != userID {
		return nil, ErrPermissionDenied
	}

	if redis.Enabled() {
		if val, err := redis.GetValue(ctx, key); err == nil && val != "" {
			var res dto.PostTrendDTO
			if json.Unmarshal([]byte(val), &res) == nil {
				return &res, nil
			}
		}
	}

	now := time.Now()
	start := util.GetMidnight(now).AddDate(0, 0, -(days - 1))
	rawData, err := s.postMetricRepo.GetPostMetrics(ctx, postID, start)
	if err != nil {
		return nil, err
	}

	dataMap := make(map[string]*model.PostMetric, len(rawData))
	for _, m := range rawData {
		dataMap[m.MetricDate.Format(time.DateOnly)] = m
	}

	res := &dto.PostTrendDTO{
		PostID:   postID,
		Days:     days,
		Likes:    make([]*dto.PostMetricDTO, 0, days),
		Comments: make([]*dto.PostMetricDTO, 0, days),
		Views:    make([]*dto.PostMetricDTO, 0, days),
	}

	// 没有快照的日期沿用前一天的累计值
	var lastValid *model.PostMetric
	for i := days - 1; i >= 0; i-- {
		dateStr := util.GetMidnight(now.AddDate(0, 0, -i)).Format(time.DateOnly)

		var l, c, v int64
		if val, ok := dataMap[dateStr]; ok {
			lastValid = val
		}
		if lastValid != nil {
			l, c, v = lastValid.TotalLikes, lastValid.TotalComments, lastValid.TotalViews
		}

		res.Likes = append(res.Likes, &dto.PostMetricDTO{Date: dateStr, Value: l})
		res.Comments = append(res.Comments, &dto.PostMetricDTO{Date: dateStr, Value: c})
		res.Views = append(res.Views, &dto.PostMetricDTO{Date: dateStr, Value: v})
	}

	if redis.Enabled() {
		if payload, err := json.Marshal(res); err == nil {
			ttl := util.GetMidnight(now).AddDate(0, 0, 1).Sub(now)
			if err = redis.SetWithExpiration(ctx, key, payload, ttl); err != nil {
				log.WarnContext(ctx, "cache post metrics failed", "post_id", postID, "err", err)
			}
		}
	}
	return res, nil
}

func (s *postMetricServiceImpl) evictMetricCache(ctx context.Context, postID uint64) {
	if !redis.Enabled() {
		return
	}
	id := strconv.FormatUint(postID, 10)
	_ = redis.DeleteKey(ctx, consts.PostMetrics7DaysKey+id)
	_ = redis.DeleteKey(ctx, consts.PostMetrics30DaysKey+id)
}

func metricCacheKey(postID uint64, days int) (string, error) {
	id := strconv.FormatUint(postID, 10)
	switch days {
	case 7:
		return consts.PostMetrics7DaysKey + id, nil
	case 30:
		return consts.PostMetrics30DaysKey + id, nil
	default:
		return "", ErrInvalidMetricDays
	}
}
