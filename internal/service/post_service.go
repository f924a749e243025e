package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/kafka"
	"Agora/internal/pkg/minio"
	"Agora/internal/pkg/ranking"
	"Agora/internal/pkg/util"
	"Agora/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

const (
	MaxPageLimit     = 50
	MaxTitleLength   = 50
	MaxContentLength = 10000

	MaxTrendingDays  = 30
	MaxTrendingLimit = 20
	TopTagsLimit     = 10
)

type PostService interface {
	ListPosts(ctx context.Context, viewerID uint64, query *dto.PostListDTO) (*dto.PostPageDTO, error)
	GetPost(ctx context.Context, viewerID uint64, postID uint64) (*dto.PostDTO, error)
	CreatePost(ctx context.Context, userID uint64, postDTO *dto.PostBaseDTO) (*dto.PostDTO, error)
	UpdatePost(ctx context.Context, userID uint64, postID uint64, postDTO *dto.PostBaseDTO) (*dto.PostDTO, error)
	DeletePost(ctx context.Context, userID uint64, postID uint64) error
	Trending(ctx context.Context, viewerID uint64, days, limit int) (*dto.TrendingDTO, error)
}

type postServiceImpl struct {
	postRepo       repository.PostRepo
	engagementRepo repository.EngagementRepo
	tagRepo        repository.TagRepo
	assembler      *postAssembler
	publisher      kafka.Publisher
}

func NewPostService(
	postRepo repository.PostRepo,
	engagementRepo repository.EngagementRepo,
	tagRepo repository.TagRepo,
	userRepo repository.UserRepo,
	publisher kafka.Publisher,
) PostService {
	return &postServiceImpl{
		postRepo:       postRepo,
		engagementRepo: engagementRepo,
		tagRepo:        tagRepo,
		assembler:      newPostAssembler(engagementRepo, userRepo),
		publisher:      publisher,
	}
}

// ListPosts 分页列表，latest 直接在库内分页，hot/discussed 对整个候选集排序后再截取
func (s *postServiceImpl) ListPosts(ctx context.Context, viewerID uint64, query *dto.PostListDTO) (*dto.PostPageDTO, error) {
	if query.Page < 1 || query.Limit < 1 || query.Limit > MaxPageLimit {
		return nil, ErrInvalidPaging
	}
	strategy, err := ranking.ParseStrategy(query.Sort)
	if err != nil {
		return nil, ErrInvalidSort
	}

	var filter repository.CandidateFilter
	if strings.TrimSpace(query.Tag) != "" {
		if filter.Tag, err = NormalizeTag(query.Tag); err != nil {
			return nil, err
		}
	}

	var (
		total int64
		posts []*model.Post
	)
	if strategy.NeedsAggregates() {
		candidates, err := s.rankedCandidates(ctx, filter, strategy)
		if err != nil {
			return nil, err
		}
		total = int64(len(candidates))
		posts, err = s.loadInOrder(ctx, ranking.Paginate(candidates, query.Page, query.Limit))
		if err != nil {
			return nil, err
		}
	} else {
		if total, err = s.postRepo.CountCandidates(ctx, filter); err != nil {
			return nil, err
		}
		offset, ok := ranking.Offset(query.Page, query.Limit)
		if ok && int64(offset) < total {
			if posts, err = s.postRepo.ListLatest(ctx, filter, offset, query.Limit); err != nil {
				return nil, err
			}
		}
	}

	items, err := s.assembler.assemble(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}
	return &dto.PostPageDTO{
		Page:  query.Page,
		Limit: query.Limit,
		Total: total,
		Items: items,
	}, nil
}

// GetPost 每次访问详情都计一次浏览，包括作者本人与重复访问
func (s *postServiceImpl) GetPost(ctx context.Context, viewerID uint64, postID uint64) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if err = s.postRepo.IncrementViews(ctx, postID); err != nil {
		return nil, err
	}
	if post, err = s.postRepo.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	res, err := s.assembler.assembleOne(ctx, viewerID, post)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, consts.EventPostViewed, postID, viewerID, nil)
	return res, nil
}

func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, postDTO *dto.PostBaseDTO) (*dto.PostDTO, error) {
	title, content, err := validatePostFields(postDTO)
	if err != nil {
		return nil, err
	}
	tags := []string{}
	if postDTO.Tags != nil {
		if tags, err = NormalizeTags(*postDTO.Tags); err != nil {
			return nil, err
		}
	}

	post := &model.Post{
		UserID:   userID,
		Title:    title,
		Content:  content,
		ImageURL: normalizeImageRef(postDTO.ImageURL),
	}
	if err = s.postRepo.CreatePost(ctx, post, tags); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "post created", "post_id", post.ID, "user_id", userID, "tags", tags)

	res, err := s.assembler.assembleOne(ctx, userID, post)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, consts.EventPostCreated, post.ID, userID, tags)
	return res, nil
}

// UpdatePost Tags 为 nil 时保留原标签，空数组清空标签；ImageURL 为 nil 时保留原图，空串移除
func (s *postServiceImpl) UpdatePost(ctx context.Context, userID uint64, postID uint64, postDTO *dto.PostBaseDTO) (*dto.PostDTO, error) {
	post, err := s.getOwnedPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	title, content, err := validatePostFields(postDTO)
	if err != nil {
		return nil, err
	}
	var tags *[]string
	if postDTO.Tags != nil {
		normalized, err := NormalizeTags(*postDTO.Tags)
		if err != nil {
			return nil, err
		}
		tags = &normalized
	}

	post.Title = title
	post.Content = content
	if postDTO.ImageURL != nil {
		post.ImageURL = normalizeImageRef(postDTO.ImageURL)
	}
	post.UpdatedAt = time.Now()

	if err = s.postRepo.UpdatePost(ctx, post, tags); err != nil {
		return nil, err
	}

	updated, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPostNotFound
	}
	res, err := s.assembler.assembleOne(ctx, userID, updated)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, consts.EventPostUpdated, postID, userID, res.Tags)
	return res, nil
}

// DeletePost 级联删除点赞、评论与标签关联，图片清理失败不影响删除结果
func (s *postServiceImpl) DeletePost(ctx context.Context, userID uint64, postID uint64) error {
	post, err := s.getOwnedPost(ctx, userID, postID)
	if err != nil {
		return err
	}

	if err = s.postRepo.DeletePost(ctx, postID); err != nil {
		return err
	}

	if post.ImageURL != nil && minio.IsEnabled() && minio.IsObjectKey(*post.ImageURL) {
		objectKey := *post.ImageURL
		go func() {
			cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			if err := minio.DeleteFile(cleanupCtx, objectKey); err != nil {
				log.WarnContext(cleanupCtx, "delete post image failed", "post_id", postID, "key", objectKey, "err", err)
			}
		}()
	}

	s.publish(ctx, consts.EventPostDeleted, postID, userID, nil)
	return nil
}

// Trending 窗口为 created_at >= now - days，热门标签的统计与入选帖子无关
func (s *postServiceImpl) Trending(ctx context.Context, viewerID uint64, days, limit int) (*dto.TrendingDTO, error) {
	if days < 1 || days > MaxTrendingDays || limit < 1 || limit > MaxTrendingLimit {
		return nil, ErrInvalidTrendingParams
	}
	since := time.Now().AddDate(0, 0, -days)

	var (
		top    []ranking.Candidate
		usages []*repository.TagUsage
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		candidates, err := s.rankedCandidates(gCtx, repository.CandidateFilter{Since: &since}, ranking.Hot)
		if err != nil {
			return err
		}
		top = ranking.TopK(candidates, limit)
		return nil
	})
	g.Go(func() (err error) {
		usages, err = s.tagRepo.TopTagsSince(gCtx, since, TopTagsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	posts, err := s.loadInOrder(ctx, top)
	if err != nil {
		return nil, err
	}
	items, err := s.assembler.assemble(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}

	scores := make(map[uint64]float64, len(top))
	for _, c := range top {
		scores[c.PostID] = c.Score()
	}
	for _, item := range items {
		score := scores[item.ID]
		item.Score = &score
	}

	topTags := make([]*dto.TagCountDTO, 0, len(usages))
	for _, u := range usages {
		topTags = append(topTags, &dto.TagCountDTO{Name: u.Name, Count: u.Total})
	}

	return &dto.TrendingDTO{
		Days:    days,
		Since:   since,
		Posts:   items,
		TopTags: topTags,
	}, nil
}

// rankedCandidates 取出候选集并附上聚合数据后排序
func (s *postServiceImpl) rankedCandidates(ctx context.Context, filter repository.CandidateFilter, strategy ranking.Strategy) ([]ranking.Candidate, error) {
	posts, err := s.postRepo.ListCandidates(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []ranking.Candidate{}, nil
	}

	ids := make([]uint64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	var likes, comments map[uint64]int64
	g, gCtx := errgroup.WithContext(ctx)
	if strategy == ranking.Hot {
		g.Go(func() (err error) {
			likes, err = s.engagementRepo.BatchLikeCounts(gCtx, ids)
			return err
		})
	}
	g.Go(func() (err error) {
		comments, err = s.engagementRepo.BatchCommentCounts(gCtx, ids)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	candidates := make([]ranking.Candidate, 0, len(posts))
	for _, p := range posts {
		candidates = append(candidates, ranking.Candidate{
			PostID:       p.ID,
			CreatedAt:    p.CreatedAt,
			ViewCount:    p.ViewCount,
			LikeCount:    likes[p.ID],
			CommentCount: comments[p.ID],
		})
	}
	ranking.Sort(candidates, strategy)
	return candidates, nil
}

// loadInOrder 按排序结果的顺序加载帖子，期间被删除的帖子直接跳过
func (s *postServiceImpl) loadInOrder(ctx context.Context, ranked []ranking.Candidate) ([]*model.Post, error) {
	if len(ranked) == 0 {
		return []*model.Post{}, nil
	}
	ids := make([]uint64, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.PostID)
	}

	posts, err := s.postRepo.GetPostByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	ordered := make([]*model.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (s *postServiceImpl) getOwnedPost(ctx context.Context, userID, postID uint64) (*model.Post, error) {
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
	return post, nil
}

func (s *postServiceImpl) publish(ctx context.Context, eventType string, postID, userID uint64, tags []string) {
	s.publisher.Publish(ctx, kafka.FeedEvent{
		Type:   eventType,
		PostID: postID,
		UserID: userID,
		Tags:   tags,
	})
}

// validatePostFields 返回去除首尾空白后的标题与正文
func validatePostFields(postDTO *dto.PostBaseDTO) (string, string, error) {
	if err := util.ValidateDTO(postDTO); err != nil {
		return "", "", ErrParamInvalid
	}
	title := strings.TrimSpace(postDTO.Title)
	content := strings.TrimSpace(postDTO.Content)
	if title == "" || content == "" {
		return "", "", ErrMissingRequiredFields
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", "", ErrTitleTooLong
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return "", "", ErrContentTooLong
	}
	return title, content, nil
}

func normalizeImageRef(ref *string) *string {
	trimmed := strings.TrimSpace(util.DerefString(ref))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
