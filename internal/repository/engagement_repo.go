package repository

import (
	"Agora/internal/model"
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// EngagementRepo 点赞、评论数与标签的读写，批量方法用于整页渲染
type EngagementRepo interface {
	LikeCount(ctx context.Context, postID uint64) (int64, error)
	CommentCount(ctx context.Context, postID uint64) (int64, error)
	BatchLikeCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
	BatchCommentCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
	TagsFor(ctx context.Context, postIDs []uint64) (map[uint64][]string, error)
	IsLikedBy(ctx context.Context, userID, postID uint64) (bool, error)
	LikedSetFor(ctx context.Context, userID uint64, postIDs []uint64) (map[uint64]struct{}, error)
	AddLike(ctx context.Context, userID, postID uint64) (bool, error)
	RemoveLike(ctx context.Context, userID, postID uint64) error
	ReplaceTags(ctx context.Context, postID uint64, tags []string) error
}

type EngagementRepoImpl struct {
	db *gorm.DB
}

func NewEngagementRepo(db *gorm.DB) EngagementRepo {
	return &EngagementRepoImpl{db}
}

type postCount struct {
	PostID uint64
	Total  int64
}

func (s *EngagementRepoImpl) LikeCount(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, pkgerrors.Wrap(err, "like count")
}

func (s *EngagementRepoImpl) CommentCount(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, pkgerrors.Wrap(err, "comment count")
}

// BatchLikeCounts 没有点赞的帖子不出现在结果中，读取时按 0 处理
func (s *EngagementRepoImpl) BatchLikeCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	counts, err := s.groupCount(s.db.WithContext(ctx).Model(&model.Like{}), postIDs)
	return counts, pkgerrors.Wrap(err, "batch like counts")
}

func (s *EngagementRepoImpl) BatchCommentCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	q := s.db.WithContext(ctx).Model(&model.Comment{}).Where("deleted_at IS NULL")
	counts, err := s.groupCount(q, postIDs)
	return counts, pkgerrors.Wrap(err, "batch comment counts")
}

func (s *EngagementRepoImpl) groupCount(q *gorm.DB, postIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []postCount
	err := q.Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.PostID] = r.Total
	}
	return counts, nil
}

// TagsFor 每个帖子的标签按字典序排列
func (s *EngagementRepoImpl) TagsFor(ctx context.Context, postIDs []uint64) (map[uint64][]string, error) {
	tags := make(map[uint64][]string, len(postIDs))
	if len(postIDs) == 0 {
		return tags, nil
	}

	var rows []struct {
		PostID uint64
		Name   string
	}
	err := s.db.WithContext(ctx).Table("post_tags").
		Select("post_tags.post_id AS post_id, tags.name AS name").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("post_tags.post_id IN ?", postIDs).
		Order("post_tags.post_id ASC").Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "tags for posts")
	}
	for _, r := range rows {
		tags[r.PostID] = append(tags[r.PostID], r.Name)
	}
	return tags, nil
}

func (s *EngagementRepoImpl) IsLikedBy(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, pkgerrors.Wrap(err, "is liked by")
}

func (s *EngagementRepoImpl) LikedSetFor(ctx context.Context, userID uint64, postIDs []uint64) (map[uint64]struct{}, error) {
	liked := make(map[uint64]struct{})
	if userID == 0 || len(postIDs) == 0 {
		return liked, nil
	}

	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "liked set")
	}
	for _, id := range ids {
		liked[id] = struct{}{}
	}
	return liked, nil
}

// AddLike 直接插入，由 uq_like_user_post 判定是否重复，重复时返回 created=false
func (s *EngagementRepoImpl) AddLike(ctx context.Context, userID, postID uint64) (bool, error) {
	err := s.db.WithContext(ctx).Create(&model.Like{UserID: userID, PostID: postID}).Error
	if err != nil {
		if isDuplicateError(err) {
			return false, nil
		}
		return false, pkgerrors.Wrap(err, "add like")
	}
	return true, nil
}

// RemoveLike 不存在时也视为成功
func (s *EngagementRepoImpl) RemoveLike(ctx context.Context, userID, postID uint64) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Like{}).Error
	return pkgerrors.Wrap(err, "remove like")
}

// ReplaceTags 删除旧关联与写入新关联在同一事务内完成
func (s *EngagementRepoImpl) ReplaceTags(ctx context.Context, postID uint64, tags []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replacePostTags(tx, postID, tags)
	})
	return pkgerrors.Wrap(err, "replace tags")
}
