package repository

import (
	"Agora/internal/model"
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// CandidateFilter 候选集过滤条件，Tag 必须是规范化后的标签
type CandidateFilter struct {
	Tag   string
	Since *time.Time
}

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post, tags []string) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post, tags *[]string) error
	DeletePost(ctx context.Context, id uint64) error
	IncrementViews(ctx context.Context, id uint64) error
	CountCandidates(ctx context.Context, filter CandidateFilter) (int64, error)
	ListLatest(ctx context.Context, filter CandidateFilter, offset, limit int) ([]*model.Post, error)
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]*model.Post, error)
	ListPostIDs(ctx context.Context, afterID uint64, limit int) ([]uint64, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

// CreatePost 帖子与标签关联在同一事务中写入
func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post, tags []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return replacePostTags(tx, post.ID, tags)
	})
	return pkgerrors.Wrap(err, "create post")
}

// GetPost 不存在时返回 nil, nil
func (s *PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "get post")
	}
	return &post, nil
}

func (s *PostRepoImpl) GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error) {
	posts := make([]*model.Post, 0, len(ids))
	if len(ids) == 0 {
		return posts, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "get posts by ids")
	}
	return posts, nil
}

// UpdatePost tags 为 nil 时不动标签，非 nil 时整体替换
func (s *PostRepoImpl) UpdatePost(ctx context.Context, post *model.Post, tags *[]string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(post).Select("title", "content", "image_url", "updated_at").Updates(post).Error
		if err != nil {
			return err
		}
		if tags == nil {
			return nil
		}
		return replacePostTags(tx, post.ID, *tags)
	})
	return pkgerrors.Wrap(err, "update post")
}

// DeletePost 删除点赞、评论与标签关联后软删除帖子
func (s *PostRepoImpl) DeletePost(ctx context.Context, id uint64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.PostTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, id).Error
	})
	return pkgerrors.Wrap(err, "delete post")
}

// IncrementViews 原子自增，不更新 updated_at
func (s *PostRepoImpl) IncrementViews(ctx context.Context, id uint64) error {
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
	return pkgerrors.Wrap(err, "increment views")
}

func (s *PostRepoImpl) candidates(ctx context.Context, filter CandidateFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&model.Post{})
	if filter.Tag != "" {
		tagged := s.db.WithContext(ctx).Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", filter.Tag)
		q = q.Where("id IN (?)", tagged)
	}
	if filter.Since != nil {
		q = q.Where("created_at >= ?", *filter.Since)
	}
	return q
}

func (s *PostRepoImpl) CountCandidates(ctx context.Context, filter CandidateFilter) (int64, error) {
	var total int64
	if err := s.candidates(ctx, filter).Count(&total).Error; err != nil {
		return 0, pkgerrors.Wrap(err, "count candidates")
	}
	return total, nil
}

// ListLatest 按创建时间倒序在库内分页
func (s *PostRepoImpl) ListLatest(ctx context.Context, filter CandidateFilter, offset, limit int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0, limit)
	err := s.candidates(ctx, filter).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list latest posts")
	}
	return posts, nil
}

// ListCandidates 只取排序需要的列，用于 hot/discussed 与热门榜
func (s *PostRepoImpl) ListCandidates(ctx context.Context, filter CandidateFilter) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	err := s.candidates(ctx, filter).
		Select("id", "user_id", "created_at", "view_count").
		Find(&posts).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list candidates")
	}
	return posts, nil
}

// ListPostIDs 按 ID 游标遍历未删除的帖子
func (s *PostRepoImpl) ListPostIDs(ctx context.Context, afterID uint64, limit int) ([]uint64, error) {
	ids := make([]uint64, 0, limit)
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list post ids")
	}
	return ids, nil
}
