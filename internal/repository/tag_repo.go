package repository

import (
	"Agora/internal/model"
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagUsage 标签在时间窗口内被使用的次数
type TagUsage struct {
	Name  string
	Total int64
}

type TagRepo interface {
	TopTagsSince(ctx context.Context, since time.Time, limit int) ([]*TagUsage, error)
}

type tagRepoImpl struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepo {
	return &tagRepoImpl{
		db: db,
	}
}

// TopTagsSince 统计窗口内新建帖子的标签使用次数，次数相同按名称升序
func (s *tagRepoImpl) TopTagsSince(ctx context.Context, since time.Time, limit int) ([]*TagUsage, error) {
	usages := make([]*TagUsage, 0, limit)
	err := s.db.WithContext(ctx).Table("post_tags").
		Select("tags.name AS name, COUNT(*) AS total").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Joins("JOIN posts ON posts.id = post_tags.post_id").
		Where("posts.deleted_at IS NULL AND posts.created_at >= ?", since).
		Group("tags.name").
		Order("total DESC").Order("tags.name ASC").
		Limit(limit).
		Scan(&usages).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "top tags")
	}
	return usages, nil
}

// getOrCreateTags 先用 OnConflict DoNothing 补齐缺失的标签，再一次查回全部
func getOrCreateTags(db *gorm.DB, tagNames []string) ([]*model.Tag, error) {
	tags := make([]*model.Tag, 0, len(tagNames))
	if len(tagNames) == 0 {
		return tags, nil
	}

	now := time.Now()
	for _, name := range tagNames {
		tag := model.Tag{Name: name, CreatedAt: now}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Where("name IN ?", tagNames).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// replacePostTags 删除帖子现有的标签关联并按给定顺序重建，调用方负责事务
func replacePostTags(tx *gorm.DB, postID uint64, tagNames []string) error {
	if err := tx.Where("post_id = ?", postID).Delete(&model.PostTag{}).Error; err != nil {
		return err
	}
	if len(tagNames) == 0 {
		return nil
	}

	tags, err := getOrCreateTags(tx, tagNames)
	if err != nil {
		return err
	}
	idByName := make(map[string]uint64, len(tags))
	for _, t := range tags {
		idByName[t.Name] = t.ID
	}

	links := make([]*model.PostTag, 0, len(tagNames))
	for _, name := range tagNames {
		links = append(links, &model.PostTag{PostID: postID, TagID: idByName[name]})
	}
	return tx.Create(&links).Error
}
