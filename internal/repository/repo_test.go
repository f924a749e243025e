package repository

import (
	"Agora/internal/api/config"
	"Agora/internal/model"
	"Agora/internal/pkg/database"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGormDB(&config.DBConfig{
		Driver:  database.DriverSQLite,
		DSN:     fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxIdle: 1,
		MaxOpen: 1,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, nickname string) *model.User {
	t.Helper()
	user := &model.User{Email: nickname + "@example.com", Nickname: nickname}
	require.NoError(t, NewUserRepo(db).CreateUser(context.Background(), user))
	return user
}

func seedPost(t *testing.T, db *gorm.DB, userID uint64, title string, tags ...string) *model.Post {
	t.Helper()
	post := &model.Post{UserID: userID, Title: title, Content: title + " content"}
	require.NoError(t, NewPostRepository(db).CreatePost(context.Background(), post, tags))
	return post
}

func TestAddLikeDuplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewEngagementRepo(db)
	user := seedUser(t, db, "alice")
	post := seedPost(t, db, user.ID, "hello")

	created, err := repo.AddLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.AddLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, created)

	count, err := repo.LikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAddLikeConcurrent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewEngagementRepo(db)
	user := seedUser(t, db, "bob")
	post := seedPost(t, db, user.ID, "race")

	var createdCount int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := repo.AddLike(ctx, user.ID, post.ID)
			assert.NoError(t, err)
			if created {
				atomic.AddInt32(&createdCount, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), createdCount)
	count, err := repo.LikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRemoveLikeIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewEngagementRepo(db)
	user := seedUser(t, db, "carol")
	post := seedPost(t, db, user.ID, "p")

	require.NoError(t, repo.RemoveLike(ctx, user.ID, post.ID))

	_, err := repo.AddLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	require.NoError(t, repo.RemoveLike(ctx, user.ID, post.ID))
	require.NoError(t, repo.RemoveLike(ctx, user.ID, post.ID))

	liked, err := repo.IsLikedBy(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestBatchCounts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewEngagementRepo(db)
	u1 := seedUser(t, db, "u1")
	u2 := seedUser(t, db, "u2")
	p1 := seedPost(t, db, u1.ID, "p1")
	p2 := seedPost(t, db, u1.ID, "p2")
	p3 := seedPost(t, db, u2.ID, "p3")

	for _, uid := range []uint64{u1.ID, u2.ID} {
		_, err := repo.AddLike(ctx, uid, p1.ID)
		require.NoError(t, err)
	}
	_, err := repo.AddLike(ctx, u2.ID, p2.ID)
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.Comment{PostID: p2.ID, UserID: u1.ID, Content: "c1"}).Error)
	require.NoError(t, db.Create(&model.Comment{PostID: p2.ID, UserID: u2.ID, Content: "c2"}).Error)
	deleted := &model.Comment{PostID: p3.ID, UserID: u2.ID, Content: "gone"}
	require.NoError(t, db.Create(deleted).Error)
	require.NoError(t, db.Delete(deleted).Error)

	ids := []uint64{p1.ID, p2.ID, p3.ID}
	likes, err := repo.BatchLikeCounts(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), likes[p1.ID])
	assert.Equal(t, int64(1), likes[p2.ID])
	_, ok := likes[p3.ID]
	assert.False(t, ok)

	comments, err := repo.BatchCommentCounts(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), comments[p2.ID])
	assert.Equal(t, int64(0), comments[p3.ID])

	single, err := repo.CommentCount(ctx, p3.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), single)

	liked, err := repo.LikedSetFor(ctx, u2.ID, ids)
	require.NoError(t, err)
	assert.Len(t, liked, 2)
	_, ok = liked[p2.ID]
	assert.True(t, ok)

	anonymous, err := repo.LikedSetFor(ctx, 0, ids)
	require.NoError(t, err)
	assert.Empty(t, anonymous)

	empty, err := repo.BatchLikeCounts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestReplaceTagsRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewEngagementRepo(db)
	user := seedUser(t, db, "erin")
	p := seedPost(t, db, user.ID, "p", "python", "backend")

	// 重复的标签违反 uq_post_tag，整个替换必须回滚
	err := repo.ReplaceTags(ctx, p.ID, []string{"go", "go"})
	require.Error(t, err)

	tags, err := repo.TagsFor(ctx, []uint64{p.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"backend", "python"}, tags[p.ID])

	var goTags int64
	require.NoError(t, db.Model(&model.Tag{}).Where("name = ?", "go").Count(&goTags).Error)
	assert.Zero(t, goTags)
}

func TestTagsForAndReplace(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewEngagementRepo(db)
	user := seedUser(t, db, "dave")
	p1 := seedPost(t, db, user.ID, "p1", "python", "backend")
	p2 := seedPost(t, db, user.ID, "p2")

	tags, err := repo.TagsFor(ctx, []uint64{p1.ID, p2.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"backend", "python"}, tags[p1.ID])
	assert.Empty(t, tags[p2.ID])

	require.NoError(t, repo.ReplaceTags(ctx, p1.ID, []string{"go", "python"}))
	tags, err = repo.TagsFor(ctx, []uint64{p1.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "python"}, tags[p1.ID])

	require.NoError(t, repo.ReplaceTags(ctx, p1.ID, []string{}))
	tags, err = repo.TagsFor(ctx, []uint64{p1.ID})
	require.NoError(t, err)
	assert.Empty(t, tags[p1.ID])

	// 标签行保留，重复使用时不会新建
	var tagRows int64
	require.NoError(t, db.Model(&model.Tag{}).Count(&tagRows).Error)
	assert.Equal(t, int64(3), tagRows)
}

func TestPostRepoCandidates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewPostRepository(db)
	user := seedUser(t, db, "erin")
	old := seedPost(t, db, user.ID, "old", "go")
	fresh := seedPost(t, db, user.ID, "fresh", "go", "rust")
	other := seedPost(t, db, user.ID, "other")

	require.NoError(t, db.Model(&model.Post{}).Where("id = ?", old.ID).
		UpdateColumn("created_at", time.Now().AddDate(0, 0, -10)).Error)

	total, err := repo.CountCandidates(ctx, CandidateFilter{Tag: "go"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	since := time.Now().AddDate(0, 0, -7)
	posts, err := repo.ListCandidates(ctx, CandidateFilter{Since: &since})
	require.NoError(t, err)
	got := make([]uint64, 0, len(posts))
	for _, p := range posts {
		got = append(got, p.ID)
	}
	assert.ElementsMatch(t, []uint64{fresh.ID, other.ID}, got)

	latest, err := repo.ListLatest(ctx, CandidateFilter{}, 0, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, other.ID, latest[0].ID)
	assert.Equal(t, fresh.ID, latest[1].ID)

	require.NoError(t, repo.IncrementViews(ctx, fresh.ID))
	require.NoError(t, repo.IncrementViews(ctx, fresh.ID))
	reloaded, err := repo.GetPost(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), reloaded.ViewCount)
}

func TestDeletePostCascade(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	posts := NewPostRepository(db)
	engagement := NewEngagementRepo(db)
	user := seedUser(t, db, "frank")
	post := seedPost(t, db, user.ID, "bye", "go")
	_, err := engagement.AddLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Comment{PostID: post.ID, UserID: user.ID, Content: "c"}).Error)

	require.NoError(t, posts.DeletePost(ctx, post.ID))

	got, err := posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	var likes, links, comments int64
	require.NoError(t, db.Model(&model.Like{}).Where("post_id = ?", post.ID).Count(&likes).Error)
	require.NoError(t, db.Model(&model.PostTag{}).Where("post_id = ?", post.ID).Count(&links).Error)
	require.NoError(t, db.Unscoped().Model(&model.Comment{}).Where("post_id = ?", post.ID).Count(&comments).Error)
	assert.Zero(t, likes)
	assert.Zero(t, links)
	assert.Zero(t, comments)
}

func TestTopTagsSince(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewTagRepository(db)
	user := seedUser(t, db, "gina")
	seedPost(t, db, user.ID, "a", "python", "backend")
	seedPost(t, db, user.ID, "b", "python", "design")
	seedPost(t, db, user.ID, "c", "backend", "api")
	old := seedPost(t, db, user.ID, "d", "legacy")
	require.NoError(t, db.Model(&model.Post{}).Where("id = ?", old.ID).
		UpdateColumn("created_at", time.Now().AddDate(0, 0, -30)).Error)

	usages, err := repo.TopTagsSince(ctx, time.Now().AddDate(0, 0, -7), 3)
	require.NoError(t, err)
	require.Len(t, usages, 3)
	assert.Equal(t, "backend", usages[0].Name)
	assert.Equal(t, int64(2), usages[0].Total)
	assert.Equal(t, "python", usages[1].Name)
	assert.Equal(t, "api", usages[2].Name)
	assert.Equal(t, int64(1), usages[2].Total)
}

func TestPostMetricUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewPostMetricRepository(db)
	day := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveOrUpdateMetric(ctx, &model.PostMetric{PostID: 1, MetricDate: day, TotalLikes: 1}))
	require.NoError(t, repo.SaveOrUpdateMetric(ctx, &model.PostMetric{PostID: 1, MetricDate: day, TotalLikes: 4, TotalViews: 9}))

	metrics, err := repo.GetPostMetrics(ctx, 1, day.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, int64(4), metrics[0].TotalLikes)
	assert.Equal(t, int64(9), metrics[0].TotalViews)
}
