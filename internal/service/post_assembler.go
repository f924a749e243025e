package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/minio"
	"Agora/internal/pkg/util"
	"Agora/internal/repository"
	"context"

	"github.com/jinzhu/copier"
	"golang.org/x/sync/errgroup"
)

// postAssembler 把一页帖子补全为 PostDTO，所有关联数据按整页批量查询
type postAssembler struct {
	engagementRepo repository.EngagementRepo
	userRepo       repository.UserRepo
}

func newPostAssembler(engagementRepo repository.EngagementRepo, userRepo repository.UserRepo) *postAssembler {
	return &postAssembler{
		engagementRepo: engagementRepo,
		userRepo:       userRepo,
	}
}

// assemble 输出顺序与 posts 一致
func (a *postAssembler) assemble(ctx context.Context, viewerID uint64, posts []*model.Post) ([]*dto.PostDTO, error) {
	items := make([]*dto.PostDTO, 0, len(posts))
	if len(posts) == 0 {
		return items, nil
	}

	postIDs := make([]uint64, 0, len(posts))
	authorIDs := make([]uint64, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		authorIDs = append(authorIDs, p.UserID)
	}
	authorIDs = util.UniqueUint64(authorIDs)

	var (
		likes    map[uint64]int64
		comments map[uint64]int64
		tags     map[uint64][]string
		liked    map[uint64]struct{}
		authors  []*model.User
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		likes, err = a.engagementRepo.BatchLikeCounts(gCtx, postIDs)
		return err
	})
	g.Go(func() (err error) {
		comments, err = a.engagementRepo.BatchCommentCounts(gCtx, postIDs)
		return err
	})
	g.Go(func() (err error) {
		tags, err = a.engagementRepo.TagsFor(gCtx, postIDs)
		return err
	})
	g.Go(func() (err error) {
		liked, err = a.engagementRepo.LikedSetFor(gCtx, viewerID, postIDs)
		return err
	})
	g.Go(func() (err error) {
		authors, err = a.userRepo.GetUserByIds(gCtx, authorIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	authorMap := make(map[uint64]*model.User, len(authors))
	for _, u := range authors {
		authorMap[u.ID] = u
	}

	for _, p := range posts {
		item := &dto.PostDTO{}
		if err := copier.Copy(item, p); err != nil {
			return nil, err
		}
		if p.ImageURL != nil {
			item.ImageURL = util.PtrString(minio.GetPublicURL(*p.ImageURL))
		}

		item.LikesCount = likes[p.ID]
		item.CommentsCount = comments[p.ID]
		item.Tags = tags[p.ID]
		if item.Tags == nil {
			item.Tags = []string{}
		}
		_, item.IsLiked = liked[p.ID]
		item.IsAuthor = viewerID != 0 && viewerID == p.UserID
		item.Author = toAuthorDTO(p.UserID, authorMap[p.UserID])

		items = append(items, item)
	}
	return items, nil
}

// assembleOne 单个帖子的详情
func (a *postAssembler) assembleOne(ctx context.Context, viewerID uint64, post *model.Post) (*dto.PostDTO, error) {
	items, err := a.assemble(ctx, viewerID, []*model.Post{post})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

// toAuthorDTO 账号已注销时只保留 ID
func toAuthorDTO(userID uint64, user *model.User) dto.AuthorDTO {
	author := dto.AuthorDTO{ID: userID, Nickname: consts.DefaultNickname}
	if user == nil {
		return author
	}
	author.Nickname = user.Nickname
	if user.ProfileImageURL != nil {
		author.ProfileImageURL = util.PtrString(minio.GetPublicURL(*user.ProfileImageURL))
	}
	return author
}
