package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/kafka"
	"Agora/internal/repository"
	"context"
)

type PostActionService interface {
	LikePost(ctx context.Context, userID, postID uint64) (*dto.LikeStateDTO, error)
	UnlikePost(ctx context.Context, userID, postID uint64) (*dto.LikeStateDTO, error)
}

type postActionServiceImpl struct {
	engagementRepo repository.EngagementRepo
	postRepo       repository.PostRepo
	publisher      kafka.Publisher
}

func NewPostActionService(engagementRepo repository.EngagementRepo, postRepo repository.PostRepo, publisher kafka.Publisher) PostActionService {
	return &postActionServiceImpl{
		engagementRepo: engagementRepo,
		postRepo:       postRepo,
		publisher:      publisher,
	}
}

// LikePost 重复点赞返回 ErrAlreadyLiked，点赞数不变
func (s *postActionServiceImpl) LikePost(ctx context.Context, userID, postID uint64) (*dto.LikeStateDTO, error) {
	err := s.performAction(s.getPostCheck(ctx, postID), func() (bool, error) {
		return s.engagementRepo.AddLike(ctx, userID, postID)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, kafka.FeedEvent{Type: consts.EventPostLiked, PostID: postID, UserID: userID})
	return s.likeState(ctx, postID, true)
}

// UnlikePost 从未点赞过也返回成功
func (s *postActionServiceImpl) UnlikePost(ctx context.Context, userID, postID uint64) (*dto.LikeStateDTO, error) {
	err := s.revokeAction(s.getPostCheck(ctx, postID), func() error {
		return s.engagementRepo.RemoveLike(ctx, userID, postID)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, kafka.FeedEvent{Type: consts.EventPostUnliked, PostID: postID, UserID: userID})
	return s.likeState(ctx, postID, false)
}

func (s *postActionServiceImpl) likeState(ctx context.Context, postID uint64, liked bool) (*dto.LikeStateDTO, error) {
	count, err := s.engagementRepo.LikeCount(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeStateDTO{PostID: postID, LikesCount: count, IsLiked: liked}, nil
}

// performAction 由唯一索引判定重复，不做先查后插
func (s *postActionServiceImpl) performAction(checkFunc func() error, repoFunc func() (bool, error)) error {
	if err := checkFunc(); err != nil {
		return err
	}
	created, err := repoFunc()
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadyLiked
	}
	return nil
}

func (s *postActionServiceImpl) revokeAction(checkFunc func() error, repoFunc func() error) error {
	if err := checkFunc(); err != nil {
		return err
	}
	return repoFunc()
}

func (s *postActionServiceImpl) getPostCheck(ctx context.Context, postID uint64) func() error {
	return func() error {
		post, err := s.postRepo.GetPost(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}
		return nil
	}
}
