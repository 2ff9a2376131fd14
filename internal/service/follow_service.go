package service

import (
	"context"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// FollowService manages the directed follow edge between users. The edge has
// exactly two states, absent and present; every transition is idempotent.
type FollowService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *FollowService {
	return &FollowService{userRepo: userRepo, followRepo: followRepo}
}

// FollowResult reports what a Follow call did. SelfFollow means the request
// targeted the caller themselves and was silently skipped. Created is false
// when the edge already existed.
type FollowResult struct {
	Author     *models.User
	SelfFollow bool
	Created    bool
}

// Follow ensures an edge from follower to the named author. Following an
// unknown username is a NotFound. Following yourself is not an error; it is
// a no-op and the state stays absent. Repeating a follow leaves the single
// existing edge untouched.
func (s *FollowService) Follow(ctx context.Context, followerID uint, username string) (*FollowResult, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if author.ID == followerID {
		middleware.FollowTransitions.WithLabelValues("self_skip").Inc()
		return &FollowResult{Author: author, SelfFollow: true}, nil
	}

	created, err := s.followRepo.GetOrCreate(ctx, followerID, author.ID)
	if err != nil {
		return nil, err
	}

	if created {
		middleware.FollowTransitions.WithLabelValues("created").Inc()
	} else {
		middleware.FollowTransitions.WithLabelValues("repeat").Inc()
	}
	return &FollowResult{Author: author, Created: created}, nil
}

// Unfollow removes the edge from follower to the named author. Removing an
// edge that does not exist is a NotFound, as is an unknown username.
func (s *FollowService) Unfollow(ctx context.Context, followerID uint, username string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.followRepo.Delete(ctx, followerID, author.ID); err != nil {
		return nil, err
	}

	middleware.FollowTransitions.WithLabelValues("removed").Inc()
	return author, nil
}

// IsFollowing reports whether follower currently follows the named author.
func (s *FollowService) IsFollowing(ctx context.Context, followerID uint, username string) (bool, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if author.ID == followerID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, followerID, author.ID)
}
