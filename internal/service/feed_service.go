// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/pagination"
	"inkwell/internal/repository"
)

// PostPage is one page of a post listing.
type PostPage = pagination.Page[*models.Post]

// FeedService resolves which posts are visible in a scope and slices them
// into pages. Scopes are read-only: every call recomputes from current
// store state, except the global first page, which may be served from the
// listing cache.
type FeedService struct {
	postRepo   repository.PostRepository
	groupRepo  repository.GroupRepository
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	listing    *cache.ListingCache
}

// NewFeedService returns a new FeedService.
func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	listing *cache.ListingCache,
) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		groupRepo:  groupRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		listing:    listing,
	}
}

// IndexPage returns the global listing page. The first page is the only
// cacheable one: a single shared entry with no viewer-specific content.
// Anything below 2 — including the zero an absent page parameter maps to —
// resolves to that first page, so default readers and explicit ?page=1
// readers share one snapshot. New posts do not invalidate it; staleness is
// bounded by the cache TTL.
func (s *FeedService) IndexPage(ctx context.Context, pageNumber int) (PostPage, error) {
	if pageNumber <= 1 {
		var page PostPage
		hit, err := s.listing.Aside(ctx, &page, func() error {
			fresh, fetchErr := s.fetchIndexPage(ctx, 1)
			if fetchErr != nil {
				return fetchErr
			}
			page = fresh
			return nil
		})
		if err != nil {
			return PostPage{}, err
		}
		if hit {
			middleware.ListingCacheReads.WithLabelValues("hit").Inc()
		} else {
			middleware.ListingCacheReads.WithLabelValues("miss").Inc()
		}
		return page, nil
	}

	return s.fetchIndexPage(ctx, pageNumber)
}

func (s *FeedService) fetchIndexPage(ctx context.Context, pageNumber int) (PostPage, error) {
	posts, err := s.postRepo.ListAll(ctx)
	if err != nil {
		return PostPage{}, err
	}
	return pagination.Paginate(posts, pagination.DefaultPageSize, pageNumber), nil
}

// GroupPage returns the listing for a group scope. An unknown slug is a
// NotFound, never an empty page.
func (s *FeedService) GroupPage(ctx context.Context, slug string, pageNumber int) (*models.Group, PostPage, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, PostPage{}, err
	}

	posts, err := s.postRepo.ListByGroupID(ctx, group.ID)
	if err != nil {
		return nil, PostPage{}, err
	}
	return group, pagination.Paginate(posts, pagination.DefaultPageSize, pageNumber), nil
}

// ProfilePage returns an author's listing plus whether the viewer follows
// them. viewerID zero means an anonymous viewer.
func (s *FeedService) ProfilePage(ctx context.Context, username string, viewerID uint, pageNumber int) (*models.User, bool, PostPage, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, false, PostPage{}, err
	}

	posts, err := s.postRepo.ListByAuthorID(ctx, author.ID)
	if err != nil {
		return nil, false, PostPage{}, err
	}

	following := false
	if viewerID != 0 && viewerID != author.ID {
		following, err = s.followRepo.Exists(ctx, viewerID, author.ID)
		if err != nil {
			return nil, false, PostPage{}, err
		}
	}

	return author, following, pagination.Paginate(posts, pagination.DefaultPageSize, pageNumber), nil
}

// FeedPage returns the personalized listing of posts by authors the viewer
// follows. Callers guarantee an authenticated viewer; the boundary rejects
// anonymous access to this scope before it reaches the engine.
func (s *FeedService) FeedPage(ctx context.Context, viewerID uint, pageNumber int) (PostPage, error) {
	posts, err := s.postRepo.ListFollowedBy(ctx, viewerID)
	if err != nil {
		return PostPage{}, err
	}
	return pagination.Paginate(posts, pagination.DefaultPageSize, pageNumber), nil
}

// ClearListingCache drops the cached global listing immediately. Exposed
// for administrative and test tooling.
func (s *FeedService) ClearListingCache(ctx context.Context) error {
	return s.listing.Clear(ctx)
}
