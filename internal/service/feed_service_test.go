package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/cache"
	"inkwell/internal/models"
)

func makePosts(n int) []*models.Post {
	posts := make([]*models.Post, n)
	for i := range posts {
		posts[i] = &models.Post{ID: uint(n - i), Text: fmt.Sprintf("post %d", n-i)}
	}
	return posts
}

func newFeedService(posts *postRepoStub, groups *groupRepoStub, users *userRepoStub, follows *followRepoStub) *FeedService {
	return NewFeedService(posts, groups, users, follows, cache.NewListingCache(nil))
}

func TestFeedServiceIndexPageSplits(t *testing.T) {
	posts := noopPostRepo()
	posts.listAllFn = func(context.Context) ([]*models.Post, error) {
		return makePosts(13), nil
	}

	svc := newFeedService(posts, noopGroupRepo(), noopUserRepo(), noopFollowRepo())
	page, err := svc.IndexPage(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 10 || page.TotalPages != 2 || !page.HasNext {
		t.Fatalf("unexpected first page: %d items, %d pages", len(page.Items), page.TotalPages)
	}
	if page.Items[0].ID != 13 {
		t.Fatalf("expected newest first, got id %d", page.Items[0].ID)
	}

	last, err := svc.IndexPage(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(last.Items) != 3 || last.HasNext {
		t.Fatalf("unexpected last page: %d items", len(last.Items))
	}
}

func TestFeedServiceIndexPageClampsOutOfRange(t *testing.T) {
	posts := noopPostRepo()
	posts.listAllFn = func(context.Context) ([]*models.Post, error) {
		return makePosts(13), nil
	}

	svc := newFeedService(posts, noopGroupRepo(), noopUserRepo(), noopFollowRepo())
	page, err := svc.IndexPage(context.Background(), 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Number != 2 || len(page.Items) != 3 {
		t.Fatalf("expected clamp to last page, got page %d with %d items", page.Number, len(page.Items))
	}
}

func TestFeedServiceIndexFirstPageStaleUntilTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := makePosts(3)
	posts := noopPostRepo()
	fetches := 0
	posts.listAllFn = func(context.Context) ([]*models.Post, error) {
		fetches++
		return store, nil
	}

	svc := NewFeedService(posts, noopGroupRepo(), noopUserRepo(), noopFollowRepo(), cache.NewListingCache(client))
	ctx := context.Background()

	first, err := svc.IndexPage(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetches != 1 || len(first.Items) != 3 {
		t.Fatalf("expected one fetch of 3 posts, got %d fetches, %d items", fetches, len(first.Items))
	}

	// A new post is visible to the store but the cached page keeps serving
	// the old snapshot.
	store = append([]*models.Post{{ID: 50, Text: "fresh"}}, store...)
	cached, err := svc.IndexPage(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetches != 1 || len(cached.Items) != 3 {
		t.Fatalf("expected cached stale page, got %d fetches, %d items", fetches, len(cached.Items))
	}

	mr.FastForward(cache.ListingTTL)
	refreshed, err := svc.IndexPage(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetches != 2 || len(refreshed.Items) != 4 {
		t.Fatalf("expected refetch after TTL, got %d fetches, %d items", fetches, len(refreshed.Items))
	}
}

func TestFeedServiceClearListingCacheForcesRefetch(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	posts := noopPostRepo()
	fetches := 0
	posts.listAllFn = func(context.Context) ([]*models.Post, error) {
		fetches++
		return makePosts(2), nil
	}

	svc := NewFeedService(posts, noopGroupRepo(), noopUserRepo(), noopFollowRepo(), cache.NewListingCache(client))
	ctx := context.Background()

	if _, err := svc.IndexPage(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.IndexPage(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetches != 1 {
		t.Fatalf("expected cached second read, got %d fetches", fetches)
	}

	if err := svc.ClearListingCache(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.IndexPage(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetches != 2 {
		t.Fatalf("expected refetch after clear, got %d fetches", fetches)
	}
}

func TestFeedServiceDefaultPageSharesFirstPageCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	posts := noopPostRepo()
	fetches := 0
	posts.listAllFn = func(context.Context) ([]*models.Post, error) {
		fetches++
		return makePosts(3), nil
	}

	svc := NewFeedService(posts, noopGroupRepo(), noopUserRepo(), noopFollowRepo(), cache.NewListingCache(client))
	ctx := context.Background()

	// Zero is what the boundary passes when the request carries no page
	// parameter. Two default reads must share one cached snapshot.
	for i := 0; i < 2; i++ {
		page, err := svc.IndexPage(ctx, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Number != 1 || len(page.Items) != 3 {
			t.Fatalf("expected first page with 3 items, got page %d with %d", page.Number, len(page.Items))
		}
	}
	if fetches != 1 {
		t.Fatalf("default first-page reads must share the cached entry, got %d fetches", fetches)
	}

	// An explicit ?page=1 reader sees the same snapshot, not a fresh one.
	if _, err := svc.IndexPage(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetches != 1 {
		t.Fatalf("explicit page 1 must reuse the default readers' entry, got %d fetches", fetches)
	}
}

func TestFeedServiceSecondPageNeverCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	posts := noopPostRepo()
	fetches := 0
	posts.listAllFn = func(context.Context) ([]*models.Post, error) {
		fetches++
		return makePosts(13), nil
	}

	svc := NewFeedService(posts, noopGroupRepo(), noopUserRepo(), noopFollowRepo(), cache.NewListingCache(client))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.IndexPage(ctx, 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if fetches != 3 {
		t.Fatalf("page 2 reads must always hit the store, got %d fetches", fetches)
	}
}

func TestFeedServiceGroupPageUnknownSlug(t *testing.T) {
	groups := noopGroupRepo()
	groups.getBySlugFn = func(_ context.Context, slug string) (*models.Group, error) {
		return nil, models.NewNotFoundError("group", slug)
	}

	svc := newFeedService(noopPostRepo(), groups, noopUserRepo(), noopFollowRepo())
	_, _, err := svc.GroupPage(context.Background(), "ghost", 1)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "NOT_FOUND" {
		t.Fatalf("expected not-found app error, got %#v", err)
	}
}

func TestFeedServiceGroupPageEmptyGroup(t *testing.T) {
	groups := noopGroupRepo()
	groups.getBySlugFn = func(context.Context, string) (*models.Group, error) {
		return &models.Group{ID: 1, Slug: "quiet"}, nil
	}

	svc := newFeedService(noopPostRepo(), groups, noopUserRepo(), noopFollowRepo())
	group, page, err := svc.GroupPage(context.Background(), "quiet", 1)
	if err != nil {
		t.Fatalf("an empty group is a valid page, got %v", err)
	}
	if group.Slug != "quiet" || len(page.Items) != 0 || page.TotalPages != 1 {
		t.Fatalf("unexpected empty group page: %+v", page)
	}
}

func TestFeedServiceProfilePageFollowingFlag(t *testing.T) {
	users := noopUserRepo()
	users.getByUsernameFn = func(context.Context, string) (*models.User, error) {
		return &models.User{ID: 2, Username: "author"}, nil
	}
	follows := noopFollowRepo()
	follows.existsFn = func(_ context.Context, userID, authorID uint) (bool, error) {
		return userID == 1 && authorID == 2, nil
	}

	svc := newFeedService(noopPostRepo(), noopGroupRepo(), users, follows)

	_, following, _, err := svc.ProfilePage(context.Background(), "author", 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !following {
		t.Fatal("expected following flag for follower viewer")
	}

	_, following, _, err = svc.ProfilePage(context.Background(), "author", 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if following {
		t.Fatal("anonymous viewer never follows")
	}
}

func TestFeedServiceFeedPageUsesFollowScope(t *testing.T) {
	posts := noopPostRepo()
	posts.listFollowedByFn = func(_ context.Context, userID uint) ([]*models.Post, error) {
		if userID != 4 {
			t.Fatalf("wrong viewer %d", userID)
		}
		return makePosts(2), nil
	}

	svc := newFeedService(posts, noopGroupRepo(), noopUserRepo(), noopFollowRepo())
	page, err := svc.FeedPage(context.Background(), 4, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 followed posts, got %d", len(page.Items))
	}
}
