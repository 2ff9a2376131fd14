package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// PostService handles post and group write paths.
type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, groupRepo repository.GroupRepository) *PostService {
	return &PostService{postRepo: postRepo, groupRepo: groupRepo}
}

// CreatePostInput carries the fields accepted when publishing a post.
// GroupSlug nil means an ungrouped post.
type CreatePostInput struct {
	AuthorID  uint
	Text      string
	GroupSlug *string
	ImageURL  string
}

// EditPostInput carries the fields accepted when editing a post. The group
// association can be changed or cleared on edit; authorship and creation
// time cannot.
type EditPostInput struct {
	PostID    uint
	EditorID  uint
	Text      string
	GroupSlug *string
	ImageURL  string
}

// CreatePost validates and stores a new post. A new post does not touch the
// listing cache; the global first page stays stale until its TTL lapses or
// the cache is cleared.
func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	if err := validation.ValidateNotEmpty("text", input.Text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	groupID, err := s.resolveGroup(ctx, input.GroupSlug)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     input.Text,
		ImageURL: input.ImageURL,
		AuthorID: input.AuthorID,
		GroupID:  groupID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// ErrNotPostAuthor marks an edit attempt by someone other than the post's
// author. The boundary turns this into a redirect to the post rather than
// an error response.
var ErrNotPostAuthor = models.NewPermissionError("only the author can edit this post")

// EditPost updates a post's text, image and group association in place.
// Only the author may edit; anyone else gets ErrNotPostAuthor with the
// post untouched.
func (s *PostService) EditPost(ctx context.Context, input EditPostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, input.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != input.EditorID {
		return nil, ErrNotPostAuthor
	}

	if err := validation.ValidateNotEmpty("text", input.Text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	groupID, err := s.resolveGroup(ctx, input.GroupSlug)
	if err != nil {
		return nil, err
	}

	post.Text = input.Text
	post.ImageURL = input.ImageURL
	post.GroupID = groupID
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost returns a post with its author, group and comment count.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) resolveGroup(ctx context.Context, slug *string) (*uint, error) {
	if slug == nil || *slug == "" {
		return nil, nil
	}
	group, err := s.groupRepo.GetBySlug(ctx, *slug)
	if err != nil {
		return nil, err
	}
	return &group.ID, nil
}

// CreateGroup validates and stores a new group.
func (s *PostService) CreateGroup(ctx context.Context, title, slug, description string) (*models.Group, error) {
	if err := validation.ValidateNotEmpty("title", title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateGroupSlug(slug); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	group := &models.Group{Title: title, Slug: slug, Description: description}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroup looks up a single group by slug.
func (s *PostService) GetGroup(ctx context.Context, slug string) (*models.Group, error) {
	return s.groupRepo.GetBySlug(ctx, slug)
}

// ListGroups returns all groups.
func (s *PostService) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.groupRepo.List(ctx)
}

// DeleteGroup removes a group. Its posts survive and become ungrouped.
func (s *PostService) DeleteGroup(ctx context.Context, slug string) error {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.groupRepo.Delete(ctx, group.ID)
}
