package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations. Every List*
// method returns the full ordered candidate set for a visibility scope,
// newest-first; slicing into pages happens above this layer.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	ListAll(ctx context.Context) ([]*models.Post, error)
	ListByGroupID(ctx context.Context, groupID uint) ([]*models.Post, error)
	ListByAuthorID(ctx context.Context, authorID uint) ([]*models.Post, error)
	ListFollowedBy(ctx context.Context, userID uint) ([]*models.Post, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// Update persists edits to text, group, and image. The creation timestamp
// is never touched.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).
		Model(post).
		Select("text", "image_url", "group_id").
		Updates(map[string]any{
			"text":      post.Text,
			"image_url": post.ImageURL,
			"group_id":  post.GroupID,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) ListAll(ctx context.Context) ([]*models.Post, error) {
	return r.list(ctx, r.db.WithContext(ctx))
}

func (r *postRepository) ListByGroupID(ctx context.Context, groupID uint) ([]*models.Post, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("posts.group_id = ?", groupID))
}

func (r *postRepository) ListByAuthorID(ctx context.Context, authorID uint) ([]*models.Post, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("posts.author_id = ?", authorID))
}

// ListFollowedBy returns posts whose author the given user follows.
func (r *postRepository) ListFollowedBy(ctx context.Context, userID uint) ([]*models.Post, error) {
	return r.list(ctx, r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.author_id = posts.author_id").
		Where("follows.user_id = ?", userID))
}

func (r *postRepository) list(ctx context.Context, base *gorm.DB) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(base).
		Preload("Author").
		Preload("Group").
		Order("posts.created_at DESC, posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyPostDetails adds a subquery to fetch the comment count in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count")
}
