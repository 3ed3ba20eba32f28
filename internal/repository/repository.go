package repository

import (
	"context"

	"github.com/blogify-api/internal/database"
	"github.com/blogify-api/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// PostRepository defines the interface for post data operations.
// Read methods take the viewer's user id (empty for anonymous) so the
// returned posts carry the viewer-relative liked flag alongside the
// derived likes count.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id, viewerID string) (*models.Post, error)
	List(ctx context.Context, viewerID string) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID, viewerID string) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	ListByPosts(ctx context.Context, postIDs []string) (map[string][]*models.Comment, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// LikeRepository defines the interface for like-set operations. Add and
// Remove are single atomic statements with set semantics keyed on
// (post_id, user_id); they report whether membership actually changed.
type LikeRepository interface {
	Add(ctx context.Context, postID, userID string) (bool, error)
	Remove(ctx context.Context, postID, userID string) (bool, error)
	Exists(ctx context.Context, postID, userID string) (bool, error)
	CountByPost(ctx context.Context, postID string) (int, error)
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User    UserRepository
	Post    PostRepository
	Comment CommentRepository
	Like    LikeRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepo(db),
		Post:    NewPostRepo(db),
		Comment: NewCommentRepo(db),
		Like:    NewLikeRepo(db),
	}
}
