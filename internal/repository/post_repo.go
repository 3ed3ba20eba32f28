package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/blogify-api/internal/database"
	"github.com/blogify-api/internal/models"
)

// postRepo is the concrete implementation of PostRepository
type postRepo struct {
	db *database.DB
}

// NewPostRepo creates a new post repository
func NewPostRepo(db *database.DB) PostRepository {
	return &postRepo{db: db}
}

// postSelect joins the author and derives likes_count and the
// viewer-relative liked flag in a single statement, so reads never race
// with like mutations. $1 is the viewer id (empty for anonymous).
const postSelect = `
	SELECT p.id, p.heading, p.content, p.author_id, u.username, u.email,
	       p.created_at, p.updated_at,
	       (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) AS likes_count,
	       EXISTS(SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = $1) AS liked
	FROM posts p
	JOIN users u ON u.id = p.author_id
`

func scanPost(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Post, error) {
	var post models.Post
	var author models.UserRef

	err := scanner.Scan(
		&post.ID, &post.Heading, &post.Content, &author.ID, &author.Username, &author.Email,
		&post.CreatedAt, &post.UpdatedAt, &post.LikesCount, &post.Liked,
	)
	if err != nil {
		return nil, err
	}

	post.AuthorID = author.ID
	post.Author = &author
	post.Comments = []*models.Comment{}
	return &post, nil
}

// Create inserts a new post
func (r *postRepo) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, heading, content, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.Heading, post.Content, post.AuthorID, post.CreatedAt, post.UpdatedAt,
	)
	return err
}

// GetByID retrieves a post by ID with author, likes count and liked flag
func (r *postRepo) GetByID(ctx context.Context, id, viewerID string) (*models.Post, error) {
	row := r.db.QueryRowContext(ctx, postSelect+" WHERE p.id = $2", viewerID, id)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// List retrieves all posts, newest first
func (r *postRepo) List(ctx context.Context, viewerID string) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, postSelect+" ORDER BY p.created_at DESC", viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPosts(rows)
}

// ListByAuthor retrieves all posts by the given author, newest first
func (r *postRepo) ListByAuthor(ctx context.Context, authorID, viewerID string) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, postSelect+" WHERE p.author_id = $2 ORDER BY p.created_at DESC", viewerID, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPosts(rows)
}

func collectPosts(rows *sql.Rows) ([]*models.Post, error) {
	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Update saves a post's heading and content
func (r *postRepo) Update(ctx context.Context, post *models.Post) error {
	query := `UPDATE posts SET heading = $1, content = $2, updated_at = $3 WHERE id = $4`
	post.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query, post.Heading, post.Content, post.UpdatedAt, post.ID)
	return err
}

// Delete removes a post; comments and likes cascade via foreign keys
func (r *postRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	return err
}

// Count returns the total number of posts
func (r *postRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count)
	return count, err
}
