package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/blogify-api/internal/database"
	"github.com/blogify-api/internal/models"
	"github.com/lib/pq"
)

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

const commentSelect = `
	SELECT c.id, c.post_id, c.user_id, u.username, u.email, c.text, c.created_at, c.updated_at
	FROM comments c
	JOIN users u ON u.id = c.user_id
`

func scanComment(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Comment, error) {
	var comment models.Comment
	var user models.UserRef

	err := scanner.Scan(
		&comment.ID, &comment.PostID, &user.ID, &user.Username, &user.Email,
		&comment.Text, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	comment.UserID = user.ID
	comment.User = &user
	return &comment, nil
}

// Create inserts a new comment
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, user_id, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.PostID, comment.UserID, comment.Text, comment.CreatedAt, comment.UpdatedAt,
	)
	return err
}

// GetByID retrieves a comment by ID with its author populated
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	row := r.db.QueryRowContext(ctx, commentSelect+" WHERE c.id = $1", id)

	comment, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByPost retrieves all comments on a post in insertion order
func (r *commentRepo) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, commentSelect+" WHERE c.post_id = $1 ORDER BY c.created_at", postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectComments(rows)
}

// ListByPosts retrieves comments for a set of posts in one round trip,
// grouped by post id
func (r *commentRepo) ListByPosts(ctx context.Context, postIDs []string) (map[string][]*models.Comment, error) {
	grouped := make(map[string][]*models.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return grouped, nil
	}

	rows, err := r.db.QueryContext(ctx, commentSelect+" WHERE c.post_id = ANY($1) ORDER BY c.created_at", pq.Array(postIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments, err := collectComments(rows)
	if err != nil {
		return nil, err
	}

	for _, comment := range comments {
		grouped[comment.PostID] = append(grouped[comment.PostID], comment)
	}
	return grouped, nil
}

func collectComments(rows *sql.Rows) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// Delete removes a comment by ID
func (r *commentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	return err
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments").Scan(&count)
	return count, err
}
