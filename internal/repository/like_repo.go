package repository

import (
	"context"

	"github.com/blogify-api/internal/database"
)

// likeRepo is the concrete implementation of LikeRepository
type likeRepo struct {
	db *database.DB
}

// NewLikeRepo creates a new like repository
func NewLikeRepo(db *database.DB) LikeRepository {
	return &likeRepo{db: db}
}

// Add inserts the user into the post's like-set. The ON CONFLICT guard
// makes concurrent double-likes collapse into one row, so the count can
// never drift from set membership.
func (r *likeRepo) Add(ctx context.Context, postID, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT (post_id, user_id) DO NOTHING",
		postID, userID,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Remove deletes the user from the post's like-set and reports whether
// the user was a member
func (r *likeRepo) Remove(ctx context.Context, postID, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2",
		postID, userID,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Exists checks like-set membership for a user
func (r *likeRepo) Exists(ctx context.Context, postID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)",
		postID, userID,
	).Scan(&exists)
	return exists, err
}

// CountByPost returns the size of a post's like-set
func (r *likeRepo) CountByPost(ctx context.Context, postID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM post_likes WHERE post_id = $1", postID).Scan(&count)
	return count, err
}

// Count returns the total number of likes across all posts
func (r *likeRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM post_likes").Scan(&count)
	return count, err
}
