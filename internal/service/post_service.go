package service

import (
	"context"

	"github.com/blogify-api/internal/models"
	"github.com/blogify-api/internal/repository"
	"github.com/blogify-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// postService is the concrete implementation of PostService
type postService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	likes    repository.LikeRepository
	log      zerolog.Logger
}

func newPostService(repos *repository.Repositories, log zerolog.Logger) PostService {
	return &postService{
		posts:    repos.Post,
		comments: repos.Comment,
		likes:    repos.Like,
		log:      log.With().Str("service", "post").Logger(),
	}
}

// Create inserts a new post and returns it with the author populated
func (s *postService) Create(ctx context.Context, authorID, heading, content string) (*models.Post, error) {
	if fieldErr := validation.ValidatePost(heading, content); fieldErr != nil {
		return nil, errf(ErrValidation, "heading and content are required")
	}

	post := &models.Post{
		ID:       uuid.New().String(),
		Heading:  heading,
		Content:  content,
		AuthorID: authorID,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info().Str("post_id", post.ID).Str("author_id", authorID).Msg("Post created")
	return s.posts.GetByID(ctx, post.ID, authorID)
}

// List returns all posts with authors, comments and like state populated
func (s *postService) List(ctx context.Context, viewerID string) ([]*models.Post, error) {
	posts, err := s.posts.List(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if err := s.attachComments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAuthor returns the author's own posts; the liked flag is relative
// to the author as viewer
func (s *postService) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	posts, err := s.posts.ListByAuthor(ctx, authorID, authorID)
	if err != nil {
		return nil, err
	}
	if err := s.attachComments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *postService) attachComments(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}

	grouped, err := s.comments.ListByPosts(ctx, ids)
	if err != nil {
		return err
	}
	for _, post := range posts {
		if comments, ok := grouped[post.ID]; ok {
			post.Comments = comments
		}
	}
	return nil
}

// Get returns a single post with comments populated
func (s *postService) Get(ctx context.Context, id, viewerID string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errf(ErrNotFound, "post not found")
	}

	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Comments = comments
	return post, nil
}

// Update edits a post's heading and/or content. Only the author may edit;
// an empty field keeps the existing value.
func (s *postService) Update(ctx context.Context, id, requesterID, heading, content string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errf(ErrNotFound, "post not found")
	}
	if post.AuthorID != requesterID {
		return nil, errf(ErrForbidden, "not authorized to edit this post")
	}

	if heading != "" {
		post.Heading = heading
	}
	if content != "" {
		post.Content = content
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Comments = comments
	return post, nil
}

// Delete removes a post; its comments and like-set go with it
func (s *postService) Delete(ctx context.Context, id, requesterID string) error {
	post, err := s.posts.GetByID(ctx, id, requesterID)
	if err != nil {
		return err
	}
	if post == nil {
		return errf(ErrNotFound, "post not found")
	}
	if post.AuthorID != requesterID {
		return errf(ErrForbidden, "not authorized to delete this post")
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("post_id", id).Msg("Post deleted")
	return nil
}

// ToggleLike flips the requester's membership in the post's like-set and
// returns the post with the new authoritative count and liked flag. The
// mutation is a single atomic row delete or insert, so concurrent toggles
// by different users cannot lose updates.
func (s *postService) ToggleLike(ctx context.Context, id, requesterID string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errf(ErrNotFound, "post not found")
	}

	removed, err := s.likes.Remove(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	if !removed {
		if _, err := s.likes.Add(ctx, id, requesterID); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, id, requesterID)
}

// AddComment appends a comment to the post and returns it with the author
// populated
func (s *postService) AddComment(ctx context.Context, postID, requesterID, text string) (*models.Comment, error) {
	if fieldErr := validation.ValidateCommentText(text); fieldErr != nil {
		return nil, errf(ErrValidation, fieldErr.Message)
	}

	post, err := s.posts.GetByID(ctx, postID, requesterID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errf(ErrNotFound, "post not found")
	}

	comment := &models.Comment{
		ID:     uuid.New().String(),
		PostID: postID,
		UserID: requesterID,
		Text:   text,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.comments.GetByID(ctx, comment.ID)
}

// ListComments returns a post's comments in insertion order
func (s *postService) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	post, err := s.posts.GetByID(ctx, postID, "")
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errf(ErrNotFound, "post not found")
	}

	return s.comments.ListByPost(ctx, postID)
}

// DeleteComment removes a comment. The comment's author and the post's
// author may both delete it; anyone else is refused.
func (s *postService) DeleteComment(ctx context.Context, postID, commentID, requesterID string) error {
	post, err := s.posts.GetByID(ctx, postID, requesterID)
	if err != nil {
		return err
	}
	if post == nil {
		return errf(ErrNotFound, "post not found")
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil || comment.PostID != postID {
		return errf(ErrNotFound, "comment not found")
	}

	if comment.UserID != requesterID && post.AuthorID != requesterID {
		return errf(ErrForbidden, "not authorized to delete this comment")
	}

	return s.comments.Delete(ctx, commentID)
}
