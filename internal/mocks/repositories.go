package mocks

import (
	"context"
	"time"

	"github.com/blogify-api/internal/models"
	"github.com/blogify-api/internal/repository"
)

// MockRepos bundles in-memory implementations of every repository. The
// post mock reaches into the user and like mocks so reads carry the same
// derived fields (author, likesCount, liked) the SQL joins produce, and
// post deletion cascades like the real foreign keys.
type MockRepos struct {
	Users    *MockUserRepository
	Posts    *MockPostRepository
	Comments *MockCommentRepository
	Likes    *MockLikeRepository
}

// NewMockRepos creates a wired set of in-memory repositories
func NewMockRepos() *MockRepos {
	users := NewMockUserRepository()
	likes := NewMockLikeRepository()
	comments := NewMockCommentRepository(users)
	posts := NewMockPostRepository(users, comments, likes)

	return &MockRepos{
		Users:    users,
		Posts:    posts,
		Comments: comments,
		Likes:    likes,
	}
}

// Repositories returns the bundle as the production interface set
func (m *MockRepos) Repositories() *repository.Repositories {
	return &repository.Repositories{
		User:    m.Users,
		Post:    m.Posts,
		Comment: m.Comments,
		Like:    m.Likes,
	}
}

// MockUserRepository is an in-memory implementation of UserRepository
type MockUserRepository struct {
	Users       map[string]*models.User
	CreateError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[string]*models.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.Users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.Users[id], nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	u, _ := m.GetByEmail(ctx, email)
	return u != nil, nil
}

func (m *MockUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	for _, u := range m.Users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.Users), nil
}

// MockPostRepository is an in-memory implementation of PostRepository
type MockPostRepository struct {
	Posts map[string]*models.Post
	// order preserves insertion order; List returns it reversed
	order    []string
	users    *MockUserRepository
	comments *MockCommentRepository
	likes    *MockLikeRepository
}

func NewMockPostRepository(users *MockUserRepository, comments *MockCommentRepository, likes *MockLikeRepository) *MockPostRepository {
	return &MockPostRepository{
		Posts:    make(map[string]*models.Post),
		users:    users,
		comments: comments,
		likes:    likes,
	}
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	stored := *post
	m.Posts[post.ID] = &stored
	m.order = append(m.order, post.ID)
	return nil
}

// view builds a fresh copy with derived fields, mirroring the SQL select
func (m *MockPostRepository) view(id, viewerID string) *models.Post {
	stored, ok := m.Posts[id]
	if !ok {
		return nil
	}

	post := *stored
	if author, ok := m.users.Users[stored.AuthorID]; ok {
		post.Author = author.Ref()
	}
	post.LikesCount = m.likes.countByPost(id)
	post.Liked = m.likes.has(id, viewerID)
	post.Comments = []*models.Comment{}
	return &post
}

func (m *MockPostRepository) GetByID(ctx context.Context, id, viewerID string) (*models.Post, error) {
	return m.view(id, viewerID), nil
}

func (m *MockPostRepository) List(ctx context.Context, viewerID string) ([]*models.Post, error) {
	posts := []*models.Post{}
	for i := len(m.order) - 1; i >= 0; i-- {
		if post := m.view(m.order[i], viewerID); post != nil {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (m *MockPostRepository) ListByAuthor(ctx context.Context, authorID, viewerID string) ([]*models.Post, error) {
	posts := []*models.Post{}
	for i := len(m.order) - 1; i >= 0; i-- {
		stored, ok := m.Posts[m.order[i]]
		if !ok || stored.AuthorID != authorID {
			continue
		}
		posts = append(posts, m.view(stored.ID, viewerID))
	}
	return posts, nil
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	stored, ok := m.Posts[post.ID]
	if !ok {
		return nil
	}
	stored.Heading = post.Heading
	stored.Content = post.Content
	stored.UpdatedAt = time.Now()
	post.UpdatedAt = stored.UpdatedAt
	return nil
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	delete(m.Posts, id)
	// Cascade like the real foreign keys
	m.comments.deleteByPost(id)
	m.likes.deleteByPost(id)
	return nil
}

func (m *MockPostRepository) Count(ctx context.Context) (int, error) {
	return len(m.Posts), nil
}

// MockCommentRepository is an in-memory implementation of CommentRepository
type MockCommentRepository struct {
	Comments map[string]*models.Comment
	order    []string
	users    *MockUserRepository
}

func NewMockCommentRepository(users *MockUserRepository) *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[string]*models.Comment),
		users:    users,
	}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	stored := *comment
	m.Comments[comment.ID] = &stored
	m.order = append(m.order, comment.ID)
	return nil
}

func (m *MockCommentRepository) view(id string) *models.Comment {
	stored, ok := m.Comments[id]
	if !ok {
		return nil
	}
	comment := *stored
	if user, ok := m.users.Users[stored.UserID]; ok {
		comment.User = user.Ref()
	}
	return &comment
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return m.view(id), nil
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	for _, id := range m.order {
		stored, ok := m.Comments[id]
		if !ok || stored.PostID != postID {
			continue
		}
		comments = append(comments, m.view(id))
	}
	return comments, nil
}

func (m *MockCommentRepository) ListByPosts(ctx context.Context, postIDs []string) (map[string][]*models.Comment, error) {
	wanted := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}

	grouped := make(map[string][]*models.Comment)
	for _, id := range m.order {
		stored, ok := m.Comments[id]
		if !ok || !wanted[stored.PostID] {
			continue
		}
		grouped[stored.PostID] = append(grouped[stored.PostID], m.view(id))
	}
	return grouped, nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) error {
	delete(m.Comments, id)
	return nil
}

func (m *MockCommentRepository) deleteByPost(postID string) {
	for id, c := range m.Comments {
		if c.PostID == postID {
			delete(m.Comments, id)
		}
	}
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	return len(m.Comments), nil
}

// MockLikeRepository is an in-memory implementation of LikeRepository
type MockLikeRepository struct {
	Likes map[string]map[string]bool
}

func NewMockLikeRepository() *MockLikeRepository {
	return &MockLikeRepository{Likes: make(map[string]map[string]bool)}
}

func (m *MockLikeRepository) Add(ctx context.Context, postID, userID string) (bool, error) {
	set, ok := m.Likes[postID]
	if !ok {
		set = make(map[string]bool)
		m.Likes[postID] = set
	}
	if set[userID] {
		return false, nil
	}
	set[userID] = true
	return true, nil
}

func (m *MockLikeRepository) Remove(ctx context.Context, postID, userID string) (bool, error) {
	set, ok := m.Likes[postID]
	if !ok || !set[userID] {
		return false, nil
	}
	delete(set, userID)
	return true, nil
}

func (m *MockLikeRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	return m.has(postID, userID), nil
}

func (m *MockLikeRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	return m.countByPost(postID), nil
}

func (m *MockLikeRepository) Count(ctx context.Context) (int, error) {
	total := 0
	for _, set := range m.Likes {
		total += len(set)
	}
	return total, nil
}

func (m *MockLikeRepository) has(postID, userID string) bool {
	if userID == "" {
		return false
	}
	return m.Likes[postID][userID]
}

func (m *MockLikeRepository) countByPost(postID string) int {
	return len(m.Likes[postID])
}

func (m *MockLikeRepository) deleteByPost(postID string) {
	delete(m.Likes, postID)
}
