package service

import (
	"context"

	"github.com/blogify-api/internal/auth"
	"github.com/blogify-api/internal/config"
	"github.com/blogify-api/internal/models"
	"github.com/blogify-api/internal/repository"
	"github.com/rs/zerolog"
)

// AuthService defines the interface for signup, login and identity
// resolution
type AuthService interface {
	Signup(ctx context.Context, email, username, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	VerifyToken(token string) (string, error)
}

// PostService defines the interface for the post aggregate: CRUD plus the
// like toggle and comment sub-mutations
type PostService interface {
	Create(ctx context.Context, authorID, heading, content string) (*models.Post, error)
	List(ctx context.Context, viewerID string) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error)
	Get(ctx context.Context, id, viewerID string) (*models.Post, error)
	Update(ctx context.Context, id, requesterID, heading, content string) (*models.Post, error)
	Delete(ctx context.Context, id, requesterID string) error
	ToggleLike(ctx context.Context, id, requesterID string) (*models.Post, error)
	AddComment(ctx context.Context, postID, requesterID, text string) (*models.Comment, error)
	ListComments(ctx context.Context, postID string) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID, requesterID string) error
}

// StatsService exposes row counts for the metrics endpoint
type StatsService interface {
	GetCount(ctx context.Context, resource string) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Auth  AuthService
	Post  PostService
	Stats StatsService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	return &Services{
		Auth:  newAuthService(repos.User, tokens, cfg.Auth.BcryptCost, log),
		Post:  newPostService(repos, log),
		Stats: newStatsService(repos, log),
	}
}
