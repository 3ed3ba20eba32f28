package service

import (
	"context"
	"fmt"

	"github.com/blogify-api/internal/repository"
	"github.com/rs/zerolog"
)

// statsService is the concrete implementation of StatsService
type statsService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newStatsService(repos *repository.Repositories, log zerolog.Logger) StatsService {
	return &statsService{
		repos: repos,
		log:   log.With().Str("service", "stats").Logger(),
	}
}

// GetCount returns the row count for the given resource
func (s *statsService) GetCount(ctx context.Context, resource string) (int, error) {
	switch resource {
	case "users":
		return s.repos.User.Count(ctx)
	case "posts":
		return s.repos.Post.Count(ctx)
	case "comments":
		return s.repos.Comment.Count(ctx)
	case "likes":
		return s.repos.Like.Count(ctx)
	default:
		return 0, fmt.Errorf("unknown resource: %s", resource)
	}
}
