package service

import (
	"context"
	"errors"
	"strings"

	"github.com/blogify-api/internal/auth"
	"github.com/blogify-api/internal/models"
	"github.com/blogify-api/internal/repository"
	"github.com/blogify-api/internal/validation"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// authService is the concrete implementation of AuthService
type authService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
	log        zerolog.Logger
}

func newAuthService(users repository.UserRepository, tokens *auth.TokenManager, bcryptCost int, log zerolog.Logger) AuthService {
	return &authService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        log.With().Str("service", "auth").Logger(),
	}
}

// Signup registers a new user and returns it with a fresh token.
// The password is always hashed before it is stored; the plaintext never
// reaches the repository.
func (s *authService) Signup(ctx context.Context, email, username, password string) (*models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)

	if fieldErr := validation.ValidateEmail(email); fieldErr != nil {
		return nil, "", errf(ErrValidation, fieldErr.Message)
	}
	if fieldErr := validation.ValidateUsername(username); fieldErr != nil {
		return nil, "", errf(ErrValidation, fieldErr.Message)
	}
	if fieldErr := validation.ValidatePassword(password); fieldErr != nil {
		return nil, "", errf(ErrValidation, fieldErr.Message)
	}

	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", errf(ErrConflict, "user already registered, please log in")
	}

	taken, err = s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", errf(ErrConflict, "username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		// Direct signup path, no OTP: the account is usable immediately
		EmailVerified: true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Unique index may still fire when two signups race the
		// existence checks above
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, "", errf(ErrConflict, "user already registered, please log in")
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("email", email).Msg("New user signed up")
	return user, token, nil
}

// Login verifies credentials and issues a token. Every failure path
// returns ErrInvalidCredentials so callers learn nothing about which
// check failed.
func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GetUser resolves a user id to its account
func (s *authService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errf(ErrNotFound, "user not found")
	}
	return user, nil
}

// VerifyToken resolves a bearer token to a user id
func (s *authService) VerifyToken(token string) (string, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return "", ErrUnauthenticated
	}
	return userID, nil
}
