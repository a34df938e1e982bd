package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flashquiz/backend/internal/auth"
	"github.com/flashquiz/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the interface that wraps methods for User table data access used by authentication
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user. On success its ID field is set.
	//
	// If user with the same email already exists, the error wrapping models.ErrAlreadyExists will be returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by email.
	//
	// "email" parameter is used to retrieve a user by email, the comparison is case-insensitive.
	//
	// If user with such email does not exist, the error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method GetByID retrieves a user by ID.
	//
	// "userID" parameter is used to retrieve a user by ID.
	//
	// If user with such ID does not exist, the error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// "email" parameter is used to check if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// UserTokenRepository is the interface that wraps methods for UserToken table data access
type UserTokenRepository interface {
	// Method Create inserts a new refresh token into the database.
	//
	// "userToken" parameter is used to create a new user token.
	Create(ctx context.Context, userToken *models.UserToken) error
	// Method GetByToken retrieves a user token by token string.
	//
	// If user token with such token does not exist, the error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByToken(ctx context.Context, token string) (*models.UserToken, error)
	// Method UpdateToken replaces "oldToken" of user "userID" with "newToken".
	UpdateToken(ctx context.Context, oldToken, newToken string, userID int) error
	// Method DeleteByToken deletes a user token by token string.
	//
	// Deleting a token that does not exist is not an error.
	DeleteByToken(ctx context.Context, token string) error
	// Method DeleteExpiredTokens deletes all tokens created before "expiryTime" and returns how many were removed.
	DeleteExpiredTokens(ctx context.Context, expiryTime time.Time) (int, error)
}

// authService implements AuthService
type authService struct {
	userRepo       UserRepository
	userTokenRepo  UserTokenRepository
	tokenGenerator *auth.TokenGenerator
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	userTokenRepo UserTokenRepository,
	tokenGenerator *auth.TokenGenerator,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo:       userRepo,
		userTokenRepo:  userTokenRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
	}
}

// Register creates a new parent account and signs it in
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (string, string, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return "", "", err
	}
	name, err := validateName(req.Name)
	if err != nil {
		return "", "", err
	}
	if err := validatePassword(req.Password); err != nil {
		return "", "", err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return "", "", models.NewError(models.ErrAlreadyExists, "email already exists")
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return "", "", err
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         models.RoleParent, // Self sign-up always creates a parent
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", "", err
	}

	s.logger.Info("parent registered", zap.Int("userId", user.ID))
	return generateAndSaveTokens(ctx, s.tokenGenerator, s.userTokenRepo, user.ID, user.Role)
}

// Login authenticates a user by email and password
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (string, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return "", "", models.NewError(models.ErrInvalidInput, "email cannot be empty")
	}
	if req.Password == "" {
		return "", "", models.NewError(models.ErrInvalidInput, "password cannot be empty")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", "", models.NewError(models.ErrInvalidCredentials, "invalid email or password")
		}
		return "", "", err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", "", models.NewError(models.ErrInvalidCredentials, "invalid email or password")
	}

	return generateAndSaveTokens(ctx, s.tokenGenerator, s.userTokenRepo, user.ID, user.Role)
}

// Refresh rotates a refresh token and issues a new token pair
//
// The stored token lookup and the signature check do not depend on each other, so they run in parallel.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return "", "", models.NewError(models.ErrUnauthorized, "refresh token is required")
	}

	errorChan := make(chan error, 2)
	userTokenChan := make(chan *models.UserToken, 1) // Buffered to prevent goroutine leak

	go func() {
		userToken, err := s.userTokenRepo.GetByToken(ctx, refreshToken)
		if err != nil {
			userTokenChan <- nil
			if errors.Is(err, models.ErrNotFound) {
				errorChan <- models.NewError(models.ErrUnauthorized, "invalid or expired refresh token")
				return
			}
			errorChan <- fmt.Errorf("failed to get user token by refresh token: %w", err)
			return
		}
		userTokenChan <- userToken
		errorChan <- nil
	}()

	go func() {
		if err := s.tokenGenerator.ValidateRefreshToken(refreshToken); err != nil {
			// Drop the token if it is still stored
			if delErr := s.userTokenRepo.DeleteByToken(ctx, refreshToken); delErr != nil {
				s.logger.Warn("failed to delete invalid refresh token", zap.Error(delErr))
			}
			errorChan <- models.NewError(models.ErrUnauthorized, "invalid or expired refresh token")
			return
		}
		errorChan <- nil
	}()

	for range 2 {
		if err := <-errorChan; err != nil {
			return "", "", err
		}
	}
	userToken := <-userTokenChan

	// The role may have changed since the token was issued
	user, err := s.userRepo.GetByID(ctx, userToken.UserID)
	if err != nil {
		return "", "", err
	}

	accessToken, newRefreshToken, err := s.tokenGenerator.GenerateTokens(userToken.UserID, int(user.Role))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.userTokenRepo.UpdateToken(ctx, refreshToken, newRefreshToken, userToken.UserID); err != nil {
		return "", "", err
	}

	return accessToken, newRefreshToken, nil
}

// Logout revokes a refresh token. An empty token is a no-op.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}
	if err := s.userTokenRepo.DeleteByToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Me returns the signed-in user
func (s *authService) Me(ctx context.Context, userID int) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// CleanExpiredTokens deletes refresh tokens older than the refresh token lifetime
func (s *authService) CleanExpiredTokens(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.tokenGenerator.RefreshTokenExpiry())
	deleted, err := s.userTokenRepo.DeleteExpiredTokens(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to delete expired tokens", zap.Error(err))
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	s.logger.Info("expired refresh tokens deleted", zap.Int("count", deleted))
	return deleted, nil
}

// Method that generates and saves access and refresh tokens
func generateAndSaveTokens(ctx context.Context, tokenGenerator *auth.TokenGenerator,
	userTokenRepo UserTokenRepository, userID int, role models.Role) (string, string, error) {
	accessToken, refreshToken, err := tokenGenerator.GenerateTokens(userID, int(role))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	userToken := &models.UserToken{
		UserID: userID,
		Token:  refreshToken,
	}
	if err := userTokenRepo.Create(ctx, userToken); err != nil {
		return "", "", fmt.Errorf("failed to save refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}
