package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskboard-service/internal/models"
	"taskboard-service/internal/realtime"
	"taskboard-service/internal/repositories/postgres"
)

// UserService owns accounts and credentials. It doubles as the realtime
// layer's identity verifier and user directory.
type UserService struct {
	repo      *postgres.UserRepository
	jwtSecret string
	jwtExpire time.Duration
}

func NewUserService(repo *postgres.UserRepository, jwtSecret string, jwtExpire time.Duration) *UserService {
	return &UserService{
		repo:      repo,
		jwtSecret: jwtSecret,
		jwtExpire: jwtExpire,
	}
}

func (s *UserService) generateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":      user.ID.String(),
		"email":        user.Email,
		"username":     user.Username,
		"display_name": user.DisplayName,
		"exp":          time.Now().Add(s.jwtExpire).Unix(),
		"iat":          time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *UserService) Register(req *models.RegisterRequest) (*models.UserResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
	}

	if err := s.repo.Create(&user); err != nil {
		if errors.Is(err, postgres.ErrEmailTaken) || errors.Is(err, postgres.ErrUsernameTaken) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User registered", "userID", user.ID, "username", user.Username)
	return userResponse(&user), nil
}

func (s *UserService) Login(req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.repo.FindByEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.jwtExpire.Seconds()),
		User:      *userResponse(user),
	}, nil
}

// VerifyCredential validates a JWT presented on a WebSocket handshake and
// resolves it to a live identity.
func (s *UserService) VerifyCredential(ctx context.Context, credential string) (*realtime.Identity, error) {
	token, err := jwt.Parse(credential, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	rawID, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// The token may outlive the account; deactivated users cannot connect.
	user, err := s.repo.FindByID(userID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return &realtime.Identity{
		UserID:      user.ID,
		DisplayName: user.DisplayName,
	}, nil
}

// Summary resolves a user id to its public profile for presence events.
func (s *UserService) Summary(ctx context.Context, userID uuid.UUID) (models.UserSummary, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return models.UserSummary{}, ErrNotFound
	}
	return user.Summary(), nil
}

func (s *UserService) GetProfile(userID uuid.UUID) (*models.UserResponse, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	return userResponse(user), nil
}

func (s *UserService) UpdateProfile(userID uuid.UUID, req *models.UpdateProfileRequest) (*models.UserResponse, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := s.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return userResponse(user), nil
}

// SetAvatarURL stores the uploaded avatar's URL on the profile.
func (s *UserService) SetAvatarURL(userID uuid.UUID, url string) (*models.UserResponse, error) {
	return s.UpdateProfile(userID, &models.UpdateProfileRequest{AvatarURL: &url})
}

func (s *UserService) SearchUsers(username string) ([]models.UserSummary, error) {
	users, err := s.repo.SearchByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	summaries := make([]models.UserSummary, len(users))
	for i, user := range users {
		summaries[i] = user.Summary()
	}
	return summaries, nil
}

func userResponse(user *models.User) *models.UserResponse {
	return &models.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		CreatedAt:   user.CreatedAt,
	}
}
