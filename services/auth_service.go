package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"becas-backend/models"
	"becas-backend/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	userTokenTTL  = 30 * 24 * time.Hour
	adminTokenTTL = 7 * 24 * time.Hour

	bcryptCost = 12
)

// AuthService defines the interface for authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (string, *models.SafeUser, *ServiceError)
	Login(ctx context.Context, req *models.LoginRequest) (string, *models.SafeUser, *ServiceError)
	AdminLogin(req *models.AdminLoginRequest) (string, *ServiceError)
	Me(ctx context.Context, userID string) (*models.SafeUser, *ServiceError)
}

// authServiceImpl implements AuthService.
type authServiceImpl struct {
	repo          repository.UserRepository
	jwtSecret     []byte
	adminUsername string
	adminPassword string
	logger        *zap.Logger
}

// NewAuthService creates a new AuthService. The admin credentials come from
// the environment; admins are not stored in the users table.
func NewAuthService(
	repo repository.UserRepository,
	jwtSecret string,
	adminUsername string,
	adminPassword string,
	logger *zap.Logger,
) AuthService {
	return &authServiceImpl{
		repo:          repo,
		jwtSecret:     []byte(jwtSecret),
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		logger:        logger,
	}
}

// Register creates a new user account with a bcrypt password hash and signs
// a session token so the caller is logged in right away.
func (s *authServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (string, *models.SafeUser, *ServiceError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		s.logger.Error("Password hash failed", zap.Error(err))
		return "", nil, &ServiceError{StatusCode: 500, Message: "Failed to register user"}
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return "", nil, &ServiceError{StatusCode: 409, Message: "Email or username already registered"}
		}
		s.logger.Error("Failed to create user", zap.String("email", email), zap.Error(err))
		return "", nil, &ServiceError{StatusCode: 500, Message: "Failed to register user"}
	}

	token, err := s.generateToken(user.ID.String(), user.Username, RoleUser, userTokenTTL)
	if err != nil {
		s.logger.Error("Token generation failed", zap.Error(err))
		return "", nil, &ServiceError{StatusCode: 500, Message: "Failed to register user"}
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()), zap.String("username", username))
	safe := user.Safe()
	return token, &safe, nil
}

// Login verifies the credentials and returns a signed session token. Wrong
// identifier and wrong password produce the same response.
func (s *authServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (string, *models.SafeUser, *ServiceError) {
	user, err := s.repo.FindByEmailOrUsername(ctx, req.EmailOrUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, &ServiceError{StatusCode: 401, Message: "Invalid credentials"}
		}
		s.logger.Error("Login lookup failed", zap.Error(err))
		return "", nil, &ServiceError{StatusCode: 500, Message: "Failed to log in"}
	}
	if !user.IsActive {
		return "", nil, &ServiceError{StatusCode: 401, Message: "Invalid credentials"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, &ServiceError{StatusCode: 401, Message: "Invalid credentials"}
	}

	token, err := s.generateToken(user.ID.String(), user.Username, RoleUser, userTokenTTL)
	if err != nil {
		s.logger.Error("Token signing failed", zap.Error(err))
		return "", nil, &ServiceError{StatusCode: 500, Message: "Failed to log in"}
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID.String(), time.Now()); err != nil {
		s.logger.Warn("Failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	safe := user.Safe()
	return token, &safe, nil
}

// AdminLogin checks the environment-configured admin credentials and returns
// an admin session token.
func (s *authServiceImpl) AdminLogin(req *models.AdminLoginRequest) (string, *ServiceError) {
	if s.adminUsername == "" || s.adminPassword == "" {
		s.logger.Error("Admin credentials not configured")
		return "", &ServiceError{StatusCode: 500, Message: "Admin login not configured"}
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.adminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.adminPassword)) == 1
	if !userOK || !passOK {
		s.logger.Warn("Admin login rejected", zap.String("username", req.Username))
		return "", &ServiceError{StatusCode: 401, Message: "Invalid credentials"}
	}

	token, err := s.generateToken(s.adminUsername, s.adminUsername, RoleAdmin, adminTokenTTL)
	if err != nil {
		s.logger.Error("Token signing failed", zap.Error(err))
		return "", &ServiceError{StatusCode: 500, Message: "Failed to log in"}
	}

	s.logger.Info("Admin logged in", zap.String("username", s.adminUsername))
	return token, nil
}

// Me returns the profile of the authenticated user.
func (s *authServiceImpl) Me(ctx context.Context, userID string) (*models.SafeUser, *ServiceError) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "User not found"}
		}
		s.logger.Error("Failed to fetch user", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch user"}
	}
	safe := user.Safe()
	return &safe, nil
}

// generateToken signs a session token with user ID, username and role.
func (s *authServiceImpl) generateToken(userID, username, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
