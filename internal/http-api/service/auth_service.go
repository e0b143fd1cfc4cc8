package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"mangabook/internal/config"
	"mangabook/internal/http-api/models"
	"mangabook/internal/http-api/repository"
	"mangabook/internal/middleware/auth"
)

var (
	ErrNameInUse         = errors.New("username already in use")
	ErrEmailInUse        = errors.New("email already in use")
	ErrInvalidUsername   = errors.New("username must be 3-30 characters, letters, digits and underscore only")
	ErrUserNotFound      = errors.New("user does not exist")
	ErrUserDeactivated   = errors.New("account is deactivated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token has expired")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrWrongSecurityWord = errors.New("incorrect security word")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

type AuthService interface {
	Register(ctx context.Context, username, email, password, securityWord string) (*models.User, string, error)
	Login(ctx context.Context, emailOrUsername, password string) (string, *models.User, error)
	Authenticate(tokenString string) (string, error)
	CurrentUser(ctx context.Context, tokenString string) (*models.User, error)
	ResetPassword(ctx context.Context, emailOrUsername, securityWord, newPassword, confirmPassword string) error
}

type authService struct {
	userRepo  repository.UserRepository
	listRepo  repository.ListRepository
	jwtSecret string
	jwtExpiry time.Duration
	logger    *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	listRepo repository.ListRepository,
	cfg *config.Config,
	logger *zap.Logger,
) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		userRepo:  userRepo,
		listRepo:  listRepo,
		jwtSecret: cfg.JWTSecret,
		jwtExpiry: cfg.JWTExpiry, // 24h
		logger:    logger,
	}
}

// Register creates the user and their default list, then issues a token.
// The two writes are not transactional; a crash in between leaves a user
// without a list, which GetList heals by lazily creating the defaults.
func (s *authService) Register(ctx context.Context, username, email, password, securityWord string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if !usernamePattern.MatchString(username) {
		return nil, "", ErrInvalidUsername
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, "", ErrNameInUse
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailInUse
	}

	passwordHash, err := auth.HashPassword(strings.TrimSpace(password))
	if err != nil {
		return nil, "", err
	}
	recoveryHash, err := auth.HashPassword(strings.TrimSpace(securityWord))
	if err != nil {
		return nil, "", err
	}

	// Username keeps the chosen casing; lookups compare case-insensitively
	// in the repository. Only email is case-folded at storage.
	user := &models.User{
		Username:     username,
		Email:        email,
		Password:     passwordHash,
		RecoveryWord: recoveryHash,
		DisplayName:  username,
		Preferences:  models.DefaultPreferences(),
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent registration.
			return nil, "", ErrEmailInUse
		}
		return nil, "", err
	}

	if err := s.listRepo.Save(ctx, models.NewDefaultList(user.ID)); err != nil {
		// User exists but has no list yet; GetList will create defaults on
		// first fetch.
		s.logger.Warn("default list creation failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, token, nil
}

// Login authenticates by email or username, case-insensitively.
func (s *authService) Login(ctx context.Context, emailOrUsername, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByEmailOrUsername(ctx, strings.TrimSpace(emailOrUsername))
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	if !user.IsActive {
		return "", nil, ErrUserDeactivated
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Warn("last login stamp failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate verifies signature and expiry and resolves the user id. The
// caller re-fetches the user to confirm isActive, so deactivation works
// without token revocation.
func (s *authService) Authenticate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// CurrentUser resolves a token to its active user.
func (s *authService) CurrentUser(ctx context.Context, tokenString string) (*models.User, error) {
	userID, err := s.Authenticate(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserDeactivated
	}
	return user, nil
}

// ResetPassword verifies the recovery word and replaces the password hash.
func (s *authService) ResetPassword(ctx context.Context, emailOrUsername, securityWord, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	user, err := s.userRepo.FindByEmailOrUsername(ctx, strings.TrimSpace(emailOrUsername))
	if err != nil || !user.IsActive {
		return ErrUserNotFound
	}

	if err := auth.VerifyPassword(user.RecoveryWord, strings.TrimSpace(securityWord)); err != nil {
		return ErrWrongSecurityWord
	}

	passwordHash, err := auth.HashPassword(strings.TrimSpace(newPassword))
	if err != nil {
		return err
	}
	user.Password = passwordHash

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info("password reset", zap.String("user_id", user.ID))
	return nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.jwtExpiry).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
