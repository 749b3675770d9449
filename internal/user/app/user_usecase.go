package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"chatterbox_service/internal/user/domain"
	"chatterbox_service/internal/user/repository"
	"chatterbox_service/pkg/config"
	"chatterbox_service/pkg/database"
	"chatterbox_service/pkg/encrypt"
	errprocess "chatterbox_service/pkg/err"
	"chatterbox_service/pkg/logger"
	"chatterbox_service/pkg/paging"
	token "chatterbox_service/pkg/token"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserUseCase application services around the user directory
type UserUseCase interface {
	Register(ctx context.Context, fullName, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, token string) error
	FindUser(ctx context.Context, param *domain.UserQuery) (*domain.User, error)
	Search(ctx context.Context, query, excludeID string, page, limit int) ([]domain.User, paging.Pagination, error)
	SetOnlineStatus(ctx context.Context, userID string, online bool) error
}

type userUseCase struct {
	userRepo   repository.UserRepository
	sessionTTL time.Duration
	redisRepo  database.RedisRepository[domain.UserSession]
}

// NewUserUseCase build a new UserUseCase
func NewUserUseCase(userRepo repository.UserRepository,
	sessionTTL time.Duration,
	redisRepo database.RedisRepository[domain.UserSession],
) UserUseCase {
	return &userUseCase{
		userRepo:   userRepo,
		sessionTTL: sessionTTL,
		redisRepo:  redisRepo,
	}
}

// Register create a new directory entry after uniqueness checks
func (u *userUseCase) Register(ctx context.Context, fullName, username, email, password string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if fullName == "" || username == "" || email == "" || password == "" {
		return nil, errprocess.Validation("full name, username, email, and password are required")
	}
	if len(fullName) < 2 || len(fullName) > 50 {
		return nil, errprocess.Validation("full name must be between 2 and 50 characters")
	}
	if len(username) < 3 || len(username) > 30 {
		return nil, errprocess.Validation("username must be between 3 and 30 characters")
	}
	if !emailPattern.MatchString(email) {
		return nil, errprocess.Validation("please enter a valid email address")
	}

	existing, err := u.userRepo.FindByEmailOrUsername(ctx, email, username)
	if err == nil {
		if existing.Email == email {
			return nil, errprocess.Conflict("an account with this email already exists")
		}
		return nil, errprocess.Conflict("this username is already taken")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errprocess.Persistence(fmt.Sprintf("uniqueness check failed: %v", err))
	}

	pw, err := encrypt.HashPassword(password)
	if err != nil {
		return nil, errprocess.Validation(err.Error())
	}

	user := domain.User{
		ID:        uuid.New().String(),
		FullName:  fullName,
		Username:  username,
		Email:     email,
		Password:  pw,
		LastSeen:  time.Now(),
		CreatedAt: time.Now(),
	}

	if err := u.userRepo.CreateUser(ctx, &user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errprocess.Conflict("username or email already exists")
		}
		return nil, errprocess.Persistence(fmt.Sprintf("create user failed: %v", err))
	}

	logger.Log.Info("user registered", zap.String("username", username))
	return &user, nil
}

// Login verify credentials, flip presence on, open a session
func (u *userUseCase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, errors.New("email and password are required")
	}

	user, err := u.userRepo.FindUser(ctx, &domain.UserQuery{Email: &email})
	if err != nil {
		logger.Log.Error("login: email can't find")
		return "", nil, errors.New("invalid email or password")
	}

	if err = user.IsPasswordMatch(password); err != nil {
		logger.Log.Error("login: password can't match")
		return "", nil, errors.New("invalid email or password")
	}

	t, err := token.GenerateJWT(user.ID, string(token.RoleUser), config.EnvConfig.ChatService)
	if err != nil {
		return "", nil, errprocess.Set(fmt.Sprintf("generate token failed: %v", err))
	}

	now := time.Now()
	session := domain.UserSession{
		Token:        t,
		UserID:       user.ID,
		CreatedAt:    now,
		LastActivity: now,
		ExpiredAt:    now.Add(u.sessionTTL),
	}
	if err := u.redisRepo.Set(ctx, user.ID, session, u.sessionTTL); err != nil {
		return "", nil, errprocess.Persistence(fmt.Sprintf("store session failed: %v", err))
	}

	if err := u.SetOnlineStatus(ctx, user.ID, true); err != nil {
		return "", nil, err
	}
	user.IsOnline = true
	user.LastSeen = now

	return t, user, nil
}

// Logout close the session, flip presence off
func (u *userUseCase) Logout(ctx context.Context, t string) error {
	tokenInfo, err := token.ParseJWT(t)
	if err != nil {
		logger.Log.Error("logout err :", zap.String("err", err.Error()))
		return err
	}

	if err := u.redisRepo.Del(ctx, tokenInfo.UserID); err != nil {
		logger.Log.Warn("session delete failed", zap.String("user_id", tokenInfo.UserID))
	}

	return u.SetOnlineStatus(ctx, tokenInfo.UserID, false)
}

// FindUser look up one user by query conditions
func (u *userUseCase) FindUser(ctx context.Context, param *domain.UserQuery) (*domain.User, error) {
	user, err := u.userRepo.FindUser(ctx, param)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errprocess.NotFound("user not found")
		}
		return nil, errprocess.Persistence(fmt.Sprintf("find user failed: %v", err))
	}
	return user, nil
}

// Search substring match on username or email, requester excluded
func (u *userUseCase) Search(ctx context.Context, query, excludeID string, page, limit int) ([]domain.User, paging.Pagination, error) {
	if strings.TrimSpace(query) == "" {
		return nil, paging.Pagination{}, errprocess.Validation("search query is required")
	}

	page, limit = paging.Normalize(page, limit)
	skip := int64(page-1) * int64(limit)

	users, total, err := u.userRepo.Search(ctx, query, excludeID, skip, int64(limit))
	if err != nil {
		return nil, paging.Pagination{}, errprocess.Persistence(fmt.Sprintf("search users failed: %v", err))
	}

	return users, paging.New(page, limit, total), nil
}

// SetOnlineStatus flip the presence flag and stamp last_seen
func (u *userUseCase) SetOnlineStatus(ctx context.Context, userID string, online bool) error {
	if err := u.userRepo.SetOnlineStatus(ctx, userID, online); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errprocess.NotFound("user not found")
		}
		return errprocess.Persistence(fmt.Sprintf("update online status failed: %v", err))
	}
	return nil
}
