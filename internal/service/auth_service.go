package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Redis    *redis.Client
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Redis:    rdb,
		Cfg:      cfg,
	}
}

func (s *AuthService) Register(user *model.User, password string) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	salt, err := util.GenerateSalt()
	if err != nil {
		return err
	}
	user.Salt = salt
	user.PasswordHash = util.HashPassword(password, salt)

	return s.UserRepo.Create(user)
}

func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	if !util.VerifyPassword(password, user.Salt, user.PasswordHash) {
		return "", errors.New("invalid credentials")
	}

	// 异步记录登录时间，不阻塞主流程
	go s.UserRepo.UpdateLastLogin(user.ID)

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

// Logout 把令牌加入Redis黑名单，存活到令牌自身过期为止
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s.Redis == nil {
		return nil
	}

	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		return util.ErrInvalidToken
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	return s.Redis.Set(ctx, denylistKey(token), "1", ttl).Err()
}

// IsDenied 实现 middleware.TokenDenylist
func (s *AuthService) IsDenied(ctx context.Context, token string) bool {
	if s.Redis == nil {
		return false
	}
	n, err := s.Redis.Exists(ctx, denylistKey(token)).Result()
	return err == nil && n > 0
}

func denylistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:denylist:" + hex.EncodeToString(sum[:])
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		return nil
	}
	return user
}
