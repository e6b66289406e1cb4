package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-0123456789abcdef0123456789",
			ExpireTime: time.Hour,
		},
	}
}

func newAuthServiceWithRedis(t *testing.T) (*AuthService, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	db := newTestDB(t)
	return NewAuthService(repository.NewUserRepository(db), rdb, testConfig()), mr
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthServiceWithRedis(t)

	user := &model.User{Name: "Alice", Email: "alice@example.com", Role: model.Student}
	if err := svc.Register(user, "s3cret-password"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if user.Salt == "" {
		t.Fatal("salt not generated")
	}
	if user.PasswordHash == "" || user.PasswordHash == "s3cret-password" {
		t.Fatalf("password stored badly: %q", user.PasswordHash)
	}

	token, err := svc.Login("alice@example.com", "s3cret-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Role != model.Student {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthServiceWithRedis(t)

	user := &model.User{Name: "Alice", Email: "alice@example.com"}
	if err := svc.Register(user, "right-password"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login("alice@example.com", "wrong-password"); err == nil {
		t.Fatal("expected login failure with wrong password")
	}
	if _, err := svc.Login("nobody@example.com", "right-password"); err == nil {
		t.Fatal("expected login failure for unknown email")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthServiceWithRedis(t)

	first := &model.User{Name: "Alice", Email: "alice@example.com"}
	if err := svc.Register(first, "password-one"); err != nil {
		t.Fatalf("register: %v", err)
	}

	second := &model.User{Name: "Imposter", Email: "alice@example.com"}
	if err := svc.Register(second, "password-two"); !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("expected ErrEmailRegistered, got %v", err)
	}
}

func TestLogoutDenylistsToken(t *testing.T) {
	svc, mr := newAuthServiceWithRedis(t)
	ctx := context.Background()

	user := &model.User{Name: "Alice", Email: "alice@example.com"}
	if err := svc.Register(user, "s3cret-password"); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, err := svc.Login("alice@example.com", "s3cret-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if svc.IsDenied(ctx, token) {
		t.Fatal("fresh token should not be denied")
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !svc.IsDenied(ctx, token) {
		t.Fatal("token should be denied after logout")
	}

	// 黑名单条目随令牌自身过期一起失效
	mr.FastForward(2 * time.Hour)
	if svc.IsDenied(ctx, token) {
		t.Fatal("denylist entry should expire with the token")
	}
}

func TestLogoutInvalidToken(t *testing.T) {
	svc, _ := newAuthServiceWithRedis(t)

	if err := svc.Logout(context.Background(), "not-a-jwt"); !errors.Is(err, util.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthWithoutRedisDegrades(t *testing.T) {
	// Redis不可用时登出静默降级，校验照常放行
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), nil, testConfig())

	if svc.IsDenied(context.Background(), "whatever") {
		t.Fatal("nil redis must never deny")
	}
	if err := svc.Logout(context.Background(), "whatever"); err != nil {
		t.Fatalf("logout without redis: %v", err)
	}
}
