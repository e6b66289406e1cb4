package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrInvalidToken     = errors.New("invalid or expired token")
)
