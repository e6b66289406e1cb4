package controller

import (
	"errors"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// RegisterRequest defines model for registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=student teacher"`
}

// Register godoc
// @Summary 注册新用户
// @Description 使用提供的信息注册新用户
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	role := model.UserRole(req.Role)
	if role == "" {
		role = model.Student
	}

	user := &model.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  role,
	}

	if err := c.AuthService.Register(user, req.Password); err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Error(ctx, 409, "该邮箱已被注册")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": user.ID})
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 用户登录
// @Description 验证用户身份并返回JWT令牌，有效期30天
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "用户登录凭据"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, gin.H{"token": token})
}

// VerifyToken godoc
// @Summary 校验令牌
// @Description 校验当前令牌并返回其携带的身份信息
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/verify-token [get]
func (c *AuthController) VerifyToken(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, gin.H{
		"id":    claims.UserID,
		"name":  claims.Name,
		"email": claims.Email,
		"role":  claims.Role,
	})
}

// Logout godoc
// @Summary 退出登录
// @Description 将当前令牌加入黑名单直至其过期
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "成功"
// @Router /api/logout [get]
func (c *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString("token")
	if token != "" {
		if err := c.AuthService.Logout(ctx.Request.Context(), token); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
	}
	util.Success(ctx, gin.H{"message": "logged out"})
}

// GetProfile godoc
// @Summary 获取当前用户资料
// @Description 获取当前已认证用户的个人资料
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"avatar":    user.Avatar,
		"role":      user.Role,
		"createdAt": user.CreatedAt,
	})
}
