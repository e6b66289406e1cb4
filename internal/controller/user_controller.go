package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	UserService    *service.UserService
	StorageService *service.StorageService
}

func NewUserController(userService *service.UserService, storageService *service.StorageService) *UserController {
	return &UserController{
		UserService:    userService,
		StorageService: storageService,
	}
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ProfileUpdateRequest true "资料字段"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/user/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProfileUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   avatar formData file true "头像文件"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/user/avatar/upload [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "avatar file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("avatars/%d_%d%s", claims.UserID, time.Now().Unix(), filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.UserService.SetAvatar(claims.UserID, url); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"avatar": url})
}

// DeleteUser godoc
// @Summary 删除用户
// @Description 仅本人或管理员可删除账号
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "禁止访问"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/delete/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	targetID, err := util.ParseID(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	if err := c.UserService.DeleteUser(targetID, claims); err != nil {
		switch {
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"deleted": targetID})
}
