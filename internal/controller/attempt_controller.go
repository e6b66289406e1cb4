package controller

import (
	"errors"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AttemptController struct {
	AttemptService   *service.AttemptService
	AnalyticsService *service.AnalyticsService
}

func NewAttemptController(attemptService *service.AttemptService, analyticsService *service.AnalyticsService) *AttemptController {
	return &AttemptController{
		AttemptService:   attemptService,
		AnalyticsService: analyticsService,
	}
}

// SubmitAttempt godoc
// @Summary 提交答题
// @Description 逐题对错和总分由服务端按标准答案重新判定
// @Tags 答题
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.AttemptRequest true "答题内容"
// @Success 201 {object} util.Response{data=model.Attempt} "创建成功"
// @Failure 400 {object} util.Response "缺少必填字段"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/attempts [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.AttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.AttemptService.Submit(claims.UserID, req)
	if err != nil {
		var missing *service.MissingFieldsError
		switch {
		case errors.As(err, &missing):
			util.BadRequest(ctx, missing.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, attempt)
}

// GetHistory godoc
// @Summary 答题历史
// @Description 当前用户的答题历史按测验分组
// @Tags 答题
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.QuizHistoryGroup} "成功"
// @Router /api/attempts/user/quizzes [get]
func (c *AttemptController) GetHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	history, err := c.AnalyticsService.UserHistory(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, history)
}

// GetSummary godoc
// @Summary 答题回顾
// @Description 单次答题的逐题回顾，仅本人、测验创建者或管理员可查看
// @Tags 答题
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "答题记录ID"
// @Success 200 {object} util.Response{data=model.AttemptSummary} "成功"
// @Failure 403 {object} util.Response "禁止访问"
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/attempts/{id}/summary [get]
func (c *AttemptController) GetSummary(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.AttemptService.Summary(ctx.Param("id"), claims)
	if err != nil {
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

	util.Success(ctx, summary)
}
