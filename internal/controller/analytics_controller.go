package controller

import (
	"errors"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// GetUserAnalytics godoc
// @Summary 用户答题总览
// @Description 当前用户的答题次数、平均分、完成率和难度分布
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.UserAnalytics} "成功"
// @Router /api/attempts/analytics/user/current [get]
func (c *AnalyticsController) GetUserAnalytics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	analytics, err := c.AnalyticsService.UserAnalytics(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, analytics)
}

// GetQuizAnalytics godoc
// @Summary 测验答题统计
// @Description 单个测验的作答次数、平均分、最高分和逐题分布
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Param   quizId path int true "测验ID"
// @Success 200 {object} util.Response{data=model.QuizAnalytics} "成功"
// @Failure 400 {object} util.Response "非法ID"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/attempts/analytics/quiz/{quizId} [get]
func (c *AnalyticsController) GetQuizAnalytics(ctx *gin.Context) {
	quizID, err := util.ParseID(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	analytics, err := c.AnalyticsService.QuizAnalytics(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, analytics)
}
