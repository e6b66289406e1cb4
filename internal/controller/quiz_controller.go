package controller

import (
	"errors"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// CreateQuiz godoc
// @Summary 创建测验
// @Description 校验测验结构后落库，总分和题数由服务端重算
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.QuizRequest true "测验内容"
// @Success 201 {object} util.Response{data=model.Quiz} "创建成功"
// @Failure 400 {object} util.Response "校验失败"
// @Router /api/quiz [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateQuiz(claims.UserID, req)
	if err != nil {
		var verrs *service.ValidationErrors
		if errors.As(err, &verrs) {
			util.ValidationFailed(ctx, verrs.Errors)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, quiz)
}

// ListQuizzes godoc
// @Summary 测验列表
// @Description 公开接口，支持按分类、标签、难度、状态、分数区间过滤，答案信息已剥离
// @Tags 测验
// @Produce  json
// @Param   category query string false "分类"
// @Param   tags query string false "标签，逗号分隔，需全部命中"
// @Param   difficulty query string false "难度"
// @Param   status query string false "状态"
// @Param   minScore query int false "最低总分"
// @Param   maxScore query int false "最高总分"
// @Success 200 {object} util.Response{data=[]service.QuizView} "成功"
// @Router /api/quiz [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	filter := repository.QuizFilter{
		Category:   ctx.Query("category"),
		Difficulty: ctx.Query("difficulty"),
		Status:     ctx.Query("status"),
	}
	if tags := ctx.Query("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if t := strings.TrimSpace(tag); t != "" {
				filter.Tags = append(filter.Tags, t)
			}
		}
	}
	if v := ctx.Query("minScore"); v != "" {
		filter.MinScore, _ = strconv.Atoi(v)
	}
	if v := ctx.Query("maxScore"); v != "" {
		filter.MaxScore, _ = strconv.Atoi(v)
	}

	quizzes, err := c.QuizService.ListQuizzes(filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	views := make([]service.QuizView, 0, len(quizzes))
	for i := range quizzes {
		views = append(views, service.SanitizeQuiz(&quizzes[i]))
	}

	util.Success(ctx, views)
}

// GetQuiz godoc
// @Summary 测验详情
// @Description 公开接口，返回带创建者名称的测验详情，答案信息已剥离
// @Tags 测验
// @Produce  json
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.QuizView} "成功"
// @Failure 400 {object} util.Response "非法ID"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quiz/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	id, err := util.ParseID(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	quiz, err := c.QuizService.GetQuiz(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, service.SanitizeQuiz(quiz))
}

// UpdateQuiz godoc
// @Summary 更新测验
// @Description 整体更新，仅创建者或管理员可操作
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body service.QuizRequest true "测验内容"
// @Success 200 {object} util.Response{data=model.Quiz} "成功"
// @Failure 400 {object} util.Response "校验失败"
// @Failure 403 {object} util.Response "禁止访问"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quiz/{id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := util.ParseID(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.UpdateQuiz(id, claims, req)
	if err != nil {
		var verrs *service.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			util.ValidationFailed(ctx, verrs.Errors)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除测验
// @Description 仅创建者或管理员可操作
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "禁止访问"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quiz/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := util.ParseID(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	if err := c.QuizService.DeleteQuiz(id, claims); err != nil {
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

	util.Success(ctx, gin.H{"deleted": id})
}
