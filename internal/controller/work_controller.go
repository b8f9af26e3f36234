package controller

import (
	"encoding/json"

	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WorkController struct {
	WorkService *service.WorkService
}

func NewWorkController(workService *service.WorkService) *WorkController {
	return &WorkController{WorkService: workService}
}

// swagger:model CreateWorkRequest
type CreateWorkRequest struct {
	Title     string          `json:"title" binding:"required"`
	Questions json.RawMessage `json:"questions" binding:"required"`
}

// CreateWork godoc
// @Summary 发布作业
// @Description 授课教师发布作业并通知全部已付费学生
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   body body CreateWorkRequest true "作业内容"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 403 {object} util.Response "非授课教师"
// @Router /api/courses/{id}/works [post]
func (c *WorkController) CreateWork(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var req CreateWorkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	work, notifications, err := c.WorkService.CreateWork(claims.UserID, courseID, req.Title, req.Questions)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"work":          work,
		"notifications": notifications,
	})
}

// ListWorks godoc
// @Summary 作业列表
// @Description 课程作业列表，学生和授课教师可见
// @Tags 作业
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Work} "成功"
// @Router /api/courses/{id}/works [get]
func (c *WorkController) ListWorks(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	works, err := c.WorkService.ListWorks(claims.UserID, courseID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, works)
}

// swagger:model SubmitAnswerRequest
type SubmitAnswerRequest struct {
	Answers json.RawMessage `json:"answers" binding:"required"`
}

// SubmitAnswer godoc
// @Summary 提交作业答案
// @Description 学生提交答案，重复提交覆盖旧答案，提交后通知授课教师
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   workId path int true "作业ID"
// @Param   body body SubmitAnswerRequest true "答案"
// @Success 201 {object} util.Response{data=object} "提交成功"
// @Failure 403 {object} util.Response "未购买课程"
// @Router /api/courses/{id}/works/{workId}/answers [post]
func (c *WorkController) SubmitAnswer(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	workID, ok := uintParam(ctx, "workId")
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	answer, notifications, err := c.WorkService.SubmitAnswer(claims.UserID, courseID, workID, req.Answers)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"answer":        answer,
		"notifications": notifications,
	})
}

// ListAnswers godoc
// @Summary 作业答卷列表
// @Description 某作业的全部学生答卷，仅授课教师可见
// @Tags 作业
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   workId path int true "作业ID"
// @Success 200 {object} util.Response{data=[]model.WorkAnswer} "成功"
// @Router /api/courses/{id}/works/{workId}/answers [get]
func (c *WorkController) ListAnswers(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	workID, ok := uintParam(ctx, "workId")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	answers, err := c.WorkService.ListAnswers(claims.UserID, courseID, workID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, answers)
}

// MyAnswer godoc
// @Summary 我的答卷
// @Tags 作业
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   workId path int true "作业ID"
// @Success 200 {object} util.Response{data=model.WorkAnswer} "成功"
// @Failure 404 {object} util.Response "尚未提交答案"
// @Router /api/courses/{id}/works/{workId}/answers/me [get]
func (c *WorkController) MyAnswer(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	workID, ok := uintParam(ctx, "workId")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	answer, err := c.WorkService.MyAnswer(claims.UserID, courseID, workID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// DeleteWork godoc
// @Summary 删除作业
// @Description 删除作业及其全部答卷
// @Tags 作业
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   workId path int true "作业ID"
// @Success 204 "删除成功"
// @Router /api/courses/{id}/works/{workId} [delete]
func (c *WorkController) DeleteWork(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	workID, ok := uintParam(ctx, "workId")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.WorkService.DeleteWork(claims.UserID, courseID, workID); err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
