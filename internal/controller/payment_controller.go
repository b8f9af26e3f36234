package controller

import (
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	Enrollment *service.EnrollmentService
	Access     *service.LessonAccessService
}

func NewPaymentController(enrollment *service.EnrollmentService, access *service.LessonAccessService) *PaymentController {
	return &PaymentController{
		Enrollment: enrollment,
		Access:     access,
	}
}

// swagger:model CreatePaymentRequest
type CreatePaymentRequest struct {
	PaymentType string  `json:"paymentType" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
}

// CreatePayment godoc
// @Summary 购买课程
// @Description 学生支付课程费用，金额必须等于课程标价；支付成功后预置全部课时进度
// @Tags 支付
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "课程ID"
// @Param   body body CreatePaymentRequest true "支付信息"
// @Success 201 {object} util.Response{data=model.Payment} "创建成功"
// @Failure 400 {object} util.Response "金额不符或重复支付"
// @Router /api/payments/course/{courseId} [post]
func (c *PaymentController) CreatePayment(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "courseId")
	if !ok {
		return
	}

	var req CreatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	payment, err := c.Enrollment.CreatePayment(claims.UserID, courseID, model.PaymentType(req.PaymentType), req.Amount)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Created(ctx, payment)
}

// ListPayments godoc
// @Summary 我的支付记录
// @Tags 支付
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/payments [get]
func (c *PaymentController) ListPayments(ctx *gin.Context) {
	page, limit, offset := pagination(ctx)

	claims := util.GetUserFromContext(ctx)
	payments, total, err := c.Enrollment.ListPayments(claims.UserID, offset, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  payments,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetPayment godoc
// @Summary 支付详情
// @Tags 支付
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "支付ID"
// @Success 200 {object} util.Response{data=model.Payment} "成功"
// @Failure 404 {object} util.Response "支付记录不存在"
// @Router /api/payments/{id} [get]
func (c *PaymentController) GetPayment(ctx *gin.Context) {
	paymentID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	payment, err := c.Enrollment.GetPayment(paymentID, claims.UserID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, payment)
}

// ListProgressions godoc
// @Summary 我的学习进度
// @Description 当前用户的课时进度，可按课程过滤
// @Tags 支付
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId query int false "课程ID"
// @Success 200 {object} util.Response{data=[]model.LessonProgression} "成功"
// @Router /api/progressions [get]
func (c *PaymentController) ListProgressions(ctx *gin.Context) {
	var courseID uint
	if raw := ctx.Query("courseId"); raw != "" {
		id, ok := uintQuery(ctx, "courseId")
		if !ok {
			return
		}
		courseID = id
	}

	claims := util.GetUserFromContext(ctx)
	progressions, err := c.Access.Progressions(claims.UserID, courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progressions)
}
