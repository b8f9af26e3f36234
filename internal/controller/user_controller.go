package controller

import (
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// ListUsers godoc
// @Summary 用户列表
// @Description 管理员查看全部用户，可按角色过滤
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Param   role query string false "角色过滤" Enums(student, instructor, admin)
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Failure 403 {object} util.Response "非管理员"
// @Router /api/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, limit, offset := pagination(ctx)
	role := model.UserRole(ctx.Query("role"))

	users, total, err := c.UserService.ListUsers(offset, limit, role)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  users,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetUser godoc
// @Summary 用户详情
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	userID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.UserService.GetUser(userID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
