package controller

import (
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MessageController struct {
	MessageService *service.MessageService
}

func NewMessageController(messageService *service.MessageService) *MessageController {
	return &MessageController{MessageService: messageService}
}

// swagger:model SendMessageRequest
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage godoc
// @Summary 发送课程消息
// @Description 课程聊天室发言，仅已付费学生和授课教师可以参与
// @Tags 消息
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   body body SendMessageRequest true "消息内容"
// @Success 201 {object} util.Response{data=model.Message} "发送成功"
// @Failure 403 {object} util.Response "未购买课程"
// @Router /api/courses/{id}/messages [post]
func (c *MessageController) SendMessage(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	message, err := c.MessageService.SendMessage(claims.UserID, courseID, req.Content)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Created(ctx, message)
}

// GetMessages godoc
// @Summary 课程消息记录
// @Description 课程聊天历史，最新的在前，近期消息走 Redis 缓存
// @Tags 消息
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=[]model.Message} "成功"
// @Failure 403 {object} util.Response "未购买课程"
// @Router /api/courses/{id}/messages [get]
func (c *MessageController) GetMessages(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	_, limit, offset := pagination(ctx)

	claims := util.GetUserFromContext(ctx)
	messages, err := c.MessageService.GetMessages(claims.UserID, courseID, offset, limit)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, messages)
}
