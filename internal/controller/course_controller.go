package controller

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"course_hub_backend/internal/model"
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/logger"
	"course_hub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CourseController struct {
	CourseService *service.CourseService
	AccessService *service.LessonAccessService
	Storage       *service.StorageService
}

func NewCourseController(
	courseService *service.CourseService,
	accessService *service.LessonAccessService,
	storage *service.StorageService,
) *CourseController {
	return &CourseController{
		CourseService: courseService,
		AccessService: accessService,
		Storage:       storage,
	}
}

// swagger:model CreateCourseRequest
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// CreateCourse godoc
// @Summary 创建课程
// @Description 教师创建新课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateCourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, err := c.CourseService.CreateCourse(claims.UserID, service.CreateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// ListCourses godoc
// @Summary 课程列表
// @Description 分页获取全部课程
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, limit, offset := pagination(ctx)

	courses, total, err := c.CourseService.ListCourses(offset, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  courses,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetCourse godoc
// @Summary 课程详情
// @Description 获取课程及其课时列表
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.CourseService.GetCourse(courseID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// swagger:model UpdateCourseRequest
type UpdateCourseRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	IsActive    *bool    `json:"isActive"`
}

// UpdateCourse godoc
// @Summary 更新课程
// @Description 授课教师更新课程信息
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   body body UpdateCourseRequest true "更新字段"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 403 {object} util.Response "非授课教师"
// @Router /api/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var req UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, err := c.CourseService.UpdateCourse(claims.UserID, courseID, service.UpdateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    req.IsActive,
	})
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Description 授课教师删除课程及其全部课时
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 204 "删除成功"
// @Failure 403 {object} util.Response "非授课教师"
// @Router /api/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.CourseService.DeleteCourse(claims.UserID, courseID); err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

// RenderCourse godoc
// @Summary 课程大纲
// @Description 课程结构的文本渲染视图
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/courses/{id}/render [get]
func (c *CourseController) RenderCourse(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	rendered, err := c.CourseService.RenderCourse(courseID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"rendered": rendered})
}

// swagger:model CreateLessonRequest
type CreateLessonRequest struct {
	Title          string          `json:"title" binding:"required"`
	Description    string          `json:"description"`
	LessonType     string          `json:"lessonType" binding:"omitempty,oneof=module quiz video text"`
	Order          int             `json:"order"`
	QuizData       json.RawMessage `json:"quizData"`
	ParentID       *uint           `json:"parentId"`
	PrerequisiteID *uint           `json:"prerequisiteId"`
}

// CreateLesson godoc
// @Summary 创建课时
// @Description 授课教师在课程下新建课时，父节点必须是 module
// @Tags 课时
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   body body CreateLessonRequest true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson} "创建成功"
// @Failure 400 {object} util.Response "结构校验失败"
// @Router /api/courses/{id}/lessons [post]
func (c *CourseController) CreateLesson(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var req CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	lesson, err := c.CourseService.CreateLesson(claims.UserID, courseID, service.CreateLessonInput{
		Title:          req.Title,
		Description:    req.Description,
		LessonType:     model.LessonType(req.LessonType),
		Order:          req.Order,
		QuizData:       req.QuizData,
		ParentID:       req.ParentID,
		PrerequisiteID: req.PrerequisiteID,
	})
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// GetLesson godoc
// @Summary 访问课时
// @Description 学生访问课时要通过前置课时门禁，放行即记完成；授课教师直接可见
// @Tags 课时
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   lessonId path int true "课时ID"
// @Success 200 {object} util.Response{data=model.Lesson} "成功"
// @Failure 403 {object} util.Response "未购买课程或前置课时未完成"
// @Router /api/courses/{id}/lessons/{lessonId} [get]
func (c *CourseController) GetLesson(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	lessonID, ok := uintParam(ctx, "lessonId")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)

	course, err := c.CourseService.GetCourse(courseID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}

	// 授课教师和管理员不走门禁
	if course.InstructorID != claims.UserID && !claims.IsAdmin() {
		allowed, err := c.AccessService.CanAccessLesson(claims.UserID, courseID, lessonID)
		if err != nil {
			monitoring.LessonAccessCounter.WithLabelValues("denied").Inc()
			util.DomainError(ctx, err)
			return
		}
		if !allowed {
			monitoring.LessonAccessCounter.WithLabelValues("denied").Inc()
			util.DomainError(ctx, util.ErrLessonLocked)
			return
		}
		monitoring.LessonAccessCounter.WithLabelValues("granted").Inc()
	}

	lesson, err := c.CourseService.GetLesson(courseID, lessonID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary 删除课时
// @Description 被其他课时依赖的课时不可删除，删除会级联子课时
// @Tags 课时
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   lessonId path int true "课时ID"
// @Success 204 "删除成功"
// @Failure 400 {object} util.Response "存在依赖该课时的课时"
// @Router /api/courses/{id}/lessons/{lessonId} [delete]
func (c *CourseController) DeleteLesson(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	lessonID, ok := uintParam(ctx, "lessonId")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.CourseService.DeleteLesson(claims.UserID, courseID, lessonID); err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

// swagger:model CloneLessonRequest
type CloneLessonRequest struct {
	TargetCourseID *uint `json:"targetCourseId"`
	PrerequisiteID *uint `json:"prerequisiteId"`
}

// CloneLesson godoc
// @Summary 复制课时
// @Description 把 module 课时及其直接子课时复制到目标课程（默认原课程），副本成为根节点
// @Tags 课时
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   lessonId path int true "课时ID"
// @Param   body body CloneLessonRequest false "目标课程和副本的前置课时"
// @Success 201 {object} util.Response{data=model.Lesson} "创建成功"
// @Failure 400 {object} util.Response "只有 module 课时可以复制"
// @Router /api/courses/{id}/lessons/{lessonId}/clone [post]
func (c *CourseController) CloneLesson(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	lessonID, ok := uintParam(ctx, "lessonId")
	if !ok {
		return
	}

	var req CloneLessonRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	// 不指定目标课程时复制到原课程
	targetCourseID := courseID
	if req.TargetCourseID != nil {
		targetCourseID = *req.TargetCourseID
	}

	claims := util.GetUserFromContext(ctx)
	clone, err := c.CourseService.CloneLesson(claims.UserID, courseID, lessonID, targetCourseID, req.PrerequisiteID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Created(ctx, clone)
}

// UploadLessonContent godoc
// @Summary 上传课时内容
// @Description 上传课时附件，视频文件自动探测时长
// @Tags 课时
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   lessonId path int true "课时ID"
// @Param   file formData file true "内容文件"
// @Success 200 {object} util.Response{data=model.Lesson} "成功"
// @Router /api/courses/{id}/lessons/{lessonId}/content [post]
func (c *CourseController) UploadLessonContent(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	lessonID, ok := uintParam(ctx, "lessonId")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	tmpPath := filepath.Join(os.TempDir(), filepath.Base(fileHeader.Filename))
	if err := ctx.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	var duration float64
	if isVideoFile(fileHeader.Filename) {
		if info, err := util.ProbeVideo(tmpPath); err == nil {
			duration = info.Duration
		} else {
			logger.Log.Warn("video probe failed", zap.String("file", fileHeader.Filename), zap.Error(err))
		}
	}

	file, err := os.Open(tmpPath)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	contentPath, err := c.Storage.SaveLessonContent(ctx.Request.Context(), courseID, lessonID,
		fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	claims := util.GetUserFromContext(ctx)
	lesson, err := c.CourseService.SetLessonContent(claims.UserID, courseID, lessonID, contentPath, duration)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

func isVideoFile(filename string) bool {
	switch filepath.Ext(filename) {
	case ".mp4", ".mov", ".mkv", ".avi", ".webm":
		return true
	}
	return false
}

func uintParam(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}

func uintQuery(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Query(name), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}

func pagination(ctx *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}
