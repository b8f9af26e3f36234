package service

import (
	"errors"

	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"

	"gorm.io/gorm"
)

// AccessHandler 责任链：每个 handler 只检查一节课的直接前置课时。
// SetNext 保留了串联多个 handler 的能力，目前调用点都只挂单个 handler。
type AccessHandler struct {
	lesson *model.Lesson
	next   *AccessHandler
}

func NewAccessHandler(lesson *model.Lesson) *AccessHandler {
	return &AccessHandler{lesson: lesson}
}

func (h *AccessHandler) SetNext(next *AccessHandler) *AccessHandler {
	h.next = next
	return next
}

// Handle 本节点放行后继续交给下一个 handler，链上全部通过才算可访问
func (h *AccessHandler) Handle(userID uint, progress map[uint]*model.LessonProgression) bool {
	if !h.canAccess(userID, progress) {
		return false
	}
	if h.next != nil {
		return h.next.Handle(userID, progress)
	}
	return true
}

func (h *AccessHandler) canAccess(userID uint, progress map[uint]*model.LessonProgression) bool {
	if h.lesson.PrerequisiteID == nil {
		return true
	}

	p := progress[*h.lesson.PrerequisiteID]
	if p == nil {
		return false
	}
	return p.UserID == userID && p.Completed
}

type LessonAccessService struct {
	LessonRepo      *repository.LessonRepository
	ProgressionRepo *repository.ProgressionRepository
}

func NewLessonAccessService(
	lessonRepo *repository.LessonRepository,
	progressionRepo *repository.ProgressionRepository,
) *LessonAccessService {
	return &LessonAccessService{
		LessonRepo:      lessonRepo,
		ProgressionRepo: progressionRepo,
	}
}

// CanAccessLesson 判断学生当前能否访问某节课时。
// 进度记录只取本课程的，整批取一次；该课程下没有任何记录视为未购买。
// 放行即视为完成（没有单独的“已浏览”状态），重复访问不再改动已完成的记录。
func (s *LessonAccessService) CanAccessLesson(studentID, courseID, lessonID uint) (bool, error) {
	progressions, err := s.ProgressionRepo.FindByUser(studentID, courseID)
	if err != nil {
		return false, err
	}
	if len(progressions) == 0 {
		return false, util.ErrNotEnrolled
	}
	progress := repository.MapByLesson(progressions)

	lesson, err := s.LessonRepo.FindByID(courseID, lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, util.ErrLessonNotFound
	}
	if err != nil {
		return false, err
	}

	handler := NewAccessHandler(lesson)
	if !handler.Handle(studentID, progress) {
		return false, nil
	}

	if p := progress[lessonID]; p == nil || !p.Completed {
		if err := s.ProgressionRepo.MarkCompleted(studentID, lessonID); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Progressions 学生的进度记录，courseID 为 0 时取全部
func (s *LessonAccessService) Progressions(studentID, courseID uint) ([]model.LessonProgression, error) {
	return s.ProgressionRepo.FindByUser(studentID, courseID)
}
