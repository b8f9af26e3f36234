package service

import (
	"encoding/json"
	"errors"

	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseService struct {
	DB         *gorm.DB
	CourseRepo *repository.CourseRepository
	LessonRepo *repository.LessonRepository
}

func NewCourseService(
	db *gorm.DB,
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
) *CourseService {
	return &CourseService{
		DB:         db,
		CourseRepo: courseRepo,
		LessonRepo: lessonRepo,
	}
}

type CreateCourseInput struct {
	Title       string
	Description string
	Price       float64
}

func (s *CourseService) CreateCourse(instructorID uint, input CreateCourseInput) (*model.Course, error) {
	if input.Price < 0 {
		return nil, util.ErrNegativePrice
	}

	if _, err := s.CourseRepo.FindByTitle(input.Title); err == nil {
		return nil, util.ErrDuplicateTitle
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	course := &model.Course{
		Title:        input.Title,
		Description:  input.Description,
		Price:        input.Price,
		IsActive:     true,
		InstructorID: instructorID,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}

	logger.Log.Info("course created",
		zap.Uint("courseId", course.ID),
		zap.Uint("instructorId", instructorID),
		zap.String("title", course.Title))
	return course, nil
}

func (s *CourseService) GetCourse(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ListCourses(offset, limit int) ([]model.Course, int64, error) {
	return s.CourseRepo.FindAll(offset, limit)
}

type UpdateCourseInput struct {
	Title       *string
	Description *string
	Price       *float64
	IsActive    *bool
}

func (s *CourseService) UpdateCourse(instructorID, courseID uint, input UpdateCourseInput) (*model.Course, error) {
	course, err := s.ownedCourse(instructorID, courseID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil && *input.Title != course.Title {
		if _, err := s.CourseRepo.FindByTitle(*input.Title); err == nil {
			return nil, util.ErrDuplicateTitle
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		course.Title = *input.Title
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, util.ErrNegativePrice
		}
		course.Price = *input.Price
	}
	if input.IsActive != nil {
		course.IsActive = *input.IsActive
	}

	if err := s.CourseRepo.Save(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(instructorID, courseID uint) error {
	course, err := s.ownedCourse(instructorID, courseID)
	if err != nil {
		return err
	}
	return s.CourseRepo.Delete(course)
}

type CreateLessonInput struct {
	Title          string
	Description    string
	LessonType     model.LessonType
	Order          int
	QuizData       json.RawMessage
	ParentID       *uint
	PrerequisiteID *uint
}

// CreateLesson 新建课时。父节点必须是同课程的 module，
// 前置课时必须属于同一课程且不能同时作为父节点。
func (s *CourseService) CreateLesson(instructorID, courseID uint, input CreateLessonInput) (*model.Lesson, error) {
	if _, err := s.ownedCourse(instructorID, courseID); err != nil {
		return nil, err
	}

	if input.ParentID != nil && input.PrerequisiteID != nil && *input.ParentID == *input.PrerequisiteID {
		return nil, util.ErrPrerequisiteIsParent
	}

	if input.ParentID != nil {
		parent, err := s.LessonRepo.FindByID(courseID, *input.ParentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrParentNotFound
		}
		if err != nil {
			return nil, err
		}
		if !parent.IsModule() {
			return nil, util.ErrParentNotModule
		}
	}

	if input.PrerequisiteID != nil {
		prerequisite, err := s.LessonRepo.FindAnyByID(*input.PrerequisiteID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPrerequisiteNotFound
		}
		if err != nil {
			return nil, err
		}
		if prerequisite.CourseID != courseID {
			return nil, util.ErrPrerequisiteCourse
		}
	}

	lessonType := input.LessonType
	if lessonType == "" {
		lessonType = model.LessonVideo
	}

	lesson := &model.Lesson{
		Title:          input.Title,
		Description:    input.Description,
		LessonType:     lessonType,
		Order:          input.Order,
		QuizData:       input.QuizData,
		CourseID:       courseID,
		ParentID:       input.ParentID,
		PrerequisiteID: input.PrerequisiteID,
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) GetLesson(courseID, lessonID uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(courseID, lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

// DeleteLesson 被其他课时作为前置依赖的课时不能删
func (s *CourseService) DeleteLesson(instructorID, courseID, lessonID uint) error {
	if _, err := s.ownedCourse(instructorID, courseID); err != nil {
		return err
	}

	lesson, err := s.GetLesson(courseID, lessonID)
	if err != nil {
		return err
	}

	dependants, err := s.LessonRepo.CountDependants(lessonID)
	if err != nil {
		return err
	}
	if dependants > 0 {
		return util.ErrLessonHasDependants
	}
	return s.LessonRepo.Delete(lesson)
}

// SetLessonContent 上传完成后回填内容路径和视频时长
func (s *CourseService) SetLessonContent(instructorID, courseID, lessonID uint, contentPath string, durationSeconds float64) (*model.Lesson, error) {
	if _, err := s.ownedCourse(instructorID, courseID); err != nil {
		return nil, err
	}

	lesson, err := s.GetLesson(courseID, lessonID)
	if err != nil {
		return nil, err
	}

	lesson.ContentPath = contentPath
	if durationSeconds > 0 {
		lesson.DurationSeconds = durationSeconds
	}
	if err := s.LessonRepo.Save(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// CloneLesson 把一个 module 课时及其直接子课时复制到目标课程
// （可以是原课程自身）。副本成为根节点（parent 置空，前置课时用
// 传入值）；子课时的 parent 指向新 module，前置如果指向被复制集合
// 内部，改指新副本，指向集合外的保持原值。整个复制在一个事务里完成。
func (s *CourseService) CloneLesson(instructorID, courseID, lessonID, targetCourseID uint, prerequisiteID *uint) (*model.Lesson, error) {
	if _, err := s.ownedCourse(instructorID, courseID); err != nil {
		return nil, err
	}
	if targetCourseID != courseID {
		if _, err := s.ownedCourse(instructorID, targetCourseID); err != nil {
			return nil, err
		}
	}

	source, err := s.GetLesson(courseID, lessonID)
	if err != nil {
		return nil, err
	}
	if !source.IsModule() {
		return nil, util.ErrCloneNotModule
	}

	// 副本的前置必须属于目标课程
	if prerequisiteID != nil {
		prerequisite, err := s.LessonRepo.FindAnyByID(*prerequisiteID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPrerequisiteNotFound
		}
		if err != nil {
			return nil, err
		}
		if prerequisite.CourseID != targetCourseID {
			return nil, util.ErrPrerequisiteCourse
		}
	}

	var clone *model.Lesson
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		clone = &model.Lesson{
			Title:          source.Title,
			Description:    source.Description,
			LessonType:     source.LessonType,
			Order:          source.Order,
			ContentPath:    source.ContentPath,
			QuizData:       source.QuizData,
			CourseID:       targetCourseID,
			PrerequisiteID: prerequisiteID,
		}
		if err := tx.Create(clone).Error; err != nil {
			return err
		}

		idMap := map[uint]uint{source.ID: clone.ID}
		for i := range source.Children {
			child := &source.Children[i]
			copied := &model.Lesson{
				Title:           child.Title,
				Description:     child.Description,
				LessonType:      child.LessonType,
				Order:           child.Order,
				ContentPath:     child.ContentPath,
				QuizData:        child.QuizData,
				DurationSeconds: child.DurationSeconds,
				CourseID:        targetCourseID,
				ParentID:        &clone.ID,
				PrerequisiteID:  child.PrerequisiteID,
			}
			if err := tx.Create(copied).Error; err != nil {
				return err
			}
			idMap[child.ID] = copied.ID
			clone.Children = append(clone.Children, *copied)
		}

		// 集合内前置重新指向新副本
		for i := range clone.Children {
			copied := &clone.Children[i]
			if copied.PrerequisiteID == nil {
				continue
			}
			if newID, ok := idMap[*copied.PrerequisiteID]; ok {
				copied.PrerequisiteID = &newID
				if err := tx.Model(&model.Lesson{}).
					Where("id = ?", copied.ID).
					Update("prerequisite_id", newID).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("lesson cloned",
		zap.Uint("courseId", courseID),
		zap.Uint("targetCourseId", targetCourseID),
		zap.Uint("sourceId", lessonID),
		zap.Uint("cloneId", clone.ID),
		zap.Int("children", len(clone.Children)))
	return clone, nil
}

// RenderCourse 课程大纲的文本渲染
func (s *CourseService) RenderCourse(courseID uint) (string, error) {
	course, err := s.GetCourse(courseID)
	if err != nil {
		return "", err
	}
	lessons, err := s.LessonRepo.FindByCourse(courseID)
	if err != nil {
		return "", err
	}
	return model.NewLessonTree(course, lessons).Render(), nil
}

// LessonTree 课程的课时树视图
func (s *CourseService) LessonTree(courseID uint) (*model.LessonTree, error) {
	course, err := s.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.LessonRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}
	return model.NewLessonTree(course, lessons), nil
}

func (s *CourseService) ownedCourse(instructorID, courseID uint) (*model.Course, error) {
	course, err := s.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, util.ErrNotCourseOwner
	}
	return course, nil
}
