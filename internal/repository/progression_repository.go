package repository

import (
	"errors"

	"course_hub_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressionRepository struct {
	DB *gorm.DB
}

func NewProgressionRepository(db *gorm.DB) *ProgressionRepository {
	return &ProgressionRepository{DB: db}
}

// FindByUser 一次取出学生的全部进度记录，可选按课程过滤。
// 门禁检查每个请求只查一次，后续全部走内存 map。
func (r *ProgressionRepository) FindByUser(userID uint, courseID uint) ([]model.LessonProgression, error) {
	var progressions []model.LessonProgression
	db := r.DB.Where("lesson_progressions.user_id = ?", userID)
	if courseID != 0 {
		db = db.Joins("JOIN lessons ON lessons.id = lesson_progressions.lesson_id").
			Where("lessons.course_id = ?", courseID)
	}
	err := db.Find(&progressions).Error
	return progressions, err
}

// MapByLesson lesson_id -> 进度记录
func MapByLesson(progressions []model.LessonProgression) map[uint]*model.LessonProgression {
	m := make(map[uint]*model.LessonProgression, len(progressions))
	for i := range progressions {
		m[progressions[i].LessonID] = &progressions[i]
	}
	return m
}

func (r *ProgressionRepository) FindByUserAndLesson(userID, lessonID uint) (*model.LessonProgression, error) {
	var progression model.LessonProgression
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progression).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progression, nil
}

// MarkCompleted 把某学生的某课时标记为已完成，没有记录则补一条
func (r *ProgressionRepository) MarkCompleted(userID, lessonID uint) error {
	progression, err := r.FindByUserAndLesson(userID, lessonID)
	if err != nil {
		return err
	}
	if progression == nil {
		return r.DB.Create(&model.LessonProgression{
			UserID:    userID,
			LessonID:  lessonID,
			Completed: true,
		}).Error
	}
	if progression.Completed {
		return nil
	}
	return r.DB.Model(progression).Update("completed", true).Error
}
