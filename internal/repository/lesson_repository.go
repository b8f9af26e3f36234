package repository

import (
	"course_hub_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

// FindByID 取某课程下的一节课时，连同直接子课时
func (r *LessonRepository) FindByID(courseID, lessonID uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Preload("Children", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.`order`")
	}).Where("course_id = ?", courseID).First(&lesson, lessonID).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// FindAnyByID 不限课程查课时，用于区分“不存在”和“在别的课程里”
func (r *LessonRepository) FindAnyByID(lessonID uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, lessonID).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) FindByCourse(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).Order("lessons.`order`").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) Save(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

// CountDependants 有多少课时把 lessonID 作为前置课时
func (r *LessonRepository) CountDependants(lessonID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).
		Where("prerequisite_id = ?", lessonID).
		Count(&count).Error
	return count, err
}

// Delete 删除课时并级联删除其子课时
func (r *LessonRepository) Delete(lesson *model.Lesson) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", lesson.ID).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(lesson).Error
	})
}
