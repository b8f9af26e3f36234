package repository

import (
	"course_hub_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

// FindByID 连同课时一起取出，课时按 order 升序
func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.`order`")
	}).First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindByTitle(title string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("title = ?", title).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindAll(offset, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	if err := r.DB.Model(&model.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.`order`")
	}).Offset(offset).Limit(limit).Order("id").Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) Save(course *model.Course) error {
	return r.DB.Save(course).Error
}

// Delete 删除课程并级联删除其课时（软删除）
func (r *CourseRepository) Delete(course *model.Course) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", course.ID).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(course).Error
	})
}
