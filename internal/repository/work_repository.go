package repository

import (
	"errors"

	"course_hub_backend/internal/model"

	"gorm.io/gorm"
)

type WorkRepository struct {
	DB *gorm.DB
}

func NewWorkRepository(db *gorm.DB) *WorkRepository {
	return &WorkRepository{DB: db}
}

func (r *WorkRepository) Create(work *model.Work) error {
	return r.DB.Create(work).Error
}

func (r *WorkRepository) FindByID(id uint) (*model.Work, error) {
	var work model.Work
	err := r.DB.First(&work, id).Error
	if err != nil {
		return nil, err
	}
	return &work, nil
}

func (r *WorkRepository) FindByCourse(courseID uint) ([]model.Work, error) {
	var works []model.Work
	err := r.DB.Where("course_id = ?", courseID).Order("id").Find(&works).Error
	return works, err
}

func (r *WorkRepository) Delete(work *model.Work) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("work_id = ?", work.ID).Delete(&model.WorkAnswer{}).Error; err != nil {
			return err
		}
		return tx.Delete(work).Error
	})
}

type WorkAnswerRepository struct {
	DB *gorm.DB
}

func NewWorkAnswerRepository(db *gorm.DB) *WorkAnswerRepository {
	return &WorkAnswerRepository{DB: db}
}

// Upsert 同一学生对同一作业只保留一条答案，重复提交覆盖
func (r *WorkAnswerRepository) Upsert(answer *model.WorkAnswer) error {
	var existing model.WorkAnswer
	err := r.DB.Where("student_id = ? AND work_id = ?", answer.StudentID, answer.WorkID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(answer).Error
	}
	if err != nil {
		return err
	}

	existing.Answers = answer.Answers
	if err := r.DB.Save(&existing).Error; err != nil {
		return err
	}
	*answer = existing
	return nil
}

func (r *WorkAnswerRepository) FindByWork(workID uint) ([]model.WorkAnswer, error) {
	var answers []model.WorkAnswer
	err := r.DB.Where("work_id = ?", workID).Order("id").Find(&answers).Error
	return answers, err
}

func (r *WorkAnswerRepository) FindByStudentAndWork(studentID, workID uint) (*model.WorkAnswer, error) {
	var answer model.WorkAnswer
	err := r.DB.Where("student_id = ? AND work_id = ?", studentID, workID).First(&answer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &answer, nil
}
