package repository

import (
	"errors"

	"course_hub_backend/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) FindByID(paymentID, userID uint) (*model.Payment, error) {
	var payment model.Payment
	err := r.DB.Preload("Course").
		Where("id = ? AND user_id = ?", paymentID, userID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindByUserAndCourse 查该用户对该课程的支付记录，没有则返回 (nil, nil)
func (r *PaymentRepository) FindByUserAndCourse(userID, courseID uint) (*model.Payment, error) {
	var payment model.Payment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) FindAllByUser(userID uint, offset, limit int) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	db := r.DB.Model(&model.Payment{}).Where("user_id = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Preload("Course").
		Where("user_id = ?", userID).
		Offset(offset).Limit(limit).Order("id").
		Find(&payments).Error
	return payments, total, err
}

// FindAllByCourse 某课程的全部支付记录（已付费学生名单）
func (r *PaymentRepository) FindAllByCourse(courseID uint) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.DB.Where("course_id = ?", courseID).Find(&payments).Error
	return payments, err
}
