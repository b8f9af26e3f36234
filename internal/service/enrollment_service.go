package service

import (
	"errors"
	"math"

	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/logger"
	"course_hub_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// pricingFunc 按支付方式计算实际入账金额和期数
type pricingFunc func(price float64) (amount float64, installments int)

// 定价用查表分发，新增支付方式只要注册一个表项
var pricingTable = map[model.PaymentType]pricingFunc{
	model.PaymentCreditCard: func(price float64) (float64, int) {
		return round2(price / 3), 3
	},
	model.PaymentPix: func(price float64) (float64, int) {
		return round2(price * 0.95), 1
	},
	model.PaymentBillet: func(price float64) (float64, int) {
		return price, 1
	},
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type EnrollmentService struct {
	DB          *gorm.DB
	CourseRepo  *repository.CourseRepository
	PaymentRepo *repository.PaymentRepository
}

func NewEnrollmentService(
	db *gorm.DB,
	courseRepo *repository.CourseRepository,
	paymentRepo *repository.PaymentRepository,
) *EnrollmentService {
	return &EnrollmentService{
		DB:          db,
		CourseRepo:  courseRepo,
		PaymentRepo: paymentRepo,
	}
}

// CreatePayment 学生购买课程。
// 支付记录和全量进度记录（未完成）在同一个事务里落库，
// 进度预置后访问控制只需要查进度表。
func (s *EnrollmentService) CreatePayment(userID, courseID uint, paymentType model.PaymentType, amount float64) (*model.Payment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	if amount != course.Price {
		return nil, util.ErrAmountMismatch
	}

	existing, err := s.PaymentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrAlreadyPaid
	}

	pricing, ok := pricingTable[paymentType]
	if !ok {
		return nil, util.ErrUnknownPaymentType
	}
	charged, installments := pricing(amount)

	payment := &model.Payment{
		UserID:       userID,
		CourseID:     courseID,
		PaymentType:  paymentType,
		Amount:       charged,
		Installments: installments,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		for i := range course.Lessons {
			progression := &model.LessonProgression{
				UserID:    userID,
				LessonID:  course.Lessons[i].ID,
				Completed: false,
			}
			if err := tx.Create(progression).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.PaymentCounter.WithLabelValues(string(paymentType)).Inc()
	logger.Log.Info("payment created",
		zap.Uint("userId", userID),
		zap.Uint("courseId", courseID),
		zap.String("paymentType", string(paymentType)),
		zap.Float64("amount", charged),
		zap.Int("installments", installments))

	payment.Course = course
	return payment, nil
}

func (s *EnrollmentService) GetPayment(paymentID, userID uint) (*model.Payment, error) {
	payment, err := s.PaymentRepo.FindByID(paymentID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *EnrollmentService) ListPayments(userID uint, offset, limit int) ([]model.Payment, int64, error) {
	return s.PaymentRepo.FindAllByUser(userID, offset, limit)
}

// IsEnrolled 有支付记录或者本人就是授课教师即视为已加入课程
func (s *EnrollmentService) IsEnrolled(userID, courseID uint) (bool, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, util.ErrCourseNotFound
	}
	if err != nil {
		return false, err
	}
	if course.InstructorID == userID {
		return true, nil
	}

	payment, err := s.PaymentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return false, err
	}
	return payment != nil, nil
}

// EnrolledStudentIDs 某课程全部已付费学生的 ID
func (s *EnrollmentService) EnrolledStudentIDs(courseID uint) ([]uint, error) {
	payments, err := s.PaymentRepo.FindAllByCourse(courseID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(payments))
	for _, p := range payments {
		ids = append(ids, p.UserID)
	}
	return ids, nil
}
