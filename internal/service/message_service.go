package service

import (
	"time"

	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
)

// MessageService 课程聊天室。发言和看历史都要求参与者身份
// （已付费学生或授课教师），身份校验统一走 EnrollmentService。
type MessageService struct {
	MessageRepo *repository.MessageRepository
	Enrollment  *EnrollmentService
}

func NewMessageService(messageRepo *repository.MessageRepository, enrollment *EnrollmentService) *MessageService {
	return &MessageService{
		MessageRepo: messageRepo,
		Enrollment:  enrollment,
	}
}

func (s *MessageService) SendMessage(userID, courseID uint, content string) (*model.Message, error) {
	if err := s.requireParticipant(userID, courseID); err != nil {
		return nil, err
	}

	message := &model.Message{
		Content:   content,
		Timestamp: time.Now(),
		SenderID:  userID,
		CourseID:  courseID,
	}
	if err := s.MessageRepo.Create(message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *MessageService) GetMessages(userID, courseID uint, offset, limit int) ([]model.Message, error) {
	if err := s.requireParticipant(userID, courseID); err != nil {
		return nil, err
	}
	return s.MessageRepo.FindByCourse(courseID, offset, limit)
}

func (s *MessageService) requireParticipant(userID, courseID uint) error {
	enrolled, err := s.Enrollment.IsEnrolled(userID, courseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return util.ErrNotEnrolled
	}
	return nil
}
