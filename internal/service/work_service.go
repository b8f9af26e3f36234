package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"

	"gorm.io/gorm"
)

type WorkService struct {
	WorkRepo   *repository.WorkRepository
	AnswerRepo *repository.WorkAnswerRepository
	CourseRepo *repository.CourseRepository
	Enrollment *EnrollmentService
}

func NewWorkService(
	workRepo *repository.WorkRepository,
	answerRepo *repository.WorkAnswerRepository,
	courseRepo *repository.CourseRepository,
	enrollment *EnrollmentService,
) *WorkService {
	return &WorkService{
		WorkRepo:   workRepo,
		AnswerRepo: answerRepo,
		CourseRepo: courseRepo,
		Enrollment: enrollment,
	}
}

// CreateWork 教师发布作业，广播通知全部已付费学生。
// 通知是事件级的：收件人现场收集，Notify 返回记录后即失效。
func (s *WorkService) CreateWork(instructorID, courseID uint, title string, questions json.RawMessage) (*model.Work, []Notification, error) {
	course, err := s.ownedCourse(instructorID, courseID)
	if err != nil {
		return nil, nil, err
	}

	work := &model.Work{
		Title:     title,
		Questions: questions,
		CourseID:  courseID,
	}
	if err := s.WorkRepo.Create(work); err != nil {
		return nil, nil, err
	}

	studentIDs, err := s.Enrollment.EnrolledStudentIDs(courseID)
	if err != nil {
		return nil, nil, err
	}

	var fanout NotificationFanout
	for _, id := range studentIDs {
		fanout.Attach(StudentRecipient(id))
	}
	notifications := fanout.Notify(fmt.Sprintf("New work %q published in course %q", work.Title, course.Title))

	return work, notifications, nil
}

// SubmitAnswer 学生交作业，重复提交覆盖旧答案，交卷后通知授课教师
func (s *WorkService) SubmitAnswer(studentID, courseID, workID uint, answers json.RawMessage) (*model.WorkAnswer, []Notification, error) {
	enrolled, err := s.Enrollment.IsEnrolled(studentID, courseID)
	if err != nil {
		return nil, nil, err
	}
	if !enrolled {
		return nil, nil, util.ErrNotEnrolled
	}

	work, err := s.courseWork(courseID, workID)
	if err != nil {
		return nil, nil, err
	}

	answer := &model.WorkAnswer{
		Answers:   answers,
		StudentID: studentID,
		WorkID:    work.ID,
	}
	if err := s.AnswerRepo.Upsert(answer); err != nil {
		return nil, nil, err
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, nil, err
	}

	var fanout NotificationFanout
	fanout.Attach(InstructorRecipient(course.InstructorID))
	notifications := fanout.Notify(fmt.Sprintf("New answer submitted for work %q", work.Title))

	return answer, notifications, nil
}

// ListWorks 课程作业列表，学生和授课教师都可见
func (s *WorkService) ListWorks(userID, courseID uint) ([]model.Work, error) {
	enrolled, err := s.Enrollment.IsEnrolled(userID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}
	return s.WorkRepo.FindByCourse(courseID)
}

// ListAnswers 某作业的全部答卷，仅授课教师可见
func (s *WorkService) ListAnswers(instructorID, courseID, workID uint) ([]model.WorkAnswer, error) {
	if _, err := s.ownedCourse(instructorID, courseID); err != nil {
		return nil, err
	}
	if _, err := s.courseWork(courseID, workID); err != nil {
		return nil, err
	}
	return s.AnswerRepo.FindByWork(workID)
}

func (s *WorkService) MyAnswer(studentID, courseID, workID uint) (*model.WorkAnswer, error) {
	if _, err := s.courseWork(courseID, workID); err != nil {
		return nil, err
	}
	answer, err := s.AnswerRepo.FindByStudentAndWork(studentID, workID)
	if err != nil {
		return nil, err
	}
	if answer == nil {
		return nil, util.ErrAnswerNotFound
	}
	return answer, nil
}

func (s *WorkService) DeleteWork(instructorID, courseID, workID uint) error {
	if _, err := s.ownedCourse(instructorID, courseID); err != nil {
		return err
	}
	work, err := s.courseWork(courseID, workID)
	if err != nil {
		return err
	}
	return s.WorkRepo.Delete(work)
}

func (s *WorkService) courseWork(courseID, workID uint) (*model.Work, error) {
	work, err := s.WorkRepo.FindByID(workID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrWorkNotFound
	}
	if err != nil {
		return nil, err
	}
	if work.CourseID != courseID {
		return nil, util.ErrWorkNotFound
	}
	return work, nil
}

func (s *WorkService) ownedCourse(instructorID, courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, util.ErrNotCourseOwner
	}
	return course, nil
}
