package service

import (
	"testing"

	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/testutil"
	"course_hub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseChatParticipants(t *testing.T) {
	db := testutil.NewTestDB(t)

	instructor := testutil.CreateUser(t, db, "instructor", model.Instructor)
	student := testutil.CreateUser(t, db, "student", model.Student)
	visitor := testutil.CreateUser(t, db, "visitor", model.Student)
	course := testutil.CreateCourse(t, db, instructor.ID, "Go 入门", 100)

	require.NoError(t, db.Create(&model.Payment{
		UserID:      student.ID,
		CourseID:    course.ID,
		PaymentType: model.PaymentPix,
		Amount:      95,
	}).Error)

	enrollment := NewEnrollmentService(db, repository.NewCourseRepository(db), repository.NewPaymentRepository(db))
	messages := NewMessageService(repository.NewMessageRepository(db, nil), enrollment)

	// 未付费用户不能发言也不能看历史
	_, err := messages.SendMessage(visitor.ID, course.ID, "hello?")
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
	_, err = messages.GetMessages(visitor.ID, course.ID, 0, 20)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	_, err = messages.SendMessage(student.ID, course.ID, "第一课有问题")
	require.NoError(t, err)
	_, err = messages.SendMessage(instructor.ID, course.ID, "具体哪里不懂？")
	require.NoError(t, err)

	history, err := messages.GetMessages(student.ID, course.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// 最新的消息在前
	assert.Equal(t, "具体哪里不懂？", history[0].Content)
	assert.Equal(t, instructor.ID, history[0].SenderID)
}
