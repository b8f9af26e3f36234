package service

import (
	"encoding/json"
	"testing"

	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/testutil"
	"course_hub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type workFixture struct {
	db         *gorm.DB
	works      *WorkService
	instructor *model.User
	course     *model.Course
}

func newWorkFixture(t *testing.T) *workFixture {
	db := testutil.NewTestDB(t)
	instructor := testutil.CreateUser(t, db, "instructor", model.Instructor)
	course := testutil.CreateCourse(t, db, instructor.ID, "Go 入门", 100)

	enrollment := NewEnrollmentService(db, repository.NewCourseRepository(db), repository.NewPaymentRepository(db))
	works := NewWorkService(
		repository.NewWorkRepository(db),
		repository.NewWorkAnswerRepository(db),
		repository.NewCourseRepository(db),
		enrollment,
	)

	return &workFixture{db: db, works: works, instructor: instructor, course: course}
}

func (f *workFixture) enrollStudent(t *testing.T, name string) *model.User {
	t.Helper()
	student := testutil.CreateUser(t, f.db, name, model.Student)
	err := f.db.Create(&model.Payment{
		UserID:      student.ID,
		CourseID:    f.course.ID,
		PaymentType: model.PaymentPix,
		Amount:      95,
	}).Error
	require.NoError(t, err)
	return student
}

func TestCreateWorkNotifiesEnrolledStudents(t *testing.T) {
	f := newWorkFixture(t)
	alice := f.enrollStudent(t, "alice")
	bob := f.enrollStudent(t, "bob")
	testutil.CreateUser(t, f.db, "visitor", model.Student)

	work, notifications, err := f.works.CreateWork(f.instructor.ID, f.course.ID, "第一次作业", json.RawMessage(`["q1"]`))
	require.NoError(t, err)
	require.NotZero(t, work.ID)

	// 只通知已付费学生
	require.Len(t, notifications, 2)
	recipients := map[uint]bool{}
	for _, n := range notifications {
		assert.Equal(t, RecipientStudent, n.RecipientType)
		assert.Contains(t, n.Message, "第一次作业")
		recipients[n.RecipientID] = true
	}
	assert.True(t, recipients[alice.ID])
	assert.True(t, recipients[bob.ID])
}

func TestCreateWorkRequiresOwner(t *testing.T) {
	f := newWorkFixture(t)
	other := testutil.CreateUser(t, f.db, "other", model.Instructor)

	_, _, err := f.works.CreateWork(other.ID, f.course.ID, "作业", json.RawMessage(`[]`))
	assert.ErrorIs(t, err, util.ErrNotCourseOwner)
}

func TestSubmitAnswerUpsertsAndNotifiesInstructor(t *testing.T) {
	f := newWorkFixture(t)
	student := f.enrollStudent(t, "alice")

	work, _, err := f.works.CreateWork(f.instructor.ID, f.course.ID, "作业", json.RawMessage(`["q1"]`))
	require.NoError(t, err)

	answer, notifications, err := f.works.SubmitAnswer(student.ID, f.course.ID, work.ID, json.RawMessage(`["a"]`))
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, RecipientInstructor, notifications[0].RecipientType)
	assert.Equal(t, f.instructor.ID, notifications[0].RecipientID)

	// 重复提交覆盖旧答案
	updated, _, err := f.works.SubmitAnswer(student.ID, f.course.ID, work.ID, json.RawMessage(`["b"]`))
	require.NoError(t, err)
	assert.Equal(t, answer.ID, updated.ID)
	assert.JSONEq(t, `["b"]`, string(updated.Answers))

	var count int64
	f.db.Model(&model.WorkAnswer{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSubmitAnswerRequiresEnrollment(t *testing.T) {
	f := newWorkFixture(t)
	visitor := testutil.CreateUser(t, f.db, "visitor", model.Student)

	work, _, err := f.works.CreateWork(f.instructor.ID, f.course.ID, "作业", json.RawMessage(`[]`))
	require.NoError(t, err)

	_, _, err = f.works.SubmitAnswer(visitor.ID, f.course.ID, work.ID, json.RawMessage(`["a"]`))
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestListAnswersRequiresOwner(t *testing.T) {
	f := newWorkFixture(t)
	student := f.enrollStudent(t, "alice")

	work, _, err := f.works.CreateWork(f.instructor.ID, f.course.ID, "作业", json.RawMessage(`[]`))
	require.NoError(t, err)

	_, _, err = f.works.SubmitAnswer(student.ID, f.course.ID, work.ID, json.RawMessage(`["a"]`))
	require.NoError(t, err)

	answers, err := f.works.ListAnswers(f.instructor.ID, f.course.ID, work.ID)
	require.NoError(t, err)
	assert.Len(t, answers, 1)

	_, err = f.works.ListAnswers(student.ID, f.course.ID, work.ID)
	assert.ErrorIs(t, err, util.ErrNotCourseOwner)
}

func TestMyAnswer(t *testing.T) {
	f := newWorkFixture(t)
	student := f.enrollStudent(t, "alice")

	work, _, err := f.works.CreateWork(f.instructor.ID, f.course.ID, "作业", json.RawMessage(`[]`))
	require.NoError(t, err)

	_, err = f.works.MyAnswer(student.ID, f.course.ID, work.ID)
	assert.ErrorIs(t, err, util.ErrAnswerNotFound)

	_, _, err = f.works.SubmitAnswer(student.ID, f.course.ID, work.ID, json.RawMessage(`["a"]`))
	require.NoError(t, err)

	answer, err := f.works.MyAnswer(student.ID, f.course.ID, work.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, string(answer.Answers))
}

func TestDeleteWorkRemovesAnswers(t *testing.T) {
	f := newWorkFixture(t)
	student := f.enrollStudent(t, "alice")

	work, _, err := f.works.CreateWork(f.instructor.ID, f.course.ID, "作业", json.RawMessage(`[]`))
	require.NoError(t, err)
	_, _, err = f.works.SubmitAnswer(student.ID, f.course.ID, work.ID, json.RawMessage(`["a"]`))
	require.NoError(t, err)

	require.NoError(t, f.works.DeleteWork(f.instructor.ID, f.course.ID, work.ID))

	var works, answers int64
	f.db.Model(&model.Work{}).Count(&works)
	f.db.Model(&model.WorkAnswer{}).Count(&answers)
	assert.Zero(t, works)
	assert.Zero(t, answers)
}
