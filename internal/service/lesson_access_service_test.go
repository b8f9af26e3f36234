package service

import (
	"testing"

	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/testutil"
	"course_hub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type accessFixture struct {
	db      *gorm.DB
	access  *LessonAccessService
	student *model.User
	course  *model.Course
	first   *model.Lesson
	second  *model.Lesson
}

func newAccessFixture(t *testing.T) *accessFixture {
	db := testutil.NewTestDB(t)

	instructor := testutil.CreateUser(t, db, "instructor", model.Instructor)
	student := testutil.CreateUser(t, db, "student", model.Student)
	course := testutil.CreateCourse(t, db, instructor.ID, "Go 入门", 100)

	first := testutil.CreateLesson(t, db, course.ID, "环境搭建", model.LessonVideo, 1, nil, nil)
	second := testutil.CreateLesson(t, db, course.ID, "第一个程序", model.LessonVideo, 2, nil, &first.ID)

	return &accessFixture{
		db:      db,
		access:  NewLessonAccessService(repository.NewLessonRepository(db), repository.NewProgressionRepository(db)),
		student: student,
		course:  course,
		first:   first,
		second:  second,
	}
}

func (f *accessFixture) enroll(t *testing.T) {
	t.Helper()
	for _, lesson := range []*model.Lesson{f.first, f.second} {
		err := f.db.Create(&model.LessonProgression{
			UserID:   f.student.ID,
			LessonID: lesson.ID,
		}).Error
		require.NoError(t, err)
	}
}

func TestCanAccessLessonWithoutEnrollment(t *testing.T) {
	f := newAccessFixture(t)

	_, err := f.access.CanAccessLesson(f.student.ID, f.course.ID, f.first.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestCanAccessLessonEnrollmentIsPerCourse(t *testing.T) {
	f := newAccessFixture(t)
	f.enroll(t)

	// 买过别的课不能解锁没买的课
	other := testutil.CreateUser(t, f.db, "other_instructor", model.Instructor)
	unpaid := testutil.CreateCourse(t, f.db, other.ID, "没买的课", 100)
	lesson := testutil.CreateLesson(t, f.db, unpaid.ID, "公开章节", model.LessonVideo, 1, nil, nil)

	_, err := f.access.CanAccessLesson(f.student.ID, unpaid.ID, lesson.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	// 被拒绝的访问不产生进度记录
	var count int64
	f.db.Model(&model.LessonProgression{}).
		Where("user_id = ? AND lesson_id = ?", f.student.ID, lesson.ID).
		Count(&count)
	assert.Zero(t, count)
}

func TestCanAccessLessonWithoutPrerequisite(t *testing.T) {
	f := newAccessFixture(t)
	f.enroll(t)

	allowed, err := f.access.CanAccessLesson(f.student.ID, f.course.ID, f.first.ID)
	require.NoError(t, err)
	assert.True(t, allowed)

	// 放行即视为完成
	var progression model.LessonProgression
	err = f.db.Where("user_id = ? AND lesson_id = ?", f.student.ID, f.first.ID).First(&progression).Error
	require.NoError(t, err)
	assert.True(t, progression.Completed)
}

func TestCanAccessLessonBlockedByPrerequisite(t *testing.T) {
	f := newAccessFixture(t)
	f.enroll(t)

	allowed, err := f.access.CanAccessLesson(f.student.ID, f.course.ID, f.second.ID)
	require.NoError(t, err)
	assert.False(t, allowed)

	// 被拒绝的访问不产生完成记录
	var progression model.LessonProgression
	err = f.db.Where("user_id = ? AND lesson_id = ?", f.student.ID, f.second.ID).First(&progression).Error
	require.NoError(t, err)
	assert.False(t, progression.Completed)
}

func TestCanAccessLessonAfterCompletingPrerequisite(t *testing.T) {
	f := newAccessFixture(t)
	f.enroll(t)

	allowed, err := f.access.CanAccessLesson(f.student.ID, f.course.ID, f.first.ID)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = f.access.CanAccessLesson(f.student.ID, f.course.ID, f.second.ID)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCanAccessLessonIsIdempotent(t *testing.T) {
	f := newAccessFixture(t)
	f.enroll(t)

	for i := 0; i < 3; i++ {
		allowed, err := f.access.CanAccessLesson(f.student.ID, f.course.ID, f.first.ID)
		require.NoError(t, err)
		require.True(t, allowed)
	}

	var count int64
	f.db.Model(&model.LessonProgression{}).
		Where("user_id = ? AND lesson_id = ?", f.student.ID, f.first.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCanAccessLessonUnknownLesson(t *testing.T) {
	f := newAccessFixture(t)
	f.enroll(t)

	_, err := f.access.CanAccessLesson(f.student.ID, f.course.ID, 9999)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestAccessHandlerChain(t *testing.T) {
	prereq := uint(10)
	gated := &model.Lesson{BaseModel: model.BaseModel{ID: 11}, PrerequisiteID: &prereq}
	open := &model.Lesson{BaseModel: model.BaseModel{ID: 12}}

	progress := map[uint]*model.LessonProgression{
		prereq: {UserID: 1, LessonID: prereq, Completed: true},
	}

	head := NewAccessHandler(open)
	head.SetNext(NewAccessHandler(gated))
	assert.True(t, head.Handle(1, progress))

	// 前置记录属于其他用户时不放行
	otherProgress := map[uint]*model.LessonProgression{
		prereq: {UserID: 2, LessonID: prereq, Completed: true},
	}
	assert.False(t, head.Handle(1, otherProgress))
}
