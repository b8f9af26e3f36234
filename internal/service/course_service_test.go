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

type courseFixture struct {
	db         *gorm.DB
	courses    *CourseService
	instructor *model.User
	course     *model.Course
}

func newCourseFixture(t *testing.T) *courseFixture {
	db := testutil.NewTestDB(t)
	instructor := testutil.CreateUser(t, db, "instructor", model.Instructor)
	course := testutil.CreateCourse(t, db, instructor.ID, "Go 入门", 100)

	return &courseFixture{
		db:         db,
		courses:    NewCourseService(db, repository.NewCourseRepository(db), repository.NewLessonRepository(db)),
		instructor: instructor,
		course:     course,
	}
}

func TestCreateCourseValidation(t *testing.T) {
	f := newCourseFixture(t)

	_, err := f.courses.CreateCourse(f.instructor.ID, CreateCourseInput{Title: "负价课程", Price: -1})
	assert.ErrorIs(t, err, util.ErrNegativePrice)

	_, err = f.courses.CreateCourse(f.instructor.ID, CreateCourseInput{Title: "Go 入门", Price: 50})
	assert.ErrorIs(t, err, util.ErrDuplicateTitle)

	course, err := f.courses.CreateCourse(f.instructor.ID, CreateCourseInput{Title: "免费课程", Price: 0})
	require.NoError(t, err)
	assert.True(t, course.IsActive)
}

func TestCreateLessonStructureValidation(t *testing.T) {
	f := newCourseFixture(t)

	module := testutil.CreateLesson(t, f.db, f.course.ID, "第一章", model.LessonModule, 1, nil, nil)
	video := testutil.CreateLesson(t, f.db, f.course.ID, "视频课", model.LessonVideo, 2, nil, nil)

	otherCourse := testutil.CreateCourse(t, f.db, f.instructor.ID, "另一门课", 50)
	foreign := testutil.CreateLesson(t, f.db, otherCourse.ID, "外部课时", model.LessonVideo, 1, nil, nil)

	// 父节点必须是 module
	_, err := f.courses.CreateLesson(f.instructor.ID, f.course.ID, CreateLessonInput{
		Title: "子课时", ParentID: &video.ID,
	})
	assert.ErrorIs(t, err, util.ErrParentNotModule)

	// 父节点和前置不能是同一节课
	_, err = f.courses.CreateLesson(f.instructor.ID, f.course.ID, CreateLessonInput{
		Title: "子课时", ParentID: &module.ID, PrerequisiteID: &module.ID,
	})
	assert.ErrorIs(t, err, util.ErrPrerequisiteIsParent)

	// 前置课时必须属于同一课程
	_, err = f.courses.CreateLesson(f.instructor.ID, f.course.ID, CreateLessonInput{
		Title: "子课时", PrerequisiteID: &foreign.ID,
	})
	assert.ErrorIs(t, err, util.ErrPrerequisiteCourse)

	missing := uint(9999)
	_, err = f.courses.CreateLesson(f.instructor.ID, f.course.ID, CreateLessonInput{
		Title: "子课时", ParentID: &missing,
	})
	assert.ErrorIs(t, err, util.ErrParentNotFound)

	lesson, err := f.courses.CreateLesson(f.instructor.ID, f.course.ID, CreateLessonInput{
		Title: "子课时", ParentID: &module.ID, PrerequisiteID: &video.ID, Order: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, model.LessonVideo, lesson.LessonType)
	assert.Equal(t, module.ID, *lesson.ParentID)
}

func TestCreateLessonRequiresOwner(t *testing.T) {
	f := newCourseFixture(t)
	other := testutil.CreateUser(t, f.db, "other", model.Instructor)

	_, err := f.courses.CreateLesson(other.ID, f.course.ID, CreateLessonInput{Title: "课时"})
	assert.ErrorIs(t, err, util.ErrNotCourseOwner)
}

func TestDeleteLessonDependantProtection(t *testing.T) {
	f := newCourseFixture(t)

	first := testutil.CreateLesson(t, f.db, f.course.ID, "基础", model.LessonVideo, 1, nil, nil)
	testutil.CreateLesson(t, f.db, f.course.ID, "进阶", model.LessonVideo, 2, nil, &first.ID)

	err := f.courses.DeleteLesson(f.instructor.ID, f.course.ID, first.ID)
	assert.ErrorIs(t, err, util.ErrLessonHasDependants)

	var count int64
	f.db.Model(&model.Lesson{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestDeleteLessonCascadesChildren(t *testing.T) {
	f := newCourseFixture(t)

	module := testutil.CreateLesson(t, f.db, f.course.ID, "第一章", model.LessonModule, 1, nil, nil)
	testutil.CreateLesson(t, f.db, f.course.ID, "子课时一", model.LessonVideo, 1, &module.ID, nil)
	testutil.CreateLesson(t, f.db, f.course.ID, "子课时二", model.LessonVideo, 2, &module.ID, nil)

	require.NoError(t, f.courses.DeleteLesson(f.instructor.ID, f.course.ID, module.ID))

	var count int64
	f.db.Model(&model.Lesson{}).Count(&count)
	assert.Zero(t, count)
}

func TestCloneLessonRejectsNonModule(t *testing.T) {
	f := newCourseFixture(t)
	video := testutil.CreateLesson(t, f.db, f.course.ID, "视频课", model.LessonVideo, 1, nil, nil)

	_, err := f.courses.CloneLesson(f.instructor.ID, f.course.ID, video.ID, f.course.ID, nil)
	assert.ErrorIs(t, err, util.ErrCloneNotModule)
}

func TestCloneLessonCopiesDirectChildren(t *testing.T) {
	f := newCourseFixture(t)

	external := testutil.CreateLesson(t, f.db, f.course.ID, "准备课", model.LessonVideo, 0, nil, nil)
	module := testutil.CreateLesson(t, f.db, f.course.ID, "第一章", model.LessonModule, 1, nil, nil)
	childOne := testutil.CreateLesson(t, f.db, f.course.ID, "子课时一", model.LessonVideo, 1, &module.ID, &external.ID)
	childTwo := testutil.CreateLesson(t, f.db, f.course.ID, "子课时二", model.LessonVideo, 2, &module.ID, &childOne.ID)

	clone, err := f.courses.CloneLesson(f.instructor.ID, f.course.ID, module.ID, f.course.ID, &external.ID)
	require.NoError(t, err)

	// 1 + K 条全新记录
	var count int64
	f.db.Model(&model.Lesson{}).Count(&count)
	assert.Equal(t, int64(7), count)

	assert.NotEqual(t, module.ID, clone.ID)
	assert.Nil(t, clone.ParentID)
	require.NotNil(t, clone.PrerequisiteID)
	assert.Equal(t, external.ID, *clone.PrerequisiteID)
	require.Len(t, clone.Children, 2)

	copiedOne, copiedTwo := clone.Children[0], clone.Children[1]
	assert.Equal(t, "子课时一", copiedOne.Title)
	assert.Equal(t, clone.ID, *copiedOne.ParentID)
	assert.Equal(t, clone.ID, *copiedTwo.ParentID)
	assert.NotEqual(t, childOne.ID, copiedOne.ID)
	assert.NotEqual(t, childTwo.ID, copiedTwo.ID)

	// 集合外前置保持原值，集合内前置指向新副本
	require.NotNil(t, copiedOne.PrerequisiteID)
	assert.Equal(t, external.ID, *copiedOne.PrerequisiteID)
	require.NotNil(t, copiedTwo.PrerequisiteID)
	assert.Equal(t, copiedOne.ID, *copiedTwo.PrerequisiteID)

	var stored model.Lesson
	require.NoError(t, f.db.First(&stored, copiedTwo.ID).Error)
	assert.Equal(t, copiedOne.ID, *stored.PrerequisiteID)
}

func TestCloneLessonIntoTargetCourse(t *testing.T) {
	f := newCourseFixture(t)

	module := testutil.CreateLesson(t, f.db, f.course.ID, "第一章", model.LessonModule, 1, nil, nil)
	testutil.CreateLesson(t, f.db, f.course.ID, "子课时", model.LessonVideo, 1, &module.ID, nil)

	target := testutil.CreateCourse(t, f.db, f.instructor.ID, "Go 实战", 200)

	clone, err := f.courses.CloneLesson(f.instructor.ID, f.course.ID, module.ID, target.ID, nil)
	require.NoError(t, err)

	// 副本连同子课时落在目标课程，原课程不受影响
	assert.Equal(t, target.ID, clone.CourseID)
	require.Len(t, clone.Children, 1)
	assert.Equal(t, target.ID, clone.Children[0].CourseID)

	var sourceCount, targetCount int64
	f.db.Model(&model.Lesson{}).Where("course_id = ?", f.course.ID).Count(&sourceCount)
	f.db.Model(&model.Lesson{}).Where("course_id = ?", target.ID).Count(&targetCount)
	assert.Equal(t, int64(2), sourceCount)
	assert.Equal(t, int64(2), targetCount)
}

func TestCloneLessonTargetCourseChecks(t *testing.T) {
	f := newCourseFixture(t)

	module := testutil.CreateLesson(t, f.db, f.course.ID, "第一章", model.LessonModule, 1, nil, nil)
	sourcePrereq := testutil.CreateLesson(t, f.db, f.course.ID, "准备课", model.LessonVideo, 0, nil, nil)

	// 目标课程必须存在且归复制者所有
	_, err := f.courses.CloneLesson(f.instructor.ID, f.course.ID, module.ID, 9999, nil)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	other := testutil.CreateUser(t, f.db, "other", model.Instructor)
	foreign := testutil.CreateCourse(t, f.db, other.ID, "别人的课", 50)
	_, err = f.courses.CloneLesson(f.instructor.ID, f.course.ID, module.ID, foreign.ID, nil)
	assert.ErrorIs(t, err, util.ErrNotCourseOwner)

	// 副本的前置必须属于目标课程
	target := testutil.CreateCourse(t, f.db, f.instructor.ID, "Go 实战", 200)
	_, err = f.courses.CloneLesson(f.instructor.ID, f.course.ID, module.ID, target.ID, &sourcePrereq.ID)
	assert.ErrorIs(t, err, util.ErrPrerequisiteCourse)
}

func TestRenderCourse(t *testing.T) {
	f := newCourseFixture(t)

	module := testutil.CreateLesson(t, f.db, f.course.ID, "第一章", model.LessonModule, 1, nil, nil)
	testutil.CreateLesson(t, f.db, f.course.ID, "环境搭建", model.LessonVideo, 1, &module.ID, nil)

	rendered, err := f.courses.RenderCourse(f.course.ID)
	require.NoError(t, err)

	assert.Contains(t, rendered, "Course: Go 入门")
	assert.Contains(t, rendered, "  Module: 第一章")
	assert.Contains(t, rendered, "    Lesson: 环境搭建 (video) N/A")
}

func TestUpdateCourse(t *testing.T) {
	f := newCourseFixture(t)

	newTitle := "Go 入门（第二版）"
	newPrice := 150.0
	course, err := f.courses.UpdateCourse(f.instructor.ID, f.course.ID, UpdateCourseInput{
		Title: &newTitle,
		Price: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, newTitle, course.Title)
	assert.Equal(t, newPrice, course.Price)

	bad := -5.0
	_, err = f.courses.UpdateCourse(f.instructor.ID, f.course.ID, UpdateCourseInput{Price: &bad})
	assert.ErrorIs(t, err, util.ErrNegativePrice)

	other := testutil.CreateUser(t, f.db, "other", model.Instructor)
	_, err = f.courses.UpdateCourse(other.ID, f.course.ID, UpdateCourseInput{Title: &newTitle})
	assert.ErrorIs(t, err, util.ErrNotCourseOwner)
}
