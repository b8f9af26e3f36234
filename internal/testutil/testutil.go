package testutil

import (
	"fmt"
	"testing"

	"course_hub_backend/internal/model"
	"course_hub_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB 每个测试一个独立的内存 sqlite 库
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, name string, role model.UserRole) *model.User {
	t.Helper()

	user := &model.User{
		Name:     name,
		Email:    name + "@test.local",
		Password: "hashed",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func CreateCourse(t *testing.T, db *gorm.DB, instructorID uint, title string, price float64) *model.Course {
	t.Helper()

	course := &model.Course{
		Title:        title,
		Description:  "test course",
		Price:        price,
		IsActive:     true,
		InstructorID: instructorID,
	}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}
	return course
}

func CreateLesson(t *testing.T, db *gorm.DB, courseID uint, title string, lessonType model.LessonType, order int, parentID, prerequisiteID *uint) *model.Lesson {
	t.Helper()

	lesson := &model.Lesson{
		Title:          title,
		LessonType:     lessonType,
		Order:          order,
		CourseID:       courseID,
		ParentID:       parentID,
		PrerequisiteID: prerequisiteID,
	}
	if err := db.Create(lesson).Error; err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	return lesson
}
