package model

import "encoding/json"

type LessonType string

const (
	LessonModule LessonType = "module"
	LessonQuiz   LessonType = "quiz"
	LessonVideo  LessonType = "video"
	LessonText   LessonType = "text"
)

// swagger:model Lesson
type Lesson struct {
	BaseModel
	Title           string          `gorm:"size:255;not null" json:"title"`
	Description     string          `gorm:"type:text" json:"description"`
	LessonType      LessonType      `gorm:"type:varchar(20);default:'video'" json:"lessonType"`
	Order           int             `gorm:"not null" json:"order"`
	ContentPath     string          `gorm:"size:255" json:"contentPath,omitempty"`
	QuizData        json.RawMessage `gorm:"type:json" json:"quizData,omitempty"`
	DurationSeconds float64         `gorm:"default:0" json:"durationSeconds,omitempty"` // 视频课时时长，上传时探测
	CourseID        uint            `gorm:"index;not null" json:"courseId"`
	ParentID        *uint           `gorm:"index" json:"parentId,omitempty"`
	PrerequisiteID  *uint           `gorm:"index" json:"prerequisiteId,omitempty"`
	Children        []Lesson        `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"children,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

func (l *Lesson) IsModule() bool {
	return l.LessonType == LessonModule
}
