package model

// swagger:model LessonProgression
type LessonProgression struct {
	BaseModel
	UserID    uint `gorm:"uniqueIndex:idx_user_lesson;not null" json:"userId"`
	LessonID  uint `gorm:"uniqueIndex:idx_user_lesson;not null" json:"lessonId"`
	Completed bool `gorm:"default:false" json:"completed"`
}

func (LessonProgression) TableName() string {
	return "lesson_progressions"
}
