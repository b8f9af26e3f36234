package model

import (
	"encoding/json"
)

// swagger:model Work
type Work struct {
	BaseModel
	Title     string          `gorm:"size:255;not null" json:"title"`
	Questions json.RawMessage `gorm:"type:json;not null" json:"questions"`
	CourseID  uint            `gorm:"index;not null" json:"courseId"`
}

func (Work) TableName() string {
	return "works"
}

// swagger:model WorkAnswer
// 同一学生对同一作业只有一条记录，重复提交覆盖旧答案。
type WorkAnswer struct {
	BaseModel
	Answers   json.RawMessage `gorm:"type:json;not null" json:"answers"`
	StudentID uint            `gorm:"uniqueIndex:idx_student_work;not null" json:"studentId"`
	WorkID    uint            `gorm:"uniqueIndex:idx_student_work;not null" json:"workId"`
}

func (WorkAnswer) TableName() string {
	return "work_answers"
}
