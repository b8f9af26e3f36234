package model

import "time"

// swagger:model Message
type Message struct {
	BaseModel
	Content   string    `gorm:"type:text;not null" json:"content"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	SenderID  uint      `gorm:"index;not null" json:"senderId"`
	CourseID  uint      `gorm:"index;not null" json:"courseId"`
}

func (Message) TableName() string {
	return "messages"
}
