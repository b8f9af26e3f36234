package model

// swagger:model Course
type Course struct {
	BaseModel
	Title        string   `gorm:"size:255;unique;not null" json:"title"`
	Description  string   `gorm:"type:text" json:"description"`
	Price        float64  `gorm:"type:decimal(10,2);not null" json:"price"`
	IsActive     bool     `gorm:"default:true" json:"isActive"`
	InstructorID uint     `gorm:"index;not null" json:"instructorId"`
	Lessons      []Lesson `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
