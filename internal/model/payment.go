package model

type PaymentType string

const (
	PaymentPix        PaymentType = "pix"
	PaymentCreditCard PaymentType = "credit_card"
	PaymentBillet     PaymentType = "billet"
)

// swagger:model Payment
// 复合唯一索引保证同一用户对同一课程至多一条支付记录，
// 业务层的重复校验只负责给出友好错误。
type Payment struct {
	BaseModel
	UserID       uint        `gorm:"uniqueIndex:idx_user_course;not null" json:"userId"`
	CourseID     uint        `gorm:"uniqueIndex:idx_user_course;not null" json:"courseId"`
	PaymentType  PaymentType `gorm:"type:varchar(20);not null" json:"paymentType"`
	Amount       float64     `gorm:"type:decimal(10,2);not null" json:"amount"`
	Installments int         `gorm:"not null;default:1" json:"installments"`
	Course       *Course     `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
