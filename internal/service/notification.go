package service

type RecipientType string

const (
	RecipientStudent    RecipientType = "student"
	RecipientInstructor RecipientType = "instructor"
)

// swagger:model Notification
type Notification struct {
	RecipientType RecipientType `json:"recipient_type"`
	RecipientID   uint          `json:"recipient_id"`
	Message       string        `json:"message"`
}

type Recipient struct {
	Type RecipientType
	ID   uint
}

func StudentRecipient(id uint) Recipient {
	return Recipient{Type: RecipientStudent, ID: id}
}

func InstructorRecipient(id uint) Recipient {
	return Recipient{Type: RecipientInstructor, ID: id}
}

// NotificationFanout 一次性广播：每个事件现场攒一批收件人，
// Notify 之后立即清空，订阅不跨事件存活。
type NotificationFanout struct {
	recipients []Recipient
}

func (f *NotificationFanout) Attach(r Recipient) {
	f.recipients = append(f.recipients, r)
}

// Notify 给每个收件人生成一条通知记录，然后清空收件人列表
func (f *NotificationFanout) Notify(message string) []Notification {
	notifications := make([]Notification, 0, len(f.recipients))
	for _, r := range f.recipients {
		notifications = append(notifications, Notification{
			RecipientType: r.Type,
			RecipientID:   r.ID,
			Message:       message,
		})
	}
	f.recipients = nil
	return notifications
}
