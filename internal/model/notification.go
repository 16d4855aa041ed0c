package model

// 通知级别
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Notification 通知消息表，对应 notifications
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string  `gorm:"type:varchar(64);not null"                      json:"user_id"`
	Type           string  `gorm:"type:varchar(50);not null"                      json:"type"`
	Severity       string  `gorm:"type:varchar(20);not null;default:'info'"       json:"severity"`
	Title          string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Content        string  `gorm:"type:text;not null"                             json:"content"`
	IsRead         bool    `gorm:"not null;default:false"                         json:"is_read"`
	RelatedType    *string `gorm:"type:varchar(20)"                               json:"related_type,omitempty"` // schedule_entry
	RelatedID      *string `gorm:"type:uuid"                                      json:"related_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }
