package model

// Classroom 教室表，对应 classrooms
type Classroom struct {
	ClassroomID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"classroom_id"`
	RoomNumber  string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"room_number"`
	Building    string `gorm:"type:varchar(100)"                              json:"building,omitempty"`
	Capacity    int    `gorm:"not null;default:0"                             json:"capacity"`
	BaseModel
}

// TableName 指定表名
func (Classroom) TableName() string { return "classrooms" }
