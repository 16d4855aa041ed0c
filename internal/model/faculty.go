package model

// Faculty 教师表，对应 faculty
type Faculty struct {
	FacultyID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"faculty_id"`
	Name       string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email      string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	Department string `gorm:"type:varchar(50);not null"                      json:"department"`
	BaseModel
}

// TableName 指定表名
func (Faculty) TableName() string { return "faculty" }
