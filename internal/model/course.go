package model

// Course 课程表，对应 courses（由外部教务模块维护，排课引擎只读）
type Course struct {
	CourseID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	CourseCode string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"course_code"`
	Name       string `gorm:"type:varchar(200);not null"                     json:"name"`
	Department string `gorm:"type:varchar(50);not null"                      json:"department"`
	Semester   string `gorm:"type:varchar(20);not null"                      json:"semester"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
