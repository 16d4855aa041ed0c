package model

// 课表条目来源
const (
	EntrySourceGenerated = "generated"
	EntrySourceManual    = "manual"
)

// ScheduleEntry 课表条目，对应 schedule_entries
//
// 同一 (Day, StartTime) 下任意两条记录不得共享教室、教师或 (Semester, Department) 班级，
// 手动录入并被标记 IsConflict 的记录除外。条目不支持原地修改时段，调整即删除后重建。
type ScheduleEntry struct {
	EntryID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	CourseID    string `gorm:"type:uuid;not null"                             json:"course_id"`
	FacultyID   string `gorm:"type:uuid;not null"                             json:"faculty_id"`
	ClassroomID string `gorm:"type:uuid;not null"                             json:"classroom_id"`
	Day         string `gorm:"type:varchar(10);not null"                      json:"day"`        // Monday … Friday
	StartTime   string `gorm:"type:varchar(5);not null"                       json:"start_time"` // "09:00"
	EndTime     string `gorm:"type:varchar(5);not null"                       json:"end_time"`
	Semester    string `gorm:"type:varchar(20);not null"                      json:"semester"`
	Department  string `gorm:"type:varchar(50);not null"                      json:"department"`
	IsConflict  bool   `gorm:"not null;default:false"                         json:"is_conflict"`
	Source      string `gorm:"type:varchar(20);not null;default:'generated'"  json:"source"` // generated | manual
	BaseModel

	// 关联（只读，写入时不级联）
	Course    *Course    `gorm:"foreignKey:CourseID;references:CourseID"       json:"course,omitempty"`
	Faculty   *Faculty   `gorm:"foreignKey:FacultyID;references:FacultyID"     json:"faculty,omitempty"`
	Classroom *Classroom `gorm:"foreignKey:ClassroomID;references:ClassroomID" json:"classroom,omitempty"`
}

// TableName 指定表名
func (ScheduleEntry) TableName() string { return "schedule_entries" }
