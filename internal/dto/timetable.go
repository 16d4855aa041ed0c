package dto

// ── 排课生成 ──

// GenerateRequest 排课生成请求，target_days 为空表示整周
type GenerateRequest struct {
	TargetDays []string `json:"target_days" binding:"omitempty,max=5,dive,weekday"`
	Department string   `json:"department"  binding:"omitempty,max=50"`
	Semester   string   `json:"semester"    binding:"omitempty,max=20"`
}

// GenerateResponse 排课生成结果
type GenerateResponse struct {
	TargetDays        []string `json:"target_days"`
	PlacedCount       int      `json:"placed_count"`
	ClearedCount      int64    `json:"cleared_count"`
	UnplacedCourseIDs []string `json:"unplaced_course_ids"`
	SkippedCourseIDs  []string `json:"skipped_course_ids"`
}

// ── 手动录入 ──

// ManualEntryRequest 手动录入/预检请求；院系取课程记录上的值，semester 缺省时同样取课程
type ManualEntryRequest struct {
	CourseID    string `json:"course_id"    binding:"required,uuid"`
	FacultyID   string `json:"faculty_id"   binding:"required,uuid"`
	ClassroomID string `json:"classroom_id" binding:"required,uuid"`
	Day         string `json:"day"          binding:"required,weekday"`
	StartTime   string `json:"start_time"   binding:"required,hhmm"`
	EndTime     string `json:"end_time"     binding:"required,hhmm"`
	Semester    string `json:"semester"     binding:"omitempty,max=20"`
}

// ManualEntryResponse 手动录入结果，冲突时仍然写入
type ManualEntryResponse struct {
	Entry      EntryResponse       `json:"entry"`
	IsConflict bool                `json:"is_conflict"`
	Collisions []CollisionResponse `json:"collisions,omitempty"`
}

// CheckEntryResponse 冲突预检结果（不落库）
type CheckEntryResponse struct {
	IsConflict bool                `json:"is_conflict"`
	Collisions []CollisionResponse `json:"collisions"`
}

// CollisionResponse 与候选条目冲突的已有条目
type CollisionResponse struct {
	EntryID    string   `json:"entry_id"`
	CourseID   string   `json:"course_id"`
	Day        string   `json:"day"`
	StartTime  string   `json:"start_time"`
	Dimensions []string `json:"dimensions"` // classroom | faculty | batch
}

// ── 课表查询 ──

// EntryListRequest 课表条目查询参数
type EntryListRequest struct {
	Day         string `form:"day"          binding:"omitempty,weekday"`
	Department  string `form:"department"   binding:"omitempty,max=50"`
	Semester    string `form:"semester"     binding:"omitempty,max=20"`
	CourseID    string `form:"course_id"    binding:"omitempty,uuid"`
	FacultyID   string `form:"faculty_id"   binding:"omitempty,uuid"`
	ClassroomID string `form:"classroom_id" binding:"omitempty,uuid"`
}

// EntryResponse 课表条目响应
type EntryResponse struct {
	ID         string          `json:"id"`
	Course     *CourseBrief    `json:"course,omitempty"`
	Faculty    *FacultyBrief   `json:"faculty,omitempty"`
	Classroom  *ClassroomBrief `json:"classroom,omitempty"`
	CourseID   string          `json:"course_id"`
	FacultyID  string          `json:"faculty_id"`
	ClassroomID string         `json:"classroom_id"`
	Day        string          `json:"day"`
	StartTime  string          `json:"start_time"`
	EndTime    string          `json:"end_time"`
	Semester   string          `json:"semester"`
	Department string          `json:"department"`
	IsConflict bool            `json:"is_conflict"`
	Source     string          `json:"source"`
	CreatedAt  string          `json:"created_at"`
}

// ClearEntriesResponse 清空课表结果
type ClearEntriesResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

// ── 课时统计 / 时段 ──

// WorkloadRequest 课时统计查询参数
type WorkloadRequest struct {
	Department string `form:"department" binding:"omitempty,max=50"`
}

// WorkloadItem 单个教师的课时
type WorkloadItem struct {
	FacultyID  string `json:"faculty_id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Sessions   int    `json:"sessions"`
}

// SlotResponse 时段目录中的单个时段
type SlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
