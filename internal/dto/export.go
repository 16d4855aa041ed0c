package dto

// ExportTimetableRequest 课表导出参数
type ExportTimetableRequest struct {
	Department string `form:"department" binding:"omitempty,max=50"`
	Semester   string `form:"semester"   binding:"omitempty,max=20"`
}
