package scheduler

import "smart-schedule/internal/model"

// Dimension 冲突维度
type Dimension string

const (
	DimensionClassroom Dimension = "classroom"
	DimensionFaculty   Dimension = "faculty"
	DimensionBatch     Dimension = "batch" // 同学期同院系的同一批学生
)

// Collision 与候选条目冲突的已有条目及冲突维度
type Collision struct {
	Entry      model.ScheduleEntry
	Dimensions []Dimension
}

// coincident 仅当星期与开始时间完全相同时视为同一时刻，不做区间重叠判断
func coincident(a, b *model.ScheduleEntry) bool {
	return a.Day == b.Day && a.StartTime == b.StartTime
}

// sameRecord 已持久化条目与自身比较时跳过
func sameRecord(a, b *model.ScheduleEntry) bool {
	return a.EntryID != "" && a.EntryID == b.EntryID
}

func dimensions(candidate, other *model.ScheduleEntry) []Dimension {
	var dims []Dimension
	if candidate.ClassroomID == other.ClassroomID {
		dims = append(dims, DimensionClassroom)
	}
	if candidate.FacultyID == other.FacultyID {
		dims = append(dims, DimensionFaculty)
	}
	if candidate.Semester == other.Semester && candidate.Department == other.Department {
		dims = append(dims, DimensionBatch)
	}
	return dims
}

func clashes(candidate, other *model.ScheduleEntry) bool {
	if sameRecord(candidate, other) || !coincident(candidate, other) {
		return false
	}
	return candidate.ClassroomID == other.ClassroomID ||
		candidate.FacultyID == other.FacultyID ||
		(candidate.Semester == other.Semester && candidate.Department == other.Department)
}

// Conflicts 判断候选条目是否与任一已有条目冲突，命中第一条即返回。
// existing 可传多个切片，按并集处理，避免为合并而复制。
func Conflicts(candidate *model.ScheduleEntry, existing ...[]model.ScheduleEntry) bool {
	for _, group := range existing {
		for i := range group {
			if clashes(candidate, &group[i]) {
				return true
			}
		}
	}
	return false
}

// Collisions 列出所有与候选条目冲突的已有条目（供人工录入前的预检展示）
func Collisions(candidate *model.ScheduleEntry, existing []model.ScheduleEntry) []Collision {
	var result []Collision
	for i := range existing {
		other := &existing[i]
		if !clashes(candidate, other) {
			continue
		}
		result = append(result, Collision{Entry: *other, Dimensions: dimensions(candidate, other)})
	}
	return result
}
