package scheduler

import (
	"sort"

	"github.com/samber/lo"

	"smart-schedule/internal/model"
)

// Workload 教师当前课时数：facultyID → 已排课次
// 每次生成调用独占一个实例，不跨调用共享
type Workload map[string]int

// NewWorkload 以已有条目初始化课时统计
func NewWorkload(entries []model.ScheduleEntry) Workload {
	return Workload(lo.CountValuesBy(entries, func(e model.ScheduleEntry) string {
		return e.FacultyID
	}))
}

// Add 成功排入一节课后 +1
func (w Workload) Add(facultyID string) {
	w[facultyID]++
}

// Count 教师当前课时数
func (w Workload) Count(facultyID string) int {
	return w[facultyID]
}

// Rank 按课时升序返回候选教师，课时相同保持输入顺序
func (w Workload) Rank(faculty []model.Faculty) []model.Faculty {
	ranked := append([]model.Faculty(nil), faculty...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return w[ranked[i].FacultyID] < w[ranked[j].FacultyID]
	})
	return ranked
}
