package scheduler

import (
	"sort"

	"github.com/samber/lo"

	"smart-schedule/internal/model"
)

// Scope 一次重排的范围：目标日 × 院系 × 学期，院系/学期为空表示不限
type Scope struct {
	Days       []string
	Department string
	Semester   string
}

// Covers 条目是否落在本次重排范围内（将被清除）
func (s Scope) Covers(e *model.ScheduleEntry) bool {
	if !lo.Contains(s.Days, e.Day) {
		return false
	}
	if s.Department != "" && e.Department != s.Department {
		return false
	}
	if s.Semester != "" && e.Semester != s.Semester {
		return false
	}
	return true
}

// Partial 目标日是否为工作日的真子集
func (s Scope) Partial() bool {
	return !IsFullWeek(s.Days)
}

// Input 生成所需的全部只读输入
type Input struct {
	Scope      Scope
	Courses    []model.Course
	Classrooms []model.Classroom
	Faculty    []model.Faculty
	Existing   []model.ScheduleEntry // 当前整张课表
	Catalog    Catalog
}

// Plan 生成结果，尚未落库
type Plan struct {
	Entries  []model.ScheduleEntry // 新生成的条目
	Retained []model.ScheduleEntry // 范围外保留的条目
	Cleared  int                   // 范围内将被清除的条目数
	Unplaced []string              // 无可用组合的课程 ID
	Skipped  []string              // 部分重排时已在范围外排过的课程 ID
	Workload Workload
}

// Generate 贪心排课：
//  1. 按范围拆分已有条目为 清除 / 保留
//  2. 部分重排时跳过已在保留集中出现的课程
//  3. 课程按课程代码升序，依次尝试 同院系教师(按课时升序) × 轮转星期 × 时段 × 教室
//  4. 第一个与 (本次已生成 ∪ 保留) 不冲突的组合即被采用
//
// 纯计算，不做任何 I/O。
func Generate(in Input) *Plan {
	scope := in.Scope
	if len(scope.Days) == 0 {
		scope.Days = append([]string(nil), Weekdays...)
	}
	catalog := in.Catalog
	if len(catalog) == 0 {
		catalog = DefaultCatalog()
	}

	plan := &Plan{}
	for i := range in.Existing {
		if scope.Covers(&in.Existing[i]) {
			plan.Cleared++
			continue
		}
		plan.Retained = append(plan.Retained, in.Existing[i])
	}

	skipScheduled := scope.Partial()
	scheduled := lo.SliceToMap(plan.Retained, func(e model.ScheduleEntry) (string, bool) {
		return e.CourseID, true
	})

	plan.Workload = NewWorkload(plan.Retained)

	courses := append([]model.Course(nil), in.Courses...)
	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].CourseCode < courses[j].CourseCode
	})

	rotation := 0
	for _, course := range courses {
		if skipScheduled && scheduled[course.CourseID] {
			plan.Skipped = append(plan.Skipped, course.CourseID)
			continue
		}

		eligible := lo.Filter(in.Faculty, func(f model.Faculty, _ int) bool {
			return f.Department == course.Department
		})
		candidates := plan.Workload.Rank(eligible)

		entry, ok := place(course, candidates, in.Classrooms, scope.Days, catalog, rotation, plan)
		if !ok {
			plan.Unplaced = append(plan.Unplaced, course.CourseID)
			continue
		}

		plan.Entries = append(plan.Entries, entry)
		plan.Workload.Add(entry.FacultyID)
		rotation = (rotation + 1) % len(scope.Days)
	}

	return plan
}

// place 为单门课程寻找第一个无冲突的 (教师, 星期, 时段, 教室) 组合
// 星期从 rotation 开始轮转，使各课程尽量分散到不同的天
func place(
	course model.Course,
	candidates []model.Faculty,
	rooms []model.Classroom,
	days []string,
	catalog Catalog,
	rotation int,
	plan *Plan,
) (model.ScheduleEntry, bool) {
	for _, f := range candidates {
		for offset := range days {
			day := days[(rotation+offset)%len(days)]
			for _, slot := range catalog {
				for _, room := range rooms {
					candidate := model.ScheduleEntry{
						CourseID:    course.CourseID,
						FacultyID:   f.FacultyID,
						ClassroomID: room.ClassroomID,
						Day:         day,
						StartTime:   slot.Start,
						EndTime:     slot.End,
						Semester:    course.Semester,
						Department:  course.Department,
						Source:      model.EntrySourceGenerated,
					}
					if !Conflicts(&candidate, plan.Entries, plan.Retained) {
						return candidate, true
					}
				}
			}
		}
	}
	return model.ScheduleEntry{}, false
}
