package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smart-schedule/config"
	"smart-schedule/internal/dto"
	"smart-schedule/internal/model"
	"smart-schedule/internal/repository"
	"smart-schedule/internal/scheduler"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoEntries    = errors.New("当前范围内暂无课表")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 课表导出为 Excel (.xlsx)：行为时段，列为周一至周五
//   - 教师日历导出为 iCalendar (.ics)：每个条目一个按周重复的 VEVENT
//   - 导出内容以内存缓冲返回，由 Handler 层设置响应头后写出
type ExportService interface {
	// ExportTimetable 导出课表为 Excel，返回内容与建议文件名
	ExportTimetable(ctx context.Context, req *dto.ExportTimetableRequest) (*bytes.Buffer, string, error)
	// ExportFacultyCalendar 导出教师的周课表日历
	ExportFacultyCalendar(ctx context.Context, facultyID string) ([]byte, string, error)
}

type exportService struct {
	repo    *repository.Repository
	catalog scheduler.Catalog
	loc     *time.Location
	weeks   int
	now     func() time.Time
	logger  *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(
	repo *repository.Repository,
	cfg *config.SchedulingConfig,
	catalog scheduler.Catalog,
	logger *zap.Logger,
) ExportService {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("时区加载失败，使用 UTC+8", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.FixedZone("CST", 8*3600)
	}
	weeks := cfg.CalendarWeeks
	if weeks <= 0 {
		weeks = 16
	}
	if len(catalog) == 0 {
		catalog = scheduler.DefaultCatalog()
	}
	return &exportService{
		repo:    repo,
		catalog: catalog,
		loc:     loc,
		weeks:   weeks,
		now:     time.Now,
		logger:  logger,
	}
}

// ═══════════════════════════════════════════════════════════
// ExportTimetable 导出课表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单个 Sheet "课表"
//   - 行头：时段（时段目录 + 手动录入的目录外时段，按开始时间排序）
//   - 列头：Monday ~ Friday
//   - 单元格：课程代码 课程名 / 教师 @ 教室，同一格多条时换行，冲突条目加 [冲突] 前缀

func (s *exportService) ExportTimetable(ctx context.Context, req *dto.ExportTimetableRequest) (*bytes.Buffer, string, error) {
	entries, err := s.repo.ScheduleEntry.ListDetailed(ctx, repository.EntryFilter{
		Department: req.Department,
		Semester:   req.Semester,
	})
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", ErrExportNoEntries
	}

	// 1. 行：时段目录 ∪ 条目中出现的时段
	type rowKey struct{ start, end string }
	rows := lo.Map(s.catalog, func(sl scheduler.Slot, _ int) rowKey {
		return rowKey{sl.Start, sl.End}
	})
	for _, e := range entries {
		k := rowKey{e.StartTime, e.EndTime}
		if !lo.Contains(rows, k) {
			rows = append(rows, k)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].start < rows[j].start
	})

	// 2. 单元格索引: "day|start|end" → 多行文本
	cells := lo.GroupBy(entries, func(e model.ScheduleEntry) string {
		return e.Day + "|" + e.StartTime + "|" + e.EndTime
	})

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "课表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", colName(len(scheduler.Weekdays)), 30)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	bodyStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})

	// 标题行
	title := exportTitle(req)
	f.SetCellValue(sheetName, "A1", title)
	f.MergeCell(sheetName, "A1", cell(colName(len(scheduler.Weekdays)), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	f.SetCellValue(sheetName, cell("A", 2), "时段")
	for i, day := range scheduler.Weekdays {
		f.SetCellValue(sheetName, cell(colName(1+i), 2), day)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(scheduler.Weekdays)), 2), headerStyle)

	// 数据行
	row := 3
	for _, rk := range rows {
		f.SetCellValue(sheetName, cell("A", row), fmt.Sprintf("%s-%s", rk.start, rk.end))
		for i, day := range scheduler.Weekdays {
			text := "-"
			if group, ok := cells[day+"|"+rk.start+"|"+rk.end]; ok {
				text = strings.Join(lo.Map(group, func(e model.ScheduleEntry, _ int) string {
					return entryCellText(&e)
				}), "\n")
			}
			f.SetCellValue(sheetName, cell(colName(1+i), row), text)
		}
		row++
	}
	f.SetCellStyle(sheetName, "B3", cell(colName(len(scheduler.Weekdays)), row-1), bodyStyle)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, title + ".xlsx", nil
}

// ═══════════════════════════════════════════════════════════
// ExportFacultyCalendar 导出教师日历
// ═══════════════════════════════════════════════════════════
//
// 每个条目从本周（或下周，若本周该时段已过）对应星期开始，按周重复 weeks 次。

func (s *exportService) ExportFacultyCalendar(ctx context.Context, facultyID string) ([]byte, string, error) {
	faculty, err := s.repo.Faculty.GetByID(ctx, facultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrFacultyNotFound
		}
		s.logger.Error("查询教师失败", zap.Error(err))
		return nil, "", err
	}

	entries, err := s.repo.ScheduleEntry.ListDetailed(ctx, repository.EntryFilter{FacultyID: facultyID})
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, "", err
	}

	now := s.now().In(s.loc)
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//smart-schedule//timetable//CN")
	cal.SetXWRCalName(faculty.Name + " 课表")
	cal.SetXWRTimezone(s.loc.String())

	for i := range entries {
		e := &entries[i]
		start, end, ok := s.firstOccurrence(now, e)
		if !ok {
			s.logger.Warn("课表条目时间无法解析，跳过", zap.String("entry_id", e.EntryID))
			continue
		}

		event := cal.AddEvent(e.EntryID + "@smart-schedule")
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(eventSummary(e))
		if e.Classroom != nil {
			event.SetLocation(strings.TrimSpace(e.Classroom.Building + " " + e.Classroom.RoomNumber))
		}
		event.SetDescription(fmt.Sprintf("%s 第%s学期", e.Department, e.Semester))
		event.AddProperty(ics.ComponentPropertyRrule, fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", s.weeks))
	}

	filename := fmt.Sprintf("%s_课表.ics", faculty.Name)
	return []byte(cal.Serialize()), filename, nil
}

// firstOccurrence 计算条目在 now 之后（含本周）的第一次上课时间
func (s *exportService) firstOccurrence(now time.Time, e *model.ScheduleEntry) (time.Time, time.Time, bool) {
	dayIdx := lo.IndexOf(scheduler.Weekdays, e.Day)
	startClock, err1 := time.Parse("15:04", e.StartTime)
	endClock, err2 := time.Parse("15:04", e.EndTime)
	if dayIdx < 0 || err1 != nil || err2 != nil {
		return time.Time{}, time.Time{}, false
	}

	// 本周一 00:00
	offset := (int(now.Weekday()) + 6) % 7
	monday := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, s.loc)

	day := monday.AddDate(0, 0, dayIdx)
	start := time.Date(day.Year(), day.Month(), day.Day(), startClock.Hour(), startClock.Minute(), 0, 0, s.loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), endClock.Hour(), endClock.Minute(), 0, 0, s.loc)
	if end.Before(now) {
		start = start.AddDate(0, 0, 7)
		end = end.AddDate(0, 0, 7)
	}
	return start, end, true
}

// ── 辅助函数 ──

func exportTitle(req *dto.ExportTimetableRequest) string {
	parts := []string{"课表"}
	if req.Department != "" {
		parts = append(parts, req.Department)
	}
	if req.Semester != "" {
		parts = append(parts, "第"+req.Semester+"学期")
	}
	return strings.Join(parts, "_")
}

func entryCellText(e *model.ScheduleEntry) string {
	course := e.CourseID
	if e.Course != nil {
		course = e.Course.CourseCode + " " + e.Course.Name
	}
	faculty := e.FacultyID
	if e.Faculty != nil {
		faculty = e.Faculty.Name
	}
	room := e.ClassroomID
	if e.Classroom != nil {
		room = e.Classroom.RoomNumber
	}
	text := fmt.Sprintf("%s / %s @ %s", course, faculty, room)
	if e.IsConflict {
		text = "[冲突] " + text
	}
	return text
}

func eventSummary(e *model.ScheduleEntry) string {
	if e.Course != nil {
		return e.Course.CourseCode + " " + e.Course.Name
	}
	return e.CourseID
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
