package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smart-schedule/internal/dto"
	"smart-schedule/internal/model"
	"smart-schedule/internal/repository"
	"smart-schedule/internal/scheduler"
	pkgerrors "smart-schedule/pkg/errors"
)

// ── 排课模块业务错误 ──

var (
	ErrMissingResources     = errors.New("课程、教室或教师数据为空，无法排课")
	ErrNoAvailableSlots     = errors.New("没有可用的无冲突时段")
	ErrInvalidDay           = scheduler.ErrInvalidDay
	ErrInvalidTimeRange     = scheduler.ErrInvalidTimeRange
	ErrCourseNotFound       = errors.New("课程不存在")
	ErrFacultyNotFound      = errors.New("教师不存在")
	ErrClassroomNotFound    = errors.New("教室不存在")
	ErrEntryNotFound        = errors.New("课表条目不存在")
	ErrGenerationInProgress = errors.New("排课正在进行中，请稍后再试")
)

// ── TimetableService 接口 ──────────────────────────────────
//
// 生成流程分两阶段：
//   - 阶段一在内存中完成：读取资源与整张课表，由 scheduler.Generate 计算新批次
//   - 阶段二在单个事务中"删除范围内旧条目 → 写入新批次"
//
// 计算结果为空时直接返回 ErrNoAvailableSlots，范围内旧条目保持不变。
// 生成全程持有 GenerationLocker；手动录入不加锁，与并发生成之间存在竞态。
// ─────────────────────────────────────────────────────────────

// TimetableService 排课模块业务接口
type TimetableService interface {
	// Generate 按 目标日 × 院系 × 学期 重新生成课表
	Generate(ctx context.Context, req *dto.GenerateRequest, actorID string) (*dto.GenerateResponse, error)
	// InsertManual 手动录入单条课表，冲突时照常写入并标记 is_conflict
	InsertManual(ctx context.Context, req *dto.ManualEntryRequest, actorID string) (*dto.ManualEntryResponse, error)
	// CheckEntry 冲突预检，不写入
	CheckEntry(ctx context.Context, req *dto.ManualEntryRequest) (*dto.CheckEntryResponse, error)
	// ListEntries 查询课表条目
	ListEntries(ctx context.Context, req *dto.EntryListRequest) ([]dto.EntryResponse, error)
	// DeleteEntry 删除单条课表
	DeleteEntry(ctx context.Context, id string) error
	// ClearEntries 清空整张课表
	ClearEntries(ctx context.Context) (*dto.ClearEntriesResponse, error)
	// GetWorkload 教师课时统计，按生成时的候选顺序排列
	GetWorkload(ctx context.Context, req *dto.WorkloadRequest) ([]dto.WorkloadItem, error)
	// ListSlots 当前时段目录
	ListSlots() []dto.SlotResponse
}

type timetableService struct {
	repo     *repository.Repository
	catalog  scheduler.Catalog
	locker   GenerationLocker
	notifier Notifier
	logger   *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(
	repo *repository.Repository,
	catalog scheduler.Catalog,
	locker GenerationLocker,
	notifier Notifier,
	logger *zap.Logger,
) TimetableService {
	if len(catalog) == 0 {
		catalog = scheduler.DefaultCatalog()
	}
	return &timetableService{
		repo:     repo,
		catalog:  catalog,
		locker:   locker,
		notifier: notifier,
		logger:   logger,
	}
}

// ════════════════════════════════════════════════════════════
// Generate 范围重排
// ════════════════════════════════════════════════════════════

func (s *timetableService) Generate(ctx context.Context, req *dto.GenerateRequest, actorID string) (*dto.GenerateResponse, error) {
	days, err := scheduler.NormalizeDays(req.TargetDays)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.TryLock(ctx, generateLockKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// 1. 读取资源
	courses, err := s.repo.Course.List(ctx, repository.CourseFilter{
		Department: req.Department,
		Semester:   req.Semester,
	})
	if err != nil {
		return nil, s.dataErr("查询课程失败", err)
	}
	rooms, err := s.repo.Classroom.List(ctx)
	if err != nil {
		return nil, s.dataErr("查询教室失败", err)
	}
	faculty, err := s.repo.Faculty.List(ctx)
	if err != nil {
		return nil, s.dataErr("查询教师失败", err)
	}

	// 2. 资源为空时不做任何删除
	switch {
	case len(courses) == 0:
		return nil, fmt.Errorf("%w: 范围内没有课程", ErrMissingResources)
	case len(rooms) == 0:
		return nil, fmt.Errorf("%w: 没有教室", ErrMissingResources)
	case len(faculty) == 0:
		return nil, fmt.Errorf("%w: 没有教师", ErrMissingResources)
	}

	existing, err := s.repo.ScheduleEntry.List(ctx, repository.EntryFilter{})
	if err != nil {
		return nil, s.dataErr("查询课表失败", err)
	}

	// 3. 内存中计算新批次
	scope := scheduler.Scope{Days: days, Department: req.Department, Semester: req.Semester}
	plan := scheduler.Generate(scheduler.Input{
		Scope:      scope,
		Courses:    courses,
		Classrooms: rooms,
		Faculty:    faculty,
		Existing:   existing,
		Catalog:    s.catalog,
	})

	for _, id := range plan.Unplaced {
		s.logger.Warn("课程无可用时段，本次未排入", zap.String("course_id", id))
	}
	if len(plan.Entries) == 0 {
		s.logger.Warn("排课结果为空，保留原课表",
			zap.Strings("target_days", days),
			zap.Int("unplaced", len(plan.Unplaced)),
			zap.Int("skipped", len(plan.Skipped)),
		)
		return nil, ErrNoAvailableSlots
	}

	for i := range plan.Entries {
		plan.Entries[i].CreatedBy = &actorID
		plan.Entries[i].UpdatedBy = &actorID
	}

	// 4. 事务：删除范围内旧条目 + 写入新批次
	cleared, err := s.repo.ScheduleEntry.ReplaceScope(ctx, repository.EntryFilter{
		Days:       days,
		Department: req.Department,
		Semester:   req.Semester,
	}, plan.Entries)
	if err != nil {
		return nil, s.dataErr("写入课表失败", err)
	}

	s.logger.Info("排课生成完成",
		zap.Strings("target_days", days),
		zap.String("department", req.Department),
		zap.String("semester", req.Semester),
		zap.Int("placed", len(plan.Entries)),
		zap.Int64("cleared", cleared),
		zap.Int("unplaced", len(plan.Unplaced)),
		zap.Int("skipped", len(plan.Skipped)),
	)

	return &dto.GenerateResponse{
		TargetDays:        days,
		PlacedCount:       len(plan.Entries),
		ClearedCount:      cleared,
		UnplacedCourseIDs: orEmpty(plan.Unplaced),
		SkippedCourseIDs:  orEmpty(plan.Skipped),
	}, nil
}

// ════════════════════════════════════════════════════════════
// InsertManual 手动录入
// ════════════════════════════════════════════════════════════
//
// 冲突只做标记不拦截：管理员可以有意接受冲突。
// 比对范围是整张课表，不做任何删除。

func (s *timetableService) InsertManual(ctx context.Context, req *dto.ManualEntryRequest, actorID string) (*dto.ManualEntryResponse, error) {
	entry, err := s.buildEntry(ctx, req)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ScheduleEntry.List(ctx, repository.EntryFilter{})
	if err != nil {
		return nil, s.dataErr("查询课表失败", err)
	}

	entry.IsConflict = scheduler.Conflicts(entry, existing)
	entry.Source = model.EntrySourceManual
	entry.CreatedBy = &actorID
	entry.UpdatedBy = &actorID

	if err := s.repo.ScheduleEntry.Create(ctx, entry); err != nil {
		return nil, s.dataErr("写入课表条目失败", err)
	}

	resp := &dto.ManualEntryResponse{
		Entry:      toEntryResponse(entry),
		IsConflict: entry.IsConflict,
	}
	if !entry.IsConflict {
		return resp, nil
	}

	collisions := scheduler.Collisions(entry, existing)
	resp.Collisions = toCollisionResponses(collisions)

	s.logger.Warn("手动录入存在冲突",
		zap.String("entry_id", entry.EntryID),
		zap.String("day", entry.Day),
		zap.String("start_time", entry.StartTime),
		zap.Int("collisions", len(collisions)),
	)

	// 条目已写入，通知失败只记录日志
	if err := s.notifier.Notify(ctx, Notice{
		Recipient: actorID,
		Title:     "课表冲突提醒",
		Message:   conflictMessage(entry, collisions),
		Severity:  model.SeverityWarning,
		EntryID:   entry.EntryID,
	}); err != nil {
		s.logger.Error("发送冲突通知失败", zap.String("entry_id", entry.EntryID), zap.Error(err))
	}

	return resp, nil
}

func (s *timetableService) CheckEntry(ctx context.Context, req *dto.ManualEntryRequest) (*dto.CheckEntryResponse, error) {
	entry, err := s.buildEntry(ctx, req)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ScheduleEntry.List(ctx, repository.EntryFilter{})
	if err != nil {
		return nil, s.dataErr("查询课表失败", err)
	}

	collisions := scheduler.Collisions(entry, existing)
	return &dto.CheckEntryResponse{
		IsConflict: len(collisions) > 0,
		Collisions: toCollisionResponses(collisions),
	}, nil
}

// buildEntry 校验请求并补全 院系/学期，返回待写入的条目（含关联，写入时忽略）
func (s *timetableService) buildEntry(ctx context.Context, req *dto.ManualEntryRequest) (*model.ScheduleEntry, error) {
	if !scheduler.IsWeekday(req.Day) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDay, req.Day)
	}
	if !scheduler.ValidTimeRange(req.StartTime, req.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	course, err := s.repo.Course.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, s.dataErr("查询课程失败", err)
	}
	faculty, err := s.repo.Faculty.GetByID(ctx, req.FacultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacultyNotFound
		}
		return nil, s.dataErr("查询教师失败", err)
	}
	room, err := s.repo.Classroom.GetByID(ctx, req.ClassroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		return nil, s.dataErr("查询教室失败", err)
	}

	semester := req.Semester
	if semester == "" {
		semester = course.Semester
	}

	return &model.ScheduleEntry{
		CourseID:    course.CourseID,
		FacultyID:   faculty.FacultyID,
		ClassroomID: room.ClassroomID,
		Day:         req.Day,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Semester:    semester,
		Department:  course.Department,
		Course:      course,
		Faculty:     faculty,
		Classroom:   room,
	}, nil
}

// ════════════════════════════════════════════════════════════
// 查询 / 删除
// ════════════════════════════════════════════════════════════

func (s *timetableService) ListEntries(ctx context.Context, req *dto.EntryListRequest) ([]dto.EntryResponse, error) {
	filter := repository.EntryFilter{
		Department:  req.Department,
		Semester:    req.Semester,
		CourseID:    req.CourseID,
		FacultyID:   req.FacultyID,
		ClassroomID: req.ClassroomID,
	}
	if req.Day != "" {
		filter.Days = []string{req.Day}
	}

	entries, err := s.repo.ScheduleEntry.ListDetailed(ctx, filter)
	if err != nil {
		return nil, s.dataErr("查询课表失败", err)
	}

	result := make([]dto.EntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, toEntryResponse(&entries[i]))
	}
	return result, nil
}

func (s *timetableService) DeleteEntry(ctx context.Context, id string) error {
	if err := s.repo.ScheduleEntry.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		return s.dataErr("删除课表条目失败", err)
	}
	return nil
}

func (s *timetableService) ClearEntries(ctx context.Context) (*dto.ClearEntriesResponse, error) {
	deleted, err := s.repo.ScheduleEntry.DeleteAll(ctx)
	if err != nil {
		return nil, s.dataErr("清空课表失败", err)
	}
	s.logger.Info("课表已清空", zap.Int64("deleted", deleted))
	return &dto.ClearEntriesResponse{DeletedCount: deleted}, nil
}

// ════════════════════════════════════════════════════════════
// 课时统计 / 时段目录
// ════════════════════════════════════════════════════════════

func (s *timetableService) GetWorkload(ctx context.Context, req *dto.WorkloadRequest) ([]dto.WorkloadItem, error) {
	faculty, err := s.repo.Faculty.List(ctx)
	if err != nil {
		return nil, s.dataErr("查询教师失败", err)
	}
	entries, err := s.repo.ScheduleEntry.List(ctx, repository.EntryFilter{})
	if err != nil {
		return nil, s.dataErr("查询课表失败", err)
	}

	if req.Department != "" {
		faculty = lo.Filter(faculty, func(f model.Faculty, _ int) bool {
			return f.Department == req.Department
		})
	}

	workload := scheduler.NewWorkload(entries)
	return lo.Map(workload.Rank(faculty), func(f model.Faculty, _ int) dto.WorkloadItem {
		return dto.WorkloadItem{
			FacultyID:  f.FacultyID,
			Name:       f.Name,
			Department: f.Department,
			Sessions:   workload.Count(f.FacultyID),
		}
	}), nil
}

func (s *timetableService) ListSlots() []dto.SlotResponse {
	return lo.Map(s.catalog, func(slot scheduler.Slot, _ int) dto.SlotResponse {
		return dto.SlotResponse{StartTime: slot.Start, EndTime: slot.End}
	})
}

// ── 辅助函数 ──

func (s *timetableService) dataErr(msg string, err error) error {
	s.logger.Error(msg, zap.Error(err))
	return fmt.Errorf("%w: %w", pkgerrors.ErrDataAccess, err)
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func toEntryResponse(e *model.ScheduleEntry) dto.EntryResponse {
	resp := dto.EntryResponse{
		ID:          e.EntryID,
		CourseID:    e.CourseID,
		FacultyID:   e.FacultyID,
		ClassroomID: e.ClassroomID,
		Day:         e.Day,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Semester:    e.Semester,
		Department:  e.Department,
		IsConflict:  e.IsConflict,
		Source:      e.Source,
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if e.Course != nil {
		resp.Course = &dto.CourseBrief{ID: e.Course.CourseID, Code: e.Course.CourseCode, Name: e.Course.Name}
	}
	if e.Faculty != nil {
		resp.Faculty = &dto.FacultyBrief{ID: e.Faculty.FacultyID, Name: e.Faculty.Name, Department: e.Faculty.Department}
	}
	if e.Classroom != nil {
		resp.Classroom = &dto.ClassroomBrief{ID: e.Classroom.ClassroomID, RoomNumber: e.Classroom.RoomNumber, Building: e.Classroom.Building}
	}
	return resp
}

func toCollisionResponses(collisions []scheduler.Collision) []dto.CollisionResponse {
	return lo.Map(collisions, func(c scheduler.Collision, _ int) dto.CollisionResponse {
		return dto.CollisionResponse{
			EntryID:   c.Entry.EntryID,
			CourseID:  c.Entry.CourseID,
			Day:       c.Entry.Day,
			StartTime: c.Entry.StartTime,
			Dimensions: lo.Map(c.Dimensions, func(d scheduler.Dimension, _ int) string {
				return string(d)
			}),
		}
	})
}

var dimensionLabels = map[scheduler.Dimension]string{
	scheduler.DimensionClassroom: "教室",
	scheduler.DimensionFaculty:   "教师",
	scheduler.DimensionBatch:     "班级",
}

func conflictMessage(e *model.ScheduleEntry, collisions []scheduler.Collision) string {
	dims := lo.Uniq(lo.FlatMap(collisions, func(c scheduler.Collision, _ int) []string {
		return lo.Map(c.Dimensions, func(d scheduler.Dimension, _ int) string {
			return dimensionLabels[d]
		})
	}))
	return fmt.Sprintf("%s %s-%s 的手动排课与 %d 条已有课表冲突（%s），已按冲突标记保存",
		e.Day, e.StartTime, e.EndTime, len(collisions), strings.Join(dims, "、"))
}
