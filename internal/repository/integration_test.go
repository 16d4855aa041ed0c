//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"smart-schedule/internal/model"
	"smart-schedule/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=smart_schedule password=smart_schedule_password dbname=smart_schedule_test sslmode=disable TimeZone=Asia/Shanghai"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	err = testDB.AutoMigrate(
		&model.Course{},
		&model.Classroom{},
		&model.Faculty{},
		&model.ScheduleEntry{},
		&model.Notification{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

type fixture struct {
	dept    string
	course  *model.Course
	faculty *model.Faculty
	room    *model.Classroom
}

// setupTestData 以唯一院系名创建一组课程/教师/教室，返回清理函数
func setupTestData(t *testing.T) (*fixture, func()) {
	t.Helper()
	ctx := context.Background()
	n := time.Now().UnixNano()

	fx := &fixture{dept: fmt.Sprintf("D%d", n)}
	fx.course = &model.Course{
		CourseCode: fmt.Sprintf("C%d", n),
		Name:       "测试课程",
		Department: fx.dept,
		Semester:   "1",
	}
	if err := testDB.WithContext(ctx).Create(fx.course).Error; err != nil {
		t.Fatalf("创建课程失败: %v", err)
	}

	fx.faculty = &model.Faculty{
		Name:       "测试教师",
		Email:      fmt.Sprintf("f%d@edu.cn", n),
		Department: fx.dept,
	}
	if err := testDB.WithContext(ctx).Create(fx.faculty).Error; err != nil {
		t.Fatalf("创建教师失败: %v", err)
	}

	fx.room = &model.Classroom{
		RoomNumber: fmt.Sprintf("R%d", n%1_000_000_000),
		Capacity:   60,
	}
	if err := testDB.WithContext(ctx).Create(fx.room).Error; err != nil {
		t.Fatalf("创建教室失败: %v", err)
	}

	cleanup := func() {
		testDB.Where("department = ?", fx.dept).Delete(&model.ScheduleEntry{})
		testDB.Where("course_id = ?", fx.course.CourseID).Delete(&model.Course{})
		testDB.Where("faculty_id = ?", fx.faculty.FacultyID).Delete(&model.Faculty{})
		testDB.Where("classroom_id = ?", fx.room.ClassroomID).Delete(&model.Classroom{})
	}
	return fx, cleanup
}

func (fx *fixture) entry(day, start, end string) model.ScheduleEntry {
	return model.ScheduleEntry{
		CourseID:    fx.course.CourseID,
		FacultyID:   fx.faculty.FacultyID,
		ClassroomID: fx.room.ClassroomID,
		Day:         day,
		StartTime:   start,
		EndTime:     end,
		Semester:    fx.course.Semester,
		Department:  fx.dept,
		Source:      model.EntrySourceGenerated,
	}
}

// ═══════════════════════════════════════════════════════════
// Test: ReplaceScope
// ═══════════════════════════════════════════════════════════

func TestReplaceScope_DeletesOnlyTargetDays(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	seed := []model.ScheduleEntry{
		fx.entry("Monday", "09:00", "10:00"),
		fx.entry("Tuesday", "09:00", "10:00"),
	}
	if err := repo.ScheduleEntry.BatchCreate(ctx, seed); err != nil {
		t.Fatalf("BatchCreate 失败: %v", err)
	}

	scope := repository.EntryFilter{Days: []string{"Monday"}, Department: fx.dept}
	deleted, err := repo.ScheduleEntry.ReplaceScope(ctx, scope, []model.ScheduleEntry{
		fx.entry("Monday", "13:00", "14:00"),
	})
	if err != nil {
		t.Fatalf("ReplaceScope 失败: %v", err)
	}
	if deleted != 1 {
		t.Errorf("期望删除 1 条，实际 %d", deleted)
	}

	entries, err := repo.ScheduleEntry.List(ctx, repository.EntryFilter{Department: fx.dept})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("期望剩余 2 条，实际 %d", len(entries))
	}
	starts := map[string]string{}
	for _, e := range entries {
		starts[e.Day] = e.StartTime
	}
	if starts["Monday"] != "13:00" || starts["Tuesday"] != "09:00" {
		t.Errorf("条目不符合预期: %+v", starts)
	}
}

func TestReplaceScope_RollbackOnInsertFailure(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	if err := repo.ScheduleEntry.Create(ctx, ptr(fx.entry("Monday", "09:00", "10:00"))); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	// 不存在的课程触发外键错误，删除也必须回滚
	bad := fx.entry("Monday", "10:00", "11:00")
	bad.CourseID = uuid.NewString()

	scope := repository.EntryFilter{Days: []string{"Monday"}, Department: fx.dept}
	if _, err := repo.ScheduleEntry.ReplaceScope(ctx, scope, []model.ScheduleEntry{bad}); err == nil {
		t.Fatal("期望外键错误，但 ReplaceScope 成功了")
	}

	entries, err := repo.ScheduleEntry.List(ctx, repository.EntryFilter{Department: fx.dept})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(entries) != 1 || entries[0].StartTime != "09:00" {
		t.Errorf("期望原条目保留，实际: %+v", entries)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Entry CRUD
// ═══════════════════════════════════════════════════════════

func TestScheduleEntry_GetByIDPreloads(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	e := fx.entry("Wednesday", "11:00", "12:00")
	if err := repo.ScheduleEntry.Create(ctx, &e); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	found, err := repo.ScheduleEntry.GetByID(ctx, e.EntryID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	if found.Course == nil || found.Course.CourseCode != fx.course.CourseCode {
		t.Errorf("课程未预加载: %+v", found.Course)
	}
	if found.Faculty == nil || found.Classroom == nil {
		t.Error("教师/教室未预加载")
	}
}

func TestScheduleEntry_DeleteMissing(t *testing.T) {
	repo := repository.NewRepository(testDB)

	err := repo.ScheduleEntry.Delete(context.Background(), uuid.NewString())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望 ErrRecordNotFound，得到: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Notification
// ═══════════════════════════════════════════════════════════

func TestNotification_ListAndMarkRead(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	userID := fmt.Sprintf("u-%d", time.Now().UnixNano())
	defer testDB.Where("user_id = ?", userID).Delete(&model.Notification{})

	for i := 0; i < 3; i++ {
		n := &model.Notification{
			UserID:   userID,
			Type:     "schedule_conflict",
			Severity: model.SeverityWarning,
			Title:    fmt.Sprintf("冲突 %d", i),
			Content:  "测试",
		}
		if err := repo.Notification.Create(ctx, n); err != nil {
			t.Fatalf("创建通知失败: %v", err)
		}
	}

	list, total, err := repo.Notification.ListByUser(ctx, userID, true, 0, 10)
	if err != nil {
		t.Fatalf("ListByUser 失败: %v", err)
	}
	if total != 3 || len(list) != 3 {
		t.Fatalf("期望 3 条未读，实际 total=%d len=%d", total, len(list))
	}

	if err := repo.Notification.MarkRead(ctx, list[0].NotificationID, userID); err != nil {
		t.Fatalf("MarkRead 失败: %v", err)
	}
	if err := repo.Notification.MarkRead(ctx, list[1].NotificationID, "someone-else"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("他人通知应返回 ErrRecordNotFound，得到: %v", err)
	}

	_, unread, err := repo.Notification.ListByUser(ctx, userID, true, 0, 10)
	if err != nil {
		t.Fatalf("ListByUser 失败: %v", err)
	}
	if unread != 2 {
		t.Errorf("期望 2 条未读，实际 %d", unread)
	}
}

func ptr[T any](v T) *T { return &v }
