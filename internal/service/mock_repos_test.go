package service

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"smart-schedule/internal/model"
	"smart-schedule/internal/repository"
)

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses []model.Course
	err     error
}

func (m *mockCourseRepo) List(_ context.Context, filter repository.CourseFilter) ([]model.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.Course
	for _, c := range m.courses {
		if filter.Department != "" && c.Department != filter.Department {
			continue
		}
		if filter.Semester != "" && c.Semester != filter.Semester {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	for i := range m.courses {
		if m.courses[i].CourseID == id {
			c := m.courses[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ClassroomRepository ──

type mockClassroomRepo struct {
	rooms []model.Classroom
}

func (m *mockClassroomRepo) List(_ context.Context) ([]model.Classroom, error) {
	return append([]model.Classroom(nil), m.rooms...), nil
}

func (m *mockClassroomRepo) GetByID(_ context.Context, id string) (*model.Classroom, error) {
	for i := range m.rooms {
		if m.rooms[i].ClassroomID == id {
			r := m.rooms[i]
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock FacultyRepository ──

type mockFacultyRepo struct {
	faculty []model.Faculty
}

func (m *mockFacultyRepo) List(_ context.Context) ([]model.Faculty, error) {
	return append([]model.Faculty(nil), m.faculty...), nil
}

func (m *mockFacultyRepo) GetByID(_ context.Context, id string) (*model.Faculty, error) {
	for i := range m.faculty {
		if m.faculty[i].FacultyID == id {
			f := m.faculty[i]
			return &f, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ScheduleEntryRepository ──

type mockScheduleEntryRepo struct {
	entries []model.ScheduleEntry
	seq     int

	listErr      error
	replaceErr   error
	replaceCalls int
	deleteCalls  int

	// afterList 在 List 返回快照后触发，用于模拟读取之后的并发写入
	afterList func()
}

func newMockScheduleEntryRepo(seed ...model.ScheduleEntry) *mockScheduleEntryRepo {
	m := &mockScheduleEntryRepo{}
	for _, e := range seed {
		m.insert(e)
	}
	return m
}

func matchesEntry(f repository.EntryFilter, e *model.ScheduleEntry) bool {
	switch {
	case len(f.Days) > 0 && !lo.Contains(f.Days, e.Day):
		return false
	case f.Department != "" && e.Department != f.Department:
		return false
	case f.Semester != "" && e.Semester != f.Semester:
		return false
	case f.CourseID != "" && e.CourseID != f.CourseID:
		return false
	case f.FacultyID != "" && e.FacultyID != f.FacultyID:
		return false
	case f.ClassroomID != "" && e.ClassroomID != f.ClassroomID:
		return false
	}
	return true
}

func (m *mockScheduleEntryRepo) insert(e model.ScheduleEntry) model.ScheduleEntry {
	if e.EntryID == "" {
		m.seq++
		e.EntryID = fmt.Sprintf("entry-%d", m.seq)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	m.entries = append(m.entries, e)
	return e
}

func (m *mockScheduleEntryRepo) List(_ context.Context, filter repository.EntryFilter) ([]model.ScheduleEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.ScheduleEntry
	for i := range m.entries {
		if matchesEntry(filter, &m.entries[i]) {
			result = append(result, m.entries[i])
		}
	}
	if m.afterList != nil {
		hook := m.afterList
		m.afterList = nil
		hook()
	}
	return result, nil
}

func (m *mockScheduleEntryRepo) ListDetailed(ctx context.Context, filter repository.EntryFilter) ([]model.ScheduleEntry, error) {
	return m.List(ctx, filter)
}

func (m *mockScheduleEntryRepo) GetByID(_ context.Context, id string) (*model.ScheduleEntry, error) {
	for i := range m.entries {
		if m.entries[i].EntryID == id {
			e := m.entries[i]
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleEntryRepo) Create(_ context.Context, entry *model.ScheduleEntry) error {
	stored := m.insert(*entry)
	entry.EntryID = stored.EntryID
	entry.CreatedAt = stored.CreatedAt
	return nil
}

func (m *mockScheduleEntryRepo) BatchCreate(_ context.Context, entries []model.ScheduleEntry) error {
	for _, e := range entries {
		m.insert(e)
	}
	return nil
}

func (m *mockScheduleEntryRepo) ReplaceScope(_ context.Context, scope repository.EntryFilter, entries []model.ScheduleEntry) (int64, error) {
	m.replaceCalls++
	if m.replaceErr != nil {
		return 0, m.replaceErr
	}
	kept := m.entries[:0:0]
	var deleted int64
	for i := range m.entries {
		if matchesEntry(scope, &m.entries[i]) {
			deleted++
			continue
		}
		kept = append(kept, m.entries[i])
	}
	m.entries = kept
	for _, e := range entries {
		m.insert(e)
	}
	return deleted, nil
}

func (m *mockScheduleEntryRepo) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	for i := range m.entries {
		if m.entries[i].EntryID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockScheduleEntryRepo) DeleteAll(_ context.Context) (int64, error) {
	m.deleteCalls++
	n := int64(len(m.entries))
	m.entries = nil
	return n, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	items []*model.Notification
	seq   int
	err   error
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.seq++
	if n.NotificationID == "" {
		n.NotificationID = fmt.Sprintf("notif-%d", m.seq)
	}
	n.CreatedAt = time.Now()
	m.items = append(m.items, n)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	var matched []model.Notification
	for _, n := range m.items {
		if n.UserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		matched = append(matched, *n)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], total, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	for _, n := range m.items {
		if n.NotificationID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Recording Notifier ──

type recordingNotifier struct {
	notices []Notice
	err     error
}

func (n *recordingNotifier) Notify(_ context.Context, notice Notice) error {
	n.notices = append(n.notices, notice)
	return n.err
}

// ── 测试仓储聚合 ──

type testRepos struct {
	course       *mockCourseRepo
	classroom    *mockClassroomRepo
	faculty      *mockFacultyRepo
	entry        *mockScheduleEntryRepo
	notification *mockNotificationRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		course:       &mockCourseRepo{},
		classroom:    &mockClassroomRepo{},
		faculty:      &mockFacultyRepo{},
		entry:        newMockScheduleEntryRepo(),
		notification: &mockNotificationRepo{},
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		Course:        r.course,
		Classroom:     r.classroom,
		Faculty:       r.faculty,
		ScheduleEntry: r.entry,
		Notification:  r.notification,
	}
}
