package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"smart-schedule/internal/model"
)

// EntryFilter 课表条目查询/删除条件，空字段表示不限
type EntryFilter struct {
	Days        []string
	Department  string
	Semester    string
	CourseID    string
	FacultyID   string
	ClassroomID string
}

func (f EntryFilter) apply(db *gorm.DB) *gorm.DB {
	if len(f.Days) > 0 {
		db = db.Where("day IN ?", f.Days)
	}
	if f.Department != "" {
		db = db.Where("department = ?", f.Department)
	}
	if f.Semester != "" {
		db = db.Where("semester = ?", f.Semester)
	}
	if f.CourseID != "" {
		db = db.Where("course_id = ?", f.CourseID)
	}
	if f.FacultyID != "" {
		db = db.Where("faculty_id = ?", f.FacultyID)
	}
	if f.ClassroomID != "" {
		db = db.Where("classroom_id = ?", f.ClassroomID)
	}
	return db
}

// ScheduleEntryRepository 课表条目数据访问接口
type ScheduleEntryRepository interface {
	List(ctx context.Context, filter EntryFilter) ([]model.ScheduleEntry, error)
	// ListDetailed 同 List，并预加载课程/教师/教室
	ListDetailed(ctx context.Context, filter EntryFilter) ([]model.ScheduleEntry, error)
	GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error)
	Create(ctx context.Context, entry *model.ScheduleEntry) error
	BatchCreate(ctx context.Context, entries []model.ScheduleEntry) error
	// ReplaceScope 在事务中删除 scope 命中的条目并写入新条目，返回删除条数
	ReplaceScope(ctx context.Context, scope EntryFilter, entries []model.ScheduleEntry) (int64, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

type scheduleEntryRepo struct {
	db *gorm.DB
}

// NewScheduleEntryRepo 创建 ScheduleEntryRepository 实例
func NewScheduleEntryRepo(db *gorm.DB) ScheduleEntryRepository {
	return &scheduleEntryRepo{db: db}
}

func (r *scheduleEntryRepo) List(ctx context.Context, filter EntryFilter) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := filter.apply(r.db.WithContext(ctx)).
		Order("created_at ASC, entry_id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) ListDetailed(ctx context.Context, filter EntryFilter) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := filter.apply(r.db.WithContext(ctx)).
		Preload("Course").Preload("Faculty").Preload("Classroom").
		Order("day ASC, start_time ASC, created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Preload("Course").Preload("Faculty").Preload("Classroom").
		Where("entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *scheduleEntryRepo) Create(ctx context.Context, entry *model.ScheduleEntry) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

func (r *scheduleEntryRepo) BatchCreate(ctx context.Context, entries []model.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&entries).Error
}

func (r *scheduleEntryRepo) ReplaceScope(ctx context.Context, scope EntryFilter, entries []model.ScheduleEntry) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 硬删除：重排场景无需保留旧条目
		result := scope.apply(tx).Delete(&model.ScheduleEntry{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		if len(entries) > 0 {
			if err := tx.Omit(clause.Associations).Create(&entries).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (r *scheduleEntryRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("entry_id = ?", id).
		Delete(&model.ScheduleEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *scheduleEntryRepo) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.ScheduleEntry{})
	return result.RowsAffected, result.Error
}
