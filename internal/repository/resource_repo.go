package repository

import (
	"context"

	"gorm.io/gorm"

	"smart-schedule/internal/model"
)

// 课程/教室/教师由外部教务模块维护，排课只需要只读访问

// CourseFilter 课程查询条件，空字段表示不限
type CourseFilter struct {
	Department string
	Semester   string
}

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	List(ctx context.Context, filter CourseFilter) ([]model.Course, error)
	GetByID(ctx context.Context, id string) (*model.Course, error)
}

// ClassroomRepository 教室数据访问接口
type ClassroomRepository interface {
	List(ctx context.Context) ([]model.Classroom, error)
	GetByID(ctx context.Context, id string) (*model.Classroom, error)
}

// FacultyRepository 教师数据访问接口
type FacultyRepository interface {
	List(ctx context.Context) ([]model.Faculty, error)
	GetByID(ctx context.Context, id string) (*model.Faculty, error)
}

// ── Course Repository 实现 ──

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) List(ctx context.Context, filter CourseFilter) ([]model.Course, error) {
	var courses []model.Course
	db := r.db.WithContext(ctx)
	if filter.Department != "" {
		db = db.Where("department = ?", filter.Department)
	}
	if filter.Semester != "" {
		db = db.Where("semester = ?", filter.Semester)
	}
	err := db.Order("course_code ASC").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).Where("course_id = ?", id).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ── Classroom Repository 实现 ──

type classroomRepo struct {
	db *gorm.DB
}

// NewClassroomRepo 创建 ClassroomRepository 实例
func NewClassroomRepo(db *gorm.DB) ClassroomRepository {
	return &classroomRepo{db: db}
}

// List 按房间号排序，排课时按此顺序尝试教室
func (r *classroomRepo) List(ctx context.Context) ([]model.Classroom, error) {
	var rooms []model.Classroom
	err := r.db.WithContext(ctx).Order("room_number ASC").Find(&rooms).Error
	return rooms, err
}

func (r *classroomRepo) GetByID(ctx context.Context, id string) (*model.Classroom, error) {
	var room model.Classroom
	err := r.db.WithContext(ctx).Where("classroom_id = ?", id).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ── Faculty Repository 实现 ──

type facultyRepo struct {
	db *gorm.DB
}

// NewFacultyRepo 创建 FacultyRepository 实例
func NewFacultyRepo(db *gorm.DB) FacultyRepository {
	return &facultyRepo{db: db}
}

// List 按创建时间排序，课时相同时以此为平局顺序
func (r *facultyRepo) List(ctx context.Context) ([]model.Faculty, error) {
	var faculty []model.Faculty
	err := r.db.WithContext(ctx).Order("created_at ASC, faculty_id ASC").Find(&faculty).Error
	return faculty, err
}

func (r *facultyRepo) GetByID(ctx context.Context, id string) (*model.Faculty, error) {
	var f model.Faculty
	err := r.db.WithContext(ctx).Where("faculty_id = ?", id).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}
