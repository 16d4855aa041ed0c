package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
)

var (
	ErrInvalidDay       = errors.New("无效的星期，仅支持 Monday-Friday")
	ErrInvalidTimeRange = errors.New("无效的时间段，需为 HH:MM 且开始早于结束")
	ErrEmptyCatalog     = errors.New("时段目录不能为空")
)

// 工作日
const (
	Monday    = "Monday"
	Tuesday   = "Tuesday"
	Wednesday = "Wednesday"
	Thursday  = "Thursday"
	Friday    = "Friday"
)

// Weekdays 一周可排课的五天，顺序即默认轮转顺序
var Weekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday}

// IsWeekday 判断是否为可排课日
func IsWeekday(day string) bool {
	return lo.Contains(Weekdays, day)
}

// NormalizeDays 规范化目标日：空则为整周；去重且保留调用方顺序；非法值返回 ErrInvalidDay
func NormalizeDays(days []string) ([]string, error) {
	if len(days) == 0 {
		return append([]string(nil), Weekdays...), nil
	}
	for _, d := range days {
		if !IsWeekday(d) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDay, d)
		}
	}
	return lo.Uniq(days), nil
}

// IsFullWeek 目标日是否覆盖全部五个工作日
func IsFullWeek(days []string) bool {
	return lo.Every(days, Weekdays)
}

// Slot 单个上课时段，时间为 HH:MM 字符串，按字面值精确比较
type Slot struct {
	Start string `json:"start_time"`
	End   string `json:"end_time"`
}

// Catalog 有序时段目录，靠前的时段优先尝试
type Catalog []Slot

// DefaultCatalog 默认六个时段，12:00-13:00 午休不排课
func DefaultCatalog() Catalog {
	return Catalog{
		{Start: "09:00", End: "10:00"},
		{Start: "10:00", End: "11:00"},
		{Start: "11:00", End: "12:00"},
		{Start: "13:00", End: "14:00"},
		{Start: "14:00", End: "15:00"},
		{Start: "15:00", End: "16:00"},
	}
}

// NewCatalog 校验并构建时段目录，保持传入顺序
func NewCatalog(slots []Slot) (Catalog, error) {
	if len(slots) == 0 {
		return nil, ErrEmptyCatalog
	}
	for _, s := range slots {
		if !ValidTimeRange(s.Start, s.End) {
			return nil, fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, s.Start, s.End)
		}
	}
	return append(Catalog(nil), slots...), nil
}

// IsClock 校验 24 小时制 HH:MM
func IsClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// ValidTimeRange 两端均为 HH:MM 且 start < end
func ValidTimeRange(start, end string) bool {
	return IsClock(start) && IsClock(end) && start < end
}
