package handler

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"smart-schedule/internal/scheduler"
)

var registerOnce sync.Once

// RegisterValidators 在 gin 的校验引擎上注册排课相关的自定义规则：
//   - weekday: Monday ~ Friday
//   - hhmm:    24 小时制 HH:MM
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin 校验引擎不是 validator/v10")
			return
		}
		if err = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			return scheduler.IsWeekday(fl.Field().String())
		}); err != nil {
			return
		}
		err = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return scheduler.IsClock(fl.Field().String())
		})
	})
	return err
}
