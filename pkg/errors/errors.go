package errors

import "errors"

// ErrDataAccess 底层存储访问失败（数据库/缓存），由调用方决定是否重试
var ErrDataAccess = errors.New("数据访问失败")
