package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务码约定：0 成功；1xxxx 通用/鉴权；2xxxx 按模块划分（200xx 排课、210xx 导出、220xx 通知）；50000 内部错误
const (
	CodeOK       = 0
	CodeInternal = 50000
)

// Response 统一响应信封
// request_id 取自 RequestID 中间件，便于客户端反馈问题时定位日志
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Details   string      `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Pagination 分页元数据
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData 分页响应数据
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

func write(c *gin.Context, status int, body Response) {
	body.RequestID = c.GetString("request_id")
	c.JSON(status, body)
}

// ── 成功响应 ──

// OK 200
func OK(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, Response{Code: CodeOK, Message: "success", Data: data})
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, Response{Code: CodeOK, Message: "success", Data: data})
}

// OKList 不分页列表，data 形如 {"list": [...]}
func OKList(c *gin.Context, list interface{}) {
	OK(c, gin.H{"list": list})
}

// OKPage 分页列表
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	OK(c, PageData{List: list, Pagination: newPagination(total, page, pageSize)})
}

func newPagination(total int64, page, pageSize int) Pagination {
	if pageSize <= 0 {
		pageSize = 20
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	write(c, httpStatus, Response{Code: code, Message: message})
}

// ErrorWithDetails 带详情的错误响应，details 一般为校验错误原文
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	write(c, httpStatus, Response{Code: code, Message: message, Details: details})
}

func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code int, message string) {
	Error(c, http.StatusConflict, code, message)
}

// InternalError 500，不向客户端暴露内部错误细节
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "服务器内部错误")
}
