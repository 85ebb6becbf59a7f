package utils

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Response 统一 JSON 响应结构
type Response struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data"`
	Errors  map[string]string `json:"errors,omitempty"` // 字段级校验错误
	Success bool              `json:"success"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Code:    status,
		Message: message,
		Data:    data,
		Success: status < http.StatusBadRequest,
	})
}

// Success 成功
func Success(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, "success", data)
}

// SuccessWithMessage 成功并附带提示文案
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusOK, message, data)
}

// ValidationFailed 400，errors 中为字段 -> 错误信息
func ValidationFailed(c *gin.Context, message string, fields map[string]string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    http.StatusBadRequest,
		Message: message,
		Errors:  fields,
	})
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "未登录"
	}
	respond(c, http.StatusUnauthorized, message, nil)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "资源不存在"
	}
	respond(c, http.StatusNotFound, message, nil)
}

// InternalServerError 500
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "服务器内部错误"
	}
	respond(c, http.StatusInternalServerError, message, nil)
}

// WantsJSON 请求方是否期望 JSON（API 客户端或前端页面切换）
func WantsJSON(c *gin.Context) bool {
	if c.GetHeader("X-Inertia") == "true" {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") || strings.Contains(accept, "+json")
}
