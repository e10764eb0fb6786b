package handler

import (
	"errors"
	"net/http"

	"github.com/blues/efs/internal/model"
	"github.com/gin-gonic/gin"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// LogicErrorResponse 把业务错误哨兵映射为HTTP状态码
func LogicErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrInvalidAmount):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrInvalidTransition):
		ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrConcurrencyConflict):
		// 可重试：冲突来自并发竞争而不是请求本身
		ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
	default:
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
}
