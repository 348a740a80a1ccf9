package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type errorBody struct {
	ErrorCode string `json:"error_code"`
}

type envelope struct {
	Status  bool      `json:"status"`
	Message string    `json:"message"`
	Data    errorBody `json:"data"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, envelope{
		Status:  false,
		Message: message,
		Data:    errorBody{ErrorCode: code},
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}
