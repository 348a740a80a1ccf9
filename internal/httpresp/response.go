package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the shared response shape for every endpoint.
type Envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type ListData[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Status: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Status: true, Message: message, Data: data})
}

func List[T any](c *gin.Context, message string, items []T, total int64) {
	OK(c, message, ListData[T]{Items: items, Total: total})
}
