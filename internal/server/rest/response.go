package rest

import (
	"github.com/dmitrijs2005/attendance/internal/server/models"
	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Response is the envelope written for every request. Token and Date are
// omitted when empty.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	Date    string `json:"date,omitempty"`
}

// RecordsResponse is returned by the attendance listing; Records is always
// present, possibly empty.
type RecordsResponse struct {
	Response
	Records []models.AttendanceRecord `json:"records"`
}

func success(c *gin.Context, code int, r Response) {
	r.Status = statusSuccess
	c.JSON(code, r)
}

func fail(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{Status: statusError, Message: message})
}
