package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/attendance/internal/common"
	"github.com/dmitrijs2005/attendance/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	msgInvalidBody        = "invalid request body"
	msgInvalidCredentials = "invalid username or password"
	msgUserExists         = "username already exists"
	msgInternal           = "internal server error"
	msgDatabase           = "Database error"
)

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type markRequest struct {
	Name string `json:"name" binding:"required"`
}

// bindJSON decodes the body into req. A body that parses but misses a
// required field is answered with missing, anything unparsable with
// msgInvalidBody.
func bindJSON(c *gin.Context, req any, missing string) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fail(c, http.StatusBadRequest, missing)
		return false
	}
	fail(c, http.StatusBadRequest, msgInvalidBody)
	return false
}

// writeError maps a service error to a status code. Only validation messages
// reach the client verbatim; everything unexpected is logged and replaced by
// fallback.
func (s *Server) writeError(c *gin.Context, err error, fallback string) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		fail(c, http.StatusBadRequest, ve.Message)
	case errors.Is(err, common.ErrorUnauthorized):
		fail(c, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, common.ErrInvalidToken):
		fail(c, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, common.ErrorAlreadyExists):
		fail(c, http.StatusConflict, msgUserExists)
	default:
		s.logger.Error(c.Request.Context(), err.Error(), "path", c.FullPath())
		fail(c, http.StatusInternalServerError, fallback)
	}
}

func (s *Server) signup(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req, services.ErrMissingCredentials.Message) {
		return
	}

	u, err := s.users.Signup(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(c, err, msgInternal)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "username", u.UserName, "id", u.ID)
	success(c, http.StatusOK, Response{Message: "User registered successfully"})
}

func (s *Server) login(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req, services.ErrMissingCredentials.Message) {
		return
	}

	token, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(c, err, msgInternal)
		return
	}

	success(c, http.StatusOK, Response{Message: "Login successful", Token: token})
}

func (s *Server) markAttendance(c *gin.Context) {
	var req markRequest
	if !bindJSON(c, &req, services.ErrNameRequired.Message) {
		return
	}

	var markedBy int64
	if claims := claimsFrom(c); claims != nil {
		markedBy = claims.UserID
	}

	rec, err := s.attendance.MarkNow(c.Request.Context(), markedBy, req.Name)
	if err != nil {
		s.writeError(c, err, msgDatabase)
		return
	}

	success(c, http.StatusOK, Response{Message: "Attendance recorded", Date: rec.Date})
}

func (s *Server) listAttendance(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = s.attendance.Today()
	}

	recs, err := s.attendance.List(c.Request.Context(), date)
	if err != nil {
		s.writeError(c, err, msgDatabase)
		return
	}

	c.JSON(http.StatusOK, RecordsResponse{
		Response: Response{Status: statusSuccess, Message: "Attendance records", Date: date},
		Records:  recs,
	})
}

func (s *Server) health(c *gin.Context) {
	if s.db != nil {
		if err := s.db.PingContext(c.Request.Context()); err != nil {
			s.logger.Warn(c.Request.Context(), "health check failed", "error", err)
			fail(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	success(c, http.StatusOK, Response{Message: "ok"})
}
