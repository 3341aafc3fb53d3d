package httperr

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Response is the envelope of every non-2xx reply: {"error":{"code","message"},"detail"}.
type Response struct {
	Status int  `json:"-"`
	Error  Body `json:"error"`
	Detail any  `json:"detail,omitempty"`
}

func New(status int, msg string, detail any) Response {
	return Response{
		Status: status,
		Error:  Body{Code: CodeFor(status), Message: msg},
		Detail: detail,
	}
}

// CodeFor turns a status into a stable code, e.g. 422 becomes UNPROCESSABLE_ENTITY.
func CodeFor(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}

// AbortWithError writes the envelope and keeps err on the context for the logging
// middleware.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := New(status, msg, detail)
	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
