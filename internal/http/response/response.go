package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raja1702/computer-storage-solutions/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError writes err with the status and code apierr assigns to it.
func RespondAPIError(c *gin.Context, err error) {
	api := apierr.From(err)
	RespondError(c, api.Status, api.Code, api)
}

// AbortError is RespondError for middleware: the handler chain stops here.
func AbortError(c *gin.Context, status int, code string, err error) {
	RespondError(c, status, code, err)
	c.Abort()
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
