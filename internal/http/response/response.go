package response

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIError is the wire form of a failed request: a stable machine-readable
// code plus human-readable detail.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes the error envelope. Parameter-validation handlers pass
// a nil err; the message then falls back to the code spelled out.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := strings.ReplaceAll(code, "_", " ")
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = "unknown error"
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
