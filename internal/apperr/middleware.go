package apperr

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Response is the uniform error body returned to callers.
type Response struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Stack   string       `json:"stack,omitempty"`
}

func statusWord(code int) string {
	if code >= 400 && code < 500 {
		return "fail"
	}
	return "error"
}

// Middleware translates errors attached via c.Error into the taxonomy
// response. Unclassified errors are logged with full detail and returned
// as a generic 500; the stack trace is included only outside production.
func Middleware(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		if appErr, ok := As(err); ok {
			code := appErr.Status()
			if appErr.Cause != nil {
				slog.Error("request failed",
					"kind", string(appErr.Kind),
					"path", c.Request.URL.Path,
					"error", appErr.Cause,
				)
			}
			c.JSON(code, Response{
				Status:  statusWord(code),
				Message: appErr.Message,
				Errors:  appErr.Fields,
			})
			return
		}

		slog.Error("unhandled error",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"error", err,
		)

		resp := Response{
			Status:  "error",
			Message: "Something went wrong",
		}
		if !production {
			resp.Stack = string(debug.Stack())
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}

// Abort records err on the context and stops the handler chain. The
// response itself is written by Middleware after the chain unwinds.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
