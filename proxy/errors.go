package proxy

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the body the proxy returns when it cannot run the action.
type APIError struct {
	Code int    `json:"-"`
	Err  string `json:"error"`
}

func (e APIError) Error() string {
	return e.Err
}

// errorHandler adapts a handler that returns an error.
func errorHandler(fn func(c *gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := fn(c)
		if err == nil {
			return
		}
		var apiErr APIError
		if errors.As(err, &apiErr) {
			c.AbortWithStatusJSON(apiErr.Code, apiErr)
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, APIError{
			Code: http.StatusInternalServerError,
			Err:  err.Error(),
		})
	}
}
