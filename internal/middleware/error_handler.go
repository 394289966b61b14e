package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradepulse/internal/domain/dto"
	"github.com/guttosm/tradepulse/internal/logger"
)

// ErrorHandler drains errors that handlers attached to the gin context
// (via c.Error) and, when the response has not been written yet, converts the
// last one into a standardized 500 JSON envelope.
//
// Handlers that already wrote a specific status keep it; this is the
// catch-all for errors that slipped through without a response.
var ErrorHandler gin.HandlerFunc = func(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}

	last := c.Errors.Last()
	logger.L().Error().Err(last.Err).Str("path", c.Request.URL.Path).Msg("request error")

	if !c.Writer.Written() {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", last.Err))
	}
}
